package middleware

import (
	"github.com/gin-gonic/gin"

	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

// AdminAuth restricts access to the listed token subjects. An empty list admits every
// subject. Must be used after JWTAuth middleware.
func AdminAuth(subjects []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		allowed[s] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyAdminClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok || claims.Subject == "" {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if len(allowed) > 0 {
			if _, isAdmin := allowed[claims.Subject]; !isAdmin {
				response.Forbidden(c, "admin access required")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
