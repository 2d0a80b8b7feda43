package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

const ContextKeyAdminClaims = "admin_claims"

// JWTAuth requires a valid admin bearer token and stores its claims in the context.
func JWTAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyAdminClaims, claims)
		c.Next()
	}
}
