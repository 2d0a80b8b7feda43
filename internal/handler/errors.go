package handler

import (
	"context"
	"errors"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/sidvishnoi/respec-github-apis/internal/github"
	"github.com/sidvishnoi/respec-github-apis/internal/service"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

// writeError maps a service or upstream error onto the response envelope.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var statusErr *github.StatusError
	var urlErr *url.Error
	switch {
	case errors.Is(err, service.ErrInvalidRepository),
		errors.Is(err, service.ErrInvalidNumber),
		errors.Is(err, service.ErrNoLogins),
		errors.Is(err, service.ErrTooManyLogins),
		errors.Is(err, service.ErrInvalidTTL),
		errors.Is(err, service.ErrCacheNotTunable):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrCacheNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, github.ErrNotFound):
		response.NotFound(c, "not found on github")
	case errors.Is(err, github.ErrRateLimited):
		response.TooManyRequests(c, "github rate limit exceeded")
	case errors.As(err, &statusErr), errors.As(err, &urlErr),
		errors.Is(err, context.DeadlineExceeded):
		response.BadGateway(c, "github request failed")
	default:
		response.InternalError(c, "internal error")
	}
}
