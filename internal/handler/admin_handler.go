package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sidvishnoi/respec-github-apis/internal/service"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

type AdminHandler struct {
	cacheService service.CacheService
}

func NewAdminHandler(cacheService service.CacheService) *AdminHandler {
	return &AdminHandler{cacheService: cacheService}
}

type SetTTLRequest struct {
	TTL string `json:"ttl" binding:"required"`
}

// CacheStats returns size, TTL and hit/miss counters of every cache.
func (h *AdminHandler) CacheStats(c *gin.Context) {
	response.Success(c, h.cacheService.Stats())
}

// ClearCacheStats resets the hit/miss counters. Cached values are kept.
func (h *AdminHandler) ClearCacheStats(c *gin.Context) {
	h.cacheService.ClearStats()
	response.Success(c, h.cacheService.Stats())
}

func (h *AdminHandler) SetCacheTTL(c *gin.Context) {
	var req SetTTLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	ttl, err := time.ParseDuration(req.TTL)
	if err != nil {
		response.BadRequest(c, "invalid ttl: "+err.Error())
		return
	}
	if err := h.cacheService.SetTTL(c.Param("name"), ttl); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"name": c.Param("name"), "ttl": ttl.String()})
}

// DumpCaches writes every cache to the snapshot store now.
func (h *AdminHandler) DumpCaches(c *gin.Context) {
	if err := h.cacheService.DumpAll(c.Request.Context()); err != nil {
		_ = c.Error(err)
		response.InternalError(c, "failed to dump caches")
		return
	}
	response.Success(c, nil)
}
