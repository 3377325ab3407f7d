package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shorturl/internal/domain"
	"shorturl/pkg/logger"
)

// Pinger is a dependency checked by /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports store and cache connectivity
type HealthHandler struct {
	store   Pinger
	cache   Pinger
	backend string
	logger  *logger.Logger
}

// NewHealthHandler creates a health handler for the named store backend.
// cache may be nil when Redis is not configured.
func NewHealthHandler(store, cache Pinger, backend string, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, backend: backend, logger: logger}
}

// Health handles GET /health. The "mongo" field is kept for existing checks
// whatever the backend is. Only the store decides the status code; a lost
// cache degrades to store reads.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	cacheState := h.cacheState(ctx)

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Errorw("Health check failed", "store", h.backend, "error", err)
		c.JSON(http.StatusInternalServerError, domain.HealthResponse{
			Status: "error",
			Mongo:  "disconnected",
			Store:  h.backend,
			Cache:  cacheState,
		})
		return
	}

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status: "ok",
		Mongo:  "connected",
		Store:  h.backend,
		Cache:  cacheState,
	})
}

func (h *HealthHandler) cacheState(ctx context.Context) string {
	if h.cache == nil {
		return "disabled"
	}
	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warnw("Cache health check failed", "error", err)
		return "disconnected"
	}
	return "connected"
}
