package handlers

import (
	"context"
	"net/http"
	"strconv"

	"storemirror/internal/catalog"
	"storemirror/internal/logger"

	"github.com/gin-gonic/gin"
)

// SyncService triggers a mirror run against the external catalog.
type SyncService interface {
	SyncAll(ctx context.Context, limit int) (catalog.SyncResult, error)
}

type SyncHandler struct {
	syncer       SyncService
	defaultLimit int
	logger       *logger.Logger
}

func NewSyncHandler(syncer SyncService, defaultLimit int, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncer:       syncer,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func (h *SyncHandler) Sync(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result, err := h.syncer.SyncAll(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Sync failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Sync failed", "partial": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
