package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bidwatch/backend/internal/domain"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	repo domain.NoticeRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(repo domain.NoticeRepository) *Handler {
	return &Handler{repo: repo}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bidwatch-backend",
		"version": "1.0.0",
	})
}

// RecentNotices returns the most recently stored bid notices
func (h *Handler) RecentNotices(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	notices, err := h.repo.RecentNotices(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(notices),
		"notices": notices,
	})
}

// SyncStatus returns the bookkeeping row for every known source
func (h *Handler) SyncStatus(c *gin.Context) {
	logs, err := h.repo.SyncStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sync status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": logs})
}
