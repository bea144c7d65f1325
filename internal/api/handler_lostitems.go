package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go.uber.org/zap"

	"laundrify-backend/internal/store"
)

type reportLostItemRequest struct {
	Description string `json:"description"`
	RoomNumber  string `json:"roomNumber"`
}

// PostLostItem handles POST /api/lost-items.
func (h *Handler) PostLostItem(c *gin.Context) {
	var req reportLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.store.ReportLostItem(c.Request.Context(), req.Description, req.RoomNumber)
	if err != nil {
		var vErr *store.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		h.logger.Error("failed to report lost item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report lost item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetLostItems handles GET /api/lost-items?filter=all|lost|found.
func (h *Handler) GetLostItems(c *gin.Context) {
	filter := store.LostItemFilter(c.DefaultQuery("filter", string(store.FilterAll)))

	items, err := h.store.ListLostItems(c.Request.Context(), filter)
	if err != nil {
		var vErr *store.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		h.logger.Error("failed to list lost items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list lost items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// ResolveLostItem handles POST /api/lost-items/{id}/resolve.
func (h *Handler) ResolveLostItem(c *gin.Context) {
	err := h.store.ResolveLostItem(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lost item not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to resolve lost item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve lost item"})
		return
	}

	c.Status(http.StatusNoContent)
}

// StreamLostItems handles GET /api/lost-items/stream: a server-sent
// event stream carrying the full collection on every change, starting
// with the current state.
func (h *Handler) StreamLostItems(c *gin.Context) {
	updates := h.store.WatchLostItems()
	defer h.store.UnwatchLostItems(updates)

	items, err := h.store.ListLostItems(c.Request.Context(), store.FilterAll)
	if err != nil {
		h.logger.Error("failed to load lost items for stream", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.SSEvent("lost_items", items)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case current, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("lost_items", current)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
