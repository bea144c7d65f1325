package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"laundrify-backend/internal/chat"
)

type chatTextRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type chatImageRequest struct {
	SessionID string `json:"session_id"`
	Image     string `json:"image"`
}

// PostChatMessage handles POST /api/chat/messages. A missing session
// id starts a fresh session; the id is echoed back so the client can
// continue the conversation.
func (h *Handler) PostChatMessage(c *gin.Context) {
	var req chatTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.chat.SendText(c.Request.Context(), req.SessionID, req.Text)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "message": reply})
}

// PostChatImage handles POST /api/chat/analyze-image. The image is a
// data URI, matching what the capture UI uploads.
func (h *Handler) PostChatImage(c *gin.Context) {
	var req chatImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := h.chat.SendImage(c.Request.Context(), req.SessionID, req.Image)
	if err != nil {
		h.respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "message": reply})
}

// GetChatMessages handles GET /api/chat/{session_id}/messages.
func (h *Handler) GetChatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.chat.Messages(c.Param("session_id"))})
}

func (h *Handler) respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrExchangeInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A reply is still being generated for this session"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat request failed"})
	}
}
