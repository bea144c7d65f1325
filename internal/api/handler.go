package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"laundrify-backend/internal/chat"
	"laundrify-backend/internal/laundry"
	"laundrify-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	engine  *laundry.Engine
	chat    *chat.Orchestrator
	webpush *webpush.Options
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *laundry.Engine, orchestrator *chat.Orchestrator, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	return &Handler{
		store:   s,
		engine:  engine,
		chat:    orchestrator,
		webpush: webpushOptions,
		logger:  logger,
	}
}
