package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundrify-backend/config"
	"laundrify-backend/internal/mw"
)

// NewRouter wires the HTTP surface. Cacheable roster reads sit behind
// the response cache; the SSE streams never do.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst))

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	responseCache := cache.New(cacheTTL, 2*cacheTTL)
	cached := mw.Cache(responseCache, cacheTTL)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/floors", cached, h.GetFloors)
		api.GET("/floors/stream", h.StreamFloors)
		api.GET("/floors/:floor_id/machines", cached, h.GetFloorMachines)

		api.POST("/lost-items", h.PostLostItem)
		api.GET("/lost-items", h.GetLostItems)
		api.GET("/lost-items/stream", h.StreamLostItems)
		api.POST("/lost-items/:id/resolve", h.ResolveLostItem)

		api.GET("/vapid-public-key", h.GetVAPIDPublicKey)
		api.PUT("/subscriptions", h.PutSubscription)
		api.GET("/subscriptions", h.GetSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.POST("/subscriptions/toggle", h.ToggleFloorSubscription)

		api.POST("/chat/messages", h.PostChatMessage)
		api.POST("/chat/analyze-image", h.PostChatImage)
		api.GET("/chat/:session_id/messages", h.GetChatMessages)
	}

	return r
}
