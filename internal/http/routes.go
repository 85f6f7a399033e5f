package http

import (
	"time"

	"comic_platform/internal/config"
	"comic_platform/internal/http/handlers"
	"comic_platform/internal/http/middleware"
	"comic_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the economy API. Returns the progression event hub so
// main can attach it to the economy service.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) *ws.Hub {
	h := handlers.NewHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	hub := ws.NewHub()
	h.Economy.SetEventSink(hub)

	// Probes are never rate limited.
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiWindow := time.Duration(cfg.APIRateWindowSec) * time.Second
	econWindow := time.Duration(cfg.EconomyWindowSec) * time.Second
	econRL := middleware.UserRateLimit(cfg.EconomyRateLimit, econWindow)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))
	{
		// Internal endpoints for the auth collaborator. SimpleRateLimit keeps
		// them protected even without Redis.
		v1.POST("/auth/token", middleware.SimpleRateLimit(10, time.Minute), h.Token)
		v1.POST("/auth/register", middleware.SimpleRateLimit(10, time.Minute), h.Register)

		// Account reads
		v1.GET("/me", middleware.JWT(), h.Me)
		v1.GET("/me/history", middleware.JWT(), h.History)
		v1.GET("/me/unlocks", middleware.JWT(), h.Unlocks)

		// Catalog surface consumed by the reader paywall
		v1.GET("/chapters/:id", h.ChapterInfo)

		// Economy mutations, per-user rate limited
		v1.POST("/economy/recharge", middleware.JWT(), econRL, h.Recharge)
		v1.POST("/chapters/:id/unlock", middleware.JWT(), econRL, h.UnlockChapter)
		v1.POST("/reading/pages", middleware.JWT(), econRL, h.ReadPages)

		// Daily reward
		v1.GET("/rewards/daily", middleware.JWT(), h.DailyRewardInfo)
		v1.POST("/rewards/daily/claim", middleware.JWT(), econRL, h.ClaimDaily)
	}

	// Progression event stream
	r.GET("/ws/progress", h.WS(hub))

	return hub
}
