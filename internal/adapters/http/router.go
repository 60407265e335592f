package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/user/planningpoker/internal/adapters/signal"
	"github.com/user/planningpoker/internal/app"
	"github.com/user/planningpoker/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	// Direct links into a room load the same SPA bundle.
	r.GET("/room/:roomId", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	rooms := NewRoomHandler(orch.Rooms, orch.Analytics)
	ctrl := signal.NewController(orch, cfg)

	api := r.Group("/api")
	{
		api.GET("/health", rooms.Health)
		api.POST("/rooms", rooms.CreateRoom)
		api.GET("/rooms/:roomId", rooms.GetRoom)
		api.POST("/ai-insight", rooms.AIInsight)
		api.GET("/analytics/:roomId", rooms.GetAnalytics)

		api.GET("/ws", func(c *gin.Context) {
			ctrl.Handle(ctx, c)
		})
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
