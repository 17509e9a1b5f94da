package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jokeruros/fitapp/config"
	"github.com/jokeruros/fitapp/internal/api"
	"github.com/jokeruros/fitapp/internal/database"
	"github.com/jokeruros/fitapp/internal/router"
	"github.com/jokeruros/fitapp/internal/service"
)

// Server wires services, handlers and the HTTP listener together.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New creates a server instance. rdb may be nil; caching and the sync lease
// are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	cache := service.NewTotalsCache(rdb)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	foodService := service.NewFoodService(db, cache)
	goalsService := service.NewGoalsService(db)
	mealService := service.NewMealService(db, cache)
	syncService := service.NewSyncService(db, rdb, cache)

	r := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewFoodHandler(foodService),
		api.NewMealHandler(mealService),
		api.NewGoalsHandler(goalsService),
		api.NewSyncHandler(syncService),
		api.NewDashboardHandler(mealService, goalsService),
		authService,
		cfg.AllowedOrigins,
	)

	r.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		router: r,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: r,
		},
		db: db,
	}
}

// Start begins serving. It blocks until the listener stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
