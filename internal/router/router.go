package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/api"
	"github.com/jokeruros/fitapp/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	foodHandler *api.FoodHandler,
	mealHandler *api.MealHandler,
	goalsHandler *api.GoalsHandler,
	syncHandler *api.SyncHandler,
	dashboardHandler *api.DashboardHandler,
	validator middleware.TokenValidator,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		foodHandler.RegisterRoutes(protected)
		mealHandler.RegisterRoutes(protected)
		goalsHandler.RegisterRoutes(protected)
		syncHandler.RegisterRoutes(protected)
		dashboardHandler.RegisterRoutes(protected)
	}

	return router
}
