package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/service"
)

type DashboardHandler struct {
	mealService  *service.MealService
	goalsService *service.GoalsService
}

func NewDashboardHandler(mealService *service.MealService, goalsService *service.GoalsService) *DashboardHandler {
	return &DashboardHandler{mealService: mealService, goalsService: goalsService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the day's consumed totals next to the user's targets,
// with per-macro progress clamped to 1.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	totals, err := h.mealService.DayTotals(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	goals, err := h.goalsService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	c.JSON(http.StatusOK, gin.H{
		"totals": totals,
		"goals":  goals,
		"progress": gin.H{
			"calories": gin.H{"consumed": totals.Calories, "goal": goals.Calories, "percent": pct(totals.Calories, goals.Calories)},
			"protein":  gin.H{"consumed": totals.Protein, "goal": goals.Protein, "percent": pct(totals.Protein, goals.Protein)},
			"carbs":    gin.H{"consumed": totals.Carbs, "goal": goals.Carbs, "percent": pct(totals.Carbs, goals.Carbs)},
			"fats":     gin.H{"consumed": totals.Fats, "goal": goals.Fats, "percent": pct(totals.Fats, goals.Fats)},
		},
	})
}
