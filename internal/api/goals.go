package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/types"
)

type GoalsHandler struct {
	goalsService *service.GoalsService
}

func NewGoalsHandler(goalsService *service.GoalsService) *GoalsHandler {
	return &GoalsHandler{goalsService: goalsService}
}

func (h *GoalsHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.GET("", h.GetGoals)
		goals.PUT("", h.UpdateGoals)
	}
}

func (h *GoalsHandler) GetGoals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goals, err := h.goalsService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

func (h *GoalsHandler) UpdateGoals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.GoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goals, err := h.goalsService.UpdateGoals(c.Request.Context(), userID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}
