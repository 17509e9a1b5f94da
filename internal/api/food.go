package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/types"
)

type FoodHandler struct {
	foodService *service.FoodService
}

func NewFoodHandler(foodService *service.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.GET("/:id", h.GetFood)
		foods.POST("", h.CreateFood)
		foods.PUT("/:id", h.UpdateFood)
		foods.DELETE("/:id", h.DeleteFood)
	}
}

// ListFoods returns the user's catalog, own foods first. An optional ?q=
// filters by name.
func (h *FoodHandler) ListFoods(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var (
		foods interface{}
		err   error
	)
	if q := c.Query("q"); q != "" {
		foods, err = h.foodService.SearchFoods(c.Request.Context(), userID, q)
	} else {
		foods, err = h.foodService.ListFoods(c.Request.Context(), userID)
	}
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.foodService.GetFood(c.Request.Context(), userID, id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.foodService.CreateFood(c.Request.Context(), userID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, food)
}

func (h *FoodHandler) UpdateFood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food, err := h.foodService.UpdateFood(c.Request.Context(), userID, id, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) DeleteFood(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.foodService.DeleteFood(c.Request.Context(), userID, id); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
