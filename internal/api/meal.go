package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/types"
)

type MealHandler struct {
	mealService *service.MealService
}

func NewMealHandler(mealService *service.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.POST("", h.CreateMeal)
		meals.PUT("/:id", h.RenameMeal)
		meals.DELETE("/:id", h.DeleteMeal)
		meals.POST("/:id/eaten", h.AdjustEaten)
		meals.GET("/:id/totals", h.MealTotals)
		meals.POST("/:id/items", h.AddItem)
		meals.PUT("/:id/items/:itemID", h.ResizeItem)
		meals.DELETE("/:id/items/:itemID", h.RemoveItem)
	}
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	meals, err := h.mealService.ListMeals(c.Request.Context(), userID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.mealService.CreateMeal(c.Request.Context(), userID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) RenameMeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.mealService.RenameMeal(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.mealService.DeleteMeal(c.Request.Context(), userID, id); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MealHandler) AdjustEaten(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.EatenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.mealService.AdjustEaten(c.Request.Context(), userID, id, req.Delta)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) MealTotals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	totals, err := h.mealService.MealTotals(c.Request.Context(), userID, id)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *MealHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MealItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.mealService.AddItem(c.Request.Context(), userID, id, req)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *MealHandler) ResizeItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}

	var req types.GramsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.mealService.ResizeItem(c.Request.Context(), userID, id, itemID, req.Grams)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *MealHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}

	if err := h.mealService.RemoveItem(c.Request.Context(), userID, id, itemID); err != nil {
		renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
