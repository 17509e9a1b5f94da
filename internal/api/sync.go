package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeruros/fitapp/internal/service"
	"github.com/jokeruros/fitapp/internal/types"
)

type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sync/meals", h.SyncMeals)
}

// SyncMeals reconciles the client's complete meal list against the store.
// Partial failures come back in the report with a 207; the client retries
// those meals on its next save cycle.
func (h *SyncHandler) SyncMeals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.syncService.SyncMeals(c.Request.Context(), userID, req.Meals, service.SyncOptions{})
	if err != nil {
		renderError(c, err)
		return
	}

	status := http.StatusOK
	if len(report.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, report)
}
