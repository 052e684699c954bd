package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
)

type ActivityHandler struct {
	service service.ActivityService
	log     *logger.Logger
}

func NewActivityHandler(service service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{service: service, log: log}
}

func (h *ActivityHandler) GetRecentActivity(c *gin.Context) {
	ctx := c.Request.Context()

	activity, err := h.service.GetRecentActivity(ctx)
	if err != nil {
		h.log.Error("Failed to get recent activity", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, activity)
}
