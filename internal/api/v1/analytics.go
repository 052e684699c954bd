package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	log     *logger.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, log: log}
}

func (h *AnalyticsHandler) GetAnalyticsMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	analytics, err := h.service.GetAnalyticsMetrics(ctx)
	if err != nil {
		h.log.Error("Failed to get analytics metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
