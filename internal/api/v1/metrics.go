package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
	"github.com/memberpulse/memberpulse/internal/types"
)

type MetricsHandler struct {
	service service.MetricsService
	log     *logger.Logger
}

func NewMetricsHandler(service service.MetricsService, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{service: service, log: log}
}

func (h *MetricsHandler) GetDashboardMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	period, err := types.ParsePeriod(c.Query("period"))
	if err != nil {
		h.log.Error("Invalid period", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid period parameter").
			Mark(ierr.ErrValidation))
		return
	}

	metrics, err := h.service.GetDashboardMetrics(ctx, period)
	if err != nil {
		h.log.Error("Failed to get dashboard metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
