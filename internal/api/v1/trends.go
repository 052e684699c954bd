package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
	"github.com/memberpulse/memberpulse/internal/types"
)

type TrendsHandler struct {
	service service.TrendService
	log     *logger.Logger
}

func NewTrendsHandler(service service.TrendService, log *logger.Logger) *TrendsHandler {
	return &TrendsHandler{service: service, log: log}
}

func (h *TrendsHandler) GetGrowthTrends(c *gin.Context) {
	ctx := c.Request.Context()

	period, err := types.ParsePeriod(c.Query("period"))
	if err != nil {
		h.log.Error("Invalid period", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid period parameter").
			Mark(ierr.ErrValidation))
		return
	}

	trends, err := h.service.GetGrowthTrends(ctx, period)
	if err != nil {
		h.log.Error("Failed to get growth trends", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, trends)
}
