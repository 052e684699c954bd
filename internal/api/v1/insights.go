package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
)

type InsightsHandler struct {
	service service.MemberInsightsService
	log     *logger.Logger
}

func NewInsightsHandler(service service.MemberInsightsService, log *logger.Logger) *InsightsHandler {
	return &InsightsHandler{service: service, log: log}
}

func (h *InsightsHandler) GetMemberInsights(c *gin.Context) {
	ctx := c.Request.Context()

	insights, err := h.service.GetMemberInsights(ctx)
	if err != nil {
		h.log.Error("Failed to get member insights", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, insights)
}
