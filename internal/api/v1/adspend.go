package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
)

type AdSpendHandler struct {
	service service.AdSpendService
	log     *logger.Logger
}

func NewAdSpendHandler(service service.AdSpendService, log *logger.Logger) *AdSpendHandler {
	return &AdSpendHandler{service: service, log: log}
}

func (h *AdSpendHandler) GetAdSpend(c *gin.Context) {
	ctx := c.Request.Context()

	spend, err := h.service.GetAdSpend(ctx)
	if err != nil {
		h.log.Error("Failed to get ad spend", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, spend)
}
