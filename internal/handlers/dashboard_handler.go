package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/services"
	"github.com/atelier-ms/repair-tracking-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetDashboard returns the workshop overview: bucket counters and the most
// recent status activity.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	resp, err := h.service.GetDashboard(c.Request.Context(), identity)
	if err != nil {
		h.LogError(c, err, "Failed to build dashboard")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
