package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/dashboard/service"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(ds service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboardRoutes := router.Group("/dashboard")
	{
		dashboardRoutes.GET("", h.GetSnapshot)
		dashboardRoutes.POST("/refresh", h.Refresh)
	}
}

func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.dashboardService.Snapshot(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	snap, err := h.dashboardService.Refresh(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
