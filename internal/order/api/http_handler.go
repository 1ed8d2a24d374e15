package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/order/service"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	purchaseRoutes := router.Group("/purchase-orders")
	{
		purchaseRoutes.GET("", h.ListPurchaseOrders)
		purchaseRoutes.GET("/", h.ListPurchaseOrders)
		purchaseRoutes.GET("/stats", h.ProcurementStats)
		purchaseRoutes.GET("/:id", h.GetPurchaseOrder)
	}

	salesRoutes := router.Group("/sales-orders")
	{
		salesRoutes.GET("", h.ListSalesOrders)
		salesRoutes.GET("/", h.ListSalesOrders)
		salesRoutes.GET("/stats", h.SalesStats)
		salesRoutes.GET("/:id", h.GetSalesOrder)
		salesRoutes.POST("", h.CreateSalesOrder)
	}
}

func bindFilter(c *gin.Context) (domain.OrderFilter, bool) {
	var filter domain.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apperror.Respond(c, apperror.Validation("invalid query: "+err.Error(), nil))
		return filter, false
	}
	return filter, true
}

func (h *OrderHandler) ListPurchaseOrders(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListPurchaseOrders(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetPurchaseOrder(c *gin.Context) {
	order, err := h.orderService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ProcurementStats(c *gin.Context) {
	stats, err := h.orderService.ProcurementStats(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) ListSalesOrders(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListSalesOrders(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetSalesOrder(c *gin.Context) {
	order, err := h.orderService.GetSalesOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SalesStats(c *gin.Context) {
	stats, err := h.orderService.SalesStats(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) CreateSalesOrder(c *gin.Context) {
	var req domain.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.Validation("Invalid request payload: "+err.Error(), nil))
		return
	}

	order, created, err := h.orderService.CreateSalesOrder(c.Request.Context(), req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, order)
		return
	}
	c.JSON(http.StatusCreated, order)
}
