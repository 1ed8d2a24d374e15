package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/supplier/domain"
	"github.com/ridloal/factory-inventory/internal/supplier/service"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(ss service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: ss}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	supplierRoutes := router.Group("/suppliers")
	{
		supplierRoutes.GET("", h.ListSuppliers)
		supplierRoutes.GET("/", h.ListSuppliers)
		supplierRoutes.GET("/stats", h.Stats)
		supplierRoutes.GET("/:id", h.GetSupplier)
	}
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	var filter domain.SupplierFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apperror.Respond(c, apperror.Validation("invalid query: "+err.Error(), nil))
		return
	}
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Stats(c *gin.Context) {
	stats, err := h.supplierService.Stats(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
