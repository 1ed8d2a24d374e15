package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/catalog/service"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(cs service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/", h.ListProducts)
		productRoutes.GET("/stats", h.Stats)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.POST("/lookup", h.LookupProducts)
		productRoutes.POST("", h.CreateProduct)
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter domain.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apperror.Respond(c, apperror.Validation("invalid query: "+err.Error(), nil))
		return
	}
	products, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) LookupProducts(c *gin.Context) {
	var req domain.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.Validation("Invalid request payload: "+err.Error(), nil))
		return
	}
	products, err := h.catalogService.LookupByCodes(c.Request.Context(), req.Codes)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var draft domain.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		apperror.Respond(c, apperror.Validation("Invalid request payload: "+err.Error(), nil))
		return
	}
	product, err := h.catalogService.CreateProduct(c.Request.Context(), draft)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
