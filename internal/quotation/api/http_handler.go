package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
	"github.com/ridloal/factory-inventory/internal/quotation/service"
)

type QuotationHandler struct {
	quotationService service.QuotationService
	maxUploadBytes   int64
}

func NewQuotationHandler(qs service.QuotationService, maxUploadBytes int64) *QuotationHandler {
	return &QuotationHandler{quotationService: qs, maxUploadBytes: maxUploadBytes}
}

func (h *QuotationHandler) RegisterRoutes(router *gin.RouterGroup) {
	q := router.Group("/quotations")
	{
		q.POST("", h.CreateQuotation)
		q.GET("", h.ListQuotations)
		q.GET("/", h.ListQuotations)
		q.GET("/:id", h.GetQuotation)
		q.GET("/:id/workbench", h.GetWorkbench)

		q.POST("/:id/items", h.AddItem)
		q.PUT("/:id/items/:product_id/quantity", h.SetQuantity)
		q.PUT("/:id/items/:product_id/price", h.SetUnitPrice)
		q.DELETE("/:id/items/:product_id", h.RemoveItem)

		q.POST("/:id/imports", h.Import)
		q.DELETE("/:id/unmatched/:row", h.DismissEntry)
		q.POST("/:id/unmatched/:row/create", h.ResolveByCreate)
		q.POST("/:id/unmatched/:row/lookup", h.ResolveByLookup)
		q.POST("/:id/bulk-resolve", h.BulkResolve)

		q.POST("/:id/draft", h.SaveDraft)
		q.POST("/:id/submit", h.Submit)
		q.POST("/:id/convert", h.ConvertToOrder)
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperror.Respond(c, apperror.Validation("Invalid request payload: "+err.Error(), nil))
		return false
	}
	return true
}

func rowParam(c *gin.Context) (int, bool) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < 1 {
		apperror.Respond(c, apperror.Validation("row must be a positive integer", map[string]string{"row": "min"}))
		return 0, false
	}
	return row, true
}

func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req domain.CreateQuotationRequest
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.CreateQuotation(c.Request.Context(), req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	var filter domain.QuotationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apperror.Respond(c, apperror.Validation("invalid query: "+err.Error(), nil))
		return
	}
	quotations, err := h.quotationService.ListQuotations(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, quotations)
}

func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	detail, err := h.quotationService.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *QuotationHandler) GetWorkbench(c *gin.Context) {
	h.respondWorkbench(c)(h.quotationService.GetWorkbench(c.Request.Context(), c.Param("id")))
}

// respondWorkbench writes the outcome of a workbench-returning call.
func (h *QuotationHandler) respondWorkbench(c *gin.Context) func(*domain.Workbench, error) {
	return func(wb *domain.Workbench, err error) {
		if err != nil {
			apperror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, wb)
	}
}

func (h *QuotationHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondWorkbench(c)(h.quotationService.AddProduct(c.Request.Context(), c.Param("id"), req.ProductID))
}

func (h *QuotationHandler) SetQuantity(c *gin.Context) {
	var req domain.SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondWorkbench(c)(h.quotationService.SetQuantity(c.Request.Context(), c.Param("id"), c.Param("product_id"), req.Quantity))
}

func (h *QuotationHandler) SetUnitPrice(c *gin.Context) {
	var req domain.SetPriceRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondWorkbench(c)(h.quotationService.SetUnitPrice(c.Request.Context(), c.Param("id"), c.Param("product_id"), req.UnitPrice))
}

func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	h.respondWorkbench(c)(h.quotationService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("product_id")))
}

// Import takes a multipart upload in the "file" field.
func (h *QuotationHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperror.Respond(c, apperror.Validation("file is too large", map[string]string{"file": "max"}))
			return
		}
		apperror.Respond(c, apperror.Validation("a spreadsheet must be uploaded in the \"file\" field", map[string]string{"file": "required"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		apperror.Respond(c, apperror.Internal("open upload", err))
		return
	}
	defer f.Close()

	summary, err := h.quotationService.Import(c.Request.Context(), c.Param("id"), fh.Filename, f)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *QuotationHandler) DismissEntry(c *gin.Context) {
	row, ok := rowParam(c)
	if !ok {
		return
	}
	h.respondWorkbench(c)(h.quotationService.DismissEntry(c.Request.Context(), c.Param("id"), row))
}

func (h *QuotationHandler) ResolveByCreate(c *gin.Context) {
	row, ok := rowParam(c)
	if !ok {
		return
	}
	var req domain.ResolveCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondWorkbench(c)(h.quotationService.ResolveByCreate(c.Request.Context(), c.Param("id"), row, req))
}

func (h *QuotationHandler) ResolveByLookup(c *gin.Context) {
	row, ok := rowParam(c)
	if !ok {
		return
	}
	var req domain.ResolveLookupRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondWorkbench(c)(h.quotationService.ResolveByLookup(c.Request.Context(), c.Param("id"), row, req))
}

func (h *QuotationHandler) BulkResolve(c *gin.Context) {
	var req domain.BulkResolveRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.quotationService.BulkResolve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *QuotationHandler) SaveDraft(c *gin.Context) {
	q, err := h.quotationService.SaveDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuotationHandler) Submit(c *gin.Context) {
	q, err := h.quotationService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuotationHandler) ConvertToOrder(c *gin.Context) {
	q, err := h.quotationService.ConvertToOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
