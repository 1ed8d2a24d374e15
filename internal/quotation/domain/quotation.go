package domain

import (
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
)

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitted  Status = "SUBMITTED"
	StatusConverted  Status = "CONVERTED"
)

// Editable reports whether the ledger may still change.
func (s Status) Editable() bool {
	return s == StatusNew || s == StatusInProgress
}

type Quotation struct {
	ID               string          `json:"id"`
	Number           string          `json:"quotation_number"`
	CustomerName     string          `json:"customer_name"`
	QuotationDate    time.Time       `json:"quotation_date"`
	Status           Status          `json:"status"`
	Total            decimal.Decimal `json:"total_price"`
	ItemCount        int             `json:"item_count"`
	ConvertedOrderID *string         `json:"converted_order_id,omitempty"`
	Items            []LineItem      `json:"items,omitempty"` // populated on detail reads
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type QuotationFilter struct {
	Query  string `form:"q"`
	Status Status `form:"status"`
}

type CreateQuotationRequest struct {
	CustomerName  string     `json:"customer_name" binding:"required,max=200"`
	QuotationDate *time.Time `json:"quotation_date,omitempty"`
}

// QuotationDetail is a quotation with its live editing state.
type QuotationDetail struct {
	Quotation
	Workbench *Workbench `json:"workbench,omitempty"`
}

// ImportSummary is returned to the uploader.
type ImportSummary struct {
	BatchID   string `json:"batch_id"`
	Rows      int    `json:"rows"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
}

type FailedEntry struct {
	RowIndex int    `json:"row_index"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type BulkResolveResult struct {
	Resolved  []int         `json:"resolved"`
	Failed    []FailedEntry `json:"failed"`
	Workbench *Workbench    `json:"workbench,omitempty"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type SetPriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ResolveCreateRequest creates a catalog product for an unmatched row.
// Quantity overrides the row's own quantity when positive.
type ResolveCreateRequest struct {
	Product  catalog.ProductDraft `json:"product"`
	Quantity int                  `json:"quantity"`
}

type ResolveLookupRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// BulkResolveRequest optionally carries a draft per row index; rows without
// one get a draft derived from the imported row.
type BulkResolveRequest struct {
	Drafts map[int]catalog.ProductDraft `json:"drafts"`
}
