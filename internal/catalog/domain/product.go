package domain

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of minor-unit digits a price may carry.
const PriceScale = 2

type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLow        StockStatus = "low_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockLow, StockOutOfStock:
		return true
	}
	return false
}

// StatusFor derives the stock badge: empty, at or below the reorder
// threshold, or healthy.
func StatusFor(stock, minStock int) StockStatus {
	switch {
	case stock <= 0:
		return StockOutOfStock
	case stock <= minStock:
		return StockLow
	default:
		return StockInStock
	}
}

type Product struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Specifications string          `json:"specifications"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"min_stock"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Status         StockStatus     `json:"stock_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ProductFilter struct {
	Query  string      `form:"q"`
	Status StockStatus `form:"status"`
}

type LookupRequest struct {
	Codes []string `json:"codes" binding:"required,min=1"`
}

type CatalogStats struct {
	TotalProducts  int             `json:"total_products"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	LowStock       int             `json:"low_stock"`
	OutOfStock     int             `json:"out_of_stock"`
}

// ProductDraft is the candidate product typed into the create dialog. It is
// validated on its own, before the catalog checks code uniqueness.
type ProductDraft struct {
	Code           string          `json:"code" validate:"required,max=40"`
	Name           string          `json:"name" validate:"required,max=200"`
	Specifications string          `json:"specifications" validate:"max=500"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Category       string          `json:"category" validate:"max=100"`
	Unit           string          `json:"unit" validate:"max=20"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (d ProductDraft) Normalize() ProductDraft {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
	d.Specifications = strings.TrimSpace(d.Specifications)
	d.Category = strings.TrimSpace(d.Category)
	d.Unit = strings.TrimSpace(d.Unit)
	if d.Unit == "" {
		d.Unit = "pcs"
	}
	return d
}

// FieldErrors maps a draft's json field names to the rule each one broke.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, tag := range e {
		parts = append(parts, field+": "+tag)
	}
	sort.Strings(parts)
	return "invalid product draft (" + strings.Join(parts, ", ") + ")"
}

// FieldTags exposes the failures to callers that translate them.
func (e FieldErrors) FieldTags() map[string]string {
	return e
}

// ValidPrice reports whether p is non-negative and carries no more than
// PriceScale decimals. It returns the failed rule otherwise.
func ValidPrice(p decimal.Decimal) (string, bool) {
	if p.IsNegative() {
		return "gte", false
	}
	if !p.Equal(p.Round(PriceScale)) {
		return "decimals", false
	}
	return "", true
}

// Validate checks the draft on its own. Failures come back as FieldErrors.
func (d ProductDraft) Validate() error {
	fields := FieldErrors{}
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	if tag, ok := ValidPrice(d.UnitPrice); !ok {
		fields["unit_price"] = tag
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// NewProduct builds the catalog record for a validated draft. New products
// start with no stock.
func NewProduct(d ProductDraft) *Product {
	return &Product{
		Code:           d.Code,
		Name:           d.Name,
		Specifications: d.Specifications,
		Category:       d.Category,
		Unit:           d.Unit,
		UnitPrice:      d.UnitPrice.Round(PriceScale),
		Status:         StatusFor(0, 0),
	}
}
