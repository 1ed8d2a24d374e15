package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const MaxRecentActivity = 8

type ActivityKind string

const (
	ActivityPurchaseOrder ActivityKind = "purchase_order"
	ActivitySalesOrder    ActivityKind = "sales_order"
	ActivityLowStock      ActivityKind = "low_stock"
)

type Activity struct {
	Kind      ActivityKind     `json:"kind"`
	Reference string           `json:"reference"`
	Title     string           `json:"title"`
	Status    string           `json:"status"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	At        time.Time        `json:"at"`
}

// Snapshot is the landing page summary. Figures from a source that could
// not be reached stay zero and the source is listed in Unavailable.
type Snapshot struct {
	TotalProducts         int             `json:"total_products"`
	InventoryValue        decimal.Decimal `json:"inventory_value"`
	LowStock              int             `json:"low_stock"`
	OutOfStock            int             `json:"out_of_stock"`
	Suppliers             int             `json:"suppliers"`
	ActiveSuppliers       int             `json:"active_suppliers"`
	PurchaseOrdersPending int             `json:"purchase_orders_pending"`
	SalesRevenue          decimal.Decimal `json:"sales_revenue"`
	RecentActivity        []Activity      `json:"recent_activity"`
	Unavailable           []string        `json:"unavailable,omitempty"`
	GeneratedAt           time.Time       `json:"generated_at"`
}
