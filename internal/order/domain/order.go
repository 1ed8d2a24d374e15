package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseApproved  PurchaseStatus = "approved"
	PurchaseShipped   PurchaseStatus = "shipped"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

type SalesStatus string

const (
	SalesDraft      SalesStatus = "draft"
	SalesConfirmed  SalesStatus = "confirmed"
	SalesProcessing SalesStatus = "processing"
	SalesShipped    SalesStatus = "shipped"
	SalesDelivered  SalesStatus = "delivered"
	SalesCancelled  SalesStatus = "cancelled"
)

type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"-"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type PurchaseOrder struct {
	ID           string          `json:"id"`
	Number       string          `json:"order_number"`
	Supplier     string          `json:"supplier"`
	OrderDate    time.Time       `json:"order_date"`
	ExpectedDate *time.Time      `json:"expected_date,omitempty"`
	Status       PurchaseStatus  `json:"status"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Items        []OrderItem     `json:"items,omitempty"` // populated on detail reads
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SalesOrder struct {
	ID           string          `json:"id"`
	Number       string          `json:"order_number"`
	Customer     string          `json:"customer"`
	OrderDate    time.Time       `json:"order_date"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	Status       SalesStatus     `json:"status"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Profit       decimal.Decimal `json:"profit"`
	QuotationID  *string         `json:"quotation_id,omitempty"`
	Items        []OrderItem     `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type OrderFilter struct {
	Query  string `form:"q"`
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

type CreateOrderItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest is sent by the quotation service when a submitted
// quotation is converted.
type CreateSalesOrderRequest struct {
	Customer     string                   `json:"customer" binding:"required"`
	QuotationID  string                   `json:"quotation_id"`
	DeliveryDate *time.Time               `json:"delivery_date,omitempty"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ProcurementStats struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
	Pending    int             `json:"pending"`
}

type SalesStats struct {
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Delivered     int             `json:"delivered"`
}
