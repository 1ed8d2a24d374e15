package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SupplierStatus string

const (
	StatusActive   SupplierStatus = "active"
	StatusInactive SupplierStatus = "inactive"
	StatusPending  SupplierStatus = "pending"
)

type Supplier struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Contact    string          `json:"contact"`
	Phone      string          `json:"phone"`
	PhoneE164  string          `json:"phone_e164,omitempty"`
	PhoneValid bool            `json:"phone_valid"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	Category   string          `json:"category"`
	Rating     decimal.Decimal `json:"rating"`
	Orders     int             `json:"orders"`
	TotalValue decimal.Decimal `json:"total_value"`
	Status     SupplierStatus  `json:"status"`
	LastOrder  *time.Time      `json:"last_order,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type SupplierFilter struct {
	Query  string         `form:"q"`
	Status SupplierStatus `form:"status"`
}

type SupplierStats struct {
	Total         int             `json:"total"`
	Active        int             `json:"active"`
	AverageRating decimal.Decimal `json:"average_rating"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
