package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) CreateQuotation(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	if q != nil && args.Error(0) == nil {
		q.ID = "mock-quotation-id"
		q.Number = "QT-2024-001"
	}
	return args.Error(0)
}

func (m *MockQuotationRepository) ListQuotations(ctx context.Context) ([]domain.Quotation, error) {
	args := m.Called(ctx)
	if q := args.Get(0); q != nil {
		return q.([]domain.Quotation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationRepository) GetQuotationByID(ctx context.Context, id string) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		return q.(*domain.Quotation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationRepository) SaveItems(ctx context.Context, id string, items []domain.LineItem, total decimal.Decimal, status domain.Status) error {
	args := m.Called(ctx, id, items, total, status)
	return args.Error(0)
}

func (m *MockQuotationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, convertedOrderID *string) error {
	args := m.Called(ctx, id, from, to, convertedOrderID)
	return args.Error(0)
}
