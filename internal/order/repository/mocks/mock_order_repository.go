package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/order/domain"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetPurchaseOrderByID(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListSalesOrders(ctx context.Context) ([]domain.SalesOrder, error) {
	args := m.Called(ctx)
	if o := args.Get(0); o != nil {
		return o.([]domain.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetSalesOrderByID(ctx context.Context, id string) (*domain.SalesOrder, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetSalesOrderByQuotationID(ctx context.Context, quotationID string) (*domain.SalesOrder, error) {
	args := m.Called(ctx, quotationID)
	if o := args.Get(0); o != nil {
		return o.(*domain.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateSalesOrderWithItems(ctx context.Context, order *domain.SalesOrder, items []domain.OrderItem) error {
	args := m.Called(ctx, order, items)
	if order != nil && args.Error(0) == nil {
		order.ID = "mock-order-id"
		order.Number = "SO-2024-001"
		order.Items = items
	}
	return args.Error(0)
}
