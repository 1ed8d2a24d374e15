package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
)

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) LookupByCodes(ctx context.Context, codes []string) ([]catalog.Product, error) {
	args := m.Called(ctx, codes)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) CreateProduct(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	args := m.Called(ctx, draft)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderClient struct {
	mock.Mock
}

func (m *MockOrderClient) CreateSalesOrder(ctx context.Context, req order.CreateSalesOrderRequest) (*order.SalesOrder, error) {
	args := m.Called(ctx, req)
	if so := args.Get(0); so != nil {
		return so.(*order.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}
