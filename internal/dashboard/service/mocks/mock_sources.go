package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/dashboard/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
	supplier "github.com/ridloal/factory-inventory/internal/supplier/domain"
)

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) Stats(ctx context.Context) (*catalog.CatalogStats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*catalog.CatalogStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogSource) LowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSupplierSource struct {
	mock.Mock
}

func (m *MockSupplierSource) Stats(ctx context.Context) (*supplier.SupplierStats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*supplier.SupplierStats), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderSource struct {
	mock.Mock
}

func (m *MockOrderSource) ProcurementStats(ctx context.Context) (*order.ProcurementStats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*order.ProcurementStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderSource) SalesStats(ctx context.Context) (*order.SalesStats, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*order.SalesStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderSource) RecentPurchaseOrders(ctx context.Context, n int) ([]order.PurchaseOrder, error) {
	args := m.Called(ctx, n)
	if o := args.Get(0); o != nil {
		return o.([]order.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderSource) RecentSalesOrders(ctx context.Context, n int) ([]order.SalesOrder, error) {
	args := m.Called(ctx, n)
	if o := args.Get(0); o != nil {
		return o.([]order.SalesOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*domain.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, s *domain.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
