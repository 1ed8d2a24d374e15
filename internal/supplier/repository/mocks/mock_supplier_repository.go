package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/supplier/domain"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSupplierRepository) GetSupplierByID(ctx context.Context, id string) (*domain.Supplier, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*domain.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}
