package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Get(ctx context.Context, quotationID string) (*domain.Workbench, error) {
	args := m.Called(ctx, quotationID)
	if wb := args.Get(0); wb != nil {
		return wb.(*domain.Workbench), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDraftStore) Save(ctx context.Context, wb *domain.Workbench) error {
	args := m.Called(ctx, wb)
	return args.Error(0)
}

func (m *MockDraftStore) Delete(ctx context.Context, quotationID string) error {
	args := m.Called(ctx, quotationID)
	return args.Error(0)
}
