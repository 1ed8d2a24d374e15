package mocks

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

type MockQuotationService struct {
	mock.Mock
}

func (m *MockQuotationService) quotation(args mock.Arguments) (*domain.Quotation, error) {
	if q := args.Get(0); q != nil {
		return q.(*domain.Quotation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) workbench(args mock.Arguments) (*domain.Workbench, error) {
	if wb := args.Get(0); wb != nil {
		return wb.(*domain.Workbench), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) CreateQuotation(ctx context.Context, req domain.CreateQuotationRequest) (*domain.Quotation, error) {
	return m.quotation(m.Called(ctx, req))
}

func (m *MockQuotationService) ListQuotations(ctx context.Context, filter domain.QuotationFilter) ([]domain.Quotation, error) {
	args := m.Called(ctx, filter)
	if q := args.Get(0); q != nil {
		return q.([]domain.Quotation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) GetQuotation(ctx context.Context, id string) (*domain.QuotationDetail, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*domain.QuotationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) GetWorkbench(ctx context.Context, id string) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id))
}

func (m *MockQuotationService) AddProduct(ctx context.Context, id, productID string) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, productID))
}

func (m *MockQuotationService) SetQuantity(ctx context.Context, id, productID string, qty int) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, productID, qty))
}

func (m *MockQuotationService) SetUnitPrice(ctx context.Context, id, productID string, price decimal.Decimal) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, productID, price))
}

func (m *MockQuotationService) RemoveItem(ctx context.Context, id, productID string) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, productID))
}

func (m *MockQuotationService) Import(ctx context.Context, id, fileName string, r io.Reader) (*domain.ImportSummary, error) {
	args := m.Called(ctx, id, fileName, r)
	if s := args.Get(0); s != nil {
		return s.(*domain.ImportSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) DismissEntry(ctx context.Context, id string, row int) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, row))
}

func (m *MockQuotationService) ResolveByCreate(ctx context.Context, id string, row int, req domain.ResolveCreateRequest) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, row, req))
}

func (m *MockQuotationService) ResolveByLookup(ctx context.Context, id string, row int, req domain.ResolveLookupRequest) (*domain.Workbench, error) {
	return m.workbench(m.Called(ctx, id, row, req))
}

func (m *MockQuotationService) BulkResolve(ctx context.Context, id string, req domain.BulkResolveRequest) (*domain.BulkResolveResult, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*domain.BulkResolveResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuotationService) SaveDraft(ctx context.Context, id string) (*domain.Quotation, error) {
	return m.quotation(m.Called(ctx, id))
}

func (m *MockQuotationService) Submit(ctx context.Context, id string) (*domain.Quotation, error) {
	return m.quotation(m.Called(ctx, id))
}

func (m *MockQuotationService) ConvertToOrder(ctx context.Context, id string) (*domain.Quotation, error) {
	return m.quotation(m.Called(ctx, id))
}
