package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/lock"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
	repoMocks "github.com/ridloal/factory-inventory/internal/quotation/repository/mocks"
	svcMocks "github.com/ridloal/factory-inventory/internal/quotation/service/mocks"
)

var (
	steelRod = catalog.Product{ID: "p1", Code: "ST001", Name: "Steel Rod 10mm", UnitPrice: decimal.RequireFromString("25.50")}
	alSheet  = catalog.Product{ID: "p2", Code: "AL002", Name: "Aluminum Sheet 2mm", UnitPrice: decimal.RequireFromString("45.00")}
)

type fixture struct {
	repo    *repoMocks.MockQuotationRepository
	drafts  *repoMocks.MockDraftStore
	catalog *svcMocks.MockCatalogClient
	orders  *svcMocks.MockOrderClient
	locker  lock.Locker
	svc     QuotationService
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(repoMocks.MockQuotationRepository),
		drafts:  new(repoMocks.MockDraftStore),
		catalog: new(svcMocks.MockCatalogClient),
		orders:  new(svcMocks.MockOrderClient),
		locker:  lock.NewMemoryLocker(),
	}
	cfg := config.QuotationConfig{
		DraftTTL:       time.Hour,
		DraftLockWait:  20 * time.Millisecond,
		ImportLockTTL:  time.Minute,
		MaxUploadBytes: 1 << 20,
	}
	f.svc = NewQuotationService(f.repo, f.drafts, f.catalog, f.orders, f.locker, cfg)
	return f
}

// withWorkbench wires the draft store to hand out wb, which the service then
// mutates in place.
func (f *fixture) withWorkbench(q *domain.Quotation, wb *domain.Workbench) {
	f.repo.On("GetQuotationByID", mock.Anything, q.ID).Return(q, nil)
	f.drafts.On("Get", mock.Anything, q.ID).Return(wb, nil)
	f.drafts.On("Save", mock.Anything, wb).Return(nil)
}

func editable() *domain.Quotation {
	return &domain.Quotation{ID: "q1", Number: "QT-2024-001", CustomerName: "Acme Manufacturing", Status: domain.StatusNew}
}

func workbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func importedWorkbench() *domain.Workbench {
	wb := domain.NewWorkbench("q1", nil)
	wb.ApplyImport(domain.ImportResult{
		BatchID: "batch-1",
		Rows:    4,
		Unmatched: []domain.UnmatchedEntry{
			{RowIndex: 1, ProductName: "Custom Steel Component", Code: "CSC001", Quantity: 10},
			{RowIndex: 2, ProductName: "Special Aluminum Part", Code: "SAP001", Quantity: 5},
			{RowIndex: 3, ProductName: "Copper Fitting", Code: "CF001", Quantity: 2},
			{RowIndex: 4, ProductName: "Broken Row", Code: "BR001", Quantity: 0, Issues: []string{"missing quantity"}},
		},
	}, time.Now())
	return wb
}

func TestQuotationService_CreateQuotation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("CreateQuotation", ctx, mock.MatchedBy(func(q *domain.Quotation) bool {
			return q.CustomerName == "Acme Manufacturing" && q.Status == domain.StatusNew
		})).Return(nil).Once()

		q, err := f.svc.CreateQuotation(ctx, domain.CreateQuotationRequest{CustomerName: "  Acme Manufacturing "})

		require.NoError(t, err)
		assert.Equal(t, "mock-quotation-id", q.ID)
		assert.Equal(t, "QT-2024-001", q.Number)
		assert.True(t, q.Total.IsZero())
		f.repo.AssertExpectations(t)
	})

	t.Run("Blank customer", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateQuotation(ctx, domain.CreateQuotationRequest{CustomerName: "   "})

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.repo.AssertNotCalled(t, "CreateQuotation", mock.Anything, mock.Anything)
	})
}

func TestQuotationService_ListQuotations(t *testing.T) {
	f := newFixture()
	f.repo.On("ListQuotations", mock.Anything).Return([]domain.Quotation{
		{ID: "1", Number: "QT-2024-001", CustomerName: "ABC Manufacturing", Status: domain.StatusSubmitted},
		{ID: "2", Number: "QT-2024-002", CustomerName: "XYZ Industries", Status: domain.StatusNew},
		{ID: "3", Number: "QT-2024-003", CustomerName: "ABC Tooling", Status: domain.StatusNew},
	}, nil)

	got, err := f.svc.ListQuotations(context.Background(), domain.QuotationFilter{Query: "abc", Status: domain.StatusNew})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestQuotationService_GetQuotation(t *testing.T) {
	t.Run("Editable quotation carries its workbench", func(t *testing.T) {
		f := newFixture()
		q := editable()
		q.Items = []domain.LineItem{{ProductID: "p1", Code: "ST001", Quantity: 2, UnitPrice: decimal.RequireFromString("25.50")}}
		f.repo.On("GetQuotationByID", mock.Anything, "q1").Return(q, nil)
		f.drafts.On("Get", mock.Anything, "q1").Return(nil, nil)

		detail, err := f.svc.GetQuotation(context.Background(), "q1")

		require.NoError(t, err)
		require.NotNil(t, detail.Workbench)
		assert.Equal(t, "51.00", detail.Workbench.Ledger.Total().StringFixed(2))
	})

	t.Run("Submitted quotation has no workbench", func(t *testing.T) {
		f := newFixture()
		q := editable()
		q.Status = domain.StatusSubmitted
		f.repo.On("GetQuotationByID", mock.Anything, "q1").Return(q, nil)

		detail, err := f.svc.GetQuotation(context.Background(), "q1")

		require.NoError(t, err)
		assert.Nil(t, detail.Workbench)
		f.drafts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetQuotationByID", mock.Anything, "nope").Return(nil, errors.New("quotation not found"))

		_, err := f.svc.GetQuotation(context.Background(), "nope")
		assert.Error(t, err)
	})
}

func TestQuotationService_LedgerEdits(t *testing.T) {
	ctx := context.Background()

	t.Run("Adding the same product twice merges the line", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		f.withWorkbench(editable(), wb)
		f.catalog.On("GetProduct", ctx, "p1").Return(&steelRod, nil)

		_, err := f.svc.AddProduct(ctx, "q1", "p1")
		require.NoError(t, err)
		got, err := f.svc.AddProduct(ctx, "q1", "p1")
		require.NoError(t, err)

		require.Equal(t, 1, got.Ledger.Len())
		item, _ := got.Ledger.Find("p1")
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "51.00", got.Ledger.Total().StringFixed(2))
		f.drafts.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("Quantity and price", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		wb.Ledger.AddProduct(alSheet)
		f.withWorkbench(editable(), wb)

		_, err := f.svc.SetUnitPrice(ctx, "q1", "p2", decimal.RequireFromString("7.50"))
		require.NoError(t, err)
		got, err := f.svc.SetQuantity(ctx, "q1", "p2", 4)
		require.NoError(t, err)

		assert.Equal(t, "30.00", got.Ledger.Total().StringFixed(2))
	})

	t.Run("Invalid quantity and price are rejected up front", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.SetQuantity(ctx, "q1", "p2", 0)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		_, err = f.svc.SetUnitPrice(ctx, "q1", "p2", decimal.NewFromInt(-1))
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.repo.AssertNotCalled(t, "GetQuotationByID", mock.Anything, mock.Anything)
	})

	t.Run("Price finer than a cent is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.SetUnitPrice(ctx, "q1", "p2", decimal.RequireFromString("10.005"))

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Equal(t, "decimals", appErr.Fields["unit_price"])
		f.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Quantity past the column range is rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.SetQuantity(ctx, "q1", "p2", domain.MaxQuantity+1)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "max", appErr.Fields["quantity"])
		f.repo.AssertNotCalled(t, "GetQuotationByID", mock.Anything, mock.Anything)
	})

	t.Run("Unknown line", func(t *testing.T) {
		f := newFixture()
		f.withWorkbench(editable(), domain.NewWorkbench("q1", nil))

		_, err := f.svc.SetQuantity(ctx, "q1", "missing", 3)

		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		f.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Remove is idempotent", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		wb.Ledger.AddProduct(steelRod)
		f.withWorkbench(editable(), wb)

		_, err := f.svc.RemoveItem(ctx, "q1", "p1")
		require.NoError(t, err)
		got, err := f.svc.RemoveItem(ctx, "q1", "p1")
		require.NoError(t, err)
		assert.True(t, got.Ledger.IsEmpty())
	})

	t.Run("Submitted quotation is frozen", func(t *testing.T) {
		f := newFixture()
		q := editable()
		q.Status = domain.StatusSubmitted
		f.repo.On("GetQuotationByID", mock.Anything, "q1").Return(q, nil)
		f.catalog.On("GetProduct", ctx, "p1").Return(&steelRod, nil)

		_, err := f.svc.AddProduct(ctx, "q1", "p1")

		assert.True(t, apperror.Is(err, apperror.KindState))
		f.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Held draft lock", func(t *testing.T) {
		f := newFixture()
		lease, err := f.locker.TryObtain(ctx, draftLockKey("q1"), time.Minute)
		require.NoError(t, err)
		defer lease.Release(ctx)
		f.catalog.On("GetProduct", ctx, "p1").Return(&steelRod, nil)

		_, err = f.svc.AddProduct(ctx, "q1", "p1")

		assert.True(t, apperror.Is(err, apperror.KindState))
	})
}

func TestQuotationService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("Matched rows land in the ledger, the rest in the queue", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		f.withWorkbench(editable(), wb)
		f.catalog.On("ListProducts", ctx).Return([]catalog.Product{steelRod, alSheet}, nil)
		buf := workbookBytes(t, [][]interface{}{
			{"Code", "Name", "Qty"},
			{"CSC001", "Custom Steel Component", 10},
			{"ST001", "Steel Rod 10mm", 20},
			{"SAP001", "Special Aluminum Part", 5},
		})

		summary, err := f.svc.Import(ctx, "q1", "quote.xlsx", buf)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Rows)
		assert.Equal(t, 1, summary.Matched)
		assert.Equal(t, 2, summary.Unmatched)
		assert.NotEmpty(t, summary.BatchID)

		item, ok := wb.Ledger.Find("p1")
		require.True(t, ok)
		assert.Equal(t, 20, item.Quantity)
		assert.Equal(t, 2, wb.Queue.Len())
		assert.Equal(t, summary.BatchID, wb.Queue.BatchID())
		assert.Equal(t, domain.ImportIdle, wb.Import.State)
	})

	t.Run("Wrong extension", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Import(ctx, "q1", "quote.csv", bytes.NewBufferString("a,b"))

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.repo.AssertNotCalled(t, "GetQuotationByID", mock.Anything, mock.Anything)
	})

	t.Run("Unreadable workbook is recorded and the ledger kept", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		wb.Ledger.AddProduct(steelRod)
		f.withWorkbench(editable(), wb)

		_, err := f.svc.Import(ctx, "q1", "quote.xlsx", bytes.NewBufferString("not a workbook"))

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, domain.ImportIdle, wb.Import.State)
		assert.NotEmpty(t, wb.Import.Error)
		assert.Equal(t, 1, wb.Ledger.Len())
	})

	t.Run("Second import while one is processing", func(t *testing.T) {
		f := newFixture()
		lease, err := f.locker.TryObtain(ctx, importLockKey("q1"), time.Minute)
		require.NoError(t, err)
		defer lease.Release(ctx)

		_, err = f.svc.Import(ctx, "q1", "quote.xlsx", bytes.NewBufferString(""))

		assert.True(t, apperror.Is(err, apperror.KindState))
		f.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestQuotationService_Reconciliation(t *testing.T) {
	ctx := context.Background()
	created := &catalog.Product{ID: "p9", Code: "CSC001", Name: "Custom Steel Component", UnitPrice: decimal.RequireFromString("12.00")}
	draft := catalog.ProductDraft{Code: "CSC001", Name: "Custom Steel Component", UnitPrice: decimal.RequireFromString("12.00")}

	t.Run("Dismiss leaves the ledger alone", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		f.withWorkbench(editable(), wb)

		got, err := f.svc.DismissEntry(ctx, "q1", 1)

		require.NoError(t, err)
		assert.Equal(t, 3, got.Queue.Len())
		assert.True(t, got.Ledger.IsEmpty())

		_, err = f.svc.DismissEntry(ctx, "q1", 1)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Create resolves the row", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		f.withWorkbench(editable(), wb)
		f.catalog.On("CreateProduct", ctx, mock.MatchedBy(func(d catalog.ProductDraft) bool { return d.Code == "CSC001" })).Return(created, nil).Once()

		got, err := f.svc.ResolveByCreate(ctx, "q1", 1, domain.ResolveCreateRequest{Product: draft})

		require.NoError(t, err)
		item, ok := got.Ledger.Find("p9")
		require.True(t, ok)
		assert.Equal(t, 10, item.Quantity)
		assert.Equal(t, "120.00", got.Ledger.Total().StringFixed(2))
		_, pending := got.Queue.Get(1)
		assert.False(t, pending)
	})

	t.Run("Duplicate code keeps the entry pending", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		f.withWorkbench(editable(), wb)
		f.catalog.On("CreateProduct", ctx, mock.Anything).Return(nil, apperror.Conflict("product code already exists", nil))

		_, err := f.svc.ResolveByCreate(ctx, "q1", 1, domain.ResolveCreateRequest{Product: draft})

		assert.True(t, apperror.Is(err, apperror.KindConflict))
		_, pending := wb.Queue.Get(1)
		assert.True(t, pending)
		assert.True(t, wb.Ledger.IsEmpty())
		f.drafts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Invalid draft never reaches the catalog", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.ResolveByCreate(ctx, "q1", 1, domain.ResolveCreateRequest{Product: catalog.ProductDraft{Name: "No code"}})

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Fields, "code")
		f.catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Row without quantity is refused before creating", func(t *testing.T) {
		f := newFixture()
		f.withWorkbench(editable(), importedWorkbench())

		_, err := f.svc.ResolveByCreate(ctx, "q1", 4, domain.ResolveCreateRequest{Product: draft})

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Draft store failure after creating points to the lookup path", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		f.repo.On("GetQuotationByID", mock.Anything, "q1").Return(editable(), nil)
		f.drafts.On("Get", mock.Anything, "q1").Return(wb, nil)
		f.drafts.On("Save", mock.Anything, wb).Return(errors.New("redis unavailable"))
		f.catalog.On("CreateProduct", ctx, mock.Anything).Return(created, nil).Once()

		_, err := f.svc.ResolveByCreate(ctx, "q1", 1, domain.ResolveCreateRequest{Product: draft})

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindState, appErr.Kind)
		assert.Contains(t, appErr.Message, "resolve row 1 by lookup")
		assert.Contains(t, appErr.Message, "product_id p9")
		f.catalog.AssertNumberOfCalls(t, "CreateProduct", 1)
	})

	t.Run("Oversized override is refused before creating", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.ResolveByCreate(ctx, "q1", 1, domain.ResolveCreateRequest{Product: draft, Quantity: domain.MaxQuantity + 1})

		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.catalog.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Lookup with explicit quantity", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		f.withWorkbench(editable(), wb)
		f.catalog.On("GetProduct", ctx, "p2").Return(&alSheet, nil)

		got, err := f.svc.ResolveByLookup(ctx, "q1", 4, domain.ResolveLookupRequest{ProductID: "p2", Quantity: 3})

		require.NoError(t, err)
		item, _ := got.Ledger.Find("p2")
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, 3, got.Queue.Len())
	})
}

func TestQuotationService_BulkResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	wb := importedWorkbench()
	f.withWorkbench(editable(), wb)

	existing := catalog.Product{ID: "p9", Code: "CSC001", Name: "Custom Steel Component", UnitPrice: decimal.RequireFromString("12.00")}
	f.catalog.On("LookupByCodes", ctx, []string{"CSC001", "SAP001", "CF001", "BR001"}).Return([]catalog.Product{existing}, nil)
	f.catalog.On("CreateProduct", ctx, mock.MatchedBy(func(d catalog.ProductDraft) bool { return d.Code == "SAP001" })).
		Return(&catalog.Product{ID: "p10", Code: "SAP001", Name: "Special Aluminum Part", UnitPrice: decimal.RequireFromString("8.00")}, nil)
	f.catalog.On("CreateProduct", ctx, mock.MatchedBy(func(d catalog.ProductDraft) bool { return d.Code == "CF001" })).
		Return(nil, apperror.Conflict("product code already exists", nil))

	res, err := f.svc.BulkResolve(ctx, "q1", domain.BulkResolveRequest{
		Drafts: map[int]catalog.ProductDraft{2: {Code: "SAP001", Name: "Special Aluminum Part", UnitPrice: decimal.RequireFromString("8.00")}},
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res.Resolved)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 3, res.Failed[0].RowIndex)
	assert.Equal(t, "conflict", res.Failed[0].Kind)
	assert.Equal(t, 4, res.Failed[1].RowIndex)
	assert.Equal(t, "validation", res.Failed[1].Kind)

	assert.Equal(t, 2, wb.Queue.Len())
	assert.Equal(t, "160.00", wb.Ledger.Total().StringFixed(2))
	require.NotNil(t, res.Workbench)
}

func TestQuotationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending entries block submission", func(t *testing.T) {
		f := newFixture()
		wb := importedWorkbench()
		wb.Ledger.AddProduct(steelRod)
		f.withWorkbench(editable(), wb)
		before := wb.Ledger.Items()

		_, err := f.svc.Submit(ctx, "q1")

		assert.True(t, apperror.Is(err, apperror.KindState))
		assert.Equal(t, before, wb.Ledger.Items())
		f.repo.AssertNotCalled(t, "SaveItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Persists lines and drops the draft", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		wb.Ledger.AddProductQuantity(steelRod, 2)
		f.withWorkbench(editable(), wb)
		f.repo.On("SaveItems", ctx, "q1", wb.Ledger.Items(), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("51.00"))
		}), domain.StatusSubmitted).Return(nil).Once()
		f.drafts.On("Delete", ctx, "q1").Return(nil).Once()

		_, err := f.svc.Submit(ctx, "q1")

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
		f.drafts.AssertCalled(t, "Delete", ctx, "q1")
	})

	t.Run("Save draft marks the quotation in progress", func(t *testing.T) {
		f := newFixture()
		wb := domain.NewWorkbench("q1", nil)
		wb.Ledger.AddProduct(steelRod)
		f.withWorkbench(editable(), wb)
		f.repo.On("SaveItems", ctx, "q1", mock.Anything, mock.Anything, domain.StatusInProgress).Return(nil).Once()

		_, err := f.svc.SaveDraft(ctx, "q1")

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})
}

func TestQuotationService_ConvertToOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Only submitted quotations convert", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetQuotationByID", ctx, "q1").Return(editable(), nil)

		_, err := f.svc.ConvertToOrder(ctx, "q1")

		assert.True(t, apperror.Is(err, apperror.KindState))
		f.orders.AssertNotCalled(t, "CreateSalesOrder", mock.Anything, mock.Anything)
	})

	t.Run("Creates a sales order", func(t *testing.T) {
		f := newFixture()
		q := editable()
		q.Status = domain.StatusSubmitted
		q.Items = []domain.LineItem{{ProductID: "p1", Code: "ST001", Name: "Steel Rod 10mm", Quantity: 2, UnitPrice: decimal.RequireFromString("25.50")}}
		f.repo.On("GetQuotationByID", ctx, "q1").Return(q, nil)
		f.orders.On("CreateSalesOrder", ctx, mock.MatchedBy(func(r order.CreateSalesOrderRequest) bool {
			return r.QuotationID == "q1" && r.Customer == "Acme Manufacturing" && len(r.Items) == 1 && r.Items[0].Quantity == 2
		})).Return(&order.SalesOrder{ID: "so-1", Number: "SO-2024-004"}, nil).Once()
		orderID := "so-1"
		f.repo.On("UpdateStatus", ctx, "q1", domain.StatusSubmitted, domain.StatusConverted, &orderID).Return(nil).Once()

		_, err := f.svc.ConvertToOrder(ctx, "q1")

		require.NoError(t, err)
		f.orders.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("Retry after a failed status update completes the conversion", func(t *testing.T) {
		f := newFixture()
		submitted := editable()
		submitted.Status = domain.StatusSubmitted
		submitted.Items = []domain.LineItem{{ProductID: "p1", Code: "ST001", Name: "Steel Rod 10mm", Quantity: 2, UnitPrice: decimal.RequireFromString("25.50")}}
		orderID := "so-1"
		converted := *submitted
		converted.Status = domain.StatusConverted
		converted.ConvertedOrderID = &orderID

		f.repo.On("GetQuotationByID", ctx, "q1").Return(submitted, nil).Twice()
		f.repo.On("GetQuotationByID", ctx, "q1").Return(&converted, nil).Once()
		// The order service hands back the same order for a repeated quotation id.
		f.orders.On("CreateSalesOrder", ctx, mock.Anything).Return(&order.SalesOrder{ID: "so-1", Number: "SO-2024-005"}, nil).Twice()
		f.repo.On("UpdateStatus", ctx, "q1", domain.StatusSubmitted, domain.StatusConverted, &orderID).Return(errors.New("connection reset")).Once()
		f.repo.On("UpdateStatus", ctx, "q1", domain.StatusSubmitted, domain.StatusConverted, &orderID).Return(nil).Once()

		_, err := f.svc.ConvertToOrder(ctx, "q1")
		require.Error(t, err)

		q, err := f.svc.ConvertToOrder(ctx, "q1")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConverted, q.Status)
		if assert.NotNil(t, q.ConvertedOrderID) {
			assert.Equal(t, "so-1", *q.ConvertedOrderID)
		}
		f.orders.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("Order service conflict is passed through", func(t *testing.T) {
		f := newFixture()
		q := editable()
		q.Status = domain.StatusSubmitted
		f.repo.On("GetQuotationByID", ctx, "q1").Return(q, nil)
		f.orders.On("CreateSalesOrder", ctx, mock.Anything).Return(nil, apperror.Conflict("quotation already converted", nil))

		_, err := f.svc.ConvertToOrder(ctx, "q1")

		assert.True(t, apperror.Is(err, apperror.KindConflict))
		f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
