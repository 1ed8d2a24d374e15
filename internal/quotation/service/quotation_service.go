package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	order "github.com/ridloal/factory-inventory/internal/order/domain"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/platform/config"
	"github.com/ridloal/factory-inventory/internal/platform/lock"
	"github.com/ridloal/factory-inventory/internal/platform/logger"
	"github.com/ridloal/factory-inventory/internal/platform/search"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
	"github.com/ridloal/factory-inventory/internal/quotation/importer"
	"github.com/ridloal/factory-inventory/internal/quotation/repository"
)

const draftLockTTL = 30 * time.Second

var errQuantityTooLarge = apperror.Validation(
	fmt.Sprintf("quantity cannot exceed %d", domain.MaxQuantity), map[string]string{"quantity": "max"})

type QuotationService interface {
	CreateQuotation(ctx context.Context, req domain.CreateQuotationRequest) (*domain.Quotation, error)
	ListQuotations(ctx context.Context, filter domain.QuotationFilter) ([]domain.Quotation, error)
	GetQuotation(ctx context.Context, id string) (*domain.QuotationDetail, error)
	GetWorkbench(ctx context.Context, id string) (*domain.Workbench, error)

	AddProduct(ctx context.Context, id, productID string) (*domain.Workbench, error)
	SetQuantity(ctx context.Context, id, productID string, qty int) (*domain.Workbench, error)
	SetUnitPrice(ctx context.Context, id, productID string, price decimal.Decimal) (*domain.Workbench, error)
	RemoveItem(ctx context.Context, id, productID string) (*domain.Workbench, error)

	Import(ctx context.Context, id, fileName string, r io.Reader) (*domain.ImportSummary, error)
	DismissEntry(ctx context.Context, id string, row int) (*domain.Workbench, error)
	ResolveByCreate(ctx context.Context, id string, row int, req domain.ResolveCreateRequest) (*domain.Workbench, error)
	ResolveByLookup(ctx context.Context, id string, row int, req domain.ResolveLookupRequest) (*domain.Workbench, error)
	BulkResolve(ctx context.Context, id string, req domain.BulkResolveRequest) (*domain.BulkResolveResult, error)

	SaveDraft(ctx context.Context, id string) (*domain.Quotation, error)
	Submit(ctx context.Context, id string) (*domain.Quotation, error)
	ConvertToOrder(ctx context.Context, id string) (*domain.Quotation, error)
}

type quotationServiceImpl struct {
	repo    repository.QuotationRepository
	drafts  repository.DraftStore
	catalog CatalogClient
	orders  OrderClient
	locker  lock.Locker
	cfg     config.QuotationConfig
	now     func() time.Time
}

func NewQuotationService(
	repo repository.QuotationRepository,
	drafts repository.DraftStore,
	catalogClient CatalogClient,
	orderClient OrderClient,
	locker lock.Locker,
	cfg config.QuotationConfig,
) QuotationService {
	return &quotationServiceImpl{
		repo:    repo,
		drafts:  drafts,
		catalog: catalogClient,
		orders:  orderClient,
		locker:  locker,
		cfg:     cfg,
		now:     time.Now,
	}
}

func draftLockKey(id string) string  { return "lock:quotation:draft:" + id }
func importLockKey(id string) string { return "lock:quotation:import:" + id }

func (s *quotationServiceImpl) getQuotation(ctx context.Context, id string) (*domain.Quotation, error) {
	q, err := s.repo.GetQuotationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrQuotationNotFound) {
			return nil, apperror.NotFound("quotation not found", err)
		}
		return nil, err
	}
	return q, nil
}

// loadWorkbench returns the stored draft, or a fresh one built from the
// persisted lines when none is stored.
func (s *quotationServiceImpl) loadWorkbench(ctx context.Context, q *domain.Quotation) (*domain.Workbench, error) {
	wb, err := s.drafts.Get(ctx, q.ID)
	if err != nil {
		logger.Error("Svc.loadWorkbench: draft store error", err, "quotation_id", q.ID)
		return nil, apperror.Internal("load draft", err)
	}
	if wb == nil {
		wb = domain.NewWorkbench(q.ID, q.Items)
	}
	return wb, nil
}

// withDraft runs fn on the quotation's workbench under the per-quotation
// draft lock and stores the result when fn succeeds. A failing fn leaves
// the stored draft untouched.
func (s *quotationServiceImpl) withDraft(ctx context.Context, id string, fn func(q *domain.Quotation, wb *domain.Workbench) error) (*domain.Workbench, error) {
	lease, err := s.locker.Obtain(ctx, draftLockKey(id), draftLockTTL, s.cfg.DraftLockWait)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, apperror.State("quotation is being edited elsewhere, try again")
		}
		return nil, apperror.Internal("obtain draft lock", err)
	}
	defer s.release(lease, id)

	q, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, apperror.State(fmt.Sprintf("quotation is %s and can no longer be edited", q.Status))
	}
	wb, err := s.loadWorkbench(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := fn(q, wb); err != nil {
		return nil, err
	}

	wb.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, wb); err != nil {
		logger.Error("Svc.withDraft: failed to save draft", err, "quotation_id", id)
		return nil, apperror.Internal("save draft", err)
	}
	return wb, nil
}

func (s *quotationServiceImpl) release(lease lock.Lease, id string) {
	if err := lease.Release(context.Background()); err != nil && !errors.Is(err, lock.ErrNotObtained) {
		logger.Warn("Svc: failed to release lock", "quotation_id", id, "error", err)
	}
}

func (s *quotationServiceImpl) CreateQuotation(ctx context.Context, req domain.CreateQuotationRequest) (*domain.Quotation, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, apperror.Validation("customer name is required", map[string]string{"customer_name": "required"})
	}
	date := s.now()
	if req.QuotationDate != nil {
		date = *req.QuotationDate
	}

	q := &domain.Quotation{
		CustomerName:  name,
		QuotationDate: date,
		Status:        domain.StatusNew,
		Total:         decimal.Zero,
	}
	if err := s.repo.CreateQuotation(ctx, q); err != nil {
		logger.Error("Svc.CreateQuotation: repo error", err, "customer", name)
		return nil, err
	}
	logger.Info("Quotation created", "quotation_id", q.ID, "number", q.Number)
	return q, nil
}

func (s *quotationServiceImpl) ListQuotations(ctx context.Context, filter domain.QuotationFilter) ([]domain.Quotation, error) {
	quotations, err := s.repo.ListQuotations(ctx)
	if err != nil {
		return nil, err
	}
	quotations = search.Filter(quotations, filter.Query, func(q domain.Quotation) []string {
		return []string{q.Number, q.CustomerName}
	})
	if filter.Status == "" {
		return quotations, nil
	}
	out := make([]domain.Quotation, 0, len(quotations))
	for _, q := range quotations {
		if q.Status == filter.Status {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *quotationServiceImpl) GetQuotation(ctx context.Context, id string) (*domain.QuotationDetail, error) {
	q, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.QuotationDetail{Quotation: *q}
	if q.Status.Editable() {
		if detail.Workbench, err = s.loadWorkbench(ctx, q); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *quotationServiceImpl) GetWorkbench(ctx context.Context, id string) (*domain.Workbench, error) {
	q, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadWorkbench(ctx, q)
}

func (s *quotationServiceImpl) AddProduct(ctx context.Context, id, productID string) (*domain.Workbench, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		wb.Ledger.AddProduct(*p)
		return nil
	})
}

func (s *quotationServiceImpl) SetQuantity(ctx context.Context, id, productID string, qty int) (*domain.Workbench, error) {
	if qty < 1 {
		return nil, apperror.Validation("quantity must be a whole number of at least 1", map[string]string{"quantity": "min"})
	}
	if qty > domain.MaxQuantity {
		return nil, errQuantityTooLarge
	}
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		if _, ok := wb.Ledger.Find(productID); !ok {
			return apperror.NotFound("line item not found", nil)
		}
		wb.Ledger.SetQuantity(productID, qty)
		return nil
	})
}

func (s *quotationServiceImpl) SetUnitPrice(ctx context.Context, id, productID string, price decimal.Decimal) (*domain.Workbench, error) {
	if tag, ok := catalog.ValidPrice(price); !ok {
		return nil, apperror.Validation("unit price must be a non-negative amount with at most two decimals", map[string]string{"unit_price": tag})
	}
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		if _, ok := wb.Ledger.Find(productID); !ok {
			return apperror.NotFound("line item not found", nil)
		}
		wb.Ledger.SetUnitPrice(productID, price)
		return nil
	})
}

func (s *quotationServiceImpl) RemoveItem(ctx context.Context, id, productID string) (*domain.Workbench, error) {
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		wb.Ledger.Remove(productID)
		return nil
	})
}

// Import parses an uploaded sheet into the workbench. Only one import per
// quotation may be processing; a second one fails with a state error.
func (s *quotationServiceImpl) Import(ctx context.Context, id, fileName string, r io.Reader) (*domain.ImportSummary, error) {
	if err := importer.CheckFileName(fileName); err != nil {
		return nil, err
	}

	lease, err := s.locker.TryObtain(ctx, importLockKey(id), s.cfg.ImportLockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, apperror.State("an import is already processing for this quotation")
		}
		return nil, apperror.Internal("obtain import lock", err)
	}
	defer s.release(lease, id)

	batchID := uuid.NewString()
	if _, err := s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		wb.BeginImport(batchID, fileName, s.now())
		return nil
	}); err != nil {
		return nil, err
	}

	res, err := s.partition(ctx, batchID, fileName, r)
	if err != nil {
		logger.Warn("Svc.Import: import failed", "quotation_id", id, "batch_id", batchID, "error", err)
		reason := err.Error()
		if !apperror.Is(err, apperror.KindValidation) {
			reason = "import failed"
		}
		if _, ferr := s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
			wb.FailImport(reason, s.now())
			return nil
		}); ferr != nil {
			logger.Error("Svc.Import: failed to record import failure", ferr, "quotation_id", id)
		}
		return nil, err
	}

	if _, err := s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		wb.ApplyImport(res, s.now())
		return nil
	}); err != nil {
		return nil, err
	}

	logger.Info("Quotation import applied", "quotation_id", id, "batch_id", batchID,
		"rows", res.Rows, "matched", len(res.Matched), "unmatched", len(res.Unmatched))
	return &domain.ImportSummary{
		BatchID:   batchID,
		Rows:      res.Rows,
		Matched:   len(res.Matched),
		Unmatched: len(res.Unmatched),
	}, nil
}

func (s *quotationServiceImpl) partition(ctx context.Context, batchID, fileName string, r io.Reader) (domain.ImportResult, error) {
	rows, err := importer.Parse(r, fileName)
	if err != nil {
		return domain.ImportResult{}, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return domain.ImportResult{}, err
	}
	return importer.Partition(batchID, rows, products), nil
}

func (s *quotationServiceImpl) DismissEntry(ctx context.Context, id string, row int) (*domain.Workbench, error) {
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		return wb.DismissEntry(row)
	})
}

// pendingQuantity checks that row is pending and that a quantity will be
// available for it, before anything is created in the catalog.
func pendingQuantity(wb *domain.Workbench, row, override int) error {
	entry, ok := wb.Queue.Get(row)
	if !ok {
		return apperror.NotFound("unmatched entry is not pending", nil)
	}
	if override <= 0 && entry.Quantity <= 0 {
		return apperror.Validation("row has no usable quantity; supply one", map[string]string{"quantity": "required"})
	}
	return nil
}

// checkOverride validates an explicit quantity given when resolving a row;
// zero means "use the row's own quantity".
func checkOverride(qty int) error {
	if qty < 0 {
		return apperror.Validation("quantity cannot be negative", map[string]string{"quantity": "min"})
	}
	if qty > domain.MaxQuantity {
		return errQuantityTooLarge
	}
	return nil
}

func (s *quotationServiceImpl) ResolveByCreate(ctx context.Context, id string, row int, req domain.ResolveCreateRequest) (*domain.Workbench, error) {
	if err := checkOverride(req.Quantity); err != nil {
		return nil, err
	}
	draft := req.Product.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, apperror.FromValidator(err)
	}

	var created *catalog.Product
	wb, err := s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		if err := pendingQuantity(wb, row, req.Quantity); err != nil {
			return err
		}
		p, err := s.catalog.CreateProduct(ctx, draft)
		if err != nil {
			return err
		}
		created = p
		return wb.ResolveEntry(row, *p, req.Quantity)
	})
	if err != nil {
		if created == nil {
			return nil, err
		}
		logOrphans(id, err, *created)
		msg := fmt.Sprintf("product %s was created but the quotation was not updated; resolve row %d by lookup with product_id %s",
			created.Code, row, created.ID)
		return nil, &apperror.Error{Kind: apperror.KindState, Message: msg, Err: err}
	}
	logger.Info("Unmatched entry resolved by new product", "quotation_id", id, "row", row, "product_id", created.ID)
	return wb, nil
}

// logOrphans records catalog products created for a draft change that was
// then not stored, so they can be attached by lookup.
func logOrphans(id string, cause error, products ...catalog.Product) {
	for _, p := range products {
		logger.Warn("Svc: product created but draft not updated", "quotation_id", id,
			"product_id", p.ID, "code", p.Code, "error", cause)
	}
}

func (s *quotationServiceImpl) ResolveByLookup(ctx context.Context, id string, row int, req domain.ResolveLookupRequest) (*domain.Workbench, error) {
	if err := checkOverride(req.Quantity); err != nil {
		return nil, err
	}
	return s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		if err := pendingQuantity(wb, row, req.Quantity); err != nil {
			return err
		}
		p, err := s.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		return wb.ResolveEntry(row, *p, req.Quantity)
	})
}

// derivedDraft builds a catalog draft from an imported row.
func derivedDraft(e domain.UnmatchedEntry) catalog.ProductDraft {
	return catalog.ProductDraft{
		Code:           e.Code,
		Name:           e.ProductName,
		Specifications: e.Specifications,
		UnitPrice:      decimal.Zero,
	}
}

// BulkResolve resolves every pending entry it can: first by catalog code,
// then by creating a product from the supplied or derived draft. Each entry
// succeeds or fails on its own; failures stay pending and are reported.
func (s *quotationServiceImpl) BulkResolve(ctx context.Context, id string, req domain.BulkResolveRequest) (*domain.BulkResolveResult, error) {
	result := &domain.BulkResolveResult{Resolved: []int{}, Failed: []domain.FailedEntry{}}
	var created []catalog.Product

	wb, err := s.withDraft(ctx, id, func(_ *domain.Quotation, wb *domain.Workbench) error {
		entries := wb.Queue.Entries()
		if len(entries) == 0 {
			return nil
		}

		var codes []string
		for _, e := range entries {
			if e.Code != "" {
				codes = append(codes, e.Code)
			}
		}
		byCode := map[string]catalog.Product{}
		if len(codes) > 0 {
			found, err := s.catalog.LookupByCodes(ctx, codes)
			if err != nil {
				return err
			}
			for _, p := range found {
				byCode[strings.ToLower(p.Code)] = p
			}
		}

		fail := func(row int, err error) {
			msg := err.Error()
			var appErr *apperror.Error
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			result.Failed = append(result.Failed, domain.FailedEntry{RowIndex: row, Kind: string(apperror.KindOf(err)), Message: msg})
		}

		for _, e := range entries {
			if err := pendingQuantity(wb, e.RowIndex, 0); err != nil {
				fail(e.RowIndex, err)
				continue
			}

			p, ok := byCode[strings.ToLower(e.Code)]
			if !ok {
				draft, supplied := req.Drafts[e.RowIndex]
				if !supplied {
					draft = derivedDraft(e)
				}
				draft = draft.Normalize()
				if err := draft.Validate(); err != nil {
					fail(e.RowIndex, apperror.FromValidator(err))
					continue
				}
				np, err := s.catalog.CreateProduct(ctx, draft)
				if err != nil {
					fail(e.RowIndex, err)
					continue
				}
				created = append(created, *np)
				p = *np
				byCode[strings.ToLower(p.Code)] = p
			}

			if err := wb.ResolveEntry(e.RowIndex, p, 0); err != nil {
				fail(e.RowIndex, err)
				continue
			}
			result.Resolved = append(result.Resolved, e.RowIndex)
		}
		return nil
	})
	if err != nil {
		logOrphans(id, err, created...)
		return nil, err
	}

	logger.Info("Bulk resolve finished", "quotation_id", id, "resolved", len(result.Resolved), "failed", len(result.Failed))
	result.Workbench = wb
	return result, nil
}

// SaveDraft persists the current lines and marks the quotation in progress.
func (s *quotationServiceImpl) SaveDraft(ctx context.Context, id string) (*domain.Quotation, error) {
	if _, err := s.withDraft(ctx, id, func(q *domain.Quotation, wb *domain.Workbench) error {
		return s.repo.SaveItems(ctx, id, wb.Ledger.Items(), wb.Ledger.Total(), domain.StatusInProgress)
	}); err != nil {
		return nil, err
	}
	return s.getQuotation(ctx, id)
}

// Submit persists the final lines. It is refused while unmatched entries
// are pending; the ledger is left as it was.
func (s *quotationServiceImpl) Submit(ctx context.Context, id string) (*domain.Quotation, error) {
	lease, err := s.locker.Obtain(ctx, draftLockKey(id), draftLockTTL, s.cfg.DraftLockWait)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return nil, apperror.State("quotation is being edited elsewhere, try again")
		}
		return nil, apperror.Internal("obtain draft lock", err)
	}
	defer s.release(lease, id)

	q, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, apperror.State(fmt.Sprintf("quotation is %s and cannot be submitted", q.Status))
	}
	wb, err := s.loadWorkbench(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := wb.CheckSubmittable(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveItems(ctx, id, wb.Ledger.Items(), wb.Ledger.Total(), domain.StatusSubmitted); err != nil {
		logger.Error("Svc.Submit: repo error", err, "quotation_id", id)
		return nil, err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		logger.Warn("Svc.Submit: failed to delete draft", "quotation_id", id, "error", err)
	}

	logger.Info("Quotation submitted", "quotation_id", id, "total", wb.Ledger.Total().StringFixed(2))
	return s.getQuotation(ctx, id)
}

// ConvertToOrder creates a sales order from a submitted quotation. The
// order service refuses a second order for the same quotation.
func (s *quotationServiceImpl) ConvertToOrder(ctx context.Context, id string) (*domain.Quotation, error) {
	q, err := s.getQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != domain.StatusSubmitted {
		return nil, apperror.State(fmt.Sprintf("only submitted quotations can be converted; this one is %s", q.Status))
	}

	req := order.CreateSalesOrderRequest{
		Customer:    q.CustomerName,
		QuotationID: q.ID,
		Items:       make([]order.CreateOrderItemRequest, 0, len(q.Items)),
	}
	for _, it := range q.Items {
		req.Items = append(req.Items, order.CreateOrderItemRequest{
			ProductCode: it.Code,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	so, err := s.orders.CreateSalesOrder(ctx, req)
	if err != nil {
		logger.Error("Svc.ConvertToOrder: order service error", err, "quotation_id", id)
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.StatusSubmitted, domain.StatusConverted, &so.ID); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperror.Conflict("quotation was converted concurrently", err)
		}
		logger.Error("Svc.ConvertToOrder: status update failed", err, "quotation_id", id, "order_id", so.ID)
		return nil, err
	}

	logger.Info("Quotation converted to sales order", "quotation_id", id, "order_id", so.ID, "order_number", so.Number)
	return s.getQuotation(ctx, id)
}
