package domain

import (
	"time"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
)

type ImportState string

const (
	ImportIdle       ImportState = "IDLE"
	ImportProcessing ImportState = "PROCESSING"
)

// ImportStatus describes the current or most recent upload.
type ImportStatus struct {
	State      ImportState `json:"state"`
	BatchID    string      `json:"batch_id,omitempty"`
	FileName   string      `json:"file_name,omitempty"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Rows       int         `json:"rows"`
	Matched    int         `json:"matched"`
	Unmatched  int         `json:"unmatched"`
	Error      string      `json:"error,omitempty"`
}

// MatchedRow is an imported row tied to a catalog product.
type MatchedRow struct {
	RowIndex int             `json:"row_index"`
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// ImportResult is the deterministic partition of one uploaded sheet.
type ImportResult struct {
	BatchID   string           `json:"batch_id"`
	Rows      int              `json:"rows"`
	Matched   []MatchedRow     `json:"matched"`
	Unmatched []UnmatchedEntry `json:"unmatched"`
}

// Workbench is the in-progress editing state of one quotation: its ledger,
// the reconciliation queue of the last import, and the import status.
type Workbench struct {
	QuotationID string               `json:"quotation_id"`
	Ledger      *Ledger              `json:"ledger"`
	Queue       *ReconciliationQueue `json:"unmatched"`
	Import      ImportStatus         `json:"import"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func NewWorkbench(quotationID string, items []LineItem) *Workbench {
	return &Workbench{
		QuotationID: quotationID,
		Ledger:      NewLedger(items...),
		Queue:       NewReconciliationQueue("", nil),
		Import:      ImportStatus{State: ImportIdle},
	}
}

var (
	errEntryNotPending = apperror.NotFound("unmatched entry is not pending", nil)
	errQueueNotEmpty   = apperror.State("unmatched products must be resolved or dismissed before submitting")
	errEmptyLedger     = apperror.Validation("quotation has no line items", map[string]string{"items": "min"})
	errZeroQuantity    = apperror.Validation("every line item needs a quantity of at least 1", map[string]string{"items.quantity": "gt"})
	errHugeQuantity    = apperror.Validation("a line item quantity exceeds the supported maximum", map[string]string{"items.quantity": "max"})
)

// BeginImport marks an upload as in flight.
func (w *Workbench) BeginImport(batchID, fileName string, now time.Time) {
	w.Import = ImportStatus{State: ImportProcessing, BatchID: batchID, FileName: fileName, StartedAt: &now}
}

// ApplyImport replaces the reconciliation queue with the batch's unmatched
// rows and merges matched rows into the ledger.
func (w *Workbench) ApplyImport(res ImportResult, now time.Time) {
	for _, m := range res.Matched {
		w.Ledger.AddProductQuantity(m.Product, m.Quantity)
	}
	w.Queue = NewReconciliationQueue(res.BatchID, res.Unmatched)

	w.Import.State = ImportIdle
	w.Import.BatchID = res.BatchID
	w.Import.FinishedAt = &now
	w.Import.Rows = res.Rows
	w.Import.Matched = len(res.Matched)
	w.Import.Unmatched = len(res.Unmatched)
	w.Import.Error = ""
}

// FailImport returns the workbench to idle after an upload was rejected.
// Ledger and queue are untouched.
func (w *Workbench) FailImport(reason string, now time.Time) {
	w.Import.State = ImportIdle
	w.Import.FinishedAt = &now
	w.Import.Error = reason
}

// ResolveEntry ties a pending entry to product p: one line item is added (or
// merged) and the entry leaves the queue. qty <= 0 falls back to the row's
// own quantity.
func (w *Workbench) ResolveEntry(rowIndex int, p catalog.Product, qty int) error {
	entry, ok := w.Queue.Get(rowIndex)
	if !ok {
		return errEntryNotPending
	}
	if qty <= 0 {
		qty = entry.Quantity
	}
	if qty <= 0 {
		return apperror.Validation("row has no usable quantity; supply one", map[string]string{"quantity": "required"})
	}
	w.Ledger.AddProductQuantity(p, qty)
	w.Queue.Remove(rowIndex)
	return nil
}

// DismissEntry drops a pending entry without touching the ledger.
func (w *Workbench) DismissEntry(rowIndex int) error {
	if !w.Queue.Remove(rowIndex) {
		return errEntryNotPending
	}
	return nil
}

// CheckSubmittable fails with a state error while entries are pending, and
// with a validation error for an empty ledger or an out-of-range quantity.
func (w *Workbench) CheckSubmittable() error {
	if !w.Queue.IsEmpty() {
		return errQueueNotEmpty
	}
	if w.Ledger.IsEmpty() {
		return errEmptyLedger
	}
	if w.Ledger.HasZeroQuantity() {
		return errZeroQuantity
	}
	if w.Ledger.HasOversizedQuantity() {
		return errHugeQuantity
	}
	return nil
}
