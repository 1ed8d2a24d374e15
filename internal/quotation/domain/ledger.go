package domain

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
)

// MaxQuantity is the largest quantity one line may hold; quantities are
// stored in a 32-bit integer column.
const MaxQuantity = math.MaxInt32

// LineItem is one product on a quotation. Subtotal always equals
// Quantity x UnitPrice; the ledger recomputes it on every mutation.
type LineItem struct {
	ProductID      string          `json:"product_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Specifications string          `json:"specifications,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

func (li *LineItem) recompute() {
	li.Subtotal = li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Ledger is the ordered set of line items of one quotation, with at most one
// line per product. Operations on an unknown product id are no-ops.
type Ledger struct {
	items []LineItem
}

func NewLedger(items ...LineItem) *Ledger {
	l := &Ledger{}
	for _, it := range items {
		if _, exists := l.index(it.ProductID); exists {
			continue
		}
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		it.recompute()
		l.items = append(l.items, it)
	}
	return l
}

func (l *Ledger) index(productID string) (int, bool) {
	for i := range l.items {
		if l.items[i].ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

// AddProduct adds one unit of p: a new line at the catalog price, or +1 on
// the existing line.
func (l *Ledger) AddProduct(p catalog.Product) {
	l.AddProductQuantity(p, 1)
}

// AddProductQuantity merges qty units of p into the ledger. Non-positive
// quantities are ignored.
func (l *Ledger) AddProductQuantity(p catalog.Product, qty int) {
	if qty <= 0 {
		return
	}
	if i, ok := l.index(p.ID); ok {
		l.items[i].Quantity += qty
		l.items[i].recompute()
		return
	}
	li := LineItem{
		ProductID:      p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Specifications: p.Specifications,
		Quantity:       qty,
		UnitPrice:      p.UnitPrice,
	}
	li.recompute()
	l.items = append(l.items, li)
}

// SetQuantity replaces a line's quantity. Negative input is stored as 0.
func (l *Ledger) SetQuantity(productID string, qty int) {
	i, ok := l.index(productID)
	if !ok {
		return
	}
	if qty < 0 {
		qty = 0
	}
	l.items[i].Quantity = qty
	l.items[i].recompute()
}

// SetUnitPrice overrides the effective price of a line. The ledger does not
// police the value; callers validate at their boundary.
func (l *Ledger) SetUnitPrice(productID string, price decimal.Decimal) {
	i, ok := l.index(productID)
	if !ok {
		return
	}
	l.items[i].UnitPrice = price
	l.items[i].recompute()
}

func (l *Ledger) Remove(productID string) {
	i, ok := l.index(productID)
	if !ok {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
}

func (l *Ledger) Find(productID string) (LineItem, bool) {
	i, ok := l.index(productID)
	if !ok {
		return LineItem{}, false
	}
	return l.items[i], true
}

func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

// HasZeroQuantity reports whether any line has been set to quantity 0.
func (l *Ledger) HasZeroQuantity() bool {
	for _, it := range l.items {
		if it.Quantity == 0 {
			return true
		}
	}
	return false
}

// HasOversizedQuantity reports whether any line holds more than MaxQuantity,
// which merged imports can reach.
func (l *Ledger) HasOversizedQuantity() bool {
	for _, it := range l.items {
		if it.Quantity > MaxQuantity {
			return true
		}
	}
	return false
}

type ledgerJSON struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(ledgerJSON{Items: l.Items(), Total: l.Total()})
}

// UnmarshalJSON restores the lines and recomputes every subtotal; a stored
// total is ignored.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw ledgerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = *NewLedger(raw.Items...)
	return nil
}
