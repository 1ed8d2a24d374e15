package domain

import "encoding/json"

// UnmatchedEntry is an imported row that could not be tied to a catalog
// product. RowIndex is the 1-based data row in the uploaded sheet.
type UnmatchedEntry struct {
	RowIndex       int      `json:"row_index"`
	ProductName    string   `json:"product_name"`
	Code           string   `json:"code"`
	Specifications string   `json:"specifications,omitempty"`
	Quantity       int      `json:"quantity"`
	Issues         []string `json:"issues,omitempty"`
}

// ReconciliationQueue holds the pending entries of the most recent import
// batch. An entry leaves the queue exactly once, when it is resolved or
// dismissed.
type ReconciliationQueue struct {
	batchID string
	entries []UnmatchedEntry
}

func NewReconciliationQueue(batchID string, entries []UnmatchedEntry) *ReconciliationQueue {
	q := &ReconciliationQueue{batchID: batchID}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.RowIndex] {
			continue
		}
		seen[e.RowIndex] = true
		q.entries = append(q.entries, e)
	}
	return q
}

func (q *ReconciliationQueue) BatchID() string {
	return q.batchID
}

func (q *ReconciliationQueue) Entries() []UnmatchedEntry {
	out := make([]UnmatchedEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *ReconciliationQueue) Len() int {
	return len(q.entries)
}

func (q *ReconciliationQueue) IsEmpty() bool {
	return len(q.entries) == 0
}

func (q *ReconciliationQueue) Get(rowIndex int) (UnmatchedEntry, bool) {
	for _, e := range q.entries {
		if e.RowIndex == rowIndex {
			return e, true
		}
	}
	return UnmatchedEntry{}, false
}

// Remove takes the entry out of the queue. It reports false when the entry
// was not pending.
func (q *ReconciliationQueue) Remove(rowIndex int) bool {
	for i, e := range q.entries {
		if e.RowIndex == rowIndex {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

type queueJSON struct {
	BatchID string           `json:"batch_id,omitempty"`
	Entries []UnmatchedEntry `json:"entries"`
}

func (q *ReconciliationQueue) MarshalJSON() ([]byte, error) {
	return json.Marshal(queueJSON{BatchID: q.batchID, Entries: q.Entries()})
}

func (q *ReconciliationQueue) UnmarshalJSON(data []byte) error {
	var raw queueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = *NewReconciliationQueue(raw.BatchID, raw.Entries)
	return nil
}
