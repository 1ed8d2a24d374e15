package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

// DraftStore keeps workbenches between requests. Get returns nil, nil when
// no draft exists or it has expired.
type DraftStore interface {
	Get(ctx context.Context, quotationID string) (*domain.Workbench, error)
	Save(ctx context.Context, wb *domain.Workbench) error
	Delete(ctx context.Context, quotationID string) error
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{client: client, ttl: ttl}
}

func draftKey(quotationID string) string {
	return fmt.Sprintf("quotation:draft:%s", quotationID)
}

func (s *redisDraftStore) Get(ctx context.Context, quotationID string) (*domain.Workbench, error) {
	data, err := s.client.Get(ctx, draftKey(quotationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var wb domain.Workbench
	if err := json.Unmarshal(data, &wb); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", quotationID, err)
	}
	if wb.Ledger == nil {
		wb.Ledger = domain.NewLedger()
	}
	if wb.Queue == nil {
		wb.Queue = domain.NewReconciliationQueue("", nil)
	}
	return &wb, nil
}

func (s *redisDraftStore) Save(ctx context.Context, wb *domain.Workbench) error {
	data, err := json.Marshal(wb)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(wb.QuotationID), data, s.ttl).Err()
}

func (s *redisDraftStore) Delete(ctx context.Context, quotationID string) error {
	return s.client.Del(ctx, draftKey(quotationID)).Err()
}
