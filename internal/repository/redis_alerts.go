package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"stockview/internal/domain/models"
	"stockview/pkg/cache"
)

// RedisAlertStore keeps one hash per owner: alert:{email} with one field per
// stockId, so a resubmission for the same key overwrites in place. A reverse
// index set alertidx:{stockId} -> emails serves the per-symbol lookup the
// trigger watcher needs.
type RedisAlertStore struct {
	store cache.Store
}

func NewRedisAlertStore(store cache.Store) *RedisAlertStore {
	return &RedisAlertStore{store: store}
}

func alertKey(email string) string {
	return fmt.Sprintf("alert:%s", email)
}

func alertIndexKey(stockID string) string {
	return fmt.Sprintf("alertidx:%s", stockID)
}

// Upsert writes the record and reports whether it was newly created.
// Creation is detected with a single HSETNX, so concurrent first submissions
// for the same (email, stockId) resolve to exactly one creation.
func (s *RedisAlertStore) Upsert(ctx context.Context, rec models.AlertRecord) (bool, error) {
	key := alertKey(rec.OwnerEmail)

	created, err := s.store.HSetNX(ctx, key, rec.StockID, rec)
	if err != nil {
		return false, fmt.Errorf("alert upsert: %w", err)
	}
	if !created {
		if err := s.store.HSet(ctx, key, rec.StockID, rec); err != nil {
			return false, fmt.Errorf("alert upsert: %w", err)
		}
	}
	if err := s.store.SAdd(ctx, alertIndexKey(rec.StockID), rec.OwnerEmail); err != nil {
		return false, fmt.Errorf("alert index: %w", err)
	}
	return created, nil
}

func (s *RedisAlertStore) ListFor(ctx context.Context, email string) ([]models.AlertRecord, error) {
	fields, err := s.store.HGetAll(ctx, alertKey(email))
	if err != nil {
		return nil, fmt.Errorf("alert list: %w", err)
	}

	records := make([]models.AlertRecord, 0, len(fields))
	for _, raw := range fields {
		var r models.AlertRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StockID < records[j].StockID })
	return records, nil
}

func (s *RedisAlertStore) ListForStock(ctx context.Context, stockID string) ([]models.AlertRecord, error) {
	emails, err := s.store.SMembers(ctx, alertIndexKey(stockID))
	if err != nil {
		return nil, fmt.Errorf("alert index members: %w", err)
	}

	records := make([]models.AlertRecord, 0, len(emails))
	for _, email := range emails {
		var r models.AlertRecord
		err := s.store.HGet(ctx, alertKey(email), stockID, &r)
		if errors.Is(err, cache.ErrMiss) {
			// stale index member, drop it opportunistically
			_ = s.store.SRem(ctx, alertIndexKey(stockID), email)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("alert fetch %s/%s: %w", email, stockID, err)
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].OwnerEmail < records[j].OwnerEmail })
	return records, nil
}
