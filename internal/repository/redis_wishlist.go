package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"stockview/internal/domain/models"
	"stockview/pkg/cache"
)

// RedisWishlistStore keeps one hash per owner: wishlist:{email} with one
// field per stockId. HSetNX gives the per-owner uniqueness invariant for
// free; HDel removes at most the one addressed field.
type RedisWishlistStore struct {
	store cache.Store
}

func NewRedisWishlistStore(store cache.Store) *RedisWishlistStore {
	return &RedisWishlistStore{store: store}
}

func wishlistKey(email string) string {
	return fmt.Sprintf("wishlist:%s", email)
}

func (s *RedisWishlistStore) List(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	fields, err := s.store.HGetAll(ctx, wishlistKey(email))
	if err != nil {
		return nil, fmt.Errorf("wishlist list: %w", err)
	}

	entries := make([]models.WishlistEntry, 0, len(fields))
	for _, raw := range fields {
		var e models.WishlistEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue // skip corrupt field, do not fail the whole list
		}
		entries = append(entries, e)
	}
	// hash iteration order is arbitrary; keep the response stable
	sort.Slice(entries, func(i, j int) bool { return entries[i].StockID < entries[j].StockID })
	return entries, nil
}

func (s *RedisWishlistStore) Add(ctx context.Context, email string, entry models.WishlistEntry) (bool, error) {
	added, err := s.store.HSetNX(ctx, wishlistKey(email), entry.StockID, entry)
	if err != nil {
		return false, fmt.Errorf("wishlist add: %w", err)
	}
	return added, nil
}

func (s *RedisWishlistStore) Remove(ctx context.Context, email, stockID string) (bool, error) {
	n, err := s.store.HDel(ctx, wishlistKey(email), stockID)
	if err != nil {
		return false, fmt.Errorf("wishlist remove: %w", err)
	}
	return n > 0, nil
}
