package usecase

import (
	"context"
	"testing"
	"time"

	"stockview/internal/domain/models"
)

func dailyCandles(symbol string, days int, now time.Time) []models.Candle {
	out := make([]models.Candle, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		out = append(out, models.Candle{
			Symbol: symbol,
			Time:   day.Truncate(24 * time.Hour),
			Open:   100, High: 110, Low: 95, Close: 105,
		})
	}
	return out
}

func TestHistoryFetchesWhenEmpty(t *testing.T) {
	now := time.Now()
	p := &fakeProvider{candles: map[string][]models.Candle{
		"TCS": dailyCandles("TCS", 5, now),
	}}
	store := newFakeCandleStore()
	h := NewHistoryService(p, store, nil, 30, 24*time.Hour)

	candles, err := h.Candles(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("candles: %v", err)
	}
	if len(candles) != 5 {
		t.Fatalf("got %d candles, want 5", len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Time.Before(candles[i-1].Time) {
			t.Fatalf("candles out of order at %d", i)
		}
	}
	if store.stores != 1 {
		t.Fatalf("expected one store write, got %d", store.stores)
	}
}

func TestHistoryServesFreshFromStore(t *testing.T) {
	now := time.Now()
	store := newFakeCandleStore()
	if err := store.Store(context.Background(), dailyCandles("TCS", 5, now)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := &fakeProvider{}
	h := NewHistoryService(p, store, nil, 30, 24*time.Hour)

	candles, err := h.Candles(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("candles: %v", err)
	}
	if len(candles) != 5 {
		t.Fatalf("got %d candles, want 5", len(candles))
	}
	if p.callCount() != 0 {
		t.Fatalf("provider hit despite fresh store copy")
	}
}

func TestHistoryRefreshesStaleData(t *testing.T) {
	now := time.Now()
	store := newFakeCandleStore()
	// last stored bucket is three days old
	stale := dailyCandles("TCS", 2, now.AddDate(0, 0, -3))
	if err := store.Store(context.Background(), stale); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := &fakeProvider{candles: map[string][]models.Candle{
		"TCS": dailyCandles("TCS", 5, now),
	}}
	h := NewHistoryService(p, store, nil, 30, 24*time.Hour)

	if _, err := h.Candles(context.Background(), "TCS"); err != nil {
		t.Fatalf("candles: %v", err)
	}
	if p.callCount() != 1 {
		t.Fatalf("stale store should trigger a provider refresh")
	}
}

func TestHistoryServesStaleWhenProviderDown(t *testing.T) {
	now := time.Now()
	store := newFakeCandleStore()
	stale := dailyCandles("TCS", 4, now.AddDate(0, 0, -3))
	if err := store.Store(context.Background(), stale); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := &fakeProvider{failures: 100}
	h := NewHistoryService(p, store, nil, 30, 24*time.Hour)

	candles, err := h.Candles(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("stale copy should still be served: %v", err)
	}
	if len(candles) == 0 {
		t.Fatalf("expected the stored candles")
	}
}

func TestHistoryErrorsWhenNothingToServe(t *testing.T) {
	p := &fakeProvider{failures: 100}
	h := NewHistoryService(p, newFakeCandleStore(), nil, 30, 24*time.Hour)

	if _, err := h.Candles(context.Background(), "TCS"); err == nil {
		t.Fatalf("expected an error with no store copy and a dead provider")
	}
}
