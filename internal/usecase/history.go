package usecase

import (
	"context"
	"fmt"
	"time"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
)

// HistoryService serves daily OHLC candles. ClickHouse is the fast path; a
// symbol whose stored history is missing or older than maxStale is refilled
// from the provider before serving.
type HistoryService struct {
	provider drepo.QuoteProvider
	store    drepo.CandleStore
	logger   *applogger.Logger
	days     int
	maxStale time.Duration
}

func NewHistoryService(provider drepo.QuoteProvider, store drepo.CandleStore, logger *applogger.Logger, days int, maxStale time.Duration) *HistoryService {
	if logger == nil {
		logger = applogger.Nop()
	}
	if days <= 0 {
		days = 365
	}
	if maxStale <= 0 {
		maxStale = 24 * time.Hour
	}
	return &HistoryService{
		provider: provider,
		store:    store,
		logger:   logger,
		days:     days,
		maxStale: maxStale,
	}
}

// Candles returns up to the configured window of daily candles for symbol,
// oldest first.
func (h *HistoryService) Candles(ctx context.Context, symbol string) ([]models.Candle, error) {
	now := time.Now()

	if err := h.ensureFresh(ctx, symbol, now); err != nil {
		return nil, err
	}

	from := now.AddDate(0, 0, -h.days)
	candles, err := h.store.Query(ctx, symbol, from, now)
	if err != nil {
		return nil, err
	}
	return candles, nil
}

func (h *HistoryService) ensureFresh(ctx context.Context, symbol string, now time.Time) error {
	latest, err := h.store.LatestTime(ctx, symbol)
	if err != nil {
		return fmt.Errorf("check history freshness: %w", err)
	}
	if !latest.IsZero() && now.Sub(latest) < h.maxStale {
		return nil
	}

	candles, err := h.provider.DailyCandles(ctx, symbol, h.days)
	if err != nil {
		if latest.IsZero() {
			return fmt.Errorf("fetch history %s: %w", symbol, err)
		}
		// serve the stale copy; the provider will be retried next request
		h.logger.Warn("history refresh failed, serving stored candles",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil
	}

	if err := h.store.Store(ctx, candles); err != nil {
		return fmt.Errorf("store history %s: %w", symbol, err)
	}
	h.logger.Info("history refreshed",
		applogger.String("symbol", symbol),
		applogger.Int("candles", len(candles)),
	)
	return nil
}
