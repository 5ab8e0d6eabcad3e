package repository

import (
	"context"
	"time"

	"stockview/internal/domain/models"
)

// QuoteProvider is the upstream exchange data source. Errors cross this
// boundary; callers are responsible for converting them to an unavailable
// state.
type QuoteProvider interface {
	EquityDetails(ctx context.Context, symbol string) (*models.Quote, error)
	DailyCandles(ctx context.Context, symbol string, days int) ([]models.Candle, error)
}

// WishlistStore holds per-owner wishlist collections. Add reports whether the
// entry was actually inserted (false when stockId was already present);
// Remove reports whether anything was deleted.
type WishlistStore interface {
	List(ctx context.Context, email string) ([]models.WishlistEntry, error)
	Add(ctx context.Context, email string, entry models.WishlistEntry) (bool, error)
	Remove(ctx context.Context, email, stockID string) (bool, error)
}

// AlertStore upserts alert records keyed by (ownerEmail, stockId). Upsert
// reports whether the record was newly created.
type AlertStore interface {
	Upsert(ctx context.Context, rec models.AlertRecord) (bool, error)
	ListFor(ctx context.Context, email string) ([]models.AlertRecord, error)
	ListForStock(ctx context.Context, stockID string) ([]models.AlertRecord, error)
}

// CandleStore persists and serves daily OHLC history.
type CandleStore interface {
	Store(ctx context.Context, candles []models.Candle) error
	Query(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
	LatestTime(ctx context.Context, symbol string) (time.Time, error)
	Health(ctx context.Context) error
}

// QuotePublisher emits quote and trigger events for downstream consumers.
type QuotePublisher interface {
	PublishQuote(ctx context.Context, q *models.Quote) error
	PublishTrigger(ctx context.Context, t *models.AlertTrigger) error
	Close() error
}

// Metrics abstracts the Prometheus recorder for use cases.
type Metrics interface {
	RecordQuoteFetch(symbol, result string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordSearch()
	RecordWishlistToggle(outcome string)
	RecordAlertUpsert(outcome string)
	RecordAlertTrigger(kind string)
	RecordLatency(op string, seconds float64)
}
