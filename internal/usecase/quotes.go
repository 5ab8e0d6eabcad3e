package usecase

import (
	"context"
	"sync"
	"time"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
	"stockview/pkg/util"
)

// QuoteFetcher resolves a symbol to a price or an unavailable state. It never
// lets a provider or transport error escape: failures come back as a nil
// quote. Retries are capped with a fixed delay; after the cap the terminal
// state is unavailable, not a hung loop.
type QuoteFetcher struct {
	provider    drepo.QuoteProvider
	metrics     drepo.Metrics
	logger      *applogger.Logger
	maxAttempts int
	retryDelay  time.Duration
}

func NewQuoteFetcher(provider drepo.QuoteProvider, metrics drepo.Metrics, logger *applogger.Logger, maxAttempts int, retryDelay time.Duration) *QuoteFetcher {
	if logger == nil {
		logger = applogger.Nop()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &QuoteFetcher{
		provider:    provider,
		metrics:     metrics,
		logger:      logger,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Fetch returns the quote for symbol, or nil when the provider could not
// produce a priced response within the attempt cap.
func (f *QuoteFetcher) Fetch(ctx context.Context, symbol string) *models.Quote {
	symbol = util.NormalizeSymbol(symbol)
	start := time.Now()

	var quote *models.Quote
	err := util.Retry(ctx, f.maxAttempts, f.retryDelay, func() error {
		q, err := f.provider.EquityDetails(ctx, symbol)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})

	if f.metrics != nil {
		f.metrics.RecordLatency("quote_fetch", time.Since(start).Seconds())
	}

	if err != nil {
		f.logger.Warn("quote unavailable",
			applogger.String("symbol", symbol),
			applogger.Int("attempts", f.maxAttempts),
			applogger.Error(err),
		)
		if f.metrics != nil {
			f.metrics.RecordQuoteFetch(symbol, "unavailable")
			f.metrics.RecordError("quote_fetch")
		}
		return nil
	}

	if f.metrics != nil {
		f.metrics.RecordQuoteFetch(symbol, "ok")
		f.metrics.RecordLastPrice(symbol, quote.LastPrice)
	}
	return quote
}

// Board is one symbol view's price state. Changing the symbol discards the
// previous quote immediately and bumps an epoch token; a fetch that resolves
// for a superseded symbol can never overwrite the new symbol's display.
type Board struct {
	fetcher *QuoteFetcher
	sink    func(context.Context, *models.Quote)

	mu     sync.Mutex
	symbol string
	epoch  uint64
	quote  *models.Quote
	busy   bool
}

// BoardOption configures Board.
type BoardOption func(*Board)

// WithBoardSink registers a callback for every quote that lands and survives
// the epoch check. Superseded or failed fetches never reach the sink.
func WithBoardSink(fn func(context.Context, *models.Quote)) BoardOption {
	return func(b *Board) {
		b.sink = fn
	}
}

func NewBoard(fetcher *QuoteFetcher, opts ...BoardOption) *Board {
	b := &Board{fetcher: fetcher}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSymbol switches the board to a new symbol. The displayed quote resets
// to unavailable before any fetch begins, and an initial load is started.
func (b *Board) SetSymbol(ctx context.Context, symbol string) {
	symbol = util.NormalizeSymbol(symbol)

	b.mu.Lock()
	b.symbol = symbol
	b.epoch++
	b.quote = nil // stale price must never survive a symbol change
	b.busy = false
	epoch := b.epoch
	b.mu.Unlock()

	go b.load(ctx, symbol, epoch)
}

// Refresh re-fetches the current symbol. It reports false when a fetch is
// already in flight (the busy indicator is already spinning) or no symbol is
// selected.
func (b *Board) Refresh(ctx context.Context) bool {
	b.mu.Lock()
	if b.symbol == "" || b.busy {
		b.mu.Unlock()
		return false
	}
	symbol, epoch := b.symbol, b.epoch
	b.mu.Unlock()

	go b.load(ctx, symbol, epoch)
	return true
}

func (b *Board) load(ctx context.Context, symbol string, epoch uint64) {
	b.mu.Lock()
	if epoch != b.epoch {
		b.mu.Unlock()
		return
	}
	b.busy = true
	b.mu.Unlock()

	quote := b.fetcher.Fetch(ctx, symbol)

	b.mu.Lock()
	if epoch != b.epoch {
		// the view moved on while we were fetching; drop the result
		b.mu.Unlock()
		return
	}
	b.quote = quote
	b.busy = false
	b.mu.Unlock()

	if b.sink != nil && quote != nil {
		b.sink(ctx, quote)
	}
}

// Quote returns the current quote (nil = unavailable / loading) and whether
// a manual refresh is in flight.
func (b *Board) Quote() (*models.Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quote, b.busy
}

// Symbol returns the currently selected symbol.
func (b *Board) Symbol() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.symbol
}
