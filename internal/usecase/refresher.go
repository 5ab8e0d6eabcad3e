package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
	"stockview/pkg/util"
)

// BoardQuote is one dashboard tile's view: the last confirmed price for the
// symbol plus whether a fetch is currently in flight.
type BoardQuote struct {
	Symbol    string    `json:"symbol"`
	LastPrice float64   `json:"lastPrice"`
	AsOf      time.Time `json:"asOf"`
	Busy      bool      `json:"busy"`
	Available bool      `json:"available"`
}

// DashboardRefresher keeps one Board per dashboard symbol and re-fetches them
// on a schedule. Every quote that lands on a board is published to the quote
// topic; a board whose fetch is still in flight is skipped, and a symbol that
// fails stays unavailable until the next cycle. One bad symbol never blocks
// the rest.
type DashboardRefresher struct {
	publisher drepo.QuotePublisher
	logger    *applogger.Logger
	symbols   []string
	boards    map[string]*Board
	interval  time.Duration

	cron *cron.Cron
}

func NewDashboardRefresher(fetcher *QuoteFetcher, publisher drepo.QuotePublisher, logger *applogger.Logger, symbols []string, interval time.Duration) *DashboardRefresher {
	if logger == nil {
		logger = applogger.Nop()
	}
	d := &DashboardRefresher{
		publisher: publisher,
		logger:    logger,
		boards:    make(map[string]*Board, len(symbols)),
		interval:  interval,
	}
	for _, s := range symbols {
		symbol := util.NormalizeSymbol(s)
		if _, ok := d.boards[symbol]; ok {
			continue
		}
		d.symbols = append(d.symbols, symbol)
		d.boards[symbol] = NewBoard(fetcher, WithBoardSink(d.publish))
	}
	return d
}

// Prime points every board at its symbol, starting the initial loads.
func (d *DashboardRefresher) Prime(ctx context.Context) {
	for _, symbol := range d.symbols {
		d.boards[symbol].SetSymbol(ctx, symbol)
	}
}

// Start kicks the initial loads and then schedules the periodic cycle.
func (d *DashboardRefresher) Start(ctx context.Context) error {
	d.Prime(ctx)

	c := cron.New()
	spec := fmt.Sprintf("@every %s", d.interval)
	if _, err := c.AddFunc(spec, func() { d.RefreshAll(ctx) }); err != nil {
		return fmt.Errorf("schedule dashboard refresh: %w", err)
	}
	c.Start()
	d.cron = c

	d.logger.Info("dashboard refresher started",
		applogger.Int("symbols", len(d.symbols)),
		applogger.String("interval", d.interval.String()),
	)
	return nil
}

// Stop halts the schedule and waits for a running cycle to finish.
func (d *DashboardRefresher) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
	d.logger.Info("dashboard refresher stopped")
}

// RefreshAll asks every board to re-fetch its symbol. Boards with a fetch
// already in flight are left alone. It returns the number of refreshes that
// actually started.
func (d *DashboardRefresher) RefreshAll(ctx context.Context) int {
	started := 0
	for _, symbol := range d.symbols {
		if d.boards[symbol].Refresh(ctx) {
			started++
		}
	}
	return started
}

// Quotes returns the current state of every dashboard board in configured
// order.
func (d *DashboardRefresher) Quotes() []BoardQuote {
	out := make([]BoardQuote, 0, len(d.symbols))
	for _, symbol := range d.symbols {
		quote, busy := d.boards[symbol].Quote()
		bq := BoardQuote{Symbol: symbol, Busy: busy}
		if quote != nil {
			bq.LastPrice = quote.LastPrice
			bq.AsOf = quote.AsOf
			bq.Available = true
		}
		out = append(out, bq)
	}
	return out
}

func (d *DashboardRefresher) publish(ctx context.Context, quote *models.Quote) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishQuote(ctx, quote); err != nil {
		d.logger.Error("quote publish failed",
			applogger.String("symbol", quote.Symbol),
			applogger.Error(err),
		)
	}
}

// Symbols returns the configured dashboard symbols.
func (d *DashboardRefresher) Symbols() []string {
	out := make([]string, len(d.symbols))
	copy(out, d.symbols)
	return out
}
