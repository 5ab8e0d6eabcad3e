package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"stockview/internal/domain/models"
)

// fakeProvider serves canned quotes and candles, with optional scripted
// failures.
type fakeProvider struct {
	mu       sync.Mutex
	quotes   map[string]float64
	candles  map[string][]models.Candle
	failures int // fail this many calls before succeeding
	calls    int
}

func (p *fakeProvider) EquityDetails(ctx context.Context, symbol string) (*models.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failures > 0 {
		p.failures--
		return nil, errors.New("upstream unavailable")
	}
	price, ok := p.quotes[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &models.Quote{Symbol: symbol, LastPrice: price, AsOf: time.Now()}, nil
}

func (p *fakeProvider) DailyCandles(ctx context.Context, symbol string, days int) ([]models.Candle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failures > 0 {
		p.failures--
		return nil, errors.New("upstream unavailable")
	}
	return p.candles[symbol], nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fakeWishlistStore is an in-memory WishlistStore with optional injected
// errors and a call log for serialization assertions.
type fakeWishlistStore struct {
	mu      sync.Mutex
	data    map[string]map[string]models.WishlistEntry
	failAdd error
	log     []string
}

func newFakeWishlistStore() *fakeWishlistStore {
	return &fakeWishlistStore{data: make(map[string]map[string]models.WishlistEntry)}
}

func (s *fakeWishlistStore) List(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, "list:"+email)
	out := make([]models.WishlistEntry, 0, len(s.data[email]))
	for _, e := range s.data[email] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out, nil
}

func (s *fakeWishlistStore) Add(ctx context.Context, email string, entry models.WishlistEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, "add:"+email+":"+entry.StockID)
	if s.failAdd != nil {
		return false, s.failAdd
	}
	if s.data[email] == nil {
		s.data[email] = make(map[string]models.WishlistEntry)
	}
	if _, ok := s.data[email][entry.StockID]; ok {
		return false, nil
	}
	s.data[email][entry.StockID] = entry
	return true, nil
}

func (s *fakeWishlistStore) Remove(ctx context.Context, email, stockID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, "remove:"+email+":"+stockID)
	if _, ok := s.data[email][stockID]; !ok {
		return false, nil
	}
	delete(s.data[email], stockID)
	return true, nil
}

func (s *fakeWishlistStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// fakeAlertStore is an in-memory AlertStore keyed by (email, stockId).
type fakeAlertStore struct {
	mu   sync.Mutex
	data map[string]map[string]models.AlertRecord
	err  error
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{data: make(map[string]map[string]models.AlertRecord)}
}

func (s *fakeAlertStore) Upsert(ctx context.Context, rec models.AlertRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.data[rec.OwnerEmail] == nil {
		s.data[rec.OwnerEmail] = make(map[string]models.AlertRecord)
	}
	_, existed := s.data[rec.OwnerEmail][rec.StockID]
	s.data[rec.OwnerEmail][rec.StockID] = rec
	return !existed, nil
}

func (s *fakeAlertStore) ListFor(ctx context.Context, email string) ([]models.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.AlertRecord, 0, len(s.data[email]))
	for _, rec := range s.data[email] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out, nil
}

func (s *fakeAlertStore) ListForStock(ctx context.Context, stockID string) ([]models.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.AlertRecord
	for _, byStock := range s.data {
		if rec, ok := byStock[stockID]; ok {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerEmail < out[j].OwnerEmail })
	return out, nil
}

// fakeCandleStore is an in-memory CandleStore.
type fakeCandleStore struct {
	mu      sync.Mutex
	candles map[string][]models.Candle
	stores  int
}

func newFakeCandleStore() *fakeCandleStore {
	return &fakeCandleStore{candles: make(map[string][]models.Candle)}
}

func (s *fakeCandleStore) Store(ctx context.Context, candles []models.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	for _, c := range candles {
		s.candles[c.Symbol] = append(s.candles[c.Symbol], c)
	}
	return nil
}

func (s *fakeCandleStore) Query(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Candle
	for _, c := range s.candles[symbol] {
		if !c.Time.Before(from) && !c.Time.After(to) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (s *fakeCandleStore) LatestTime(ctx context.Context, symbol string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest time.Time
	for _, c := range s.candles[symbol] {
		if c.Time.After(latest) {
			latest = c.Time
		}
	}
	return latest, nil
}

func (s *fakeCandleStore) Health(ctx context.Context) error { return nil }

// fakePublisher records published events.
type fakePublisher struct {
	mu       sync.Mutex
	quotes   []models.Quote
	triggers []models.AlertTrigger
	err      error
}

func (p *fakePublisher) PublishQuote(ctx context.Context, q *models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.quotes = append(p.quotes, *q)
	return nil
}

func (p *fakePublisher) PublishTrigger(ctx context.Context, t *models.AlertTrigger) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.triggers = append(p.triggers, *t)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []models.AlertTrigger {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.AlertTrigger, len(p.triggers))
	copy(out, p.triggers)
	return out
}

func (p *fakePublisher) publishedQuotes() []models.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Quote, len(p.quotes))
	copy(out, p.quotes)
	return out
}

// fakeMetrics counts recorder calls by label.
type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (m *fakeMetrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *fakeMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *fakeMetrics) RecordQuoteFetch(symbol, result string)   { m.inc("fetch:" + result) }
func (m *fakeMetrics) RecordError(kind string)                  { m.inc("error:" + kind) }
func (m *fakeMetrics) RecordLastPrice(symbol string, _ float64) { m.inc("price:" + symbol) }
func (m *fakeMetrics) RecordSearch()                            { m.inc("search") }
func (m *fakeMetrics) RecordWishlistToggle(outcome string)      { m.inc("wishlist:" + outcome) }
func (m *fakeMetrics) RecordAlertUpsert(outcome string)         { m.inc("alert:" + outcome) }
func (m *fakeMetrics) RecordAlertTrigger(kind string)           { m.inc("trigger:" + kind) }
func (m *fakeMetrics) RecordLatency(op string, _ float64)       { m.inc("latency:" + op) }
