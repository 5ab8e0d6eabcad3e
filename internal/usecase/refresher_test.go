package usecase

import (
	"context"
	"testing"
	"time"
)

func TestRefresherPublishesEverySymbol(t *testing.T) {
	p := &fakeProvider{quotes: map[string]float64{"TCS": 3500, "PAYTM": 910}}
	pub := &fakePublisher{}
	f := NewQuoteFetcher(p, nil, nil, 1, 0)
	d := NewDashboardRefresher(f, pub, nil, []string{"tcs", "paytm"}, time.Minute)

	d.Prime(context.Background())

	waitFor(t, func() bool { return len(pub.publishedQuotes()) == 2 })

	seen := make(map[string]bool)
	for _, q := range pub.publishedQuotes() {
		seen[q.Symbol] = true
	}
	if !seen["TCS"] || !seen["PAYTM"] {
		t.Fatalf("symbols not normalized: %+v", pub.publishedQuotes())
	}
}

func TestRefresherSkipsFailedSymbols(t *testing.T) {
	// TCS resolves, NDTV does not; the cycle publishes what it can
	p := &fakeProvider{quotes: map[string]float64{"TCS": 3500}}
	pub := &fakePublisher{}
	f := NewQuoteFetcher(p, nil, nil, 1, 0)
	d := NewDashboardRefresher(f, pub, nil, []string{"NDTV", "TCS"}, time.Minute)

	d.Prime(context.Background())

	waitFor(t, func() bool { return len(pub.publishedQuotes()) == 1 })
	if got := pub.publishedQuotes(); got[0].Symbol != "TCS" {
		t.Fatalf("unexpected publishes: %+v", got)
	}

	quotes := d.Quotes()
	if len(quotes) != 2 {
		t.Fatalf("got %d board quotes, want 2", len(quotes))
	}
	waitFor(t, func() bool {
		for _, bq := range d.Quotes() {
			if bq.Symbol == "NDTV" && bq.Available {
				t.Fatalf("failed symbol reported available")
			}
			if bq.Symbol == "TCS" && bq.Available && bq.LastPrice == 3500 {
				return true
			}
		}
		return false
	})
}

func TestRefresherRefreshAllSkipsBusyBoards(t *testing.T) {
	block := make(chan struct{})
	p := &blockingProvider{price: 3500, unblock: block}
	pub := &fakePublisher{}
	f := NewQuoteFetcher(p, nil, nil, 1, 0)
	d := NewDashboardRefresher(f, pub, nil, []string{"TCS"}, time.Minute)

	d.Prime(context.Background())
	waitFor(t, func() bool { return p.started() })

	// the initial load is still in flight, so the cycle touches nothing
	if started := d.RefreshAll(context.Background()); started != 0 {
		t.Fatalf("cycle started %d refreshes with a fetch in flight, want 0", started)
	}

	close(block)
	waitFor(t, func() bool { return len(pub.publishedQuotes()) == 1 })

	if started := d.RefreshAll(context.Background()); started != 1 {
		t.Fatalf("cycle started %d refreshes after settling, want 1", started)
	}
	waitFor(t, func() bool { return len(pub.publishedQuotes()) == 2 })
}

func TestRefresherDeduplicatesSymbols(t *testing.T) {
	p := &fakeProvider{quotes: map[string]float64{"TCS": 3500}}
	f := NewQuoteFetcher(p, nil, nil, 1, 0)
	d := NewDashboardRefresher(f, nil, nil, []string{"TCS", "tcs", " TCS "}, time.Minute)

	if got := d.Symbols(); len(got) != 1 || got[0] != "TCS" {
		t.Fatalf("symbols = %v, want [TCS]", got)
	}
}
