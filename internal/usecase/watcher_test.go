package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"stockview/internal/domain/models"
)

func quoteEvent(t *testing.T, symbol string, price float64) []byte {
	t.Helper()
	b, err := json.Marshal(models.QuoteEvent{Symbol: symbol, LastPrice: price, T: 1700000000})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return b
}

func seedAlert(t *testing.T, store *fakeAlertStore, email, stockID string, target, stopLoss float64) {
	t.Helper()
	_, err := store.Upsert(context.Background(), models.AlertRecord{
		OwnerEmail:  email,
		StockID:     stockID,
		StockName:   stockID + " Ltd",
		TargetPrice: target,
		StopLoss:    stopLoss,
	})
	if err != nil {
		t.Fatalf("seed alert: %v", err)
	}
}

func TestWatcherFiresTargetTrigger(t *testing.T) {
	store := newFakeAlertStore()
	seedAlert(t, store, "a@b.c", "TCS", 4000, 3200)
	pub := &fakePublisher{}
	m := newFakeMetrics()
	w := NewAlertWatcher("quotes", store, pub, m, nil)

	if err := w.Handle(context.Background(), quoteEvent(t, "TCS", 4050)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	triggers := pub.published()
	if len(triggers) != 1 {
		t.Fatalf("got %d triggers, want 1", len(triggers))
	}
	tr := triggers[0]
	if tr.Kind != "target" || tr.Level != 4000 || tr.LastPrice != 4050 {
		t.Fatalf("unexpected trigger: %+v", tr)
	}
	if tr.OwnerEmail != "a@b.c" || tr.StockID != "TCS" {
		t.Fatalf("trigger routed wrong: %+v", tr)
	}
	if m.count("trigger:target") != 1 {
		t.Fatalf("trigger metric missing")
	}
}

func TestWatcherFiresStopLossTrigger(t *testing.T) {
	store := newFakeAlertStore()
	seedAlert(t, store, "a@b.c", "TCS", 4000, 3200)
	pub := &fakePublisher{}
	w := NewAlertWatcher("quotes", store, pub, nil, nil)

	if err := w.Handle(context.Background(), quoteEvent(t, "TCS", 3100)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	triggers := pub.published()
	if len(triggers) != 1 || triggers[0].Kind != "stop_loss" {
		t.Fatalf("unexpected triggers: %+v", triggers)
	}
}

func TestWatcherSilentBetweenLevels(t *testing.T) {
	store := newFakeAlertStore()
	seedAlert(t, store, "a@b.c", "TCS", 4000, 3200)
	pub := &fakePublisher{}
	w := NewAlertWatcher("quotes", store, pub, nil, nil)

	if err := w.Handle(context.Background(), quoteEvent(t, "TCS", 3600)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(pub.published()) != 0 {
		t.Fatalf("price inside the band must not trigger")
	}
}

func TestWatcherFansOutToEveryOwner(t *testing.T) {
	store := newFakeAlertStore()
	seedAlert(t, store, "a@b.c", "TCS", 4000, 3200)
	seedAlert(t, store, "x@y.z", "TCS", 4020, 3000)
	pub := &fakePublisher{}
	w := NewAlertWatcher("quotes", store, pub, nil, nil)

	if err := w.Handle(context.Background(), quoteEvent(t, "TCS", 4100)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(pub.published()) != 2 {
		t.Fatalf("got %d triggers, want one per owner", len(pub.published()))
	}
}

func TestWatcherDropsMalformedEvents(t *testing.T) {
	w := NewAlertWatcher("quotes", newFakeAlertStore(), &fakePublisher{}, nil, nil)
	if err := w.Handle(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("malformed event must not be retried: %v", err)
	}
}

func TestWatcherPropagatesPublishErrors(t *testing.T) {
	store := newFakeAlertStore()
	seedAlert(t, store, "a@b.c", "TCS", 4000, 3200)
	pub := &fakePublisher{err: context.DeadlineExceeded}
	w := NewAlertWatcher("quotes", store, pub, nil, nil)

	if err := w.Handle(context.Background(), quoteEvent(t, "TCS", 4100)); err == nil {
		t.Fatalf("publish failure should surface for the consumer to retry")
	}
}
