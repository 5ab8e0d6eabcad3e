package usecase

import (
	"context"
	"testing"

	"stockview/internal/domain/models"
)

func alertRequest(email, stockID, target, stopLoss string) models.AlertRequest {
	req := models.AlertRequest{Name: "Asha", Email: email}
	req.Stock.StockID = stockID
	req.Stock.StockName = stockID + " Ltd"
	req.Stock.TargetPrice = target
	req.Stock.StopLoss = stopLoss
	return req
}

func TestRecorderCreatesThenUpdates(t *testing.T) {
	store := newFakeAlertStore()
	m := newFakeMetrics()
	r := NewAlertRecorder(store, m, nil)
	ctx := context.Background()

	msg, err := r.Record(ctx, alertRequest("a@b.c", "TCS", "4000", "3200"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if msg != MsgAlertCreated {
		t.Fatalf("message = %q, want %q", msg, MsgAlertCreated)
	}

	msg, err = r.Record(ctx, alertRequest("a@b.c", "TCS", "4100.50", "3300"))
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if msg != MsgAlertUpdated {
		t.Fatalf("message = %q, want %q", msg, MsgAlertUpdated)
	}

	// resubmission overwrote, never duplicated
	recs, err := r.ListFor(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record per (email, stockId), got %d", len(recs))
	}
	if recs[0].TargetPrice != 4100.50 || recs[0].StopLoss != 3300 {
		t.Fatalf("second submission did not win: %+v", recs[0])
	}
	if m.count("alert:created") != 1 || m.count("alert:updated") != 1 {
		t.Fatalf("outcome metrics wrong: created=%d updated=%d",
			m.count("alert:created"), m.count("alert:updated"))
	}
}

func TestRecorderSameStockDifferentOwners(t *testing.T) {
	store := newFakeAlertStore()
	r := NewAlertRecorder(store, nil, nil)
	ctx := context.Background()

	if msg, _ := r.Record(ctx, alertRequest("a@b.c", "TCS", "4000", "3200")); msg != MsgAlertCreated {
		t.Fatalf("first owner: %q", msg)
	}
	if msg, _ := r.Record(ctx, alertRequest("x@y.z", "TCS", "3900", "3100")); msg != MsgAlertCreated {
		t.Fatalf("second owner should create, not update: %q", msg)
	}
}

func TestRecorderRejectsBadPrices(t *testing.T) {
	store := newFakeAlertStore()
	m := newFakeMetrics()
	r := NewAlertRecorder(store, m, nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		target   string
		stopLoss string
	}{
		{"non numeric target", "abc", "3200"},
		{"non numeric stop loss", "4000", "12x"},
		{"zero target", "0", "3200"},
		{"negative stop loss", "4000", "-5"},
		{"empty target", "", "3200"},
	}
	for _, tc := range cases {
		if _, err := r.Record(ctx, alertRequest("a@b.c", "TCS", tc.target, tc.stopLoss)); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	// nothing was persisted
	recs, _ := r.ListFor(ctx, "a@b.c")
	if len(recs) != 0 {
		t.Fatalf("rejected submissions were stored: %+v", recs)
	}
	if m.count("alert:rejected") != len(cases) {
		t.Fatalf("rejections recorded = %d, want %d", m.count("alert:rejected"), len(cases))
	}
}

func TestRecorderForStock(t *testing.T) {
	store := newFakeAlertStore()
	r := NewAlertRecorder(store, nil, nil)
	ctx := context.Background()

	if _, err := r.Record(ctx, alertRequest("a@b.c", "TCS", "4000", "3200")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := r.Record(ctx, alertRequest("a@b.c", "PAYTM", "950", "800")); err != nil {
		t.Fatalf("record: %v", err)
	}

	rec, err := r.ForStock(ctx, "a@b.c", "PAYTM")
	if err != nil {
		t.Fatalf("for stock: %v", err)
	}
	if rec == nil || rec.TargetPrice != 950 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rec, err = r.ForStock(ctx, "a@b.c", "NDTV")
	if err != nil {
		t.Fatalf("for stock: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record for NDTV, got %+v", rec)
	}
}

func TestRecorderListForEmptyEmail(t *testing.T) {
	r := NewAlertRecorder(newFakeAlertStore(), nil, nil)
	recs, err := r.ListFor(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", recs)
	}
}
