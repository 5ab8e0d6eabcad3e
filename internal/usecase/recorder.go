package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
)

// Alert outcome messages returned to clients.
const (
	MsgAlertCreated = "Alert created"
	MsgAlertUpdated = "Alert updated"
)

// AlertRecorder validates and persists alert records. Prices arrive as
// strings from the form and must parse to strictly positive numbers before
// anything is written.
type AlertRecorder struct {
	store   drepo.AlertStore
	metrics drepo.Metrics
	logger  *applogger.Logger
}

func NewAlertRecorder(store drepo.AlertStore, metrics drepo.Metrics, logger *applogger.Logger) *AlertRecorder {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &AlertRecorder{store: store, metrics: metrics, logger: logger}
}

// PriceError rejects a submitted price string. It maps to a 400 at the edge.
type PriceError struct {
	Field  string
	Reason string
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ParsePrice converts a submitted price string to a positive float.
func ParsePrice(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &PriceError{Field: field, Reason: "must be a number"}
	}
	if v <= 0 {
		return 0, &PriceError{Field: field, Reason: "must be greater than zero"}
	}
	return v, nil
}

// Record validates the request and upserts the (ownerEmail, stockId) record.
// The returned message distinguishes a first save from an overwrite.
func (r *AlertRecorder) Record(ctx context.Context, req models.AlertRequest) (string, error) {
	target, err := ParsePrice("targetPrice", req.Stock.TargetPrice)
	if err != nil {
		r.recordOutcome("rejected")
		return "", err
	}
	stopLoss, err := ParsePrice("stopLoss", req.Stock.StopLoss)
	if err != nil {
		r.recordOutcome("rejected")
		return "", err
	}

	rec := models.AlertRecord{
		OwnerName:   req.Name,
		OwnerEmail:  req.Email,
		StockID:     req.Stock.StockID,
		StockName:   req.Stock.StockName,
		TargetPrice: target,
		StopLoss:    stopLoss,
	}

	created, err := r.store.Upsert(ctx, rec)
	if err != nil {
		r.logger.Error("alert upsert failed",
			applogger.String("email", rec.OwnerEmail),
			applogger.String("stockId", rec.StockID),
			applogger.Error(err),
		)
		r.recordOutcome("failed")
		return "", fmt.Errorf("save alert: %w", err)
	}

	if created {
		r.recordOutcome("created")
		return MsgAlertCreated, nil
	}
	r.recordOutcome("updated")
	return MsgAlertUpdated, nil
}

// ListFor returns every alert the owner holds, ordered by stockId.
func (r *AlertRecorder) ListFor(ctx context.Context, email string) ([]models.AlertRecord, error) {
	if email == "" {
		return []models.AlertRecord{}, nil
	}
	recs, err := r.store.ListFor(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return recs, nil
}

// ForStock filters the owner's alerts down to one stockId.
func (r *AlertRecorder) ForStock(ctx context.Context, email, stockID string) (*models.AlertRecord, error) {
	recs, err := r.ListFor(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].StockID == stockID {
			return &recs[i], nil
		}
	}
	return nil, nil
}

func (r *AlertRecorder) recordOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordAlertUpsert(outcome)
	}
}
