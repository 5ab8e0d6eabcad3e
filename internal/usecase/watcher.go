package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	applogger "stockview/pkg/logger"
)

// AlertWatcher consumes quote events and emits a trigger for every alert
// whose target or stop-loss level the quote crosses. A trigger is published
// at most once per incoming quote; re-arming is left to the notification
// layer downstream.
type AlertWatcher struct {
	topic     string
	alerts    drepo.AlertStore
	publisher drepo.QuotePublisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
}

func NewAlertWatcher(topic string, alerts drepo.AlertStore, publisher drepo.QuotePublisher, metrics drepo.Metrics, logger *applogger.Logger) *AlertWatcher {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &AlertWatcher{
		topic:     topic,
		alerts:    alerts,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Topic returns the quote topic this watcher subscribes to.
func (w *AlertWatcher) Topic() string {
	return w.topic
}

// Handle decodes one quote event and evaluates every alert registered for
// its symbol.
func (w *AlertWatcher) Handle(ctx context.Context, data []byte) error {
	var event models.QuoteEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// malformed events are dropped, not retried
		w.logger.Warn("bad quote event", applogger.Error(err))
		return nil
	}

	recs, err := w.alerts.ListForStock(ctx, event.Symbol)
	if err != nil {
		return fmt.Errorf("alerts for %s: %w", event.Symbol, err)
	}

	for _, rec := range recs {
		if kind, level, hit := evaluate(rec, event.LastPrice); hit {
			trigger := &models.AlertTrigger{
				OwnerEmail: rec.OwnerEmail,
				StockID:    rec.StockID,
				StockName:  rec.StockName,
				Kind:       kind,
				Level:      level,
				LastPrice:  event.LastPrice,
				T:          event.T,
			}
			if err := w.publisher.PublishTrigger(ctx, trigger); err != nil {
				return fmt.Errorf("trigger %s/%s: %w", rec.OwnerEmail, rec.StockID, err)
			}
			if w.metrics != nil {
				w.metrics.RecordAlertTrigger(kind)
			}
			w.logger.Info("alert triggered",
				applogger.String("email", rec.OwnerEmail),
				applogger.String("stockId", rec.StockID),
				applogger.String("kind", kind),
				applogger.Float64("level", level),
				applogger.Float64("lastPrice", event.LastPrice),
			)
		}
	}
	return nil
}

// evaluate decides whether lastPrice crosses either alert level. Target wins
// when both would fire on the same quote.
func evaluate(rec models.AlertRecord, lastPrice float64) (kind string, level float64, hit bool) {
	if lastPrice >= rec.TargetPrice {
		return "target", rec.TargetPrice, true
	}
	if lastPrice <= rec.StopLoss {
		return "stop_loss", rec.StopLoss, true
	}
	return "", 0, false
}
