package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockview/internal/domain/models"
	applogger "stockview/pkg/logger"
)

// CHCandleStore implements CandleStore backed by ClickHouse.
type CHCandleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHCandleStore(db *sql.DB, table string) *CHCandleStore {
	return &CHCandleStore{db: db, table: table, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

// Schema returns the idempotent DDL for the candle table.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			symbol String,
			t      DateTime,
			open   Float64,
			high   Float64,
			low    Float64,
			close  Float64
		) ENGINE = ReplacingMergeTree ORDER BY (symbol, t)`, table),
	}
}

func (s *CHCandleStore) Store(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s (symbol, t, open, high, low, close) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Time, c.Open, c.High, c.Low, c.Close); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	s.l.Debug("clickhouse candles stored",
		applogger.String("symbol", candles[0].Symbol),
		applogger.Int("rows", len(candles)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHCandleStore) Query(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	q := fmt.Sprintf(`
        SELECT symbol, t, open, high, low, close
        FROM %s
        WHERE symbol = ? AND t >= ? AND t <= ?
        ORDER BY t ASC
    `, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.l.Error("clickhouse candle query error",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 512)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Symbol, &c.Time, &c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// LatestTime returns the newest stored bucket for a symbol, or the zero time
// when nothing is stored yet.
func (s *CHCandleStore) LatestTime(ctx context.Context, symbol string) (time.Time, error) {
	q := fmt.Sprintf("SELECT max(t) FROM %s WHERE symbol = ?", s.table)

	var latest sql.NullTime
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest candle time: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}

func (s *CHCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
