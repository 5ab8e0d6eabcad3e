package models

import "time"

// Candle is one OHLC bucket of a symbol's daily history.
type Candle struct {
	Symbol string    `json:"-"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
}
