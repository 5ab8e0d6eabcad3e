package models

import "time"

// Quote is the last traded price for a symbol at fetch time. Ephemeral:
// overwritten on every fetch, never persisted.
type Quote struct {
	Symbol    string    `json:"symbol"`
	LastPrice float64   `json:"lastPrice"`
	AsOf      time.Time `json:"asOf"`
}

// QuoteEvent is the wire form published to the quotes topic on each
// dashboard refresh cycle.
type QuoteEvent struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"lastPrice"`
	T         int64   `json:"t"` // unix seconds
}

// PriceInfo mirrors the provider's priceInfo block; it is also the shape the
// frontend reads from GET /stock/{symbol}.
type PriceInfo struct {
	LastPrice     float64 `json:"lastPrice"`
	Open          float64 `json:"open,omitempty"`
	PreviousClose float64 `json:"previousClose,omitempty"`
	Change        float64 `json:"change,omitempty"`
}

// StockDetails is the GET /stock/{symbol} payload: directory info plus the
// latest price block.
type StockDetails struct {
	Info      *Security `json:"info,omitempty"`
	PriceInfo PriceInfo `json:"priceInfo"`
}
