package models

// AlertRecord is a target-price/stop-loss pair for (ownerEmail, stockId).
// At most one record exists per key; resubmission overwrites the prices.
type AlertRecord struct {
	OwnerName   string  `json:"ownerName"`
	OwnerEmail  string  `json:"ownerEmail"`
	StockID     string  `json:"stockId"`
	StockName   string  `json:"stockName"`
	TargetPrice float64 `json:"targetPrice"`
	StopLoss    float64 `json:"stopLoss"`
}

// AlertRequest is the POST /stock/alert body.
type AlertRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Stock struct {
		StockID     string `json:"stockId" validate:"required"`
		StockName   string `json:"stockName" validate:"required"`
		TargetPrice string `json:"targetPrice" validate:"required"`
		StopLoss    string `json:"stopLoss" validate:"required"`
	} `json:"stock" validate:"required"`
}

// AlertTrigger is published to the trigger topic when a quote crosses an
// alert level. Notification delivery is downstream of this subsystem.
type AlertTrigger struct {
	OwnerEmail string  `json:"ownerEmail"`
	StockID    string  `json:"stockId"`
	StockName  string  `json:"stockName"`
	Kind       string  `json:"kind"` // target or stop_loss
	Level      float64 `json:"level"`
	LastPrice  float64 `json:"lastPrice"`
	T          int64   `json:"t"` // unix seconds
}
