package nse

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	xhttp "stockview/pkg/http"
	"stockview/pkg/util"
)

// Client implements QuoteProvider against the exchange's public JSON API.
// The API rejects cookie-less requests, so the client warms up a session by
// hitting the landing page first and refreshes it when the upstream starts
// answering 401/403.
type Client struct {
	baseURL string
	http    *xhttp.Client

	mu       sync.Mutex
	warmedAt time.Time
}

const sessionTTL = 5 * time.Minute

// New creates a provider client.
func New(baseURL string, timeout time.Duration) drepo.QuoteProvider {
	return &Client{
		baseURL: baseURL,
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithCookieJar(),
		),
	}
}

type equityResponse struct {
	Info struct {
		Symbol      string `json:"symbol"`
		CompanyName string `json:"companyName"`
	} `json:"info"`
	PriceInfo struct {
		LastPrice     *float64 `json:"lastPrice"`
		Open          float64  `json:"open"`
		PreviousClose float64  `json:"previousClose"`
	} `json:"priceInfo"`
}

// EquityDetails fetches the current quote for one symbol. A response without
// a price is an error, not a zero quote; the caller decides how to degrade.
func (c *Client) EquityDetails(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = util.NormalizeSymbol(symbol)

	var resp equityResponse
	err := c.getJSON(ctx, "/api/quote-equity", map[string]string{"symbol": symbol}, &resp)
	if err != nil {
		return nil, fmt.Errorf("equity details %s: %w", symbol, err)
	}
	if resp.PriceInfo.LastPrice == nil {
		return nil, fmt.Errorf("equity details %s: no price in response", symbol)
	}

	return &models.Quote{
		Symbol:    symbol,
		LastPrice: *resp.PriceInfo.LastPrice,
		AsOf:      time.Now(),
	}, nil
}

type historicalResponse struct {
	Data []struct {
		Timestamp string  `json:"CH_TIMESTAMP"`
		Open      float64 `json:"CH_OPENING_PRICE"`
		High      float64 `json:"CH_TRADE_HIGH_PRICE"`
		Low       float64 `json:"CH_TRADE_LOW_PRICE"`
		Close     float64 `json:"CH_CLOSING_PRICE"`
	} `json:"data"`
}

// DailyCandles fetches up to days of daily OHLC history, oldest first.
func (c *Client) DailyCandles(ctx context.Context, symbol string, days int) ([]models.Candle, error) {
	symbol = util.NormalizeSymbol(symbol)
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	var resp historicalResponse
	err := c.getJSON(ctx, "/api/historical/cm/equity", map[string]string{
		"symbol": symbol,
		"from":   from.Format("02-01-2006"),
		"to":     to.Format("02-01-2006"),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("daily candles %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(resp.Data))
	for _, d := range resp.Data {
		ts, err := time.Parse("02-Jan-2006", d.Timestamp)
		if err != nil {
			// some rows come back ISO formatted
			ts, err = time.Parse("2006-01-02T15:04:05.000Z", d.Timestamp)
			if err != nil {
				continue
			}
		}
		candles = append(candles, models.Candle{
			Symbol: symbol,
			Time:   ts,
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, dest interface{}) error {
	if err := c.ensureSession(ctx, false); err != nil {
		return err
	}

	err := c.http.SendAndParse(ctx, c.request(path, params), dest)
	if isSessionRejected(err) {
		if err = c.ensureSession(ctx, true); err != nil {
			return err
		}
		err = c.http.SendAndParse(ctx, c.request(path, params), dest)
	}
	return err
}

func (c *Client) request(path string, params map[string]string) *xhttp.RequestOptions {
	return &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
		Headers:     browserHeaders(),
	}
}

// ensureSession refreshes the cookie session when it is stale or when force
// is set after an upstream rejection.
func (c *Client) ensureSession(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && time.Since(c.warmedAt) < sessionTTL {
		return nil
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL,
		Headers: browserHeaders(),
	})
	if err != nil {
		return fmt.Errorf("session warm-up: %w", err)
	}
	resp.Body.Close()

	c.warmedAt = time.Now()
	return nil
}

func isSessionRejected(err error) bool {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == 401 || se.Status == 403
}

// The upstream drops requests that do not look like a browser.
func browserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
