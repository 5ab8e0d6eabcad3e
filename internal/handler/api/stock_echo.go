package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	"stockview/internal/service/directory"
	"stockview/internal/usecase"
	xhttp "stockview/pkg/http"
	applogger "stockview/pkg/logger"
)

// User-facing messages. The frontend string-matches these, so they are part
// of the wire contract.
const (
	MsgStockNotFound       = "Stock details not found"
	MsgAddedToWishlist     = "Added to wishlist"
	MsgRemovedFromWishlist = "Removed from wishlist"
)

// StockEchoHandler serves the stock API: details, history, search, the
// dashboard, wishlist and alerts.
type StockEchoHandler struct {
	dir         *directory.Directory
	fetcher     *usecase.QuoteFetcher
	history     *usecase.HistoryService
	recorder    *usecase.AlertRecorder
	reconciler  *usecase.WishlistReconciler
	refresher   *usecase.DashboardRefresher
	wishlist    drepo.WishlistStore
	candles     drepo.CandleStore
	searchLimit int
	logger      *applogger.Logger
}

func NewStockEchoHandler(
	dir *directory.Directory,
	fetcher *usecase.QuoteFetcher,
	history *usecase.HistoryService,
	recorder *usecase.AlertRecorder,
	reconciler *usecase.WishlistReconciler,
	refresher *usecase.DashboardRefresher,
	wishlist drepo.WishlistStore,
	candles drepo.CandleStore,
	searchLimit int,
	logger *applogger.Logger,
) *StockEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	if searchLimit <= 0 {
		searchLimit = directory.DefaultSearchLimit
	}
	return &StockEchoHandler{
		dir:         dir,
		fetcher:     fetcher,
		history:     history,
		recorder:    recorder,
		reconciler:  reconciler,
		refresher:   refresher,
		wishlist:    wishlist,
		candles:     candles,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

func (h *StockEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/stock")
	g.GET("/search", h.Search)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/dashboard/refresh", h.RefreshDashboard)
	g.GET("/graph/:symbol", h.Graph)
	g.POST("/alert", h.CreateAlert)
	g.GET("/alert/:email", h.ListAlerts)
	g.POST("/wishlist", h.AddToWishlist)
	g.POST("/wishlist/toggle", h.ToggleWishlist)
	g.GET("/wishlist/:email", h.ListWishlist)
	g.DELETE("/wishlist/:email/:stockId", h.RemoveFromWishlist)
	g.GET("/:symbol", h.Details)
}

// Details returns directory info plus the latest price for one symbol. A
// symbol the provider cannot price right now is a 404, not a stale answer.
func (h *StockEchoHandler) Details(c echo.Context) error {
	symbol := c.Param("symbol")

	quote := h.fetcher.Fetch(c.Request().Context(), symbol)
	if quote == nil {
		return xhttp.NotFoundResponse(c, MsgStockNotFound)
	}

	details := models.StockDetails{
		PriceInfo: models.PriceInfo{LastPrice: quote.LastPrice},
	}
	if sec, ok := h.dir.Find(symbol); ok {
		details.Info = &sec
	}
	return xhttp.SuccessResponse(c, details)
}

// Graph returns daily OHLC candles for the charting view.
func (h *StockEchoHandler) Graph(c echo.Context) error {
	symbol := c.Param("symbol")

	candles, err := h.history.Candles(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("candle history failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return xhttp.NotFoundResponse(c, MsgStockNotFound)
	}
	return xhttp.SuccessResponse(c, candles)
}

// Search runs the directory query for the typeahead, capped at the
// configured result limit.
func (h *StockEchoHandler) Search(c echo.Context) error {
	matches := h.dir.Search(c.QueryParam("q"), h.searchLimit)
	return xhttp.SuccessResponse(c, matches)
}

// Dashboard returns the current state of every dashboard board: last
// confirmed price per symbol plus whether a fetch is in flight.
func (h *StockEchoHandler) Dashboard(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.refresher.Quotes())
}

// RefreshDashboard starts an out-of-cycle refresh. Boards whose fetch is
// already in flight are skipped; the response says how many started.
func (h *StockEchoHandler) RefreshDashboard(c echo.Context) error {
	started := h.refresher.RefreshAll(c.Request().Context())
	return xhttp.SuccessResponse(c, map[string]int{"refreshing": started})
}

// CreateAlert validates and saves a price alert for (email, stockId).
func (h *StockEchoHandler) CreateAlert(c echo.Context) error {
	var req models.AlertRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	msg, err := h.recorder.Record(c.Request().Context(), req)
	if err != nil {
		var priceErr *usecase.PriceError
		if errors.As(err, &priceErr) {
			return xhttp.BadRequestMessage(c, priceErr.Error())
		}
		return xhttp.InternalServerErrorResponse(c, "")
	}
	return xhttp.MessageOK(c, msg)
}

// ListAlerts returns every alert the owner holds.
func (h *StockEchoHandler) ListAlerts(c echo.Context) error {
	recs, err := h.recorder.ListFor(c.Request().Context(), c.Param("email"))
	if err != nil {
		return xhttp.InternalServerErrorResponse(c, "")
	}
	return xhttp.SuccessResponse(c, recs)
}

// AddToWishlist inserts (email, stockId); re-adding an existing entry is a
// no-op that still confirms.
func (h *StockEchoHandler) AddToWishlist(c echo.Context) error {
	var req models.WishlistAddRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	entry := models.WishlistEntry{StockID: req.Stock.StockID, StockName: req.Stock.StockName}
	if _, err := h.wishlist.Add(c.Request().Context(), req.Email, entry); err != nil {
		h.logger.Error("wishlist add failed",
			applogger.String("email", req.Email),
			applogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c, "")
	}
	return xhttp.MessageOK(c, MsgAddedToWishlist)
}

// ToggleWishlist flips membership through the reconciler: present entries
// come off, absent ones go on, and the response reflects the confirmed
// server state after the round-trip.
func (h *StockEchoHandler) ToggleWishlist(c echo.Context) error {
	var req models.WishlistAddRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	sec := models.Security{SecurityID: req.Stock.StockID, IssuerName: req.Stock.StockName}
	if got := h.reconciler.Toggle(c.Request().Context(), req.Email, sec); got == usecase.MembershipOn {
		return xhttp.MessageOK(c, MsgAddedToWishlist)
	}
	return xhttp.MessageOK(c, MsgRemovedFromWishlist)
}

// ListWishlist returns the owner's entries ordered by stockId.
func (h *StockEchoHandler) ListWishlist(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return xhttp.SuccessResponse(c, []models.WishlistEntry{})
	}
	entries, err := h.wishlist.List(c.Request().Context(), email)
	if err != nil {
		return xhttp.InternalServerErrorResponse(c, "")
	}
	return xhttp.SuccessResponse(c, entries)
}

// RemoveFromWishlist deletes (email, stockId).
func (h *StockEchoHandler) RemoveFromWishlist(c echo.Context) error {
	email := c.Param("email")
	stockID := c.Param("stockId")
	if email == "" || stockID == "" {
		return xhttp.BadRequestMessage(c, "email and stockId are required")
	}

	if _, err := h.wishlist.Remove(c.Request().Context(), email, stockID); err != nil {
		h.logger.Error("wishlist remove failed",
			applogger.String("email", email),
			applogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c, "")
	}
	return xhttp.MessageOK(c, MsgRemovedFromWishlist)
}

// Health reports process liveness plus the candle store's reachability.
func (h *StockEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.candles != nil {
		if err := h.candles.Health(c.Request().Context()); err != nil {
			status["clickhouse"] = "unreachable"
		} else {
			status["clickhouse"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}
