package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	gin "github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/date"
)

const (
	keyHoldings    = "holdings"
	keySummary     = "summary"
	keyHistory     = "history:" // + window
	keySuggestions = "dividends"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
}

// fetchQuotes pulls one current quote per priced ticker, concurrently. A
// nil quote marks the ticker as unavailable; the valuation degrades softly.
func (s *Server) fetchQuotes(ctx context.Context, l *folio.Ledger) map[string]*folio.Quote {
	quotes := make(map[string]*folio.Quote)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for ticker := range l.Tickers() {
		if l.AssetTypeOf(ticker) == folio.Cash {
			continue
		}
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			q := s.Sources.Quotes.CurrentQuote(ctx, ticker)
			mu.Lock()
			quotes[ticker] = q
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()
	return quotes
}

// valuate runs one valuation pass against live quotes.
func (s *Server) valuate(ctx context.Context, l *folio.Ledger) ([]folio.Holding, folio.Summary) {
	quotes := s.fetchQuotes(ctx, l)
	holdings := folio.CurrentHoldings(ctx, l, quotes, s.Sources.Rates, s.cfg.Currency)
	if holdings == nil {
		holdings = []folio.Holding{}
	}
	return holdings, folio.PortfolioSummary(holdings, s.cfg.Currency)
}

// --- Handlers ---

func (s *Server) getHoldings(c *gin.Context) {
	if cached, ok := s.cache.Get(keyHoldings); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	holdings, summary := s.valuate(c.Request.Context(), s.Store.Ledger())
	s.cache.Set(keyHoldings, holdings)
	s.cache.Set(keySummary, summary)
	c.JSON(http.StatusOK, holdings)
}

func (s *Server) getSummary(c *gin.Context) {
	if cached, ok := s.cache.Get(keySummary); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	holdings, summary := s.valuate(c.Request.Context(), s.Store.Ledger())
	s.cache.Set(keyHoldings, holdings)
	s.cache.Set(keySummary, summary)
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getHistory(c *gin.Context) {
	raw := c.DefaultQuery("window", string(folio.Window1D))
	window, err := folio.ParseWindow(raw)
	if err != nil {
		s.badRequest(c, "invalid window (use 1d, 1w, 1m, 3m or 1y)")
		return
	}
	key := keyHistory + string(window)
	if cached, ok := s.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	series, err := s.aggregator.History(c.Request.Context(), s.Store.Ledger(), window)
	if err != nil {
		s.internalError(c, "History", err)
		return
	}
	s.cache.Set(key, series)
	c.JSON(http.StatusOK, series)
}

func (s *Server) getDividendSuggestions(c *gin.Context) {
	if cached, ok := s.cache.Get(keySuggestions); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	r := &folio.Reconciler{Dividends: s.Sources.Dividends, Rates: s.Sources.Rates, Reporting: s.cfg.Currency}
	suggestions := r.ScanForMissingDividends(c.Request.Context(), s.Store.Ledger())
	if suggestions == nil {
		suggestions = []folio.DividendSuggestion{}
	}
	s.cache.Set(keySuggestions, suggestions)
	c.JSON(http.StatusOK, suggestions)
}

// transactionRequest is the POST body recording a new transaction.
type transactionRequest struct {
	Kind     string  `json:"kind"` // trade (default) or dividend
	Date     string  `json:"date"`
	Ticker   string  `json:"ticker" binding:"required"`
	Asset    string  `json:"asset" binding:"required"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency" binding:"required"`
	Broker   string  `json:"broker"`
	Memo     string  `json:"memo"`
}

func (s *Server) postTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err.Error())
		return
	}
	on := date.Today()
	if req.Date != "" {
		var err error
		on, err = date.Parse(req.Date)
		if err != nil {
			s.badRequest(c, err.Error())
			return
		}
	}
	asset, err := folio.ParseAssetType(req.Asset)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}

	tx := folio.NewTrade(on, req.Ticker, folio.Q(req.Quantity), folio.M(req.Price, strings.ToUpper(req.Currency)), asset, req.Broker)
	if req.Kind == string(folio.DividendIncome) {
		tx.Kind = folio.DividendIncome
	}
	tx.Memo = req.Memo

	if err := s.Store.Append(tx); err != nil {
		// Validation failures are the client's problem; anything else is a
		// persistence failure on our side.
		var ierr *folio.IntegrityError
		if errors.As(err, &ierr) {
			s.badRequest(c, err.Error())
			return
		}
		s.internalError(c, "Append", err)
		return
	}
	s.cache.Invalidate()
	c.JSON(http.StatusCreated, tx)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id := c.Param("id")
	removed, err := s.Store.Delete(id)
	if err != nil {
		s.internalError(c, "Delete", err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: "no transaction with id " + id})
		return
	}
	s.cache.Invalidate()
	c.Status(http.StatusNoContent)
}
