// Package server exposes the portfolio as a local JSON API, the backend of
// the browser dashboard.
package server

import (
	"context"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foliodash/folio"
)

// Sources bundles the market-data providers the API computes against.
type Sources struct {
	Quotes    folio.QuoteSource
	Series    folio.SeriesSource
	Rates     folio.RateSource
	Dividends folio.DividendSource
}

// Server is the HTTP API over one ledger store.
type Server struct {
	R       *gin.Engine
	Store   *Store
	Sources Sources
	Logger  *zap.Logger

	cfg        Config
	cache      *responseCache
	aggregator *folio.Aggregator
}

// NewServer wires the router, store, sources and middleware.
func NewServer(cfg Config, store *Store, sources Sources, logger *zap.Logger) (*Server, error) {
	cache, err := newResponseCache(cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	aggregator := folio.NewAggregator(sources.Series, sources.Rates, cfg.Currency, time.Local)
	aggregator.MarketOpenHour = cfg.MarketOpenHour

	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.String("ip", cn.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	// CORS. The dashboard is served from a file or a dev server, so the
	// API answers cross-origin by default.
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if cfg.CORSOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == cfg.CORSOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:          g,
		Store:      store,
		Sources:    sources,
		Logger:     logger,
		cfg:        cfg,
		cache:      cache,
		aggregator: aggregator,
	}

	g.GET("/healthz", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.GET("/api/holdings", s.getHoldings)
	g.GET("/api/summary", s.getSummary)
	g.GET("/api/history", s.getHistory)
	g.GET("/api/dividends/suggestions", s.getDividendSuggestions)
	g.POST("/api/transactions", s.postTransaction)
	g.DELETE("/api/transactions/:id", s.deleteTransaction)

	return s, nil
}

// Run serves the API until ctx is canceled, then shuts down gracefully. It
// also starts the background refresher keeping the cached views warm.
func (s *Server) Run(ctx context.Context) error {
	go s.refresh(ctx)

	server := &http.Server{Addr: ":" + s.cfg.Port, Handler: s.R}
	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("http listening", zap.String("port", s.cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutCtx)
}

// refresh recomputes the valuation views periodically so polling clients
// mostly hit a warm cache. A tick overlapping a slow in-flight request is
// benign: both compute from the same inputs and the last write wins.
func (s *Server) refresh(ctx context.Context) {
	if s.cfg.Refresh <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.Refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l := s.Store.Ledger()
			holdings, summary := s.valuate(ctx, l)
			s.cache.Set(keyHoldings, holdings)
			s.cache.Set(keySummary, summary)
		}
	}
}
