package folio

import (
	"context"

	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/timeseries"
)

// This file defines the contracts the computation layer has with the quote
// provider boundary. The quote package implements them; tests use fakes.

// Quote is a transient snapshot of a traded asset. It is superseded
// wholesale on refresh, never merged field by field.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Currency      string  `json:"currency"`
	Timestamp     int64   `json:"timestamp"` // milliseconds since epoch, UTC
	MarketState   string  `json:"marketState"`
}

// DividendEvent is a single corporate-action payment.
type DividendEvent struct {
	ExDate         date.Date
	AmountPerShare float64
}

// QuoteSource provides current quotes. A nil quote means "unavailable":
// transport and parse failures are recovered at the adapter boundary so a
// single bad asset never aborts a valuation pass.
type QuoteSource interface {
	CurrentQuote(ctx context.Context, ticker string) *Quote
}

// SeriesSource provides historical price series. An empty series means all
// access routes failed; the caller degrades to a zero contribution.
// Timestamps in the returned series are milliseconds since epoch.
type SeriesSource interface {
	HistoricalSeries(ctx context.Context, ticker string, asset AssetType, from, to int64, interval string) timeseries.Series
}

// DividendSource provides a ticker's dividend payment history.
// A ticker without corporate actions yields an empty list, not an error.
type DividendSource interface {
	DividendHistory(ctx context.Context, ticker string, from, to date.Date) ([]DividendEvent, error)
}

// CalendarSource reports a ticker's trading calendar: continuous assets
// trade around the clock, everything else is session-bound. The quote
// package derives this from its symbol classification; when the source does
// not implement it, the aggregator falls back on the ledger's asset type.
type CalendarSource interface {
	Continuous(ticker string) bool
}

// RateSource provides currency conversion rates.
type RateSource interface {
	// Rate returns the currently cached rate: units of 'to' per 1 'from'.
	Rate(from, to string) (float64, bool)
	// RateHistory returns the daily close series for the pair.
	RateHistory(ctx context.Context, from, to string, fromDay, toDay date.Date) *date.History[float64]
}
