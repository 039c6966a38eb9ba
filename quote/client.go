package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/timeseries"
)

const userAgent = "folio/1.0"

// defaultBase is the chart endpoint every request is built on.
const defaultBase = "https://query2.finance.yahoo.com/v8/finance/chart/"

// Client is the quote source adapter. It owns its caches explicitly;
// nothing in this package keeps ambient global state.
type Client struct {
	http     *http.Client
	routes   []Route
	base     string
	miniBase string // optional mini-chart fallback endpoint
	quoteCur string // quote-currency suffix for bare crypto codes
	quotes   *cache // current quotes, short TTL
	rates    *cache // FX rates and daily histories, longer TTL
}

// Option configures a Client.
type Option func(*Client)

// WithRoutes replaces the access-route priority list.
func WithRoutes(routes ...Route) Option {
	return func(c *Client) { c.routes = routes }
}

// WithBaseURL points the client at a different chart endpoint. Tests use
// it with httptest servers.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithTimeout bounds every outbound request so one unresponsive proxy
// cannot stall a whole aggregation pass.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a Client reporting in the given quote currency.
func NewClient(quoteCurrency string, opts ...Option) (*Client, error) {
	quotes, err := newCache(time.Minute)
	if err != nil {
		return nil, err
	}
	rates, err := newCache(15 * time.Minute)
	if err != nil {
		return nil, err
	}
	c := &Client{
		http:     &http.Client{Timeout: 8 * time.Second},
		routes:   []Route{DirectRoute()},
		base:     defaultBase,
		quoteCur: quoteCurrency,
		quotes:   quotes,
		rates:    rates,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Currency returns the quote currency the client appends to bare crypto
// codes and converts mini-chart prices with.
func (c *Client) Currency() string { return c.quoteCur }

// chartPayload is the provider's chart response shape.
type chartPayload struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				MarketState        string  `json:"marketState"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// decodeChart parses a chart payload and normalizes its timestamps.
//
// This is the single normalization point of the whole program: the provider
// delivers seconds since epoch, everything downstream speaks milliseconds.
// No magnitude heuristics anywhere else.
func decodeChart(body []byte) (*chartPayload, error) {
	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(payload.Chart.Result) == 0 {
		if payload.Chart.Error != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, payload.Chart.Error)
		}
		return nil, ErrEmpty
	}
	r := &payload.Chart.Result[0]
	for i := range r.Timestamp {
		r.Timestamp[i] *= 1000
	}
	r.Meta.RegularMarketTime *= 1000
	for key, div := range r.Events.Dividends {
		div.Date *= 1000
		r.Events.Dividends[key] = div
	}
	return &payload, nil
}

func (c *Client) chartURL(symbol string, query url.Values) string {
	return c.base + url.PathEscape(symbol) + "?" + query.Encode()
}

// CurrentQuote fetches the latest quote for a ticker. It fails soft: any
// transport or parse problem yields nil so the valuation layer can skip
// the asset without aborting the pass.
func (c *Client) CurrentQuote(ctx context.Context, ticker string) *folio.Quote {
	symbol := FormatTicker(ticker, c.quoteCur)
	if cached, ok := c.quotes.get("q:" + symbol); ok {
		return cached.(*folio.Quote)
	}

	query := url.Values{"interval": {"1m"}, "range": {"1d"}}
	body, err := c.get(ctx, c.chartURL(symbol, query))
	if err != nil {
		log.Printf("quote: %s unavailable: %v", symbol, err)
		return c.miniChartFallback(ctx, ticker, symbol)
	}
	payload, err := decodeChart(body)
	if err != nil {
		log.Printf("quote: %s unavailable: %v", symbol, err)
		return c.miniChartFallback(ctx, ticker, symbol)
	}

	r := payload.Chart.Result[0]
	q := &folio.Quote{
		Ticker:        ticker,
		Price:         r.Meta.RegularMarketPrice,
		PreviousClose: r.Meta.PreviousClose,
		Currency:      r.Meta.Currency,
		Timestamp:     r.Meta.RegularMarketTime,
		MarketState:   r.Meta.MarketState,
	}
	// Fallback: last non-zero close when the meta block is hollow.
	if q.Price <= 0 && len(r.Timestamp) > 0 && len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] > 0 {
				q.Price = closes[i]
				q.Timestamp = r.Timestamp[i]
				break
			}
		}
	}
	if q.Price <= 0 {
		log.Printf("quote: %s has no usable price", symbol)
		return nil
	}
	c.quotes.set("q:"+symbol, q)
	return q
}

// HistoricalSeries fetches a sampled price series for [from, to] at the
// given interval, both bounds in milliseconds. All access routes are tried;
// when every one fails the result is an empty series, not an error, and
// that asset simply contributes nothing for the affected span.
func (c *Client) HistoricalSeries(ctx context.Context, ticker string, _ folio.AssetType, from, to int64, interval string) timeseries.Series {
	var out timeseries.Series
	symbol := FormatTicker(ticker, c.quoteCur)

	query := url.Values{
		"interval": {intervalFor(Classify(symbol), interval)},
		"period1":  {fmt.Sprint(from / 1000)},
		"period2":  {fmt.Sprint(to / 1000)},
	}
	body, err := c.get(ctx, c.chartURL(symbol, query))
	if err != nil {
		log.Printf("history: %s: %v", symbol, err)
		return out
	}
	payload, err := decodeChart(body)
	if err != nil {
		log.Printf("history: %s: %v", symbol, err)
		return out
	}

	r := payload.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return out
	}
	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) {
			break
		}
		if closes[i] <= 0 {
			continue // gap sample, absent by contract
		}
		out.Append(ts, closes[i])
	}
	return out
}

// sessionInterval coarsens the finest sampling for session-bound assets;
// the provider only samples them during trading hours, so sub-quarter-hour
// granularity just multiplies gaps.
var sessionInterval = map[string]string{"5m": "15m"}

func intervalFor(class AssetClass, interval string) string {
	if class == ClassCrypto {
		return interval // continuous assets keep the fine resolution
	}
	if coarser, ok := sessionInterval[interval]; ok {
		return coarser
	}
	return interval
}

// Continuous reports whether the ticker's symbol trades around the clock.
// The aggregator anchors such assets at midnight instead of market open.
func (c *Client) Continuous(ticker string) bool {
	return Classify(FormatTicker(ticker, c.quoteCur)) == ClassCrypto
}

// DividendHistory fetches the dividend events of a ticker between two days.
// A symbol without corporate actions yields an empty list, not an error.
func (c *Client) DividendHistory(ctx context.Context, ticker string, from, to date.Date) ([]folio.DividendEvent, error) {
	symbol := FormatTicker(ticker, c.quoteCur)
	query := url.Values{
		"interval": {"1d"},
		"period1":  {fmt.Sprint(from.At(0, 0, time.UTC).Unix())},
		"period2":  {fmt.Sprint(to.Add(1).At(0, 0, time.UTC).Unix())},
		"events":   {"div"},
	}
	body, err := c.get(ctx, c.chartURL(symbol, query))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmpty) {
			return nil, nil
		}
		return nil, err
	}
	payload, err := decodeChart(body)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmpty) {
			return nil, nil
		}
		return nil, err
	}

	var events []folio.DividendEvent
	for _, div := range payload.Chart.Result[0].Events.Dividends {
		events = append(events, folio.DividendEvent{
			ExDate:         date.FromUnixMilli(div.Date, time.UTC),
			AmountPerShare: div.Amount,
		})
	}
	return events, nil
}

// Rate returns the currently cached conversion rate: units of 'to' per one
// unit of 'from'. The rate is fetched like any quote, using the =X
// currency-pair pseudo-symbol, and cached by TTL.
func (c *Client) Rate(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	pair := from + to + "=X"
	if cached, ok := c.rates.get("r:" + pair); ok {
		return cached.(float64), true
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()

	body, err := c.get(ctx, c.chartURL(pair, url.Values{"interval": {"1h"}, "range": {"1d"}}))
	if err != nil {
		log.Printf("fx: %s unavailable: %v", pair, err)
		return 0, false
	}
	payload, err := decodeChart(body)
	if err != nil {
		log.Printf("fx: %s unavailable: %v", pair, err)
		return 0, false
	}
	rate := payload.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return 0, false
	}
	c.rates.set("r:"+pair, rate)
	return rate, true
}

// RateHistory returns the daily close series for a currency pair between
// two days. All failures degrade to an empty history.
func (c *Client) RateHistory(ctx context.Context, from, to string, fromDay, toDay date.Date) *date.History[float64] {
	var history date.History[float64]
	if from == to {
		return &history
	}
	pair := from + to + "=X"
	key := fmt.Sprintf("h:%s:%s:%s", pair, fromDay, toDay)
	if cached, ok := c.rates.get(key); ok {
		return cached.(*date.History[float64])
	}

	query := url.Values{
		"interval": {"1d"},
		"period1":  {fmt.Sprint(fromDay.At(0, 0, time.UTC).Unix())},
		"period2":  {fmt.Sprint(toDay.Add(1).At(0, 0, time.UTC).Unix())},
	}
	body, err := c.get(ctx, c.chartURL(pair, query))
	if err != nil {
		log.Printf("fx history: %s: %v", pair, err)
		return &history
	}
	payload, err := decodeChart(body)
	if err != nil {
		log.Printf("fx history: %s: %v", pair, err)
		return &history
	}
	r := payload.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return &history
	}
	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		history.Append(date.FromUnixMilli(ts, time.UTC), closes[i])
	}
	c.rates.set(key, &history)
	return &history
}
