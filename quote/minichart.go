package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/PaesslerAG/jsonpath"

	"github.com/foliodash/folio"
)

// Last-resort quote source: a lightweight mini-chart endpoint some proxies
// expose when the full chart payload is blocked. The payload is a loosely
// shaped intraday series; jsonpath digs out the latest sample.
//
//	{"series": {"intraday": {"data": [[1756706400, 101.2], ...]}}}

// WithMiniChartURL enables the mini-chart fallback. The symbol is appended
// to the base as a query-escaped suffix.
func WithMiniChartURL(base string) Option {
	return func(c *Client) { c.miniBase = base }
}

func (c *Client) miniChartFallback(ctx context.Context, ticker, symbol string) *folio.Quote {
	if c.miniBase == "" {
		return nil
	}
	body, err := c.get(ctx, c.miniBase+url.QueryEscape(symbol))
	if err != nil {
		log.Printf("minichart: %s: %v", symbol, err)
		return nil
	}

	price, err := miniChartLatest(body)
	if err != nil {
		log.Printf("minichart: %s: %v", symbol, err)
		return nil
	}
	// The mini chart quotes in the reporting currency and carries no
	// previous close, so day change stays unknown for this asset.
	return &folio.Quote{Ticker: ticker, Price: price, Currency: c.quoteCur}
}

func miniChartLatest(body []byte) (float64, error) {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	path := "$.series.intraday.data[-1:][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrFormat, path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number: %v", ErrFormat, path, jval)
	}
	return val, nil
}
