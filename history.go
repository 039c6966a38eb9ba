package folio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/timeseries"
)

// Window is a chart look-back period. The sampling resolution for each
// window is a fixed pairing, not user-configurable per call.
type Window string

const (
	Window1D Window = "1d"
	Window1W Window = "1w"
	Window1M Window = "1m"
	Window3M Window = "3m"
	Window1Y Window = "1y"
)

// windowSpec pairs a look-back with a sampling interval and a label layout.
type windowSpec struct {
	daysBack int
	interval string
	layout   string // time layout for the display labels
}

var windowTable = map[Window]windowSpec{
	Window1D: {daysBack: 0, interval: "5m", layout: "15:04"},
	Window1W: {daysBack: 7, interval: "1h", layout: "Mon 15:04"},
	Window1M: {daysBack: 30, interval: "1d", layout: "Jan 02"},
	Window3M: {daysBack: 90, interval: "1d", layout: "Jan 02"},
	Window1Y: {daysBack: 365, interval: "1wk", layout: "Jan 2006"},
}

// ParseWindow parses a string into a Window.
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if _, ok := windowTable[w]; !ok {
		return "", fmt.Errorf("unknown window %q", s)
	}
	return w, nil
}

// PortfolioSeries is the derived chart series: parallel arrays with one
// entry per union-timeline point. Timestamps are ascending and unique.
// Dropped lists the tickers whose series could not be fetched; their
// contribution is zero, not an error.
type PortfolioSeries struct {
	Timestamps []int64   `json:"timestamps"`
	Values     []float64 `json:"values"`
	Labels     []string  `json:"labels"`
	Dropped    []string  `json:"dropped,omitempty"`
}

// Aggregator computes the portfolio value series over a look-back window.
type Aggregator struct {
	Source         SeriesSource
	Rates          RateSource
	Calendar       CalendarSource // optional; classifies tickers by trading calendar
	Reporting      string
	Location       *time.Location // session-open anchoring is timezone dependent
	MarketOpenHour int            // local market-open hour for session-bound assets

	now func() time.Time // injectable clock for tests
}

// NewAggregator creates an Aggregator with the default market calendar:
// continuous assets anchor at local midnight, session-bound ones at 09:00.
// A source that classifies its own symbols drives the anchoring; otherwise
// the ledger's asset type decides.
func NewAggregator(source SeriesSource, rates RateSource, reporting string, loc *time.Location) *Aggregator {
	a := &Aggregator{
		Source:         source,
		Rates:          rates,
		Reporting:      reporting,
		Location:       loc,
		MarketOpenHour: 9,
		now:            time.Now,
	}
	if cal, ok := source.(CalendarSource); ok {
		a.Calendar = cal
	}
	return a
}

// anchor computes the first valid instant of the window for an asset.
// Filtering samples before the anchor guards against a provider returning
// the prior session's trailing data point.
func (a *Aggregator) anchor(ticker string, asset AssetType, startDay date.Date) time.Time {
	if a.continuous(ticker, asset) {
		return startDay.At(0, 0, a.Location) // trades around the clock
	}
	return startDay.At(a.MarketOpenHour, 0, a.Location)
}

func (a *Aggregator) continuous(ticker string, asset AssetType) bool {
	if a.Calendar != nil {
		return a.Calendar.Continuous(ticker)
	}
	return asset == Crypto
}

// History reconstructs the portfolio value series for the window.
//
// Per-asset series are fetched concurrently and joined before alignment;
// each fetch result lands in its own slot, and the join is the sole writer
// of the merged structure.
func (a *Aggregator) History(ctx context.Context, l *Ledger, window Window) (*PortfolioSeries, error) {
	spec, ok := windowTable[window]
	if !ok {
		return nil, fmt.Errorf("unknown window %q", window)
	}

	end := a.now().In(a.Location)
	endTs := end.UnixMilli()
	startDay := date.FromTime(end).Add(-spec.daysBack)

	tickers := a.heldTickers(l, startDay)
	if len(tickers) == 0 {
		return &PortfolioSeries{}, nil
	}

	// Fetch one series per ticker, concurrently. Slot i belongs to ticker i.
	startTs := startDay.At(0, 0, a.Location).UnixMilli()
	fetched := make([]timeseries.Series, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			fetched[i] = a.Source.HistoricalSeries(ctx, ticker, l.AssetTypeOf(ticker), startTs, endTs, spec.interval)
		}(i, ticker)
	}
	wg.Wait()

	// Align: clip each series to [anchor, end] and drop the tickers whose
	// fetch came back empty or whose currency cannot be converted. A missing
	// rate drops the ticker rather than relabeling its samples 1:1.
	out := &PortfolioSeries{}
	clipped := make(map[string]*timeseries.Series, len(tickers))
	rateOf := make(map[string]float64, len(tickers))
	union := make([]*timeseries.Series, 0, len(tickers))
	for i, ticker := range tickers {
		if fetched[i].IsEmpty() {
			out.Dropped = append(out.Dropped, ticker)
			continue
		}
		rate := 1.0
		if c := l.CurrencyOf(ticker); c != "" && c != a.Reporting {
			r, ok := a.Rates.Rate(c, a.Reporting)
			if !ok {
				out.Dropped = append(out.Dropped, ticker)
				continue
			}
			rate = r
		}
		anchorTs := a.anchor(ticker, l.AssetTypeOf(ticker), startDay).UnixMilli()
		s := fetched[i].Within(anchorTs, endTs)
		clipped[ticker] = &s
		rateOf[ticker] = rate
		union = append(union, &s)
	}
	timeline := timeseries.Union(union...)

	// Convert and accumulate each asset's contribution per timeline point.
	for _, ts := range timeline {
		day := date.FromUnixMilli(ts, a.Location)
		var total float64
		for _, ticker := range tickers {
			quantity := l.Position(ticker, day)
			if quantity.IsZero() {
				continue // not held at this point, contributes nothing
			}
			s := clipped[ticker]
			if s == nil {
				continue // dropped ticker
			}
			price, ok := s.AsOf(ts)
			if !ok {
				// No sample yet for this asset: value it at its purchase
				// price rather than dropping the contribution to zero.
				first, found := l.FirstPrice(ticker)
				if !found {
					continue
				}
				price = first.AsFloat()
			}
			total += price * rateOf[ticker] * quantity.AsFloat()
		}
		out.Timestamps = append(out.Timestamps, ts)
		out.Values = append(out.Values, total)
		out.Labels = append(out.Labels, time.UnixMilli(ts).In(a.Location).Format(spec.layout))
	}
	return out, nil
}

// heldTickers returns the non-cash tickers relevant to the window: held at
// its end, or traded inside it. Sorted, unique.
func (a *Aggregator) heldTickers(l *Ledger, startDay date.Date) []string {
	today := date.FromTime(a.now().In(a.Location))
	relevant := make(map[string]struct{})
	for ticker := range l.HoldingsAsOf(today) {
		relevant[ticker] = struct{}{}
	}
	for _, tx := range l.Transactions() {
		if tx.Kind == Trade && !tx.Date.Before(startDay) {
			relevant[tx.Ticker] = struct{}{}
		}
	}
	var tickers []string
	for ticker := range l.Tickers() {
		if _, ok := relevant[ticker]; !ok {
			continue
		}
		if l.AssetTypeOf(ticker) == Cash {
			continue // no market price to chart
		}
		tickers = append(tickers, ticker)
	}
	return tickers
}
