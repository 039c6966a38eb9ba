package folio

import (
	"context"

	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/timeseries"
)

// In-memory provider fakes shared by the aggregator, holding, and
// reconciler tests.

type fakeSeries struct {
	series map[string]timeseries.Series
}

func (f fakeSeries) HistoricalSeries(_ context.Context, ticker string, _ AssetType, from, to int64, _ string) timeseries.Series {
	s, ok := f.series[ticker]
	if !ok {
		return timeseries.Series{}
	}
	return s.Within(from, to)
}

type fakeRates struct {
	rates     map[string]float64               // "USDEUR" -> current rate
	histories map[string]*date.History[float64] // "USDEUR" -> daily closes
}

func (f fakeRates) Rate(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	r, ok := f.rates[from+to]
	return r, ok
}

func (f fakeRates) RateHistory(_ context.Context, from, to string, _, _ date.Date) *date.History[float64] {
	if h, ok := f.histories[from+to]; ok {
		return h
	}
	return &date.History[float64]{}
}

type fakeDividends struct {
	events map[string][]DividendEvent
}

func (f fakeDividends) DividendHistory(_ context.Context, ticker string, _, _ date.Date) ([]DividendEvent, error) {
	return f.events[ticker], nil
}

func mustAppend(l *Ledger, txs ...Transaction) *Ledger {
	if err := l.Append(txs...); err != nil {
		panic(err)
	}
	return l
}
