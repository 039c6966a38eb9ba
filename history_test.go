package folio

import (
	"context"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/timeseries"
)

// newTestAggregator returns an aggregator pinned to a fixed clock in UTC.
func newTestAggregator(source SeriesSource, rates RateSource, now time.Time) *Aggregator {
	a := NewAggregator(source, rates, "EUR", time.UTC)
	a.now = func() time.Time { return now }
	return a
}

func TestHistorySingleCryptoDay(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "BTC-EUR", Q(1), M(50000, "EUR"), Crypto, ""),
	)
	t0 := day.At(0, 0, time.UTC).UnixMilli()
	t1 := day.At(12, 0, time.UTC).UnixMilli()
	var s timeseries.Series
	s.Append(t0, 60000).Append(t1, 61000)

	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{"BTC-EUR": s}}, fakeRates{}, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Timestamps, []int64{t0, t1}) {
		t.Errorf("timestamps = %v, want [%d %d]", got.Timestamps, t0, t1)
	}
	if !slices.Equal(got.Values, []float64{60000, 61000}) {
		t.Errorf("values = %v, want [60000 61000]", got.Values)
	}
	if !slices.Equal(got.Labels, []string{"00:00", "12:00"}) {
		t.Errorf("labels = %v", got.Labels)
	}
	if len(got.Dropped) != 0 {
		t.Errorf("dropped = %v, want none", got.Dropped)
	}
}

func TestHistoryCarriesForwardAcrossUnionPoints(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "ACME", Q(1), M(95, "EUR"), Equity, ""),
		NewTrade(day.Add(-10), "BTC-EUR", Q(1), M(10, "EUR"), Crypto, ""),
	)

	var equity timeseries.Series
	equity.Append(day.At(8, 0, time.UTC).UnixMilli(), 90) // prior-session trailing point
	equity.Append(day.At(9, 0, time.UTC).UnixMilli(), 100)
	equity.Append(day.At(10, 0, time.UTC).UnixMilli(), 102)
	var crypto timeseries.Series
	crypto.Append(day.At(9, 30, time.UTC).UnixMilli(), 10)

	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{
		"ACME":    equity,
		"BTC-EUR": crypto,
	}}, fakeRates{}, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}

	want := []int64{
		day.At(9, 0, time.UTC).UnixMilli(),
		day.At(9, 30, time.UTC).UnixMilli(),
		day.At(10, 0, time.UTC).UnixMilli(),
	}
	if !slices.Equal(got.Timestamps, want) {
		t.Fatalf("timestamps = %v, want %v (pre-open equity sample must be clipped)", got.Timestamps, want)
	}
	// At 09:30 the equity has no sample of its own and must carry 100
	// forward; the crypto contributes its 09:30 sample directly.
	if !slices.Equal(got.Values, []float64{110, 110, 112}) {
		t.Errorf("values = %v, want [110 110 112]", got.Values)
	}
}

func TestHistoryDropsFailedTickerSoftly(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "ACME", Q(2), M(95, "EUR"), Equity, ""),
		NewTrade(day.Add(-10), "GONE", Q(1), M(50, "EUR"), Equity, ""),
	)
	var equity timeseries.Series
	equity.Append(day.At(9, 0, time.UTC).UnixMilli(), 100)
	equity.Append(day.At(10, 0, time.UTC).UnixMilli(), 102)

	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{"ACME": equity}}, fakeRates{}, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Dropped, []string{"GONE"}) {
		t.Errorf("dropped = %v, want [GONE]", got.Dropped)
	}
	if !slices.Equal(got.Values, []float64{200, 204}) {
		t.Errorf("values = %v, want the surviving ticker only", got.Values)
	}
}

func TestHistoryDropsTickerWithoutRate(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "ACME", Q(2), M(95, "EUR"), Equity, ""),
		NewTrade(day.Add(-10), "AAPL", Q(1), M(100, "USD"), Equity, ""),
	)
	var acme, aapl timeseries.Series
	acme.Append(day.At(9, 0, time.UTC).UnixMilli(), 100)
	aapl.Append(day.At(9, 0, time.UTC).UnixMilli(), 150)

	// No USD→EUR rate: the dollar series must be dropped and reported, not
	// summed into the euro total at 1:1.
	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{
		"ACME": acme,
		"AAPL": aapl,
	}}, fakeRates{}, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Dropped, []string{"AAPL"}) {
		t.Errorf("dropped = %v, want [AAPL]", got.Dropped)
	}
	if !slices.Equal(got.Values, []float64{200}) {
		t.Errorf("values = %v, want [200] (the convertible ticker only)", got.Values)
	}
}

// continuousSeries marks every ticker as trading around the clock.
type continuousSeries struct{ fakeSeries }

func (continuousSeries) Continuous(string) bool { return true }

func TestHistoryAnchorsByCalendarSource(t *testing.T) {
	day := date.New(2025, 6, 2)
	// Recorded as equity in the ledger, but the source knows the symbol
	// trades continuously, so the pre-market-open sample survives.
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "BTC", Q(1), M(50000, "EUR"), Equity, ""),
	)
	var s timeseries.Series
	s.Append(day.At(3, 0, time.UTC).UnixMilli(), 60000)
	s.Append(day.At(12, 0, time.UTC).UnixMilli(), 61000)

	source := continuousSeries{fakeSeries{series: map[string]timeseries.Series{"BTC": s}}}
	a := newTestAggregator(source, fakeRates{}, day.At(18, 0, time.UTC))
	if a.Calendar == nil {
		t.Fatal("NewAggregator must pick up the source's calendar")
	}
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Values, []float64{60000, 61000}) {
		t.Errorf("values = %v, want both samples kept for a continuous symbol", got.Values)
	}
}

func TestHistoryIsIdempotent(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "ACME", Q(2), M(95, "EUR"), Equity, ""),
	)
	var equity timeseries.Series
	equity.Append(day.At(9, 0, time.UTC).UnixMilli(), 100)
	equity.Append(day.At(10, 0, time.UTC).UnixMilli(), 102)

	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{"ACME": equity}}, fakeRates{}, day.At(18, 0, time.UTC))
	first, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs produced different series:\n%v\n%v", first, second)
	}
}

func TestHistoryZeroBeforeAcquisition(t *testing.T) {
	day := date.New(2025, 6, 6)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-6), "ACME", Q(1), M(100, "EUR"), Equity, ""),
		NewTrade(day.Add(-2), "LATE", Q(1), M(50, "EUR"), Equity, ""),
	)
	// The provider returns samples for the whole window, including days
	// before LATE was acquired.
	var acme, late timeseries.Series
	acme.Append(day.Add(-6).At(10, 0, time.UTC).UnixMilli(), 100)
	acme.Append(day.Add(-2).At(10, 0, time.UTC).UnixMilli(), 100)
	late.Append(day.Add(-6).At(10, 0, time.UTC).UnixMilli(), 50)
	late.Append(day.Add(-2).At(10, 0, time.UTC).UnixMilli(), 50)

	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{
		"ACME": acme,
		"LATE": late,
	}}, fakeRates{}, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1W)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Values, []float64{100, 150}) {
		t.Errorf("values = %v, want [100 150]: LATE contributes zero before its acquisition", got.Values)
	}
}

func TestHistoryConvertsToReportingCurrency(t *testing.T) {
	day := date.New(2025, 6, 2)
	l := mustAppend(NewLedger(),
		NewTrade(day.Add(-10), "AAPL", Q(2), M(95, "USD"), Equity, ""),
	)
	var s timeseries.Series
	s.Append(day.At(9, 0, time.UTC).UnixMilli(), 100)

	rates := fakeRates{rates: map[string]float64{"USDEUR": 0.9}}
	a := newTestAggregator(fakeSeries{series: map[string]timeseries.Series{"AAPL": s}}, rates, day.At(18, 0, time.UTC))
	got, err := a.History(context.Background(), l, Window1D)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Values, []float64{180}) {
		t.Errorf("values = %v, want [180] (2 × 100 USD at 0.9)", got.Values)
	}
}

func TestHistoryEmptyLedger(t *testing.T) {
	a := newTestAggregator(fakeSeries{}, fakeRates{}, time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC))
	got, err := a.History(context.Background(), NewLedger(), Window1Y)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Timestamps) != 0 || len(got.Values) != 0 {
		t.Errorf("empty ledger should produce an empty series, got %v", got)
	}
}

func TestParseWindow(t *testing.T) {
	for _, s := range []string{"1d", "1w", "1m", "3m", "1y"} {
		if _, err := ParseWindow(s); err != nil {
			t.Errorf("ParseWindow(%q): %v", s, err)
		}
	}
	if _, err := ParseWindow("2h"); err == nil {
		t.Error("ParseWindow(2h) should fail")
	}
}
