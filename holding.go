package folio

import (
	"context"
	"slices"

	"github.com/foliodash/folio/date"
)

// Holding is the derived per-ticker view of the portfolio. It is recomputed
// from the transaction set and the latest quotes on every valuation pass,
// never stored.
type Holding struct {
	Ticker       string    `json:"ticker"`
	AssetType    AssetType `json:"asset"`
	Quantity     Quantity  `json:"quantity"`
	AverageCost  Money     `json:"averageCost"`
	Invested     Money     `json:"invested"`
	CurrentValue Money     `json:"currentValue"`
	Gain         Money     `json:"gain"`
	GainPct      Percent   `json:"gainPct"`
	DayChange    Money     `json:"dayChange"`
	DayChangePct Percent   `json:"dayChangePct"`
	Stale        bool      `json:"stale"` // true when a live quote or conversion rate was unavailable
}

// Summary aggregates the holdings of one valuation pass.
type Summary struct {
	Date          date.Date `json:"date"`
	Currency      string    `json:"currency"`
	TotalValue    Money     `json:"totalValue"`
	TotalInvested Money     `json:"totalInvested"`
	TotalGain     Money     `json:"totalGain"`
	GainPct       Percent   `json:"gainPct"`
	Best          string    `json:"best,omitempty"`  // ticker with highest gainPct
	Worst         string    `json:"worst,omitempty"` // ticker with lowest gainPct
	TopAsset      AssetType `json:"topAsset,omitempty"`
}

// CurrentHoldings folds the ledger into one Holding per ticker with a
// non-zero position, valued against the given quote snapshot.
//
// Invested capital is converted to the reporting currency at the rate of
// the trade date, not the current one; current value and day change use the
// current rate. Cash assets are excluded from gain/loss entirely.
func CurrentHoldings(ctx context.Context, l *Ledger, quotes map[string]*Quote, rates RateSource, reporting string) []Holding {
	positions := l.HoldingsAsOf(date.Today())

	var holdings []Holding
	for _, ticker := range sortedKeys(positions) {
		quantity := positions[ticker]
		asset := l.AssetTypeOf(ticker)

		invested := M(0, reporting)
		converted := true
		for _, tx := range l.Transactions(ByTicker(ticker)) {
			if tx.Kind != Trade {
				continue
			}
			v, ok := tradeTimeValue(ctx, tx, rates, reporting)
			if !ok {
				converted = false
			}
			invested = invested.Add(v)
		}

		h := Holding{
			Ticker:    ticker,
			AssetType: asset,
			Quantity:  quantity,
			Invested:  invested,
			Stale:     !converted,
		}
		if !quantity.IsZero() {
			h.AverageCost = invested.Div(quantity)
		}

		if asset == Cash {
			// Cash holds its face value and has no price volatility.
			h.CurrentValue = invested
			holdings = append(holdings, h)
			continue
		}

		q := quotes[ticker]
		if q == nil {
			// Soft degradation: value at cost, flag as stale.
			h.CurrentValue = invested
			h.Stale = true
			holdings = append(holdings, h)
			continue
		}

		rate := 1.0
		if q.Currency != reporting && q.Currency != "" {
			r, ok := rates.Rate(q.Currency, reporting)
			if !ok {
				// No conversion rate: relabeling the amount 1:1 would break
				// the single-reporting-currency invariant. Value at cost and
				// flag, same as a missing quote.
				h.CurrentValue = invested
				h.Stale = true
				holdings = append(holdings, h)
				continue
			}
			rate = r
		}
		h.CurrentValue = M(q.Price, q.Currency).Mul(quantity).Convert(rate, reporting)
		h.Gain = h.CurrentValue.Sub(invested)
		if !invested.IsZero() {
			h.GainPct = h.Gain.PctOf(invested)
		}
		if q.PreviousClose > 0 {
			h.DayChange = M(q.Price-q.PreviousClose, q.Currency).Mul(quantity).Convert(rate, reporting)
			prevValue := M(q.PreviousClose, q.Currency).Mul(quantity).Convert(rate, reporting)
			if !prevValue.IsZero() {
				h.DayChangePct = h.DayChange.PctOf(prevValue)
			}
		}
		holdings = append(holdings, h)
	}
	return holdings
}

// tradeTimeValue converts a trade's amount to the reporting currency at the
// trade-date rate, falling back to the current rate when no historical rate
// is cached for that day. The boolean reports whether a real rate was used;
// when false the figure is unconverted and the holding must be flagged.
func tradeTimeValue(ctx context.Context, tx Transaction, rates RateSource, reporting string) (Money, bool) {
	amount := tx.Amount()
	if amount.Currency() == reporting {
		return amount, true
	}
	history := rates.RateHistory(ctx, amount.Currency(), reporting, tx.Date.Add(-7), tx.Date)
	if history != nil {
		if r, ok := history.ValueAsOf(tx.Date); ok {
			return amount.Convert(r, reporting), true
		}
	}
	if r, ok := rates.Rate(amount.Currency(), reporting); ok {
		return amount.Convert(r, reporting), true
	}
	return M(amount.value, reporting), false
}

// PortfolioSummary totals the holdings of one valuation pass. Ties for best
// and worst are broken by the first holding encountered, which is stable
// because holdings are iterated in ticker order.
func PortfolioSummary(holdings []Holding, reporting string) Summary {
	s := Summary{
		Date:          date.Today(),
		Currency:      reporting,
		TotalValue:    M(0, reporting),
		TotalInvested: M(0, reporting),
		TotalGain:     M(0, reporting),
	}

	var best, worst *Holding
	byAsset := make(map[AssetType]Money)
	for i := range holdings {
		h := &holdings[i]
		s.TotalValue = s.TotalValue.Add(h.CurrentValue)
		s.TotalInvested = s.TotalInvested.Add(h.Invested)
		byAsset[h.AssetType] = byAsset[h.AssetType].Add(h.CurrentValue)

		if h.AssetType == Cash || h.Invested.IsZero() {
			continue // no gain/loss defined
		}
		s.TotalGain = s.TotalGain.Add(h.Gain)
		if best == nil || h.GainPct > best.GainPct {
			best = h
		}
		if worst == nil || h.GainPct < worst.GainPct {
			worst = h
		}
	}
	if best != nil {
		s.Best, s.Worst = best.Ticker, worst.Ticker
	}
	if !s.TotalInvested.IsZero() {
		s.GainPct = s.TotalGain.PctOf(s.TotalInvested)
	}

	var top Money
	for _, asset := range []AssetType{Equity, ETF, Crypto, Cash} {
		if v, ok := byAsset[asset]; ok && top.LessThan(v) {
			top, s.TopAsset = v, asset
		}
	}
	return s
}

func sortedKeys(m map[string]Quantity) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
