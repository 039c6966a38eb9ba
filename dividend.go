package folio

import (
	"context"
	"fmt"
	"log"

	"github.com/foliodash/folio/date"
)

// fxLookbackDays bounds how far back the reconciler searches for an FX rate
// when the ex-date falls on a non-trading day.
const fxLookbackDays = 5

// DividendSuggestion is a dividend payment found in the provider's
// corporate-actions history but missing from the ledger. It is ephemeral:
// proposed to the user, and recorded as a Transaction only on confirmation.
type DividendSuggestion struct {
	Ticker           string    `json:"ticker"`
	Date             date.Date `json:"date"`
	AmountPerShare   float64   `json:"amountPerShare"`
	QuantityHeld     Quantity  `json:"quantityHeld"`
	GrossAmount      Money     `json:"grossAmount"`
	OriginalAmount   Money     `json:"originalAmount"`
	ExchangeRateUsed float64   `json:"exchangeRateUsed,omitempty"`
	RateDate         date.Date `json:"rateDate,omitempty"`
	Broker           string    `json:"broker,omitempty"`
}

// Transaction converts a confirmed suggestion into a ledger record. The
// per-share amount is recorded in the reporting currency, so the conversion
// is locked in at confirmation time.
func (s DividendSuggestion) Transaction(l *Ledger) Transaction {
	perShare := s.GrossAmount.Div(s.QuantityHeld)
	return NewDividend(s.Date, s.Ticker, s.QuantityHeld, perShare, l.AssetTypeOf(s.Ticker), s.Broker)
}

// Reconciler cross-references provider dividend histories against the
// ledger to detect unrecorded dividend income.
type Reconciler struct {
	Dividends DividendSource
	Rates     RateSource
	Reporting string
}

// ScanForMissingDividends returns one suggestion per dividend event of a
// held, non-cash ticker that is not already recorded in the ledger.
//
// Matching normalizes both sides to calendar-day granularity, so a
// time-of-day or timezone difference never produces a duplicate. A ticker
// whose corporate-actions fetch fails is skipped and logged, never fatal.
func (r *Reconciler) ScanForMissingDividends(ctx context.Context, l *Ledger) []DividendSuggestion {
	var suggestions []DividendSuggestion
	today := date.Today()

	for ticker := range l.Tickers() {
		if l.AssetTypeOf(ticker) == Cash {
			continue
		}
		first, ok := l.FirstAcquisition(ticker)
		if !ok {
			continue
		}
		events, err := r.Dividends.DividendHistory(ctx, ticker, first, today)
		if err != nil {
			log.Printf("dividend scan: skipping %s: %v", ticker, err)
			continue
		}
		for _, ev := range events {
			if l.HasDividend(ticker, ev.ExDate) {
				continue // already recorded
			}
			held := l.Position(ticker, ev.ExDate)
			if !held.IsPositive() {
				continue // nothing was held at the ex-date
			}
			s, err := r.suggest(ctx, l, ticker, ev, held)
			if err != nil {
				log.Printf("dividend scan: %s on %s: %v", ticker, ev.ExDate, err)
				continue
			}
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

// suggest builds one suggestion, converting the amount to the reporting
// currency using the FX rate at the ex-date. When the exact date has no
// rate (non-trading day) the nearest preceding rate within the bounded
// look-back is used and reported as the rate actually applied.
func (r *Reconciler) suggest(ctx context.Context, l *Ledger, ticker string, ev DividendEvent, held Quantity) (DividendSuggestion, error) {
	currency := l.CurrencyOf(ticker)
	original := M(ev.AmountPerShare, currency).Mul(held)

	s := DividendSuggestion{
		Ticker:         ticker,
		Date:           ev.ExDate,
		AmountPerShare: ev.AmountPerShare,
		QuantityHeld:   held,
		OriginalAmount: original,
	}

	if currency == r.Reporting || currency == "" {
		s.GrossAmount = original
		return s, nil
	}

	history := r.Rates.RateHistory(ctx, currency, r.Reporting, ev.ExDate.Add(-fxLookbackDays), ev.ExDate)
	if history == nil || history.Len() == 0 {
		return s, fmt.Errorf("no %s/%s rates available", currency, r.Reporting)
	}
	on, rate, ok := history.ValueNear(ev.ExDate, fxLookbackDays)
	if !ok {
		return s, fmt.Errorf("no %s/%s rate within %d days of %s", currency, r.Reporting, fxLookbackDays, ev.ExDate)
	}
	s.ExchangeRateUsed = rate
	s.RateDate = on
	s.GrossAmount = original.Convert(rate, r.Reporting)
	return s, nil
}
