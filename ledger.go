package folio

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/foliodash/folio/date"
)

// Ledger is the ordered collection of transactions.
//
// In a Ledger transactions are always in chronological order. Ledgers are
// small (hundreds of records), so per-query linear folds are acceptable.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append validates and appends transactions, maintaining chronological
// order. A record failing validation blocks the whole append: a bad record
// must never silently enter a computation.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("cannot append: %w", err)
		}
	}
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
	return nil
}

// Clone returns an independent copy of the ledger. Callers computing views
// concurrently with appends work on a clone.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{transactions: slices.Clone(l.transactions)}
}

// Delete removes the transaction with the given id. It reports whether a
// record was removed. This is the only way a record leaves the ledger.
func (l *Ledger) Delete(id string) bool {
	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return true
		}
	}
	return false
}

// stableSort sorts the ledger by transaction date. The sort is stable, so
// transactions on the same day keep their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Transactions returns an iterator over transactions matching any of the
// given predicates. Without predicates it yields every transaction.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByTicker returns a predicate that filters transactions by ticker.
func ByTicker(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Ticker == ticker }
}

// ByKind returns a predicate that filters transactions by kind.
func ByKind(kind TxKind) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Kind == kind }
}

// Position sums the signed quantities of trades for a ticker dated on or
// before 'on'.
func (l *Ledger) Position(ticker string, on date.Date) Quantity {
	var position Quantity
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		if tx.Ticker == ticker && tx.Kind == Trade {
			position = position.Add(tx.Quantity)
		}
	}
	return position
}

// HoldingsAsOf folds the ledger into per-ticker held quantity as of 'on'.
// Tickers whose position has returned to zero are omitted.
func (l *Ledger) HoldingsAsOf(on date.Date) map[string]Quantity {
	holdings := make(map[string]Quantity)
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			break
		}
		if tx.Kind != Trade {
			continue
		}
		holdings[tx.Ticker] = holdings[tx.Ticker].Add(tx.Quantity)
	}
	for ticker, q := range holdings {
		if q.IsZero() {
			delete(holdings, ticker)
		}
	}
	return holdings
}

// Tickers iterates over all distinct tickers in the ledger, sorted.
func (l *Ledger) Tickers() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			visited[tx.Ticker] = struct{}{}
		}
		tickers := slices.Collect(maps.Keys(visited))
		slices.Sort(tickers)
		for _, ticker := range tickers {
			if !yield(ticker) {
				return
			}
		}
	}
}

// AssetTypeOf returns the asset type recorded for a ticker, defaulting to
// Equity when the ticker is unknown.
func (l *Ledger) AssetTypeOf(ticker string) AssetType {
	for _, tx := range l.transactions {
		if tx.Ticker == ticker {
			return tx.AssetType
		}
	}
	return Equity
}

// CurrencyOf returns the currency a ticker's trades are recorded in, or ""
// when the ticker is unknown.
func (l *Ledger) CurrencyOf(ticker string) string {
	for _, tx := range l.transactions {
		if tx.Ticker == ticker && tx.Kind == Trade {
			return tx.Currency()
		}
	}
	return ""
}

// FirstAcquisition returns the date of the first acquisition of a ticker.
// It returns false when the ledger never acquired it.
func (l *Ledger) FirstAcquisition(ticker string) (date.Date, bool) {
	for _, tx := range l.transactions {
		if tx.Ticker == ticker && tx.Kind == Trade && tx.IsAcquisition() {
			return tx.Date, true
		}
	}
	return date.Date{}, false
}

// FirstPrice returns the unit price of the first acquisition of a ticker.
// The history aggregator uses it for timeline points before the first
// fetched sample.
func (l *Ledger) FirstPrice(ticker string) (Money, bool) {
	for _, tx := range l.transactions {
		if tx.Ticker == ticker && tx.Kind == Trade && tx.IsAcquisition() {
			return tx.Price, true
		}
	}
	return Money{}, false
}

// HasDividend reports whether a dividend income record exists for the
// ticker on that calendar day. Both sides are already day-granular, which
// is what keeps time-of-day representations from producing duplicates.
func (l *Ledger) HasDividend(ticker string, on date.Date) bool {
	for _, tx := range l.transactions {
		if tx.Date.After(on) {
			break
		}
		if tx.Kind == DividendIncome && tx.Ticker == ticker && tx.Date == on {
			return true
		}
	}
	return false
}

// OldestTransactionDate returns the date of the earliest transaction, or
// the zero date on an empty ledger.
func (l *Ledger) OldestTransactionDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[0].Date
}
