package folio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foliodash/folio/date"
)

// AssetType classifies what kind of asset a transaction refers to.
type AssetType string

const (
	Equity AssetType = "equity"
	ETF    AssetType = "etf"
	Crypto AssetType = "crypto"
	Cash   AssetType = "cash"
)

// ParseAssetType parses a string into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	switch AssetType(strings.ToLower(strings.TrimSpace(s))) {
	case Equity:
		return Equity, nil
	case ETF:
		return ETF, nil
	case Crypto:
		return Crypto, nil
	case Cash:
		return Cash, nil
	default:
		return "", fmt.Errorf("unknown asset type: %q", s)
	}
}

// TxKind distinguishes trades from dividend income.
type TxKind string

const (
	Trade          TxKind = "trade"
	DividendIncome TxKind = "dividend"
)

// Transaction is a single immutable ledger record. Quantities are signed:
// positive is an acquisition, negative a disposal. A record is created by
// user input or import, never mutated, and removed only by explicit delete.
type Transaction struct {
	ID        string    `json:"id"`
	Ticker    string    `json:"ticker"`
	Date      date.Date `json:"date"`
	Quantity  Quantity  `json:"quantity"`
	Price     Money     `json:"-"` // marshaled as price/currency pair
	AssetType AssetType `json:"asset"`
	Broker    string    `json:"broker,omitempty"`
	Kind      TxKind    `json:"kind"`
	Memo      string    `json:"memo,omitempty"`
}

// NewTrade creates a trade transaction. Sells carry a negative quantity.
func NewTrade(on date.Date, ticker string, quantity Quantity, price Money, asset AssetType, broker string) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Ticker:    strings.ToUpper(strings.TrimSpace(ticker)),
		Date:      on,
		Quantity:  quantity,
		Price:     price,
		AssetType: asset,
		Broker:    broker,
		Kind:      Trade,
	}
}

// NewDividend creates a dividend income transaction. Quantity is the number
// of shares held at the ex-date and price the per-share amount.
func NewDividend(on date.Date, ticker string, quantity Quantity, perShare Money, asset AssetType, broker string) Transaction {
	tx := NewTrade(on, ticker, quantity, perShare, asset, broker)
	tx.Kind = DividendIncome
	return tx
}

// Amount returns quantity × unit price, in the transaction's currency.
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// Currency returns the currency the transaction was recorded in.
func (t Transaction) Currency() string { return t.Price.Currency() }

// IsAcquisition reports whether the transaction adds to the position.
func (t Transaction) IsAcquisition() bool { return t.Quantity.IsPositive() }

// IntegrityError reports a ledger record that violates a local-state
// invariant. Unlike provider failures, which degrade softly, a record
// carrying an IntegrityError is blocked from every computation.
type IntegrityError struct {
	ID     string
	Field  string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("transaction %s: invalid %s: %s", e.ID, e.Field, e.Reason)
}

// Validate checks the record for correctness. It returns nil or an
// *IntegrityError naming the offending field.
func (t Transaction) Validate() error {
	fail := func(field, reason string) error {
		return &IntegrityError{ID: t.ID, Field: field, Reason: reason}
	}
	if t.ID == "" {
		return fail("id", "missing")
	}
	if t.Ticker == "" {
		return fail("ticker", "missing")
	}
	if t.Date.IsZero() {
		return fail("date", "missing")
	}
	if t.Quantity.IsZero() {
		return fail("quantity", "must be non-zero")
	}
	if t.Price.Currency() == "" {
		return fail("currency", "missing")
	}
	if t.Price.IsNegative() {
		return fail("price", "must not be negative")
	}
	switch t.AssetType {
	case Equity, ETF, Crypto, Cash:
	default:
		return fail("asset", fmt.Sprintf("unknown asset type %q", t.AssetType))
	}
	switch t.Kind {
	case Trade, DividendIncome:
	default:
		return fail("kind", fmt.Sprintf("unknown kind %q", t.Kind))
	}
	if t.Kind == DividendIncome && t.Quantity.IsNegative() {
		return fail("quantity", "dividend quantity must be positive")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
// Fields keep a stable order so the JSONL ledger stays diffable.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("kind", t.Kind)
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	w.Append("asset", t.AssetType)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Append("currency", t.Price.Currency())
	w.Optional("broker", t.Broker)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// It handles the structure where price and currency are separate fields.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string          `json:"id"`
		Kind     TxKind          `json:"kind"`
		Date     date.Date       `json:"date"`
		Ticker   string          `json:"ticker"`
		Asset    AssetType       `json:"asset"`
		Quantity Quantity        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Currency string          `json:"currency"`
		Broker   string          `json:"broker"`
		Memo     string          `json:"memo"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:        temp.ID,
		Ticker:    temp.Ticker,
		Date:      temp.Date,
		Quantity:  temp.Quantity,
		Price:     M(temp.Price, temp.Currency),
		AssetType: temp.Asset,
		Broker:    temp.Broker,
		Kind:      temp.Kind,
		Memo:      temp.Memo,
	}
	return nil
}
