package folio

import (
	"errors"
	"testing"

	"github.com/foliodash/folio/date"
)

func TestAppendKeepsChronologicalOrder(t *testing.T) {
	l := NewLedger()
	err := l.Append(
		NewTrade(date.New(2025, 3, 10), "AAPL", Q(5), M(180, "USD"), Equity, ""),
		NewTrade(date.New(2025, 1, 2), "AAPL", Q(10), M(170, "USD"), Equity, ""),
		NewTrade(date.New(2025, 2, 1), "MSFT", Q(3), M(400, "USD"), Equity, ""),
	)
	if err != nil {
		t.Fatal(err)
	}
	var prev date.Date
	for _, tx := range l.Transactions() {
		if tx.Date.Before(prev) {
			t.Fatalf("ledger out of order: %s before %s", tx.Date, prev)
		}
		prev = tx.Date
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	l := NewLedger()
	bad := NewTrade(date.New(2025, 1, 2), "AAPL", Q(0), M(170, "USD"), Equity, "")
	err := l.Append(bad)
	if err == nil {
		t.Fatal("appending a zero-quantity trade should fail")
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("want *IntegrityError, got %T: %v", err, err)
	}
	if ie.Field != "quantity" {
		t.Errorf("want offending field quantity, got %q", ie.Field)
	}
	if l.Len() != 0 {
		t.Errorf("invalid record entered the ledger")
	}
}

func TestPosition(t *testing.T) {
	l := NewLedger()
	if err := l.Append(
		NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, ""),
		NewTrade(date.New(2025, 2, 10), "AAPL", Q(-4), M(180, "USD"), Equity, ""),
		NewDividend(date.New(2025, 3, 1), "AAPL", Q(6), M(0.25, "USD"), Equity, ""),
		NewTrade(date.New(2025, 3, 10), "AAPL", Q(-6), M(190, "USD"), Equity, ""),
	); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		on   date.Date
		want Quantity
	}{
		{"before first trade", date.New(2025, 1, 1), Q(0)},
		{"on first trade day", date.New(2025, 1, 10), Q(10)},
		{"after partial sell", date.New(2025, 2, 15), Q(6)},
		{"dividend does not change position", date.New(2025, 3, 5), Q(6)},
		{"closed out", date.New(2025, 4, 1), Q(0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := l.Position("AAPL", c.on); !got.Equal(c.want) {
				t.Errorf("Position(AAPL, %s) = %s, want %s", c.on, got, c.want)
			}
		})
	}
}

func TestHoldingsAsOfOmitsClosedPositions(t *testing.T) {
	l := NewLedger()
	if err := l.Append(
		NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, ""),
		NewTrade(date.New(2025, 2, 10), "AAPL", Q(-10), M(180, "USD"), Equity, ""),
		NewTrade(date.New(2025, 1, 20), "BTC-EUR", Q(0.5), M(60000, "EUR"), Crypto, ""),
	); err != nil {
		t.Fatal(err)
	}
	holdings := l.HoldingsAsOf(date.New(2025, 3, 1))
	if _, ok := holdings["AAPL"]; ok {
		t.Error("closed position should be omitted")
	}
	if got, ok := holdings["BTC-EUR"]; !ok || !got.Equal(Q(0.5)) {
		t.Errorf("BTC-EUR = %v, want 0.5", got)
	}
}

func TestDelete(t *testing.T) {
	l := NewLedger()
	tx := NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, "")
	if err := l.Append(tx); err != nil {
		t.Fatal(err)
	}
	if !l.Delete(tx.ID) {
		t.Error("Delete should report the record removed")
	}
	if l.Delete(tx.ID) {
		t.Error("second Delete should report nothing removed")
	}
	if l.Len() != 0 {
		t.Errorf("ledger length = %d, want 0", l.Len())
	}
}

func TestHasDividend(t *testing.T) {
	l := NewLedger()
	if err := l.Append(
		NewDividend(date.New(2025, 5, 30), "AAPL", Q(10), M(0.25, "USD"), Equity, ""),
	); err != nil {
		t.Fatal(err)
	}
	if !l.HasDividend("AAPL", date.New(2025, 5, 30)) {
		t.Error("dividend on the recorded day should match")
	}
	if l.HasDividend("AAPL", date.New(2025, 5, 29)) {
		t.Error("adjacent day must not match")
	}
	if l.HasDividend("MSFT", date.New(2025, 5, 30)) {
		t.Error("different ticker must not match")
	}
}

func TestFirstAcquisition(t *testing.T) {
	l := NewLedger()
	if err := l.Append(
		NewTrade(date.New(2025, 2, 10), "AAPL", Q(5), M(180, "USD"), Equity, ""),
		NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, ""),
	); err != nil {
		t.Fatal(err)
	}
	first, ok := l.FirstAcquisition("AAPL")
	if !ok || first != date.New(2025, 1, 10) {
		t.Errorf("FirstAcquisition = %s, %v; want 2025-01-10, true", first, ok)
	}
	if _, ok := l.FirstAcquisition("MSFT"); ok {
		t.Error("unknown ticker should report no acquisition")
	}
	price, ok := l.FirstPrice("AAPL")
	if !ok || !price.Equal(M(170, "USD")) {
		t.Errorf("FirstPrice = %s, %v; want $170.00, true", price, ok)
	}
}

func TestValidate(t *testing.T) {
	valid := NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, "")

	cases := []struct {
		name      string
		mutate    func(*Transaction)
		wantField string
	}{
		{"valid", func(t *Transaction) {}, ""},
		{"missing id", func(t *Transaction) { t.ID = "" }, "id"},
		{"missing ticker", func(t *Transaction) { t.Ticker = "" }, "ticker"},
		{"missing date", func(t *Transaction) { t.Date = date.Date{} }, "date"},
		{"zero quantity", func(t *Transaction) { t.Quantity = Q(0) }, "quantity"},
		{"missing currency", func(t *Transaction) { t.Price = Money{} }, "currency"},
		{"negative price", func(t *Transaction) { t.Price = M(-1, "USD") }, "price"},
		{"unknown asset", func(t *Transaction) { t.AssetType = "bond" }, "asset"},
		{"unknown kind", func(t *Transaction) { t.Kind = "transfer" }, "kind"},
		{"negative dividend quantity", func(t *Transaction) {
			t.Kind = DividendIncome
			t.Quantity = Q(-1)
		}, "quantity"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tx := valid
			c.mutate(&tx)
			err := tx.Validate()
			if c.wantField == "" {
				if err != nil {
					t.Fatalf("want valid, got %v", err)
				}
				return
			}
			var ie *IntegrityError
			if !errors.As(err, &ie) {
				t.Fatalf("want *IntegrityError, got %v", err)
			}
			if ie.Field != c.wantField {
				t.Errorf("offending field = %q, want %q", ie.Field, c.wantField)
			}
		})
	}
}
