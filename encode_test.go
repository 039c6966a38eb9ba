package folio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/foliodash/folio/date"
)

func TestEncodeDecodeLedger(t *testing.T) {
	l := mustAppend(NewLedger(),
		NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170.5, "USD"), Equity, "broker-a"),
		NewTrade(date.New(2025, 2, 1), "BTC-EUR", Q(0.25), M(60000, "EUR"), Crypto, ""),
		NewDividend(date.New(2025, 2, 14), "AAPL", Q(10), M(0.25, "USD"), Equity, "broker-a"),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 3 {
		t.Fatalf("encoded %d lines, want 3", got)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Len() != l.Len() {
		t.Fatalf("decoded %d transactions, want %d", decoded.Len(), l.Len())
	}
	var out []Transaction
	for _, tx := range decoded.Transactions() {
		out = append(out, tx)
	}
	for i, tx := range l.Transactions() {
		got := out[i]
		if got.ID != tx.ID || got.Ticker != tx.Ticker || got.Date != tx.Date ||
			got.Kind != tx.Kind || got.AssetType != tx.AssetType || got.Broker != tx.Broker {
			t.Errorf("transaction %d changed across the round trip:\n got %+v\nwant %+v", i, got, tx)
		}
		if !got.Quantity.Equal(tx.Quantity) || !got.Price.Equal(tx.Price) {
			t.Errorf("transaction %d amounts changed: got %s × %s, want %s × %s",
				i, got.Quantity, got.Price, tx.Quantity, tx.Price)
		}
	}
}

func TestDecodeLedgerSkipsEmptyLines(t *testing.T) {
	var buf bytes.Buffer
	tx := NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170, "USD"), Equity, "")
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatal(err)
	}
	buf.WriteString("\n") // a blank line between records
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatal(err)
	}
	l, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Errorf("decoded %d transactions, want 2", l.Len())
	}
}

func TestDecodeLedgerReportsLineNumber(t *testing.T) {
	input := `{"id":"a","kind":"trade","date":"2025-01-10","ticker":"AAPL","asset":"equity","quantity":10,"price":170,"currency":"USD"}
not json at all
`
	_, err := DecodeLedger(strings.NewReader(input))
	if err == nil {
		t.Fatal("corrupt line should abort the decode")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the offending line: %v", err)
	}
}

func TestDecodeLedgerRejectsInvalidRecord(t *testing.T) {
	input := `{"id":"a","kind":"trade","date":"2025-01-10","ticker":"AAPL","asset":"equity","quantity":0,"price":170,"currency":"USD"}
`
	_, err := DecodeLedger(strings.NewReader(input))
	if err == nil {
		t.Fatal("invalid record should abort the decode")
	}
	if !strings.Contains(err.Error(), "quantity") {
		t.Errorf("error should name the offending field: %v", err)
	}
}
