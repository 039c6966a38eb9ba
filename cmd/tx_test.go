package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/date"
)

// useTempLedger points the global ledger file at a fresh path for the test.
func useTempLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.jsonl")
	oldLedgerFile := ledgerFile
	ledgerFile = &path
	t.Cleanup(func() { ledgerFile = oldLedgerFile })
	return path
}

func readLedger(t *testing.T, path string) *folio.Ledger {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening ledger: %v", err)
	}
	defer f.Close()
	l, err := folio.DecodeLedger(f)
	if err != nil {
		t.Fatalf("decoding ledger: %v", err)
	}
	return l
}

func TestBuyAppendsTrade(t *testing.T) {
	path := useTempLedger(t)

	cmd := &buyCmd{}
	f := flag.NewFlagSet("buy", flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse([]string{"-d", "2025-06-02", "-q", "10", "-p", "170.50", "-c", "USD", "aapl"}); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	if status := cmd.Execute(context.Background(), f); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want ExitSuccess", status)
	}

	ledger := readLedger(t, path)
	if ledger.Len() != 1 {
		t.Fatalf("ledger has %d transactions, want 1", ledger.Len())
	}
	var tx folio.Transaction
	for _, got := range ledger.Transactions() {
		tx = got
	}
	if tx.Kind != folio.Trade {
		t.Errorf("Kind = %q, want %q", tx.Kind, folio.Trade)
	}
	if tx.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", tx.Ticker)
	}
	if !tx.Quantity.Equal(folio.Q(10)) {
		t.Errorf("Quantity = %s, want 10", tx.Quantity)
	}
	if !tx.Price.Equal(folio.M(170.50, "USD")) {
		t.Errorf("Price = %s, want 170.50 USD", tx.Price)
	}
	if tx.ID == "" {
		t.Error("ID is empty, want a generated id")
	}
}

func TestSellStoresSignedQuantity(t *testing.T) {
	path := useTempLedger(t)

	buy := &buyCmd{}
	fb := flag.NewFlagSet("buy", flag.ContinueOnError)
	buy.SetFlags(fb)
	fb.Parse([]string{"-d", "2025-06-02", "-q", "10", "-p", "100", "BTC-USD"})
	if status := buy.Execute(context.Background(), fb); status != subcommands.ExitSuccess {
		t.Fatalf("buy Execute() = %v, want ExitSuccess", status)
	}

	sell := &sellCmd{}
	fs := flag.NewFlagSet("sell", flag.ContinueOnError)
	sell.SetFlags(fs)
	fs.Parse([]string{"-d", "2025-06-03", "-q", "4", "-p", "110", "BTC-USD"})
	if status := sell.Execute(context.Background(), fs); status != subcommands.ExitSuccess {
		t.Fatalf("sell Execute() = %v, want ExitSuccess", status)
	}

	ledger := readLedger(t, path)
	position := ledger.Position("BTC-USD", date.MustParse("2025-06-03"))
	if !position.Equal(folio.Q(6)) {
		t.Errorf("position after sell = %s, want 6", position)
	}
}

func TestBuyRejectsMissingTicker(t *testing.T) {
	useTempLedger(t)

	cmd := &buyCmd{}
	f := flag.NewFlagSet("buy", flag.ContinueOnError)
	cmd.SetFlags(f)
	f.Parse([]string{"-q", "10", "-p", "100"})

	if status := cmd.Execute(context.Background(), f); status != subcommands.ExitUsageError {
		t.Errorf("Execute() = %v, want ExitUsageError", status)
	}
}
