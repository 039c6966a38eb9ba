package folio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/foliodash/folio/date"
)

func TestImportTransactionsCSV(t *testing.T) {
	input := `date,kind,ticker,asset,quantity,price,currency,broker,memo
2025-01-10,trade,AAPL,equity,10,170.5,USD,broker-a,first buy
2025-02-14,dividend,AAPL,equity,10,0.25,USD,broker-a,
2025-02-01,,BTC-EUR,crypto,-0.25,60000,EUR,,partial exit
`
	txs, err := ImportTransactionsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 {
		t.Fatalf("imported %d transactions, want 3", len(txs))
	}
	if txs[0].Ticker != "AAPL" || !txs[0].Quantity.Equal(Q(10)) || txs[0].Memo != "first buy" {
		t.Errorf("first row = %+v", txs[0])
	}
	if txs[1].Kind != DividendIncome {
		t.Errorf("second row kind = %q, want dividend", txs[1].Kind)
	}
	if txs[2].Kind != Trade {
		t.Errorf("empty kind should default to trade, got %q", txs[2].Kind)
	}
	if !txs[2].Quantity.Equal(Q(-0.25)) {
		t.Errorf("signed quantity = %s, want -0.25", txs[2].Quantity)
	}
	if txs[2].Date != date.New(2025, 2, 1) {
		t.Errorf("date = %s, want 2025-02-01", txs[2].Date)
	}
}

func TestImportTransactionsCSVErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			"wrong header",
			"when,kind,ticker,asset,quantity,price,currency,broker,memo\n",
			"csv column 0",
		},
		{
			"bad date",
			"date,kind,ticker,asset,quantity,price,currency,broker,memo\nnot-a-date,trade,AAPL,equity,10,170,USD,,\n",
			"line 2",
		},
		{
			"bad quantity",
			"date,kind,ticker,asset,quantity,price,currency,broker,memo\n2025-01-10,trade,AAPL,equity,ten,170,USD,,\n",
			"invalid quantity",
		},
		{
			"unknown asset",
			"date,kind,ticker,asset,quantity,price,currency,broker,memo\n2025-01-10,trade,AAPL,bond,10,170,USD,,\n",
			"unknown asset type",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ImportTransactionsCSV(strings.NewReader(c.input))
			if err == nil {
				t.Fatal("import should fail")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q should mention %q", err, c.want)
			}
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	l := mustAppend(NewLedger(),
		NewTrade(date.New(2025, 1, 10), "AAPL", Q(10), M(170.5, "USD"), Equity, "broker-a"),
		NewDividend(date.New(2025, 2, 14), "AAPL", Q(10), M(0.25, "USD"), Equity, "broker-a"),
	)
	var buf bytes.Buffer
	if err := ExportTransactionsCSV(&buf, l); err != nil {
		t.Fatal(err)
	}
	txs, err := ImportTransactionsCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != l.Len() {
		t.Fatalf("round trip produced %d transactions, want %d", len(txs), l.Len())
	}
	var orig []Transaction
	for _, tx := range l.Transactions() {
		orig = append(orig, tx)
	}
	for i, got := range txs {
		want := orig[i]
		// Import mints fresh ids; everything else must survive.
		if got.Ticker != want.Ticker || got.Date != want.Date || got.Kind != want.Kind ||
			got.AssetType != want.AssetType || got.Broker != want.Broker {
			t.Errorf("row %d changed: got %+v, want %+v", i, got, want)
		}
		if !got.Quantity.Equal(want.Quantity) || !got.Price.Equal(want.Price) {
			t.Errorf("row %d amounts changed: got %s × %s", i, got.Quantity, got.Price)
		}
	}
}
