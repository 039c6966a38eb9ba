package cmd

// this file implements the commands that record transactions: buy, sell
// and dividend, plus delete and log.

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/date"
	"github.com/foliodash/folio/renderer"
)

// txFlags holds the flags shared by the recording commands.
type txFlags struct {
	date     string
	asset    string
	quantity float64
	price    float64
	currency string
	broker   string
	memo     string
}

func (c *txFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date")
	f.StringVar(&c.asset, "a", "equity", "Asset type: equity, etf, crypto or cash")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares or units")
	f.Float64Var(&c.price, "p", 0, "Unit price")
	f.StringVar(&c.currency, "c", "", "Transaction currency (defaults to the reporting currency)")
	f.StringVar(&c.broker, "b", "", "Broker holding the position")
	f.StringVar(&c.memo, "m", "", "Free-form memo")
}

// parse builds the transaction from the flags and the ticker argument.
// Sells negate the quantity.
func (c *txFlags) parse(f *flag.FlagSet, sell bool) (folio.Transaction, error) {
	if f.NArg() != 1 {
		return folio.Transaction{}, fmt.Errorf("expected exactly one ticker argument, got %d", f.NArg())
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return folio.Transaction{}, err
	}
	asset, err := folio.ParseAssetType(c.asset)
	if err != nil {
		return folio.Transaction{}, err
	}
	currency := c.currency
	if currency == "" {
		currency = *defaultCurrency
	}
	quantity := folio.Q(c.quantity)
	if sell {
		quantity = quantity.Neg()
	}
	tx := folio.NewTrade(on, f.Arg(0), quantity, folio.M(c.price, currency), asset, c.broker)
	tx.Memo = c.memo
	return tx, tx.Validate()
}

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record an acquisition" }
func (*buyCmd) Usage() string {
	return `folio buy -q <quantity> -p <price> [-d <date>] [-a <asset>] [-c <currency>] <ticker>

  Records an acquisition in the ledger.

Example:
$ folio buy -q 10 -p 170.50 -c USD AAPL
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.parse(f, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return EncodeTransaction(tx)
}

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a disposal" }
func (*sellCmd) Usage() string {
	return `folio sell -q <quantity> -p <price> [-d <date>] <ticker>

  Records a disposal in the ledger. The quantity is given positive and
  stored signed.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.parse(f, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return EncodeTransaction(tx)
}

type dividendCmd struct{ txFlags }

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend income" }
func (*dividendCmd) Usage() string {
	return `folio dividend -q <shares held> -p <amount per share> [-d <date>] <ticker>

  Records a dividend income in the ledger.
`
}
func (c *dividendCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.parse(f, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx.Kind = folio.DividendIncome
	if err := tx.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return EncodeTransaction(tx)
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction by id" }
func (*deleteCmd) Usage() string {
	return `folio delete <id>

  Deletes a transaction from the ledger. This is the only way a record
  leaves the ledger; records are never edited in place.
`
}
func (*deleteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one id argument")
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if !ledger.Delete(f.Arg(0)) {
		fmt.Fprintf(os.Stderr, "Error: no transaction with id %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	return EncodeLedger(ledger)
}

type logCmd struct {
	ticker string
	number int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the recorded transactions" }
func (*logCmd) Usage() string {
	return `folio log [-t <ticker>] [-n <count>]

  Lists the ledger's transactions in chronological order.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Only transactions for this ticker")
	f.IntVar(&c.number, "n", 0, "Only the last n transactions (0 for all)")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	var filters []func(folio.Transaction) bool
	if c.ticker != "" {
		filters = append(filters, folio.ByTicker(c.ticker))
	}
	type line struct{ id, text string }
	var lines []line
	for _, tx := range ledger.Transactions(filters...) {
		lines = append(lines, line{tx.ID, renderer.Transaction(tx)})
	}
	if c.number > 0 && len(lines) > c.number {
		lines = lines[len(lines)-c.number:]
	}
	for i, l := range lines {
		fmt.Printf("%3d  %s  %s\n", i+1, l.id, l.text)
	}
	return subcommands.ExitSuccess
}
