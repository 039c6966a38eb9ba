package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/renderer"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	window string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over a look-back window" }
func (*historyCmd) Usage() string {
	return `folio history [-w <window>]

  Reconstructs the portfolio value over a look-back window and displays
  it as a table. Windows: 1d, 1w, 1m, 3m, 1y.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", string(folio.Window1D), "Look-back window: 1d, 1w, 1m, 3m or 1y")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	window, err := folio.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	client, err := NewQuoteClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quote client: %v\n", err)
		return subcommands.ExitFailure
	}

	aggregator := folio.NewAggregator(client, client, *defaultCurrency, time.Local)
	series, err := aggregator.History(ctx, ledger, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing history: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(series, window, *defaultCurrency))
	return subcommands.ExitSuccess
}
