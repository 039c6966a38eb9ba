package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/renderer"
)

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	record bool
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "scan for dividends missing from the ledger" }
func (*dividendsCmd) Usage() string {
	return `folio dividends [-record]

  Cross-references the provider's corporate-actions history against the
  ledger and lists the dividend payments that are missing. With -record,
  every suggestion is confirmed and appended to the ledger.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.record, "record", false, "record every suggestion in the ledger")
}

func (c *dividendsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	r := &folio.Reconciler{Dividends: client, Rates: client, Reporting: *defaultCurrency}
	suggestions := r.ScanForMissingDividends(ctx, ledger)
	printMarkdown(renderer.SuggestionsMarkdown(suggestions))

	if !c.record {
		return subcommands.ExitSuccess
	}
	for _, s := range suggestions {
		if status := EncodeTransaction(s.Transaction(ledger)); status != subcommands.ExitSuccess {
			return status
		}
	}
	return subcommands.ExitSuccess
}
