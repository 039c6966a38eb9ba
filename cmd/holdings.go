package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/google/subcommands"

	"github.com/foliodash/folio"
	"github.com/foliodash/folio/renderer"
)

// fetchQuotes pulls one current quote per priced ticker, concurrently.
func fetchQuotes(ctx context.Context, l *folio.Ledger, quotes folio.QuoteSource) map[string]*folio.Quote {
	out := make(map[string]*folio.Quote)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for ticker := range l.Tickers() {
		if l.AssetTypeOf(ticker) == folio.Cash {
			continue
		}
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			q := quotes.CurrentQuote(ctx, ticker)
			mu.Lock()
			out[ticker] = q
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()
	return out
}

// valuate loads the ledger and runs one valuation pass against live quotes.
func valuate(ctx context.Context) ([]folio.Holding, folio.Summary, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, folio.Summary{}, fmt.Errorf("could not load ledger: %w", err)
	}
	client, err := NewQuoteClient()
	if err != nil {
		return nil, folio.Summary{}, fmt.Errorf("could not create quote client: %w", err)
	}
	quotes := fetchQuotes(ctx, ledger, client)
	holdings := folio.CurrentHoldings(ctx, ledger, quotes, client, *defaultCurrency)
	return holdings, folio.PortfolioSummary(holdings, *defaultCurrency), nil
}

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the current holdings with live prices" }
func (*holdingsCmd) Usage() string {
	return `folio holdings

  Displays every open position valued against live quotes. A position
  whose quote is unavailable is valued at cost and flagged.
`
}
func (*holdingsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holdings, _, err := valuate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(holdings))
	return subcommands.ExitSuccess
}

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio totals and notable movers" }
func (*summaryCmd) Usage() string {
	return `folio summary

  Displays the portfolio totals: value, invested capital, gain, and the
  best and worst performers.
`
}
func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holdings, summary, err := valuate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderSummary(renderer.NewSummary(summary, holdings)))
	return subcommands.ExitSuccess
}
