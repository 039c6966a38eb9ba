package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/foliodash/folio/quote"
	"github.com/foliodash/folio/server"
)

// newSources builds the market-data sources for the server. The client
// reports in the server's configured currency, not the CLI flag, so crypto
// pair suffixes and conversions follow FOLIO_CURRENCY.
func newSources(cfg server.Config) (server.Sources, error) {
	client, err := quote.NewClient(cfg.Currency)
	if err != nil {
		return server.Sources{}, err
	}
	return server.Sources{
		Quotes:    client,
		Series:    client,
		Rates:     client,
		Dividends: client,
	}, nil
}

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard JSON API" }
func (*serveCmd) Usage() string {
	return `folio serve

  Starts the HTTP server exposing the ledger, valuations, history and
  dividend suggestions as a JSON API. Configured with FOLIO_* environment
  variables, see 'folio topic serve'.
`
}
func (*serveCmd) SetFlags(_ *flag.FlagSet) {}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := server.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	store, err := server.OpenStore(cfg.LedgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	sources, err := newSources(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating quote client: %v\n", err)
		return subcommands.ExitFailure
	}

	srv, err := server.NewServer(cfg, store, sources, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
