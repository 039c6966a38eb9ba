// The folio command manages a personal portfolio ledger and serves its
// dashboard API.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/foliodash/folio/cmd"
	"github.com/foliodash/folio/docs"
)

func main() {
	completion().Complete("folio")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command tree for shell completion.
func completion() *complete.Command {
	globals := map[string]complete.Predictor{
		"ledger-file": predict.Files("*.jsonl"),
		"currency":    predict.Set{"EUR", "USD", "GBP", "CHF"},
	}
	tx := map[string]complete.Predictor{
		"d": predict.Nothing,
		"a": predict.Set{"equity", "etf", "crypto", "cash"},
		"q": predict.Nothing,
		"p": predict.Nothing,
		"c": predict.Set{"EUR", "USD", "GBP", "CHF"},
		"b": predict.Nothing,
		"m": predict.Nothing,
	}
	topics, _ := docs.GetAllTopics()
	return &complete.Command{
		Flags: globals,
		Sub: map[string]*complete.Command{
			"buy":      {Flags: tx},
			"sell":     {Flags: tx},
			"dividend": {Flags: tx},
			"delete":   {},
			"log": {Flags: map[string]complete.Predictor{
				"t": predict.Nothing,
				"n": predict.Nothing,
			}},
			"import": {Args: predict.Files("*.csv")},
			"export": {},
			"holdings": {},
			"summary":  {},
			"history": {Flags: map[string]complete.Predictor{
				"w": predict.Set{"1d", "1w", "1m", "3m", "1y"},
			}},
			"dividends": {Flags: map[string]complete.Predictor{
				"record": predict.Nothing,
			}},
			"serve":  {},
			"assist": {},
			"topic":  {Args: predict.Set(topics)},
		},
	}
}
