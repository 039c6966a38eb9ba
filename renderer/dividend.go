package renderer

import (
	"fmt"
	"strings"

	"github.com/foliodash/folio"
)

// SuggestionsMarkdown renders the missing-dividend suggestions found by a
// reconciliation scan.
func SuggestionsMarkdown(suggestions []folio.DividendSuggestion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dividend Suggestions\n\n")
	if len(suggestions) == 0 {
		fmt.Fprintln(&b, "No unrecorded dividend found.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Ex-Date | Ticker | Per Share | Held | Gross | Rate |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, s := range suggestions {
		rate := "-"
		if s.ExchangeRateUsed != 0 {
			rate = fmt.Sprintf("%.4f (%s)", s.ExchangeRateUsed, s.RateDate)
		}
		fmt.Fprintf(&b, "| %s | %s | %.4f | %s | %s | %s |\n",
			s.Date, s.Ticker, s.AmountPerShare, s.QuantityHeld, s.GrossAmount, rate)
	}
	fmt.Fprintf(&b, "\nConfirm a suggestion to record it in the ledger.\n")
	return b.String()
}
