package renderer

import (
	"fmt"
	"strings"

	"github.com/foliodash/folio"
)

// HoldingsMarkdown renders the current holdings as a markdown table.
func HoldingsMarkdown(holdings []folio.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "The ledger holds no open position.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Ticker | Asset | Quantity | Avg Cost | Value | Gain | Gain % |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
	for _, h := range holdings {
		ticker := h.Ticker
		if h.Stale {
			// no live quote, valued at cost
			ticker += " ⚠"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			ticker,
			h.AssetType,
			h.Quantity,
			h.AverageCost,
			h.CurrentValue,
			h.Gain.SignedString(),
			h.GainPct.SignedString(),
		)
	}
	return b.String()
}
