package renderer

import (
	"fmt"
	"strings"

	"github.com/foliodash/folio"
)

// HistoryMarkdown renders a portfolio value series as a markdown report:
// the window's endpoints and extremes, then the full series as a table.
func HistoryMarkdown(s *folio.PortfolioSeries, window folio.Window, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio History (%s)\n\n", window)

	if len(s.Values) == 0 {
		fmt.Fprintln(&b, "No data points in this window.")
		return b.String()
	}

	first, last := s.Values[0], s.Values[len(s.Values)-1]
	min, max := first, first
	for _, v := range s.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	change := folio.Percent(0)
	if first != 0 {
		change = folio.Percent((last - first) / first * 100)
	}
	fmt.Fprintf(&b, "%.2f %s → %.2f %s (%s), low %.2f, high %.2f\n\n",
		first, currency, last, currency, change.SignedString(), min, max)

	if len(s.Dropped) > 0 {
		fmt.Fprintf(&b, "Unavailable in this window: %s.\n\n", strings.Join(s.Dropped, ", "))
	}

	fmt.Fprintln(&b, "| Time | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	for i, label := range s.Labels {
		fmt.Fprintf(&b, "| %s | %.2f |\n", label, s.Values[i])
	}
	return b.String()
}
