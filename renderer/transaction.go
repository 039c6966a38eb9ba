package renderer

import (
	"fmt"

	"github.com/foliodash/folio"
)

// Transaction renders a transaction to a one-line string.
func Transaction(tx folio.Transaction) string {
	switch {
	case tx.Kind == folio.DividendIncome:
		return fmt.Sprintf("Dividend of %s for %s on %s", tx.Amount(), tx.Ticker, tx.Date)
	case tx.IsAcquisition():
		return fmt.Sprintf("Bought %s of %s for %s on %s", tx.Quantity, tx.Ticker, tx.Amount(), tx.Date)
	default:
		return fmt.Sprintf("Sold %s of %s for %s on %s", tx.Quantity.Neg(), tx.Ticker, tx.Amount().Neg(), tx.Date)
	}
}
