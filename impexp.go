package folio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/foliodash/folio/date"
)

// this file contains the import/export format for transactions.
// It should remain human readable, single file, and easy to produce from a
// broker statement or a spreadsheet.

var csvHeader = []string{"date", "kind", "ticker", "asset", "quantity", "price", "currency", "broker", "memo"}

// ImportTransactionsCSV reads transactions in the import format: a CSV file
// with a header row and columns date, kind, ticker, asset, quantity, price,
// currency, broker, memo. Kind and broker and memo may be empty; kind
// defaults to trade.
func ImportTransactionsCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	for i, want := range csvHeader {
		if header[i] != want {
			return nil, fmt.Errorf("csv column %d is %q, want %q", i, header[i], want)
		}
	}

	var txs []Transaction
	for lineNo := 2; ; lineNo++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}

		on, err := date.Parse(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}
		asset, err := ParseAssetType(record[3])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}
		quantity, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: invalid quantity %q: %w", lineNo, record[4], err)
		}
		price, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: invalid price %q: %w", lineNo, record[5], err)
		}

		tx := NewTrade(on, record[2], Q(quantity), M(price, record[6]), asset, record[7])
		if record[1] == string(DividendIncome) {
			tx.Kind = DividendIncome
		}
		tx.Memo = record[8]
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", lineNo, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ExportTransactionsCSV writes the ledger in the import format.
func ExportTransactionsCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tx := range l.Transactions() {
		record := []string{
			tx.Date.String(),
			string(tx.Kind),
			tx.Ticker,
			string(tx.AssetType),
			tx.Quantity.String(),
			tx.Price.value.String(),
			tx.Currency(),
			tx.Broker,
			tx.Memo,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
