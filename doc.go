// Package folio provides the core types and calculations behind a personal
// finance dashboard. It is designed to be local-first and auditable: the
// ledger is a plain JSONL file under the user's control, and every valuation
// is recomputed from it.
//
// The core functionalities include:
//   - Ledger Management: recording trades and dividend income as signed
//     quantity transactions in a chronological, validated record.
//   - Market Data Integration: pluggable quote, series, rate and dividend
//     sources (the quote subpackage implements them against Yahoo Finance).
//   - Valuation: computing current holdings, portfolio summaries and
//     historical value series in a single reporting currency, degrading
//     gracefully when market data is unavailable.
//   - Dividend Reconciliation: comparing the provider's dividend calendar
//     against the ledger and suggesting missing income records.
//
// This package serves as the foundational logic for the `folio` command-line
// tool and the dashboard HTTP server.
package folio
