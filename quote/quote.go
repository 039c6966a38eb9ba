// Package quote implements the quote-provider boundary: symbol formatting,
// asset classification, current quotes, historical series, dividend
// histories and FX rates, fetched over an ordered list of access routes.
//
// Every failure shape of the provider (transport, malformed payload,
// unknown symbol, empty result) is recovered here and converted to the
// soft-failure contract the valuation layer expects: a nil quote or an
// empty series, never a hard error.
package quote

import (
	"strings"
)

// AssetClass is the closed classification consumed by the dispatch tables
// for anchor time and interval policy.
type AssetClass int

const (
	ClassEquity AssetClass = iota
	ClassCrypto
	ClassIndex
)

func (c AssetClass) String() string {
	switch c {
	case ClassCrypto:
		return "crypto"
	case ClassIndex:
		return "index"
	default:
		return "equity"
	}
}

// cryptoCodes are asset codes quoted around the clock. A bare code gets the
// quote-currency suffix appended by FormatTicker.
var cryptoCodes = map[string]bool{
	"BTC": true, "ETH": true, "ADA": true, "SOL": true, "DOT": true,
	"XRP": true, "LTC": true, "DOGE": true, "BNB": true, "AVAX": true,
	"MATIC": true, "LINK": true,
}

// aliases maps user spellings to the provider's symbol.
var aliases = map[string]string{
	"BRK.B":  "BRK-B",
	"BRK.A":  "BRK-A",
	"DAX":    "^GDAXI",
	"SP500":  "^GSPC",
	"NASDAQ": "^IXIC",
}

// Classify returns the asset class of a provider symbol.
func Classify(symbol string) AssetClass {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasPrefix(symbol, "^") {
		return ClassIndex
	}
	if cryptoCodes[symbol] {
		return ClassCrypto
	}
	if base, _, found := strings.Cut(symbol, "-"); found && cryptoCodes[base] {
		return ClassCrypto
	}
	return ClassEquity
}

// FormatTicker normalizes a raw ticker into the provider's symbol format:
// uppercased, trimmed, aliases resolved, and the quote-currency suffix
// appended to bare crypto codes. Unknown tickers pass through unchanged.
func FormatTicker(raw, quoteCurrency string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if mapped, ok := aliases[symbol]; ok {
		symbol = mapped
	}
	if cryptoCodes[symbol] {
		symbol = symbol + "-" + strings.ToUpper(quoteCurrency)
	}
	return symbol
}
