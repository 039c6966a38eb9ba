package quote

import "testing"

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		symbol string
		want   AssetClass
	}{
		{"Bare crypto code", "BTC", ClassCrypto},
		{"Crypto pair", "ETH-EUR", ClassCrypto},
		{"Lowercase crypto", "btc", ClassCrypto},
		{"Index symbol", "^GSPC", ClassIndex},
		{"Plain equity", "AAPL", ClassEquity},
		{"Equity with dash", "BRK-B", ClassEquity},
		{"Unknown passthrough", "ZZZZ", ClassEquity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.symbol); got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestIntervalFollowsClassification(t *testing.T) {
	testCases := []struct {
		name   string
		symbol string
		want   string
	}{
		{"Crypto keeps fine sampling", "BTC-EUR", "5m"},
		{"Equity coarsened", "AAPL", "15m"},
		{"Aliased index coarsened", "^GDAXI", "15m"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := intervalFor(Classify(tc.symbol), "5m"); got != tc.want {
				t.Errorf("intervalFor(Classify(%q), 5m) = %q, want %q", tc.symbol, got, tc.want)
			}
		})
	}
}

func TestFormatTicker(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{"Uppercases and trims", " aapl ", "AAPL"},
		{"Crypto gets quote suffix", "btc", "BTC-EUR"},
		{"Alias resolved", "BRK.B", "BRK-B"},
		{"Index alias", "sp500", "^GSPC"},
		{"Already suffixed crypto untouched", "ETH-EUR", "ETH-EUR"},
		{"Unknown passthrough", "ZZZZ", "ZZZZ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTicker(tc.raw, "EUR"); got != tc.want {
				t.Errorf("FormatTicker(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
