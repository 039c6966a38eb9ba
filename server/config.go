package server

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the server configuration, read from FOLIO_* environment
// variables.
type Config struct {
	Port           string        `env:"FOLIO_PORT" envDefault:"8080"`
	CORSOrigin     string        `env:"FOLIO_CORS_ORIGIN" envDefault:"*"`
	Currency       string        `env:"FOLIO_CURRENCY" envDefault:"EUR"`
	LedgerFile     string        `env:"FOLIO_LEDGER" envDefault:"transactions.jsonl"`
	CacheTTL       time.Duration `env:"FOLIO_CACHE_TTL" envDefault:"30s"`
	Refresh        time.Duration `env:"FOLIO_REFRESH" envDefault:"60s"`
	MarketOpenHour int           `env:"FOLIO_MARKET_OPEN" envDefault:"9"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	return cfg, env.Parse(&cfg)
}
