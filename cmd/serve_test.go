package cmd

import (
	"testing"

	"github.com/foliodash/folio/quote"
	"github.com/foliodash/folio/server"
)

func TestServerSourcesUseConfiguredCurrency(t *testing.T) {
	sources, err := newSources(server.Config{Currency: "USD"})
	if err != nil {
		t.Fatal(err)
	}
	client, ok := sources.Quotes.(*quote.Client)
	if !ok {
		t.Fatalf("Quotes source is %T, want *quote.Client", sources.Quotes)
	}
	if got := client.Currency(); got != "USD" {
		t.Errorf("client currency = %q, want the server's configured USD", got)
	}
}
