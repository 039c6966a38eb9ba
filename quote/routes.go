package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Error taxonomy of the provider boundary. All four are recovered inside
// this package; they are exported so tests and logs can tell them apart.
var (
	ErrTransport = errors.New("quote: transport failure")
	ErrFormat    = errors.New("quote: unexpected response shape")
	ErrNotFound  = errors.New("quote: symbol unknown to provider")
	ErrEmpty     = errors.New("quote: no data in range")
)

// Route is one way to reach the provider. Routes are tried in a fixed
// priority order; the first successful, non-empty response wins.
type Route struct {
	Name string
	// Rewrite turns the target provider URL into the URL actually
	// requested. The direct route is the identity.
	Rewrite func(target string) string
}

// DirectRoute reaches the provider without an intermediary.
func DirectRoute() Route {
	return Route{Name: "direct", Rewrite: func(target string) string { return target }}
}

// ProxyRoute reaches the provider through a pass-through proxy that
// expects the target URL as a query-escaped suffix.
func ProxyRoute(name, base string) Route {
	return Route{Name: name, Rewrite: func(target string) string {
		return base + url.QueryEscape(target)
	}}
}

// get fetches the target URL over the routes in priority order and returns
// the first successful non-empty body. Each attempt is bounded by the
// client's timeout; a timeout is treated like any other transport failure.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for _, route := range c.routes {
		body, err := c.getOnce(ctx, route.Rewrite(target))
		if err == nil {
			return body, nil
		}
		lastErr = err
		if errors.Is(err, ErrNotFound) {
			// Another route will not make the symbol exist.
			return nil, err
		}
	}
	if lastErr == nil {
		lastErr = ErrTransport
	}
	return nil, fmt.Errorf("all routes failed for %s: %w", target, lastErr)
}

func (c *Client) getOnce(ctx context.Context, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: http %d from %s", ErrTransport, resp.StatusCode, addr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(body) == 0 {
		return nil, ErrEmpty
	}
	return body, nil
}
