package shell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPFetcher retrieves assets over HTTP, resolving the "./"-style paths
// of the asset list against a base URL. In the browser the transport is
// the page's own fetch.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

// NewHTTPFetcher builds a fetcher. A nil client falls back to
// http.DefaultClient.
func NewHTTPFetcher(base string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{base: strings.TrimSuffix(base, "/"), client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	rel := strings.TrimPrefix(assetPath, ".")
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base+rel, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %q: %w", assetPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch asset %q: unexpected status %d", assetPath, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
