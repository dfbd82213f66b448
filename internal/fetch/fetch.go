package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/modinc01/go-nogo-scraper/internal/config"
)

// Fetcher retrieves the raw sold-listing search page for a query. It is a
// black box to the pipeline: bytes out or an error, no retry policy, no
// encoding interpretation.
type Fetcher struct {
	client    *resty.Client
	searchURL string
}

func New(cfg config.SiteConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "ja,en-US;q=0.8,en;q=0.6")

	return &Fetcher{client: client, searchURL: cfg.SearchURL}
}

func (f *Fetcher) Fetch(ctx context.Context, query string) ([]byte, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("query required")
	}
	target := fmt.Sprintf(f.searchURL, url.QueryEscape(trimmed))

	resp, err := f.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}
