package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "AgendaScanner/1.0"
)

// FetchClient is the shared page-fetching capability handed to every
// adapter, instead of adapters owning their own HTTP setup.
type FetchClient struct {
	client *http.Client
}

// NewFetchClient wraps an HTTP client; a nil argument gets a bounded
// default so a stalled site cannot hang a scrape pass.
func NewFetchClient(client *http.Client) *FetchClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &FetchClient{client: client}
}

// Document fetches a page and parses it into a goquery document.
func (c *FetchClient) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
