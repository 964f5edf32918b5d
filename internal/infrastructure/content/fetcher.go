// Package content retrieves best-effort text from meeting detail pages
// for summarization.
package content

import (
	"context"
	"log/slog"
	"strings"

	"AgendaScanner/internal/ports"
	"AgendaScanner/internal/scraper"
)

// Containers known to hold the agenda body across both portals; first
// non-empty match wins.
var containerSelectors = []string{
	".meeting-content",
	".agenda-content",
	".meeting-details",
	"#content",
	".main-content",
}

const maxBodyChars = 5000

// Fetcher extracts the textual content of a detail page.
type Fetcher struct {
	client *scraper.FetchClient
	logger *slog.Logger
}

var _ ports.ContentFetcher = (*Fetcher)(nil)

// NewFetcher wires the shared fetch client.
func NewFetcher(client *scraper.FetchClient, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = scraper.NewFetchClient(nil)
	}
	return &Fetcher{client: client, logger: logger}
}

// FetchText returns the page text, or "" on any failure. It never
// raises toward the pipeline.
func (f *Fetcher) FetchText(ctx context.Context, url string) string {
	if strings.TrimSpace(url) == "" {
		return ""
	}

	doc, err := f.client.Document(ctx, url)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("content fetch failed", "url", url, "error", err)
		}
		return ""
	}

	for _, selector := range containerSelectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := cleanText(node.Text()); text != "" {
			return text
		}
	}

	body := cleanText(doc.Find("body").First().Text())
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}
	return body
}

// cleanText trims each line and drops empties, mirroring how the
// summarizer consumes agenda content line by line.
func cleanText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
