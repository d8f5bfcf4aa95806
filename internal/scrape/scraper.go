// Package scrape fetches the content of a single page through one scraping backend.
package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Provider names accepted by configuration.
const (
	ProviderFirecrawl = "firecrawl"
	ProviderJina      = "jina"
	ProviderLocal     = "local"
)

// Result is the content of one scraped page.
type Result struct {
	URL        string
	Title      string
	Content    string // markdown or plaintext, rendered into the prompt as-is
	StatusCode int
	Source     string // e.g. "firecrawl", "jina", "local"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
}

// FetchError reports a failed call to the scraping backend.
type FetchError struct {
	URL    string
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error during scraping %s via %s: %v", e.URL, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher performs exactly one scrape per call. It never retries and never
// falls back to another backend.
type Fetcher struct {
	scraper Scraper
}

// NewFetcher creates a Fetcher backed by s.
func NewFetcher(s Scraper) *Fetcher {
	return &Fetcher{scraper: s}
}

// Source returns the backend name.
func (f *Fetcher) Source() string {
	return f.scraper.Name()
}

// Fetch scrapes url. Any backend failure is returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	start := time.Now()
	res, err := f.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Source: f.scraper.Name(), Err: err}
	}

	zap.L().Info("scrape: page fetched",
		zap.String("url", url),
		zap.String("source", res.Source),
		zap.Int("status", res.StatusCode),
		zap.Int("content_bytes", len(res.Content)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
