package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/consult-cli/pkg/firecrawl"
)

// FirecrawlAdapter wraps a Firecrawl client as a Scraper.
type FirecrawlAdapter struct {
	client          firecrawl.Client
	onlyMainContent bool
	waitForMs       int
}

// FirecrawlOption configures a FirecrawlAdapter.
type FirecrawlOption func(*FirecrawlAdapter)

// WithOnlyMainContent asks Firecrawl to drop headers, navigation and footers.
func WithOnlyMainContent(only bool) FirecrawlOption {
	return func(f *FirecrawlAdapter) { f.onlyMainContent = only }
}

// WithWaitFor makes Firecrawl wait ms milliseconds for client-side rendering.
func WithWaitFor(ms int) FirecrawlOption {
	return func(f *FirecrawlAdapter) {
		if ms > 0 {
			f.waitForMs = ms
		}
	}
}

// NewFirecrawlAdapter creates a FirecrawlAdapter from a Firecrawl client.
func NewFirecrawlAdapter(client firecrawl.Client, opts ...FirecrawlOption) *FirecrawlAdapter {
	f := &FirecrawlAdapter{client: client}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return ProviderFirecrawl }

// Scrape fetches a single URL via Firecrawl's scrape API.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             targetURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: f.onlyMainContent,
		WaitFor:         f.waitForMs,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		if resp.Error != "" {
			return nil, eris.Errorf("firecrawl: scrape not successful: %s", resp.Error)
		}
		return nil, eris.New("firecrawl: scrape not successful")
	}

	pageURL := resp.Data.Metadata.SourceURL
	if pageURL == "" {
		pageURL = targetURL
	}
	return &Result{
		URL:        pageURL,
		Title:      resp.Data.Metadata.Title,
		Content:    resp.Data.Markdown,
		StatusCode: resp.Data.Metadata.StatusCode,
		Source:     ProviderFirecrawl,
	}, nil
}
