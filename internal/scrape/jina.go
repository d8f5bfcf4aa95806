package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/consult-cli/pkg/jina"
)

// JinaAdapter wraps a Jina Reader client as a Scraper.
type JinaAdapter struct {
	client jina.Client
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{client: client}
}

// Name implements Scraper.
func (j *JinaAdapter) Name() string { return ProviderJina }

// Scrape fetches a URL via Jina Reader.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := j.client.Read(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	if resp.Code != 0 && resp.Code != 200 {
		return nil, eris.Errorf("jina: reader returned code %d", resp.Code)
	}
	if strings.TrimSpace(resp.Data.Content) == "" {
		return nil, eris.New("jina: empty content")
	}

	pageURL := resp.Data.URL
	if pageURL == "" {
		pageURL = targetURL
	}
	code := resp.Code
	if code == 0 {
		code = 200
	}
	return &Result{
		URL:        pageURL,
		Title:      resp.Data.Title,
		Content:    resp.Data.Content,
		StatusCode: code,
		Source:     ProviderJina,
	}, nil
}
