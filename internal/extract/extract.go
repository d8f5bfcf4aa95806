// Package extract turns scraped page content into a table of records by
// asking an LLM for JSON and normalizing the reply.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/consult-cli/internal/llm"
	"github.com/sells-group/consult-cli/internal/model"
	"github.com/sells-group/consult-cli/internal/scrape"
)

// Options configures the completion request. Temperature is always 0 so
// repeated extractions of the same page agree.
type Options struct {
	Model     string
	MaxTokens int64
}

// Extractor performs one LLM call per extraction.
type Extractor struct {
	llm  llm.Completer
	opts Options
}

// New creates an Extractor.
func New(c llm.Completer, opts Options) *Extractor {
	return &Extractor{llm: c, opts: opts}
}

// Extract asks the LLM for the requested fields and returns the normalized
// table. Errors are *CompletionError, *ParseError, or *ShapeError.
func (e *Extractor) Extract(ctx context.Context, page *scrape.Result, fields []string) (*model.Table, error) {
	system, user := BuildPrompt(page, fields)

	resp, err := e.llm.Complete(ctx, llm.Request{
		Model:       e.opts.Model,
		System:      system,
		User:        user,
		Temperature: 0,
		MaxTokens:   e.opts.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, &CompletionError{Provider: e.llm.Name(), Err: err}
	}

	table, shape, err := Normalize(resp.Text)
	if err != nil {
		zap.L().Warn("extract: response rejected",
			zap.String("url", page.URL),
			zap.Int("response_bytes", len(resp.Text)),
			zap.Error(err),
		)
		return nil, err
	}

	zap.L().Info("extract: records extracted",
		zap.String("url", page.URL),
		zap.String("shape", shape.String()),
		zap.Int("records", table.Len()),
		zap.Strings("columns", table.Columns()),
	)
	return table, nil
}
