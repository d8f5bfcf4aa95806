package main

import (
	"context"
	"testing"
	"time"

	"github.com/sells-group/consult-cli/internal/config"
	"github.com/sells-group/consult-cli/internal/model"
	"github.com/sells-group/consult-cli/internal/pipeline"
)

const testURL = "https://www.llv.li/en/consultations"

// stubRunner returns a fixed result or error and records its inputs.
type stubRunner struct {
	result *pipeline.Result
	err    error
	inputs []pipeline.Input
}

func (s *stubRunner) Run(_ context.Context, in pipeline.Input) (*pipeline.Result, error) {
	s.inputs = append(s.inputs, in)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// useRunner replaces newRunner for the duration of the test and records the
// credentials it was built with.
func useRunner(t *testing.T, r *stubRunner, buildErr error) *[]pipeline.Credentials {
	t.Helper()
	var creds []pipeline.Credentials
	orig := newRunner
	newRunner = func(_ *config.Config, c pipeline.Credentials) (runner, error) {
		creds = append(creds, c)
		if buildErr != nil {
			return nil, buildErr
		}
		return r, nil
	}
	t.Cleanup(func() { newRunner = orig })
	return &creds
}

func testCfg() *config.Config {
	return &config.Config{
		Scrape: config.ScrapeConfig{
			Provider: "firecrawl",
			URL:      testURL,
			Fields:   []string{"Document", "deadline", "Responsibility"},
		},
		LLM: config.LLMConfig{Provider: "openai", Model: "gpt-4o"},
		Export: config.ExportConfig{
			CSVName:        "law.csv",
			XLSXName:       "law.xlsx",
			Sheet:          "Scraped Data",
			DownloadPrefix: "scraped_data",
		},
		Server: config.ServerConfig{Port: 8501, AllowedOrigins: []string{"*"}},
	}
}

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		URL:    testURL,
		Fields: []string{"Document", "deadline"},
		Source: "firecrawl",
		Table: model.NewTable([]model.Record{
			{{Name: "Document", Value: "Doc A"}, {Name: "deadline", Value: "2024-01-01"}},
			{{Name: "Document", Value: "Doc B"}},
		}),
		CompletedAt: time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC),
	}
}
