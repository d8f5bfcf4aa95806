package pipeline

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sells-group/consult-cli/internal/config"
	"github.com/sells-group/consult-cli/internal/extract"
	"github.com/sells-group/consult-cli/internal/llm"
	"github.com/sells-group/consult-cli/internal/scrape"
	"github.com/sells-group/consult-cli/pkg/anthropic"
	"github.com/sells-group/consult-cli/pkg/firecrawl"
	"github.com/sells-group/consult-cli/pkg/jina"
)

// Credentials are the API keys for the selected backends. Empty values fall
// back to the configured keys.
type Credentials struct {
	ScrapeKey string
	LLMKey    string
}

// ConfigCredentials returns the configured keys for the selected providers.
func ConfigCredentials(cfg *config.Config) Credentials {
	var c Credentials
	switch cfg.Scrape.Provider {
	case scrape.ProviderFirecrawl:
		c.ScrapeKey = cfg.Firecrawl.Key
	case scrape.ProviderJina:
		c.ScrapeKey = cfg.Jina.Key
	}
	switch cfg.LLM.Provider {
	case llm.ProviderOpenAI:
		c.LLMKey = cfg.OpenAI.Key
	case llm.ProviderAnthropic:
		c.LLMKey = cfg.Anthropic.Key
	}
	return c
}

// Merge returns c with empty keys filled from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	if c.ScrapeKey == "" {
		c.ScrapeKey = fallback.ScrapeKey
	}
	if c.LLMKey == "" {
		c.LLMKey = fallback.LLMKey
	}
	return c
}

// New builds a Pipeline for the providers selected in cfg. Keys in creds take
// precedence over configured keys. A missing key is a *ConfigurationError and
// no client is created.
func New(cfg *config.Config, creds Credentials) (*Pipeline, error) {
	creds = creds.Merge(ConfigCredentials(cfg))

	scraper, err := newScraper(cfg, creds.ScrapeKey)
	if err != nil {
		return nil, err
	}
	completer, err := newCompleter(cfg, creds.LLMKey)
	if err != nil {
		return nil, err
	}

	model := cfg.LLM.Model
	if model == "" {
		model = config.DefaultModel(cfg.LLM.Provider)
	}
	ex := extract.New(completer, extract.Options{
		Model:     model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	return NewWithCollaborators(scrape.NewFetcher(scraper), ex), nil
}

func newScraper(cfg *config.Config, key string) (scrape.Scraper, error) {
	timeout := time.Duration(cfg.Scrape.TimeoutSecs) * time.Second

	switch cfg.Scrape.Provider {
	case scrape.ProviderFirecrawl, "":
		if key == "" {
			return nil, &ConfigurationError{Field: "firecrawl.key", Reason: "a Firecrawl API key is required"}
		}
		opts := []firecrawl.Option{firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL)}
		if timeout > 0 {
			opts = append(opts, firecrawl.WithTimeout(timeout))
		}
		return scrape.NewFirecrawlAdapter(firecrawl.NewClient(key, opts...),
			scrape.WithOnlyMainContent(cfg.Firecrawl.OnlyMainContent),
			scrape.WithWaitFor(cfg.Firecrawl.WaitForMs),
		), nil
	case scrape.ProviderJina:
		if key == "" {
			return nil, &ConfigurationError{Field: "jina.key", Reason: "a Jina API key is required"}
		}
		return scrape.NewJinaAdapter(jina.NewClient(key, jina.WithBaseURL(cfg.Jina.BaseURL))), nil
	case scrape.ProviderLocal:
		return scrape.NewLocalScraper(timeout), nil
	default:
		return nil, &ConfigurationError{Field: "scrape.provider", Reason: "unknown provider " + cfg.Scrape.Provider}
	}
}

func newCompleter(cfg *config.Config, key string) (llm.Completer, error) {
	switch cfg.LLM.Provider {
	case llm.ProviderOpenAI, "":
		if key == "" {
			return nil, &ConfigurationError{Field: "openai.key", Reason: "an OpenAI API key is required"}
		}
		return llm.NewOpenAI(key, cfg.OpenAI.BaseURL), nil
	case llm.ProviderAnthropic:
		if key == "" {
			return nil, &ConfigurationError{Field: "anthropic.key", Reason: "an Anthropic API key is required"}
		}
		var opts []option.RequestOption
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		return llm.NewAnthropic(anthropic.NewClient(key, opts...)), nil
	default:
		return nil, &ConfigurationError{Field: "llm.provider", Reason: "unknown provider " + cfg.LLM.Provider}
	}
}
