package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/consult-cli/internal/config"
	"github.com/sells-group/consult-cli/internal/extract"
	"github.com/sells-group/consult-cli/internal/scrape"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scrape.Provider = "firecrawl"
	cfg.Scrape.TimeoutSecs = 5
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = "gpt-4o"
	return cfg
}

func TestNew_MissingKeys(t *testing.T) {
	tests := []struct {
		name      string
		scrape    string
		llm       string
		creds     Credentials
		wantField string
	}{
		{"firecrawl key", "firecrawl", "openai", Credentials{LLMKey: "sk"}, "firecrawl.key"},
		{"jina key", "jina", "openai", Credentials{LLMKey: "sk"}, "jina.key"},
		{"openai key", "firecrawl", "openai", Credentials{ScrapeKey: "fc"}, "openai.key"},
		{"anthropic key", "local", "anthropic", Credentials{}, "anthropic.key"},
		{"unknown scraper", "selenium", "openai", Credentials{ScrapeKey: "x", LLMKey: "sk"}, "scrape.provider"},
		{"unknown llm", "local", "mistral", Credentials{LLMKey: "sk"}, "llm.provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Scrape.Provider = tt.scrape
			cfg.LLM.Provider = tt.llm

			p, err := New(cfg, tt.creds)
			assert.Nil(t, p)
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantField, ce.Field)
		})
	}
}

func TestNew_LocalNeedsNoScrapeKey(t *testing.T) {
	cfg := testConfig()
	cfg.Scrape.Provider = "local"

	p, err := New(cfg, Credentials{LLMKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, scrape.ProviderLocal, p.fetcher.Source())
}

func TestNew_ConfiguredKeysUsed(t *testing.T) {
	cfg := testConfig()
	cfg.Scrape.Provider = "jina"
	cfg.LLM.Provider = "anthropic"
	cfg.Jina.Key = "jina-key"
	cfg.Anthropic.Key = "sk-ant"

	p, err := New(cfg, Credentials{})
	require.NoError(t, err)
	assert.Equal(t, scrape.ProviderJina, p.fetcher.Source())
}

func TestCredentials_Merge(t *testing.T) {
	t.Parallel()
	got := Credentials{LLMKey: "form-llm"}.Merge(Credentials{ScrapeKey: "cfg-scrape", LLMKey: "cfg-llm"})
	assert.Equal(t, Credentials{ScrapeKey: "cfg-scrape", LLMKey: "form-llm"}, got)
}

func TestConfigCredentials(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Firecrawl.Key = "fc"
	cfg.Jina.Key = "jina"
	cfg.OpenAI.Key = "oa"
	cfg.Anthropic.Key = "ant"

	assert.Equal(t, Credentials{ScrapeKey: "fc", LLMKey: "oa"}, ConfigCredentials(cfg))

	cfg.Scrape.Provider = "local"
	cfg.LLM.Provider = "anthropic"
	assert.Equal(t, Credentials{LLMKey: "ant"}, ConfigCredentials(cfg))
}

// TestRun_EndToEnd wires real Firecrawl and OpenAI clients against local
// test servers.
func TestRun_EndToEnd(t *testing.T) {
	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "Bearer form-fc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"success": true,
			"data": map[string]any{
				"markdown": "## Ongoing consultations\n- [Law A](https://www.llv.li/a) until 2024-01-01",
				"metadata": map[string]any{"title": "Consultations", "sourceURL": testURL, "statusCode": 200},
			},
		})
	}))
	defer fc.Close()

	oa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer cfg-oa", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		msgs := body["messages"].([]any)
		user := msgs[1].(map[string]any)["content"].(string)
		assert.Contains(t, user, "Law A")
		assert.Contains(t, user, `["Document","deadline"]`)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"consultations":[{"Document":"Law A (https://www.llv.li/a)","deadline":"2024-01-01"}]}`,
				},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer oa.Close()

	cfg := testConfig()
	cfg.Firecrawl.BaseURL = fc.URL
	cfg.Firecrawl.Key = "cfg-fc"
	cfg.OpenAI.BaseURL = oa.URL
	cfg.OpenAI.Key = "cfg-oa"

	p, err := New(cfg, Credentials{ScrapeKey: "form-fc"})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), Input{URL: testURL, Fields: []string{"Document", "deadline"}})
	require.NoError(t, err)
	assert.Equal(t, "firecrawl", res.Source)
	assert.Equal(t, "Consultations", res.Title)
	assert.Equal(t, [][]string{{"Law A (https://www.llv.li/a)", "2024-01-01"}}, res.Table.Rows())
}

func TestRun_EndToEndShapeError(t *testing.T) {
	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"markdown":"page"}}`)) //nolint:errcheck
	}))
	defer fc.Close()
	oa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o",` + //nolint:errcheck
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"a\": 5}"}}]}`))
	}))
	defer oa.Close()

	cfg := testConfig()
	cfg.Firecrawl.BaseURL = fc.URL
	cfg.OpenAI.BaseURL = oa.URL

	p, err := New(cfg, Credentials{ScrapeKey: "fc", LLMKey: "sk"})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), Input{URL: testURL})
	var se *extract.ShapeError
	require.ErrorAs(t, err, &se)
}

func TestRun_AnthropicDefaultModelAndFirecrawlOptions(t *testing.T) {
	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["onlyMainContent"])
		assert.Equal(t, float64(1500), body["waitFor"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"markdown":"- Law A"}}`)) //nolint:errcheck
	}))
	defer fc.Close()

	ant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, config.DefaultAnthropicModel, body["model"])
		assert.Equal(t, float64(0), body["temperature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         config.DefaultAnthropicModel,
			"content":       []map[string]any{{"type": "text", "text": `[{"Document":"Law A"}]`}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer ant.Close()

	cfg := testConfig()
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.Model = ""
	cfg.Anthropic.BaseURL = ant.URL
	cfg.Firecrawl.BaseURL = fc.URL
	cfg.Firecrawl.OnlyMainContent = true
	cfg.Firecrawl.WaitForMs = 1500

	p, err := New(cfg, Credentials{ScrapeKey: "fc", LLMKey: "sk-ant"})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), Input{URL: testURL, Fields: []string{"Document"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Law A"}}, res.Table.Rows())
}
