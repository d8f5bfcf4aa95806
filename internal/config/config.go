package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default models per LLM provider, used when llm.model is unset.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// DefaultURL is the page scraped when no URL is given.
const DefaultURL = "https://www.llv.li/en/national-administration/government-chancellery-unit/consultations/ongoing-consultations"

// Config holds the full application configuration.
type Config struct {
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig selects the fetch backend and the default target.
type ScrapeConfig struct {
	Provider    string   `yaml:"provider" mapstructure:"provider"`
	URL         string   `yaml:"url" mapstructure:"url"`
	Fields      []string `yaml:"fields" mapstructure:"fields"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	OnlyMainContent bool   `yaml:"only_main_content" mapstructure:"only_main_content"`
	WaitForMs       int    `yaml:"wait_for_ms" mapstructure:"wait_for_ms"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LLMConfig selects the completion backend and its request parameters.
// Temperature is not configurable: extraction always runs at 0.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExportConfig configures output files.
type ExportConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	CSVName        string `yaml:"csv_name" mapstructure:"csv_name"`
	XLSXName       string `yaml:"xlsx_name" mapstructure:"xlsx_name"`
	Sheet          string `yaml:"sheet" mapstructure:"sheet"`
	DownloadPrefix string `yaml:"download_prefix" mapstructure:"download_prefix"`
}

// ServerConfig configures the interactive server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxSessions    int      `yaml:"max_sessions" mapstructure:"max_sessions"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONSULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional credential variables
	for key, env := range map[string]string{
		"firecrawl.key": "FIRECRAWL_API_KEY",
		"jina.key":      "JINA_API_KEY",
		"openai.key":    "OPENAI_API_KEY",
		"anthropic.key": "ANTHROPIC_API_KEY",
	} {
		if err := v.BindEnv(key, "CONSULT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", env)
		}
	}

	// Defaults
	v.SetDefault("scrape.provider", "firecrawl")
	v.SetDefault("scrape.url", DefaultURL)
	v.SetDefault("scrape.fields", []string{"Document", "deadline", "Responsibility"})
	v.SetDefault("scrape.timeout_secs", 90)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.only_main_content", false)
	v.SetDefault("firecrawl.wait_for_ms", 0)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.csv_name", "law.csv")
	v.SetDefault("export.xlsx_name", "law.xlsx")
	v.SetDefault("export.sheet", "Scraped Data")
	v.SetDefault("export.download_prefix", "scraped_data")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_sessions", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}

	return &cfg, nil
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return DefaultAnthropicModel
	case "openai":
		return DefaultOpenAIModel
	default:
		return ""
	}
}

// Validate checks the settings a command needs before it starts.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Scrape.Provider {
	case "firecrawl", "jina", "local":
	default:
		errs = append(errs, "scrape.provider must be one of firecrawl, jina, local")
	}
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		errs = append(errs, "llm.provider must be one of openai, anthropic")
	}
	if c.LLM.Model == "" {
		errs = append(errs, "llm.model is required")
	}
	if c.LLM.Provider == "anthropic" && strings.HasPrefix(c.LLM.Model, "gpt-") {
		errs = append(errs, "llm.model "+c.LLM.Model+" is an OpenAI model but llm.provider is anthropic")
	}
	if c.LLM.Provider == "openai" && strings.HasPrefix(c.LLM.Model, "claude-") {
		errs = append(errs, "llm.model "+c.LLM.Model+" is an Anthropic model but llm.provider is openai")
	}
	if c.Firecrawl.WaitForMs < 0 {
		errs = append(errs, "firecrawl.wait_for_ms must be >= 0")
	}

	switch mode {
	case "run":
		if c.Export.CSVName == "" || c.Export.XLSXName == "" {
			errs = append(errs, "export.csv_name and export.xlsx_name are required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
