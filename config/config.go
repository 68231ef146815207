package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the room finder service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Schemas    SchemasConfig    `mapstructure:"schemas"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers      map[string]LLMProvider `mapstructure:"providers"`
	Routing        LLMRoutingConfig       `mapstructure:"routing"`
	MaxConcurrency int                    `mapstructure:"max_concurrency"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type        string        `mapstructure:"type"` // openai, gemini
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LLMRoutingConfig names the provider used for each task
type LLMRoutingConfig struct {
	Ranking    string `mapstructure:"ranking"`
	Enrichment string `mapstructure:"enrichment"`
}

// SchemasConfig selects the active schema versions ("name@version")
type SchemasConfig struct {
	Room   string `mapstructure:"room"`
	Delete string `mapstructure:"delete"`
	Prompt string `mapstructure:"prompt"`
}

// CorpusConfig controls the startup contents of the corpus
type CorpusConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// EnrichmentConfig controls description generation on create
type EnrichmentConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	MaxDescriptionLen int  `mapstructure:"max_description_len"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

// Normalize applies defaults for unset general values.
func (g GeneralConfig) Normalize() GeneralConfig {
	g.LogLevel = strings.ToLower(strings.TrimSpace(g.LogLevel))
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.DefaultTimeout <= 0 {
		g.DefaultTimeout = 30 * time.Second
	}
	return g
}

func (g GeneralConfig) Validate() error {
	switch g.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("general.log_level must be one of debug, info, warn, error")
}

// Normalize applies defaults for unset server values.
func (s ServerConfig) Normalize() ServerConfig {
	s.Address = strings.TrimSpace(s.Address)
	if s.Address == "" {
		s.Address = ":10001"
	}
	if s.Address[0] != ':' && !strings.Contains(s.Address, ":") {
		s.Address = ":" + s.Address
	}
	if len(s.AllowOrigins) == 0 {
		s.AllowOrigins = []string{"*"}
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	return s
}

// Normalize fills provider timeouts from the general default.
func (l LLMConfig) Normalize(defaultTimeout time.Duration) LLMConfig {
	if l.MaxConcurrency <= 0 {
		l.MaxConcurrency = 4
	}
	providers := make(map[string]LLMProvider, len(l.Providers))
	for name, p := range l.Providers {
		p.Type = strings.ToLower(strings.TrimSpace(p.Type))
		if p.Type == "" {
			p.Type = name
		}
		if p.Timeout <= 0 {
			p.Timeout = defaultTimeout
		}
		providers[name] = p
	}
	l.Providers = providers
	if l.Routing.Ranking == "" && len(providers) == 1 {
		for name := range providers {
			l.Routing.Ranking = name
		}
	}
	if l.Routing.Enrichment == "" {
		l.Routing.Enrichment = l.Routing.Ranking
	}
	return l
}

func (l LLMConfig) Validate() error {
	if len(l.Providers) == 0 {
		return fmt.Errorf("llm.providers must declare at least one provider")
	}
	names := make([]string, 0, len(l.Providers))
	for name := range l.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := l.Providers[name]
		switch p.Type {
		case "openai", "gemini":
		default:
			return fmt.Errorf("llm.providers.%s.type %q is not supported (openai, gemini)", name, p.Type)
		}
		if strings.TrimSpace(p.APIKey) == "" {
			return fmt.Errorf("llm.providers.%s.api_key required", name)
		}
	}
	for task, name := range map[string]string{"ranking": l.Routing.Ranking, "enrichment": l.Routing.Enrichment} {
		if _, ok := l.Providers[name]; !ok {
			return fmt.Errorf("llm.routing.%s references unknown provider %q", task, name)
		}
	}
	if l.MaxConcurrency < 1 {
		return fmt.Errorf("llm.max_concurrency must be >= 1")
	}
	return nil
}

// Normalize applies default schema versions.
func (s SchemasConfig) Normalize() SchemasConfig {
	if s.Room == "" {
		s.Room = "room@2"
	}
	if s.Delete == "" {
		s.Delete = "room-delete@1"
	}
	if s.Prompt == "" {
		s.Prompt = "prompt@1"
	}
	return s
}

func (e EnrichmentConfig) Validate() error {
	if e.MaxDescriptionLen < 0 {
		return fmt.Errorf("enrichment.max_description_len cannot be negative")
	}
	return nil
}

func (t TelemetryConfig) Normalize() TelemetryConfig {
	if t.MetricsPath == "" {
		t.MetricsPath = "/metrics"
	}
	if !strings.HasPrefix(t.MetricsPath, "/") {
		t.MetricsPath = "/" + t.MetricsPath
	}
	return t
}

// Load reads config from path (or the default search paths when empty),
// overlays ROOMFINDER_* environment variables and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.default_timeout", "30s")
	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("llm.max_concurrency", 4)
	v.SetDefault("enrichment.enabled", true)
	v.SetDefault("enrichment.max_description_len", 2000)
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.metrics_path", "/metrics")

	if path == "" {
		v.AddConfigPath("./config") // path to look for the config file in
		v.AddConfigPath(".")        // optionally look for config in the working directory
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("ROOMFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match (ROOMFINDER_*)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.General = config.General.Normalize()
	config.Server = config.Server.Normalize()
	config.LLM = config.LLM.Normalize(config.General.DefaultTimeout)
	config.Schemas = config.Schemas.Normalize()
	config.Telemetry = config.Telemetry.Normalize()

	if err := config.General.Validate(); err != nil {
		return nil, err
	}
	if err := config.LLM.Validate(); err != nil {
		return nil, err
	}
	if err := config.Enrichment.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
