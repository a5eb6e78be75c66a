// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fd1az/swap-explorer/internal/asset"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Jupiter   JupiterConfig   `mapstructure:"jupiter"`
	Explorer  ExplorerConfig  `mapstructure:"explorer"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// JupiterConfig holds the aggregator endpoints.
type JupiterConfig struct {
	TokenListURL       string        `mapstructure:"token_list_url"`
	QuoteURL           string        `mapstructure:"quote_url"`
	APIKey             string        `mapstructure:"api_key"`
	Slippage           int           `mapstructure:"slippage"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
}

// ExplorerConfig holds query defaults.
type ExplorerConfig struct {
	ReferenceMint    string        `mapstructure:"reference_mint"`
	ReferenceSymbol  string        `mapstructure:"reference_symbol"`
	DefaultThreshold float64       `mapstructure:"default_threshold"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
	WarmCatalog      bool          `mapstructure:"warm_catalog"`
}

// DefaultThresholdDecimal returns the default profit threshold.
func (c *ExplorerConfig) DefaultThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultThreshold)
}

// Cache drivers.
const (
	CacheDriverBolt   = "bolt"
	CacheDriverMemory = "memory"
)

// CacheConfig selects where the token catalog is persisted.
type CacheConfig struct {
	Driver     string `mapstructure:"driver"`
	Path       string `mapstructure:"path"`
	CatalogKey string `mapstructure:"catalog_key"`
}

// ServerConfig holds the HTTP API settings used by serve.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	HealthPort   int           `mapstructure:"health_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SWX")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SWX_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SWX_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SWX_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_file", "SWX_LOG_FILE")

	// Jupiter
	v.BindEnv("jupiter.token_list_url", "SWX_JUPITER_TOKEN_LIST_URL", "JUPITER_TOKEN_LIST_URL")
	v.BindEnv("jupiter.quote_url", "SWX_JUPITER_QUOTE_URL", "JUPITER_QUOTE_URL")
	v.BindEnv("jupiter.api_key", "SWX_JUPITER_API_KEY", "JUPITER_API_KEY")
	v.BindEnv("jupiter.rate_limit_per_minute", "SWX_JUPITER_RATE_LIMIT")

	// Explorer
	v.BindEnv("explorer.reference_mint", "SWX_REFERENCE_MINT")
	v.BindEnv("explorer.default_threshold", "SWX_DEFAULT_THRESHOLD")
	v.BindEnv("explorer.query_timeout", "SWX_QUERY_TIMEOUT")

	// Cache
	v.BindEnv("cache.driver", "SWX_CACHE_DRIVER")
	v.BindEnv("cache.path", "SWX_CACHE_PATH")

	// Server
	v.BindEnv("server.port", "SWX_SERVER_PORT", "PORT")
	v.BindEnv("server.health_port", "SWX_HEALTH_PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SWX_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SWX_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SWX_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "swap-explorer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("jupiter.token_list_url", "https://token.jup.ag/all")
	v.SetDefault("jupiter.quote_url", "https://quote-api.jup.ag/v6")
	v.SetDefault("jupiter.slippage", 1)
	v.SetDefault("jupiter.request_timeout", "0s")
	v.SetDefault("jupiter.rate_limit_per_minute", 60)

	v.SetDefault("explorer.reference_mint", asset.MintSOL)
	v.SetDefault("explorer.reference_symbol", "SOL")
	v.SetDefault("explorer.default_threshold", 0.5)
	v.SetDefault("explorer.query_timeout", "30s")
	v.SetDefault("explorer.warm_catalog", false)

	v.SetDefault("cache.driver", CacheDriverBolt)
	v.SetDefault("cache.path", "swap-explorer.db")
	v.SetDefault("cache.catalog_key", "jupiterTokens")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "swap-explorer")
	v.SetDefault("telemetry.trace_provider", "zipkin")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validateURL("jupiter.token_list_url", c.Jupiter.TokenListURL); err != nil {
		return err
	}
	if err := validateURL("jupiter.quote_url", c.Jupiter.QuoteURL); err != nil {
		return err
	}
	if c.Jupiter.Slippage < 0 {
		return fmt.Errorf("jupiter.slippage must not be negative")
	}
	if _, err := asset.ParseMint(c.Explorer.ReferenceMint); err != nil {
		return fmt.Errorf("invalid explorer.reference_mint: %w", err)
	}
	if c.Explorer.QueryTimeout < 0 {
		return fmt.Errorf("explorer.query_timeout must not be negative")
	}
	switch c.Cache.Driver {
	case CacheDriverBolt:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the bolt driver")
		}
	case CacheDriverMemory:
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.CatalogKey == "" {
		return fmt.Errorf("cache.catalog_key is required")
	}
	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
