package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported data sources
const (
	SourceYahoo        = "yahoo"
	SourceAlphaVantage = "alphavantage"
)

// Config holds all configuration for the importer.
type Config struct {
	// Which provider to import from
	Source string `mapstructure:"source"`

	// Cache folders, one per provider
	CacheDir             string `mapstructure:"cache_dir"`
	AlphavantageCacheDir string `mapstructure:"alphavantage_cache_dir"`

	// API Keys
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	YahooBaseURL        string `mapstructure:"yahoo_base_url"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`

	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// Alpha Vantage calls allowed per minute; 0 disables the limiter
	AlphavantageRequestsPerMinute float64 `mapstructure:"alphavantage_requests_per_minute"`

	// What to import
	Symbols      []string `mapstructure:"symbols"`
	StartDate    string   `mapstructure:"start_date"`
	EndDate      string   `mapstructure:"end_date"`
	Fundamentals bool     `mapstructure:"fundamentals"`
	ClearCache   bool     `mapstructure:"clear_cache"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognized environment variables:
//   - SOURCE (yahoo or alphavantage, defaults to yahoo)
//   - CACHE_DIR, ALPHAVANTAGE_CACHE_DIR
//   - ALPHAVANTAGE_API_KEY (required for the alphavantage source)
//   - YAHOO_BASE_URL, ALPHAVANTAGE_BASE_URL (optional, default to production)
//   - HTTP_TIMEOUT (e.g. 30s)
//   - ALPHAVANTAGE_REQUESTS_PER_MINUTE
//   - SYMBOLS (comma separated), START_DATE, END_DATE (YYYY-MM-DD)
//   - FUNDAMENTALS, CLEAR_CACHE
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	v.SetDefault("source", SourceYahoo)
	v.SetDefault("cache_dir", "cache")
	v.SetDefault("alphavantage_cache_dir", "alpha_vantage_cache")
	v.SetDefault("yahoo_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("alphavantage_requests_per_minute", 0)
	v.SetDefault("fundamentals", false)
	v.SetDefault("clear_cache", false)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.financeimporter")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range []string{
		"source", "cache_dir", "alphavantage_cache_dir", "alphavantage_api_key",
		"yahoo_base_url", "alphavantage_base_url", "http_timeout",
		"alphavantage_requests_per_minute", "symbols", "start_date", "end_date",
		"fundamentals", "clear_cache",
	} {
		v.BindEnv(key, strings.ToUpper(key))
	}

	// Unmarshal config into struct (durations and comma lists via viper's decode hooks)
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) normalize() {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	c.AlphavantageAPIKey = strings.TrimSpace(c.AlphavantageAPIKey)

	symbols := c.Symbols[:0]
	for _, s := range c.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	c.Symbols = symbols
}

// Validate checks the source selection and its required settings
func (c *Config) Validate() error {
	switch c.Source {
	case SourceYahoo:
	case SourceAlphaVantage:
		if c.AlphavantageAPIKey == "" {
			return fmt.Errorf("missing required configuration: ALPHAVANTAGE_API_KEY")
		}
	default:
		return fmt.Errorf("unknown source %q: must be %s or %s", c.Source, SourceYahoo, SourceAlphaVantage)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	if c.AlphavantageRequestsPerMinute < 0 {
		return fmt.Errorf("alphavantage_requests_per_minute must not be negative, got %v", c.AlphavantageRequestsPerMinute)
	}
	return nil
}

// DateRange returns the configured start and end dates. A missing end date
// means today and a missing start date means one year before the end.
func (c *Config) DateRange(now time.Time) (start, end string) {
	const layout = "2006-01-02"

	end = c.EndDate
	endDate := now.UTC()
	if end == "" {
		end = endDate.Format(layout)
	} else if parsed, err := time.Parse(layout, end); err == nil {
		endDate = parsed
	}

	start = c.StartDate
	if start == "" {
		start = endDate.AddDate(-1, 0, 0).Format(layout)
	}
	return start, end
}
