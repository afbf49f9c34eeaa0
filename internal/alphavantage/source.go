// Package alphavantage implements datasource.DataSource on top of the Alpha
// Vantage query API. Every call needs an API key.
package alphavantage

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
	"financeimporter/internal/ratelimit"
)

const (
	// Name identifies the source in cache keys and errors
	Name = "alphavantage"

	// DefaultBaseURL is the Alpha Vantage query endpoint
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// DefaultCacheDir is the cache folder used when none is configured
	DefaultCacheDir = "alpha_vantage_cache"
)

// Source fetches prices, fundamentals and option chains from Alpha Vantage
type Source struct {
	apiKey  string
	client  *resty.Client
	cache   *cache.Store
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

type options struct {
	cacheDir string
	baseURL  string
	timeout  time.Duration
	logger   *slog.Logger
	limiter  *ratelimit.Limiter
}

// Option configures a Source
type Option func(*options)

// WithCacheDir sets the directory owned by the source. Defaults to ./alpha_vantage_cache.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithBaseURL overrides the query endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTimeout bounds each HTTP round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLimiter makes the source wait on limiter before every network call.
// The free tier allows ratelimit.AlphaVantageFreeTierPerMinute calls.
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(o *options) { o.limiter = limiter }
}

// New creates an Alpha Vantage source. An empty apiKey is rejected.
func New(apiKey string, opts ...Option) (*Source, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, datasource.NewValidationError("api_key", "", "An Alpha Vantage API key is required.")
	}

	o := options{
		cacheDir: DefaultCacheDir,
		baseURL:  DefaultBaseURL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	logger := o.logger.With("source", Name)
	store, err := cache.New(Name, o.cacheDir, o.logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache directory resolved", "cache_dir", store.Dir())

	return &Source{
		apiKey:  apiKey,
		client:  datasource.NewHTTPClient(o.baseURL, o.timeout, logger),
		cache:   store,
		limiter: o.limiter,
		logger:  logger,
	}, nil
}

// Name implements datasource.DataSource
func (s *Source) Name() string {
	return Name
}

// CacheDir returns the absolute cache directory of the source
func (s *Source) CacheDir() string {
	return s.cache.Dir()
}

// ClearCache removes every cached artifact of the source
func (s *Source) ClearCache(_ context.Context) error {
	_, err := s.cache.Clear()
	return err
}

// Close releases idle connections
func (s *Source) Close() error {
	return s.client.Close()
}

// apiMessages are the keys Alpha Vantage uses to report failures inside a
// 200 response.
type apiMessages struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (m apiMessages) softError() *datasource.FetchError {
	switch {
	case m.ErrorMessage != "":
		return datasource.NewFetchError(Name, datasource.ErrorKindClient, m.ErrorMessage)
	case m.Note != "":
		return datasource.NewFetchError(Name, datasource.ErrorKindRateLimit, m.Note)
	case m.Information != "":
		if strings.Contains(strings.ToLower(m.Information), "premium endpoint") {
			return datasource.NewFetchError(Name, datasource.ErrorKindAuth, m.Information)
		}
		return datasource.NewFetchError(Name, datasource.ErrorKindRateLimit, m.Information)
	}
	return nil
}

// softErrorer is implemented by every response type
type softErrorer interface {
	softError() *datasource.FetchError
}

// query performs one call of function and decodes the JSON body into result
func (s *Source) query(ctx context.Context, function string, params map[string]string, result softErrorer) error {
	if err := s.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return datasource.NewNetworkError(Name, err)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParams(map[string]string{
			"apikey":   s.apiKey,
			"function": function,
		}).
		SetResult(result).
		Get("")
	if fe := datasource.CheckResponse(Name, resp, err); fe != nil {
		return fe
	}

	if fe := result.softError(); fe != nil {
		return fe
	}
	return nil
}

// number parses an Alpha Vantage numeric field. "None", "-" and empty
// strings mean the value is not reported and map to zero.
func number(s string) (float64, error) {
	switch s = strings.TrimSpace(s); s {
	case "", "None", "-":
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

// lenientNumber is number for fields where a malformed value is treated as unreported
func lenientNumber(s string) float64 {
	f, err := number(s)
	if err != nil {
		return 0
	}
	return f
}
