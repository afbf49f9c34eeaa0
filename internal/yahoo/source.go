// Package yahoo implements datasource.DataSource on top of the public Yahoo
// Finance JSON endpoints. No API key is required.
package yahoo

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"resty.dev/v3"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
	"financeimporter/internal/ratelimit"
)

const (
	// Name identifies the source in cache keys and errors
	Name = "yahoo"

	// DefaultBaseURL is the Yahoo Finance query host
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	// DefaultCookieURL hands out the session cookie the crumb is bound to
	DefaultCookieURL = "https://fc.yahoo.com"

	crumbPath = "/v1/test/getcrumb"
)

// Source fetches prices, fundamentals and option chains from Yahoo Finance
type Source struct {
	mu      sync.Mutex
	client  *resty.Client
	cache   *cache.Store
	limiter *ratelimit.Limiter
	logger  *slog.Logger

	cookieURL   string
	crumb       string
	crumbLoaded bool
}

type options struct {
	cacheDir  string
	baseURL   string
	cookieURL string
	cookieSet bool
	timeout   time.Duration
	logger    *slog.Logger
	limiter   *ratelimit.Limiter
}

// Option configures a Source
type Option func(*options)

// WithCacheDir sets the directory owned by the source. Defaults to ./cache.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithBaseURL overrides the query host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithCookieURL overrides the session cookie endpoint. An empty URL skips
// the cookie request.
func WithCookieURL(cookieURL string) Option {
	return func(o *options) {
		o.cookieURL = cookieURL
		o.cookieSet = true
	}
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
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(o *options) { o.limiter = limiter }
}

// New creates a Yahoo Finance source
func New(opts ...Option) (*Source, error) {
	o := options{
		cacheDir: cache.DefaultDir,
		baseURL:  DefaultBaseURL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	// Only the real host needs the cookie dance; custom hosts get it on request.
	if !o.cookieSet && o.baseURL == DefaultBaseURL {
		o.cookieURL = DefaultCookieURL
	}

	logger := o.logger.With("source", Name)
	store, err := cache.New(Name, o.cacheDir, o.logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("cache directory resolved", "cache_dir", store.Dir())

	return &Source{
		client:    datasource.NewHTTPClient(strings.TrimRight(o.baseURL, "/"), o.timeout, logger),
		cache:     store,
		limiter:   o.limiter,
		logger:    logger,
		cookieURL: o.cookieURL,
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

// apiError is the error object embedded in every Yahoo response envelope
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// errorEnvelope captures the error object of a non-2xx response
type errorEnvelope struct {
	Chart        *struct{ Error *apiError } `json:"chart"`
	QuoteSummary *struct{ Error *apiError } `json:"quoteSummary"`
	OptionChain  *struct{ Error *apiError } `json:"optionChain"`
	Finance      *struct{ Error *apiError } `json:"finance"`
}

func (e *errorEnvelope) firstError() *apiError {
	for _, holder := range []*struct{ Error *apiError }{e.Chart, e.QuoteSummary, e.OptionChain, e.Finance} {
		if holder != nil && holder.Error != nil {
			return holder.Error
		}
	}
	return nil
}

// get performs one data request and decodes the JSON body into result
func (s *Source) get(ctx context.Context, path, symbol string, query map[string]string, result any) error {
	if err := s.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return datasource.NewNetworkError(Name, err)
	}

	crumb := s.ensureCrumb(ctx)

	var failure errorEnvelope
	req := s.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(query).
		SetResult(result).
		SetError(&failure)
	if crumb != "" {
		req.SetQueryParam("crumb", crumb)
	}

	resp, err := req.Get(path)
	if fe := datasource.CheckResponse(Name, resp, err); fe != nil {
		if apiErr := failure.firstError(); apiErr != nil && fe.StatusCode > 0 {
			fe.Message = apiErr.Description
		}
		return fe
	}

	return nil
}

// ensureCrumb performs the session handshake once. Failures are logged and
// the request proceeds without a crumb; endpoints that insist on one answer
// with 401, which surfaces as an auth FetchError.
func (s *Source) ensureCrumb(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.crumbLoaded {
		return s.crumb
	}

	if s.cookieURL != "" {
		if _, err := s.client.R().SetContext(ctx).Get(s.cookieURL); err != nil {
			s.logger.Debug("session cookie request failed", "error", err)
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(crumbPath)
	if err != nil {
		s.logger.Debug("crumb request failed", "error", err)
		return ""
	}

	s.crumbLoaded = true
	crumb := strings.TrimSpace(resp.String())
	if !resp.IsSuccess() || crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		s.logger.Debug("crumb unavailable, continuing without", "status_code", resp.StatusCode())
		return ""
	}

	s.crumb = crumb
	return crumb
}
