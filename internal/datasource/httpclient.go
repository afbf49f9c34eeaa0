package datasource

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds a single provider round trip
	DefaultTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// NewHTTPClient creates the resty client shared by the provider adapters.
// Retries are disabled: failures surface to the caller unchanged.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		AddResponseMiddleware(responseLogger(logger))

	return client
}

// responseLogger logs every completed round trip for observability
func responseLogger(logger *slog.Logger) resty.ResponseMiddleware {
	return func(_ *resty.Client, r *resty.Response) error {
		logger.Debug("provider response",
			"url", r.Request.URL,
			"status_code", r.StatusCode(),
			"duration", r.Duration())
		return nil
	}
}

// CheckResponse maps the outcome of a resty call onto a FetchError and
// returns nil for a successful, decodable response. A response that arrived
// but could not be decoded is an invalid_response, not a network failure.
func CheckResponse(source string, resp *resty.Response, err error) *FetchError {
	if resp != nil && resp.StatusCode() > 0 {
		if !resp.IsSuccess() {
			return ClassifyHTTPError(source, resp.StatusCode())
		}
		if err != nil {
			return NewInvalidResponseError(source, "failed to decode response body", err)
		}
		return nil
	}
	if err != nil {
		return NewNetworkError(source, err)
	}
	return nil
}
