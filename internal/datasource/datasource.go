// Package datasource defines the capability set every market data provider
// implements, the normalized shapes they return and the shared error taxonomy.
package datasource

import (
	"context"
	"time"
)

// DataSource is the core interface that all providers must implement.
// Each provider owns its cache directory; cache hits never reach the network.
type DataSource interface {
	// Name identifies the provider. It scopes cache keys.
	Name() string

	// GetPriceHistory returns daily OHLCV bars for symbol with dates in [start, end].
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) (*PriceHistory, error)

	// GetFundamentals returns the provider-agnostic fundamentals for symbol.
	GetFundamentals(ctx context.Context, symbol string) (*Fundamentals, error)

	// GetOptionExpirationDates returns the listed expirations as YYYY-MM-DD, ascending.
	GetOptionExpirationDates(ctx context.Context, symbol string) ([]string, error)

	// GetOptionChain returns the calls and puts expiring on expiration (YYYY-MM-DD).
	GetOptionChain(ctx context.Context, symbol, expiration string) (*OptionChain, error)

	// ClearCache deletes every cached artifact owned by this source.
	ClearCache(ctx context.Context) error
}

// DateLayout is the only date format accepted and produced by sources.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
