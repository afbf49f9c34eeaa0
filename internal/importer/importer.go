// Package importer is the single entry point callers use to pull market data
// from whichever source it was built with.
package importer

import (
	"context"
	"errors"

	"financeimporter/internal/datasource"
)

// ErrNilSource is returned by New when no data source is given
var ErrNilSource = errors.New("the source must be a DataSource implementation")

// Importer validates caller input and delegates to its data source. It holds
// no cache of its own; caching belongs to the source.
type Importer struct {
	source datasource.DataSource
}

// New creates an importer bound to src
func New(src datasource.DataSource) (*Importer, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return &Importer{source: src}, nil
}

// Source returns the underlying data source, for provider specific calls
func (i *Importer) Source() datasource.DataSource {
	return i.source
}

// GetData returns daily bars for symbol between start and end (YYYY-MM-DD,
// both inclusive). Input is checked before the source is touched.
func (i *Importer) GetData(ctx context.Context, symbol, start, end string) (*datasource.PriceHistory, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	startDate, err := datasource.ParseDateParam("start date", start)
	if err != nil {
		return nil, err
	}
	endDate, err := datasource.ParseDateParam("end date", end)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, datasource.NewValidationError("start", start,
			"The start date (%s) cannot be after the end date (%s).", start, end)
	}

	return i.source.GetPriceHistory(ctx, symbol, startDate, endDate)
}

// GetFundamentals returns the company snapshot for symbol
func (i *Importer) GetFundamentals(ctx context.Context, symbol string) (*datasource.Fundamentals, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return i.source.GetFundamentals(ctx, symbol)
}

// GetOptionExpirationDates returns the listed option expirations for symbol
func (i *Importer) GetOptionExpirationDates(ctx context.Context, symbol string) ([]string, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return i.source.GetOptionExpirationDates(ctx, symbol)
}

// GetOptionChain returns the calls and puts for symbol expiring on expiration
func (i *Importer) GetOptionChain(ctx context.Context, symbol, expiration string) (*datasource.OptionChain, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return i.source.GetOptionChain(ctx, symbol, expiration)
}

// ClearCache empties the source's cache directory
func (i *Importer) ClearCache(ctx context.Context) error {
	return i.source.ClearCache(ctx)
}
