package alphavantage

import (
	"context"
	"fmt"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

// OverviewResponse represents the OVERVIEW response. Every value is a string.
type OverviewResponse struct {
	apiMessages
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Description          string `json:"Description"`
	Exchange             string `json:"Exchange"`
	Currency             string `json:"Currency"`
	Country              string `json:"Country"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	ForwardPE            string `json:"ForwardPE"`
	PriceToBookRatio     string `json:"PriceToBookRatio"`
	DividendYield        string `json:"DividendYield"`
	EPS                  string `json:"EPS"`
	Beta                 string `json:"Beta"`
	WeekHigh52           string `json:"52WeekHigh"`
	WeekLow52            string `json:"52WeekLow"`
	SharesOutstanding    string `json:"SharesOutstanding"`
}

// GetFundamentals returns the company overview
func (s *Source) GetFundamentals(ctx context.Context, symbol string) (*datasource.Fundamentals, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindFundamentals, symbol)
	return cache.ReadThrough(ctx, s.cache, cache.KindFundamentals, key, func(ctx context.Context) (*datasource.Fundamentals, error) {
		s.logger.Info("downloading fundamentals", "symbol", symbol)

		var result OverviewResponse
		if err := s.query(ctx, "OVERVIEW", map[string]string{"symbol": symbol}, &result); err != nil {
			return nil, err
		}
		// Unknown symbols come back as an empty object.
		if result.Symbol == "" {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No fundamentals found for '%s'.", symbol))
		}

		return &datasource.Fundamentals{
			Symbol:            symbol,
			LongName:          result.Name,
			Sector:            result.Sector,
			Industry:          result.Industry,
			Country:           result.Country,
			Currency:          result.Currency,
			Exchange:          result.Exchange,
			Description:       result.Description,
			MarketCap:         lenientNumber(result.MarketCapitalization),
			TrailingPE:        lenientNumber(result.PERatio),
			ForwardPE:         lenientNumber(result.ForwardPE),
			PriceToBook:       lenientNumber(result.PriceToBookRatio),
			DividendYield:     lenientNumber(result.DividendYield),
			EPS:               lenientNumber(result.EPS),
			Beta:              lenientNumber(result.Beta),
			FiftyTwoWeekHigh:  lenientNumber(result.WeekHigh52),
			FiftyTwoWeekLow:   lenientNumber(result.WeekLow52),
			SharesOutstanding: int64(lenientNumber(result.SharesOutstanding)),
		}, nil
	})
}
