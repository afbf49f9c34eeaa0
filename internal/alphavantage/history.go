package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

// DailyAdjustedResponse represents the TIME_SERIES_DAILY_ADJUSTED response
type DailyAdjustedResponse struct {
	apiMessages
	MetaData   map[string]string   `json:"Meta Data"`
	TimeSeries map[string]dailyRow `json:"Time Series (Daily)"`
}

type dailyRow struct {
	Open             string `json:"1. open"`
	High             string `json:"2. high"`
	Low              string `json:"3. low"`
	Close            string `json:"4. close"`
	AdjustedClose    string `json:"5. adjusted close"`
	Volume           string `json:"6. volume"`
	DividendAmount   string `json:"7. dividend amount"`
	SplitCoefficient string `json:"8. split coefficient"`
}

// GetPriceHistory returns split and dividend adjusted daily bars within
// [start, end], both inclusive. Alpha Vantage always returns the full
// series; the range is applied locally.
func (s *Source) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) (*datasource.PriceHistory, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	start, end, err = datasource.CheckRange(start, end)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindPriceHistory, symbol, start.Format(datasource.DateLayout), end.Format(datasource.DateLayout))
	return cache.ReadThrough(ctx, s.cache, cache.KindPriceHistory, key, func(ctx context.Context) (*datasource.PriceHistory, error) {
		s.logger.Info("downloading historical data", "symbol", symbol,
			"start", start.Format(datasource.DateLayout), "end", end.Format(datasource.DateLayout))

		var result DailyAdjustedResponse
		err := s.query(ctx, "TIME_SERIES_DAILY_ADJUSTED", map[string]string{
			"symbol":     symbol,
			"outputsize": "full",
		}, &result)
		if err != nil {
			return nil, err
		}

		history, err := normalizeSeries(symbol, result.TimeSeries)
		if err != nil {
			return nil, err
		}
		history = history.Between(start, end)
		if history.Len() == 0 {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No historical data found for '%s'.", symbol))
		}
		return history, nil
	})
}

// normalizeSeries renames the numbered columns to the shared bar fields and
// scales OHLC by adjusted close / close.
func normalizeSeries(symbol string, series map[string]dailyRow) (*datasource.PriceHistory, error) {
	history := &datasource.PriceHistory{Symbol: symbol, Bars: make([]datasource.Bar, 0, len(series))}

	for day, row := range series {
		date, err := datasource.ParseDate(day)
		if err != nil {
			return nil, datasource.NewInvalidResponseError(Name, fmt.Sprintf("unexpected date %q in time series", day), err)
		}

		var values [5]float64
		for i, field := range []string{row.Open, row.High, row.Low, row.Close, row.AdjustedClose} {
			if values[i], err = number(field); err != nil {
				return nil, datasource.NewInvalidResponseError(Name, fmt.Sprintf("unexpected price on %s", day), err)
			}
		}
		open, high, low, closePrice, adjClose := values[0], values[1], values[2], values[3], values[4]

		volume, err := strconv.ParseInt(row.Volume, 10, 64)
		if err != nil && row.Volume != "" {
			return nil, datasource.NewInvalidResponseError(Name, fmt.Sprintf("unexpected volume on %s", day), err)
		}

		ratio := 1.0
		if closePrice != 0 && adjClose != 0 {
			ratio = adjClose / closePrice
		}

		history.Bars = append(history.Bars, datasource.Bar{
			Date:   date,
			Open:   open * ratio,
			High:   high * ratio,
			Low:    low * ratio,
			Close:  closePrice * ratio,
			Volume: volume,
		})
	}

	datasource.SortBars(history.Bars)
	return history, nil
}
