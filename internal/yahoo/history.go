package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

const chartPath = "/v8/finance/chart/{symbol}"

// ChartResponse represents the Yahoo v8 chart API response
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

// ChartResult holds the parallel timestamp and indicator arrays for one symbol
type ChartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// GetPriceHistory returns split and dividend adjusted daily bars within
// [start, end], both inclusive.
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
		return s.fetchHistory(ctx, symbol, start, end)
	})
}

func (s *Source) fetchHistory(ctx context.Context, symbol string, start, end time.Time) (*datasource.PriceHistory, error) {
	s.logger.Info("downloading historical data", "symbol", symbol,
		"start", start.Format(datasource.DateLayout), "end", end.Format(datasource.DateLayout))

	var result ChartResponse
	err := s.get(ctx, chartPath, symbol, map[string]string{
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
		"interval": "1d",
		"events":   "div,split",
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.Chart.Error != nil {
		return nil, datasource.NewFetchError(Name, datasource.ErrorKindNotFound, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No historical data found for '%s'.", symbol))
	}

	history, err := normalizeChart(symbol, result.Chart.Result[0])
	if err != nil {
		return nil, err
	}
	history = history.Between(start, end)
	if history.Len() == 0 {
		return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No historical data found for '%s'.", symbol))
	}
	return history, nil
}

// normalizeChart converts the chart arrays into bars. Rows with a missing
// value are skipped; OHLC are scaled by adjclose/close.
func normalizeChart(symbol string, r ChartResult) (*datasource.PriceHistory, error) {
	history := &datasource.PriceHistory{Symbol: symbol, Bars: make([]datasource.Bar, 0, len(r.Timestamp))}
	if len(r.Timestamp) == 0 {
		return history, nil
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, datasource.NewInvalidResponseError(Name, "chart response has timestamps but no quote indicators", nil)
	}

	q := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	byDate := make(map[time.Time]int, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		open, ok1 := at(q.Open, i)
		high, ok2 := at(q.High, i)
		low, ok3 := at(q.Low, i)
		closePrice, ok4 := at(q.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		var volume int64
		if i < len(q.Volume) && q.Volume[i] != nil {
			volume = *q.Volume[i]
		}

		ratio := 1.0
		if adjClose, ok := at(adj, i); ok && closePrice != 0 {
			ratio = adjClose / closePrice
		}

		bar := datasource.Bar{
			Date:   datasource.Day(time.Unix(ts+r.Meta.GMTOffset, 0).UTC()),
			Open:   open * ratio,
			High:   high * ratio,
			Low:    low * ratio,
			Close:  closePrice * ratio,
			Volume: volume,
		}

		// Yahoo appends the live session as an extra row; the later row wins.
		if idx, dup := byDate[bar.Date]; dup {
			history.Bars[idx] = bar
			continue
		}
		byDate[bar.Date] = len(history.Bars)
		history.Bars = append(history.Bars, bar)
	}

	datasource.SortBars(history.Bars)
	return history, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
