package yahoo

import (
	"context"
	"fmt"
	"strings"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

const quoteSummaryPath = "/v10/finance/quoteSummary/{symbol}"

var summaryModules = []string{"price", "summaryDetail", "assetProfile", "defaultKeyStatistics"}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper. Missing
// values arrive as {} and decode to zero.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// QuoteSummaryResponse represents the Yahoo v10 quoteSummary API response
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the requested modules for one symbol
type QuoteSummaryResult struct {
	Price *struct {
		Symbol       string   `json:"symbol"`
		LongName     string   `json:"longName"`
		ShortName    string   `json:"shortName"`
		Currency     string   `json:"currency"`
		ExchangeName string   `json:"exchangeName"`
		MarketCap    rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		TrailingPE       rawValue `json:"trailingPE"`
		ForwardPE        rawValue `json:"forwardPE"`
		DividendYield    rawValue `json:"dividendYield"`
		Beta             rawValue `json:"beta"`
		FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
		MarketCap        rawValue `json:"marketCap"`
	} `json:"summaryDetail"`
	AssetProfile *struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		Country             string `json:"country"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"assetProfile"`
	DefaultKeyStatistics *struct {
		SharesOutstanding rawValue `json:"sharesOutstanding"`
		TrailingEps       rawValue `json:"trailingEps"`
		PriceToBook       rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
}

// GetFundamentals returns the company profile and valuation snapshot
func (s *Source) GetFundamentals(ctx context.Context, symbol string) (*datasource.Fundamentals, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindFundamentals, symbol)
	return cache.ReadThrough(ctx, s.cache, cache.KindFundamentals, key, func(ctx context.Context) (*datasource.Fundamentals, error) {
		return s.fetchFundamentals(ctx, symbol)
	})
}

func (s *Source) fetchFundamentals(ctx context.Context, symbol string) (*datasource.Fundamentals, error) {
	s.logger.Info("downloading fundamentals", "symbol", symbol)

	var result QuoteSummaryResponse
	err := s.get(ctx, quoteSummaryPath, symbol, map[string]string{
		"modules": strings.Join(summaryModules, ","),
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.QuoteSummary.Error != nil {
		return nil, datasource.NewFetchError(Name, datasource.ErrorKindNotFound, result.QuoteSummary.Error.Description)
	}
	if len(result.QuoteSummary.Result) == 0 {
		return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No fundamentals found for '%s'.", symbol))
	}

	return normalizeSummary(symbol, result.QuoteSummary.Result[0]), nil
}

func normalizeSummary(symbol string, r QuoteSummaryResult) *datasource.Fundamentals {
	f := &datasource.Fundamentals{Symbol: symbol}

	if p := r.Price; p != nil {
		f.LongName = p.LongName
		if f.LongName == "" {
			f.LongName = p.ShortName
		}
		f.Currency = p.Currency
		f.Exchange = p.ExchangeName
		f.MarketCap = p.MarketCap.Raw
	}
	if d := r.SummaryDetail; d != nil {
		f.TrailingPE = d.TrailingPE.Raw
		f.ForwardPE = d.ForwardPE.Raw
		f.DividendYield = d.DividendYield.Raw
		f.Beta = d.Beta.Raw
		f.FiftyTwoWeekHigh = d.FiftyTwoWeekHigh.Raw
		f.FiftyTwoWeekLow = d.FiftyTwoWeekLow.Raw
		if f.MarketCap == 0 {
			f.MarketCap = d.MarketCap.Raw
		}
	}
	if a := r.AssetProfile; a != nil {
		f.Sector = a.Sector
		f.Industry = a.Industry
		f.Country = a.Country
		f.Description = a.LongBusinessSummary
	}
	if k := r.DefaultKeyStatistics; k != nil {
		f.SharesOutstanding = int64(k.SharesOutstanding.Raw)
		f.EPS = k.TrailingEps.Raw
		f.PriceToBook = k.PriceToBook.Raw
	}

	return f
}
