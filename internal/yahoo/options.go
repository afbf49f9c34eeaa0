package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

const optionsPath = "/v7/finance/options/{symbol}"

// OptionsResponse represents the Yahoo v7 options API response
type OptionsResponse struct {
	OptionChain struct {
		Result []OptionsResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"optionChain"`
}

// OptionsResult lists every expiration and the chain of the requested one
type OptionsResult struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Options          []struct {
		ExpirationDate int64          `json:"expirationDate"`
		Calls          []contractJSON `json:"calls"`
		Puts           []contractJSON `json:"puts"`
	} `json:"options"`
}

type contractJSON struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Change            float64 `json:"change"`
	PercentChange     float64 `json:"percentChange"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
	LastTradeDate     int64   `json:"lastTradeDate"`
}

// GetOptionExpirationDates returns the listed expirations, ascending
func (s *Source) GetOptionExpirationDates(ctx context.Context, symbol string) ([]string, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindExpirations, symbol)
	return cache.ReadThrough(ctx, s.cache, cache.KindExpirations, key, func(ctx context.Context) ([]string, error) {
		s.logger.Info("downloading option expiration dates", "symbol", symbol)

		r, err := s.fetchOptions(ctx, symbol, nil)
		if err != nil {
			return nil, err
		}

		dates := make([]string, 0, len(r.ExpirationDates))
		for _, ts := range r.ExpirationDates {
			dates = append(dates, unixDate(ts))
		}
		if len(dates) == 0 {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No option expiration dates found for '%s'.", symbol))
		}
		return dates, nil
	})
}

// GetOptionChain returns the calls and puts expiring on expiration
func (s *Source) GetOptionChain(ctx context.Context, symbol, expiration string) (*datasource.OptionChain, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	expiry, err := datasource.ParseDateParam("expiration date", expiration)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindOptionChain, symbol, expiration)
	return cache.ReadThrough(ctx, s.cache, cache.KindOptionChain, key, func(ctx context.Context) (*datasource.OptionChain, error) {
		s.logger.Info("downloading option chain", "symbol", symbol, "expiration", expiration)

		r, err := s.fetchOptions(ctx, symbol, &expiry)
		if err != nil {
			return nil, err
		}

		chain := &datasource.OptionChain{Symbol: symbol, Expiration: expiration}
		found := false
		for _, o := range r.Options {
			if unixDate(o.ExpirationDate) != expiration {
				continue
			}
			found = true
			chain.Calls = append(chain.Calls, convertContracts(o.Calls)...)
			chain.Puts = append(chain.Puts, convertContracts(o.Puts)...)
		}
		if !found {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("Expiration %s is not listed for '%s'.", expiration, symbol))
		}
		if len(chain.Calls) == 0 && len(chain.Puts) == 0 {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No option contracts found for '%s' expiring %s.", symbol, expiration))
		}

		datasource.SortContracts(chain.Calls)
		datasource.SortContracts(chain.Puts)
		return chain, nil
	})
}

func (s *Source) fetchOptions(ctx context.Context, symbol string, expiry *time.Time) (*OptionsResult, error) {
	query := map[string]string{}
	if expiry != nil {
		query["date"] = strconv.FormatInt(expiry.Unix(), 10)
	}

	var result OptionsResponse
	if err := s.get(ctx, optionsPath, symbol, query, &result); err != nil {
		return nil, err
	}

	if result.OptionChain.Error != nil {
		return nil, datasource.NewFetchError(Name, datasource.ErrorKindNotFound, result.OptionChain.Error.Description)
	}
	if len(result.OptionChain.Result) == 0 {
		return nil, datasource.NewFetchError(Name, datasource.ErrorKindNotFound, fmt.Sprintf("No options data found for '%s'.", symbol))
	}
	return &result.OptionChain.Result[0], nil
}

func convertContracts(in []contractJSON) []datasource.OptionContract {
	out := make([]datasource.OptionContract, 0, len(in))
	for _, c := range in {
		contract := datasource.OptionContract{
			ContractSymbol:    c.ContractSymbol,
			Strike:            c.Strike,
			LastPrice:         c.LastPrice,
			Bid:               c.Bid,
			Ask:               c.Ask,
			Change:            c.Change,
			PercentChange:     c.PercentChange,
			Volume:            c.Volume,
			OpenInterest:      c.OpenInterest,
			ImpliedVolatility: c.ImpliedVolatility,
			InTheMoney:        c.InTheMoney,
		}
		if c.LastTradeDate > 0 {
			contract.LastTradeDate = time.Unix(c.LastTradeDate, 0).UTC()
		}
		out = append(out, contract)
	}
	return out
}

// unixDate formats an expiration timestamp (midnight UTC) as YYYY-MM-DD
func unixDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(datasource.DateLayout)
}
