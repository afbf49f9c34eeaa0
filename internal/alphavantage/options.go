package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"financeimporter/internal/cache"
	"financeimporter/internal/datasource"
)

// HistoricalOptionsResponse represents the HISTORICAL_OPTIONS response
type HistoricalOptionsResponse struct {
	apiMessages
	Endpoint string         `json:"endpoint"`
	Message  string         `json:"message"`
	Data     []contractJSON `json:"data"`
}

type contractJSON struct {
	ContractID        string `json:"contractID"`
	Symbol            string `json:"symbol"`
	Expiration        string `json:"expiration"`
	Strike            string `json:"strike"`
	Type              string `json:"type"`
	Last              string `json:"last"`
	Mark              string `json:"mark"`
	Bid               string `json:"bid"`
	Ask               string `json:"ask"`
	Volume            string `json:"volume"`
	OpenInterest      string `json:"open_interest"`
	Date              string `json:"date"`
	ImpliedVolatility string `json:"implied_volatility"`
}

// GetOptionExpirationDates returns the distinct expirations of the latest
// session's contracts, ascending
func (s *Source) GetOptionExpirationDates(ctx context.Context, symbol string) ([]string, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindExpirations, symbol)
	return cache.ReadThrough(ctx, s.cache, cache.KindExpirations, key, func(ctx context.Context) ([]string, error) {
		s.logger.Info("downloading option expiration dates", "symbol", symbol)

		contracts, err := s.fetchContracts(ctx, symbol)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]bool)
		dates := []string{}
		for _, c := range contracts {
			if c.Expiration == "" || seen[c.Expiration] {
				continue
			}
			seen[c.Expiration] = true
			dates = append(dates, c.Expiration)
		}
		if len(dates) == 0 {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No option expiration dates found for '%s'.", symbol))
		}
		sort.Strings(dates)
		return dates, nil
	})
}

// GetOptionChain returns the calls and puts expiring on expiration
func (s *Source) GetOptionChain(ctx context.Context, symbol, expiration string) (*datasource.OptionChain, error) {
	symbol, err := datasource.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if _, err := datasource.ParseDateParam("expiration date", expiration); err != nil {
		return nil, err
	}

	key := s.cache.Key(cache.KindOptionChain, symbol, expiration)
	return cache.ReadThrough(ctx, s.cache, cache.KindOptionChain, key, func(ctx context.Context) (*datasource.OptionChain, error) {
		s.logger.Info("downloading option chain", "symbol", symbol, "expiration", expiration)

		contracts, err := s.fetchContracts(ctx, symbol)
		if err != nil {
			return nil, err
		}

		chain := &datasource.OptionChain{Symbol: symbol, Expiration: expiration}
		for _, c := range contracts {
			if c.Expiration != expiration {
				continue
			}
			contract, err := convertContract(c)
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(c.Type) {
			case "call":
				chain.Calls = append(chain.Calls, contract)
			case "put":
				chain.Puts = append(chain.Puts, contract)
			}
		}
		if len(chain.Calls) == 0 && len(chain.Puts) == 0 {
			return nil, datasource.NewNoDataError(Name, fmt.Sprintf("No option contracts found for '%s' expiring %s.", symbol, expiration))
		}

		datasource.SortContracts(chain.Calls)
		datasource.SortContracts(chain.Puts)
		return chain, nil
	})
}

func (s *Source) fetchContracts(ctx context.Context, symbol string) ([]contractJSON, error) {
	var result HistoricalOptionsResponse
	if err := s.query(ctx, "HISTORICAL_OPTIONS", map[string]string{"symbol": symbol}, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func convertContract(c contractJSON) (datasource.OptionContract, error) {
	strike, err := number(c.Strike)
	if err != nil {
		return datasource.OptionContract{}, datasource.NewInvalidResponseError(Name, fmt.Sprintf("unexpected strike for %s", c.ContractID), err)
	}

	contract := datasource.OptionContract{
		ContractSymbol:    c.ContractID,
		Strike:            strike,
		LastPrice:         lenientNumber(c.Last),
		Bid:               lenientNumber(c.Bid),
		Ask:               lenientNumber(c.Ask),
		ImpliedVolatility: lenientNumber(c.ImpliedVolatility),
	}
	contract.Volume, _ = strconv.ParseInt(c.Volume, 10, 64)
	contract.OpenInterest, _ = strconv.ParseInt(c.OpenInterest, 10, 64)
	if d, err := datasource.ParseDate(c.Date); err == nil {
		contract.LastTradeDate = d
	}
	return contract, nil
}
