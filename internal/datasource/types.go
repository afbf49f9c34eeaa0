package datasource

import (
	"fmt"
	"sort"
	"time"
)

// Bar is one daily OHLCV row. Date is UTC midnight of the trading day.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceHistory is a date-indexed OHLCV table, ascending by date.
type PriceHistory struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Columns returns the normalized column names every provider fills.
func (h *PriceHistory) Columns() []string {
	return []string{"Open", "High", "Low", "Close", "Volume"}
}

// Len returns the number of rows.
func (h *PriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Bars)
}

// First returns the earliest bar. It panics on an empty table.
func (h *PriceHistory) First() Bar { return h.Bars[0] }

// Last returns the latest bar. It panics on an empty table.
func (h *PriceHistory) Last() Bar { return h.Bars[len(h.Bars)-1] }

// Between returns a copy of h restricted to bars dated within [start, end].
func (h *PriceHistory) Between(start, end time.Time) *PriceHistory {
	start, end = Day(start), Day(end)
	out := &PriceHistory{Symbol: h.Symbol, Bars: make([]Bar, 0, len(h.Bars))}
	for _, b := range h.Bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out.Bars = append(out.Bars, b)
	}
	return out
}

// SortBars orders bars ascending by date.
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

// Fundamentals is the provider-agnostic company snapshot.
// Values a provider does not report are left at zero.
type Fundamentals struct {
	Symbol            string  `json:"symbol"`
	LongName          string  `json:"long_name"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Country           string  `json:"country"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchange"`
	Description       string  `json:"description"`
	MarketCap         float64 `json:"market_cap"`
	TrailingPE        float64 `json:"trailing_pe"`
	ForwardPE         float64 `json:"forward_pe"`
	PriceToBook       float64 `json:"price_to_book"`
	DividendYield     float64 `json:"dividend_yield"`
	EPS               float64 `json:"eps"`
	Beta              float64 `json:"beta"`
	FiftyTwoWeekHigh  float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow   float64 `json:"fifty_two_week_low"`
	SharesOutstanding int64   `json:"shares_outstanding"`
}

// Map exposes the fundamentals under the shared key set.
func (f *Fundamentals) Map() map[string]any {
	return map[string]any{
		"symbol":            f.Symbol,
		"longName":          f.LongName,
		"sector":            f.Sector,
		"industry":          f.Industry,
		"country":           f.Country,
		"currency":          f.Currency,
		"exchange":          f.Exchange,
		"description":       f.Description,
		"marketCap":         f.MarketCap,
		"trailingPE":        f.TrailingPE,
		"forwardPE":         f.ForwardPE,
		"priceToBook":       f.PriceToBook,
		"dividendYield":     f.DividendYield,
		"eps":               f.EPS,
		"beta":              f.Beta,
		"fiftyTwoWeekHigh":  f.FiftyTwoWeekHigh,
		"fiftyTwoWeekLow":   f.FiftyTwoWeekLow,
		"sharesOutstanding": f.SharesOutstanding,
	}
}

// OptionContract is one row of an option chain table.
type OptionContract struct {
	ContractSymbol    string    `json:"contract_symbol"`
	Strike            float64   `json:"strike"`
	LastPrice         float64   `json:"last_price"`
	Bid               float64   `json:"bid"`
	Ask               float64   `json:"ask"`
	Change            float64   `json:"change"`
	PercentChange     float64   `json:"percent_change"`
	Volume            int64     `json:"volume"`
	OpenInterest      int64     `json:"open_interest"`
	ImpliedVolatility float64   `json:"implied_volatility"`
	InTheMoney        bool      `json:"in_the_money"`
	LastTradeDate     time.Time `json:"last_trade_date"`
}

// Option chain table keys.
const (
	SideCalls = "calls"
	SidePuts  = "puts"
)

// OptionChain holds the calls and puts table for one expiration.
type OptionChain struct {
	Symbol     string           `json:"symbol"`
	Expiration string           `json:"expiration"`
	Calls      []OptionContract `json:"calls"`
	Puts       []OptionContract `json:"puts"`
}

// Table returns the contracts stored under side ("calls" or "puts").
func (c *OptionChain) Table(side string) ([]OptionContract, error) {
	switch side {
	case SideCalls:
		return c.Calls, nil
	case SidePuts:
		return c.Puts, nil
	default:
		return nil, fmt.Errorf("unknown option chain table %q", side)
	}
}

// SortContracts orders contracts ascending by strike.
func SortContracts(contracts []OptionContract) {
	sort.SliceStable(contracts, func(i, j int) bool { return contracts[i].Strike < contracts[j].Strike })
}
