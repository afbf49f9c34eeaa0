package datasource

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPriceHistory_Between(t *testing.T) {
	h := &PriceHistory{Symbol: "AAPL", Bars: []Bar{
		{Date: d("2025-01-02"), Close: 1},
		{Date: d("2025-01-03"), Close: 2},
		{Date: d("2025-01-06"), Close: 3},
		{Date: d("2025-01-07"), Close: 4},
	}}

	got := h.Between(d("2025-01-03"), d("2025-01-06"))
	if got.Len() != 2 {
		t.Fatalf("Between() returned %d bars, want 2", got.Len())
	}
	if got.First().Close != 2 || got.Last().Close != 3 {
		t.Errorf("Between() = %+v, want the 01-03 and 01-06 bars", got.Bars)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", got.Symbol)
	}
	if h.Len() != 4 {
		t.Error("Between() modified the receiver")
	}

	if empty := h.Between(d("2025-02-01"), d("2025-02-28")); empty.Len() != 0 {
		t.Errorf("Between() outside the data returned %d bars", empty.Len())
	}
}

func TestPriceHistory_Len_Nil(t *testing.T) {
	var h *PriceHistory
	if h.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", h.Len())
	}
}

func TestSortBars(t *testing.T) {
	bars := []Bar{{Date: d("2025-01-03")}, {Date: d("2025-01-01")}, {Date: d("2025-01-02")}}
	SortBars(bars)
	for i, want := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if got := bars[i].Date.Format(DateLayout); got != want {
			t.Errorf("bars[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestFundamentals_Map(t *testing.T) {
	f := &Fundamentals{Symbol: "IBM", LongName: "International Business Machines", MarketCap: 1.75e11, SharesOutstanding: 918000000}
	m := f.Map()

	if m["longName"] != "International Business Machines" {
		t.Errorf("longName = %v", m["longName"])
	}
	if m["marketCap"] != 1.75e11 {
		t.Errorf("marketCap = %v", m["marketCap"])
	}
	if m["sharesOutstanding"] != int64(918000000) {
		t.Errorf("sharesOutstanding = %v", m["sharesOutstanding"])
	}
	if len(m) != 18 {
		t.Errorf("Map() has %d keys, want 18", len(m))
	}
}

func TestOptionChain_Table(t *testing.T) {
	chain := &OptionChain{
		Symbol:     "NVDA",
		Expiration: "2025-08-15",
		Calls:      []OptionContract{{Strike: 185}, {Strike: 170}, {Strike: 180}},
		Puts:       []OptionContract{{Strike: 175}},
	}
	SortContracts(chain.Calls)

	calls, err := chain.Table(SideCalls)
	if err != nil {
		t.Fatalf("Table(calls) returned unexpected error: %v", err)
	}
	for i, want := range []float64{170, 180, 185} {
		if calls[i].Strike != want {
			t.Errorf("calls[%d].Strike = %v, want %v", i, calls[i].Strike, want)
		}
	}

	puts, err := chain.Table(SidePuts)
	if err != nil || len(puts) != 1 {
		t.Errorf("Table(puts) = %v, %v", puts, err)
	}

	if _, err := chain.Table("straddles"); err == nil {
		t.Error("Table(straddles) expected error, got nil")
	}
}
