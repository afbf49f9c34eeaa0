package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeimporter/internal/cache"
	"financeimporter/internal/config"
	"financeimporter/internal/coordinator"
	"financeimporter/internal/datasource"
	"financeimporter/internal/importer"
	"financeimporter/internal/testutil"
)

const (
	aaplChart   = "/v8/finance/chart/AAPL"
	msftChart   = "/v8/finance/chart/MSFT"
	aaplSummary = "/v10/finance/quoteSummary/AAPL"
	nvdaOptions = "/v7/finance/options/NVDA"
)

// weekdays builds one fixture row per weekday in [from, to]
func weekdays(from, to string) []testutil.ChartRow {
	start, _ := datasource.ParseDate(from)
	end, _ := datasource.ParseDate(to)

	var rows []testutil.ChartRow
	price := 100.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		rows = append(rows, testutil.ChartRow{
			Date: d.Format(datasource.DateLayout), Open: price, High: price + 2, Low: price - 1,
			Close: price + 1, AdjClose: price + 1, Volume: 1000000,
		})
		price++
	}
	return rows
}

const nvdaOptionsBody = `{
	"optionChain": {
		"result": [{
			"underlyingSymbol": "NVDA",
			"expirationDates": [1755216000, 1755820800],
			"options": [{
				"expirationDate": 1755216000,
				"calls": [{"contractSymbol": "NVDA250815C00180000", "strike": 180, "lastPrice": 3.1, "bid": 3.0, "ask": 3.2, "volume": 50000, "openInterest": 90000, "impliedVolatility": 0.38, "inTheMoney": false, "lastTradeDate": 1754683200}],
				"puts": [{"contractSymbol": "NVDA250815P00180000", "strike": 180, "lastPrice": 4.0, "bid": 3.9, "ask": 4.1, "volume": 30000, "openInterest": 70000, "impliedVolatility": 0.40, "inTheMoney": true, "lastTradeDate": 1754683200}]
			}]
		}],
		"error": null
	}
}`

// newYahooServer fakes the Yahoo endpoints the importer uses
func newYahooServer(t *testing.T) *testutil.Server {
	t.Helper()
	srv := testutil.NewServer(t)
	srv.HandleJSON(aaplChart, http.StatusOK, testutil.YahooChart("AAPL", weekdays("2024-12-23", "2025-08-15")...))
	srv.HandleJSON(msftChart, http.StatusOK, testutil.YahooChart("MSFT", weekdays("2024-12-23", "2025-08-15")...))
	srv.HandleJSON(aaplSummary, http.StatusOK, `{"quoteSummary":{"result":[{"price":{"longName":"Apple Inc.","currency":"USD","marketCap":{"raw":3.4e12}},"assetProfile":{"sector":"Technology"}}],"error":null}}`)
	srv.HandleJSON(nvdaOptions, http.StatusOK, nvdaOptionsBody)
	return srv
}

// loadConfig builds the configuration the way main does, from the environment
func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{"SOURCE", "ALPHAVANTAGE_API_KEY", "SYMBOLS", "START_DATE", "END_DATE", "FUNDAMENTALS", "CLEAR_CACHE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newYahooImporter(t *testing.T, srv *testutil.Server) *importer.Importer {
	t.Helper()
	cfg := loadConfig(t, map[string]string{
		"YAHOO_BASE_URL": srv.URL,
		"CACHE_DIR":      t.TempDir(),
	})

	src, err := buildSource(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	imp, err := importer.New(src)
	require.NoError(t, err)
	return imp
}

func TestIntegration_YahooHistory(t *testing.T) {
	srv := newYahooServer(t)
	imp := newYahooImporter(t, srv)
	ctx := context.Background()

	// First call fetches.
	first, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	require.Positive(t, first.Len())
	assert.Equal(t, 1, srv.Hits(aaplChart))

	// Every bar lies within the requested range.
	start, _ := datasource.ParseDate("2025-01-01")
	end, _ := datasource.ParseDate("2025-08-08")
	for _, b := range first.Bars {
		assert.False(t, b.Date.Before(start) || b.Date.After(end), "bar %s outside range", b.Date.Format(datasource.DateLayout))
	}
	assert.Equal(t, "2025-01-01", first.First().Date.Format(datasource.DateLayout))
	assert.Equal(t, "2025-08-08", first.Last().Date.Format(datasource.DateLayout))

	// The identical request is a cache hit with an equal result.
	second, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Hits(aaplChart))
	assert.Equal(t, first, second)

	// After clearing, the next identical request fetches exactly once.
	require.NoError(t, imp.ClearCache(ctx))
	_, err = imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Hits(aaplChart))
	_, err = imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Hits(aaplChart))
}

func TestIntegration_NoCrossContamination(t *testing.T) {
	srv := newYahooServer(t)
	imp := newYahooImporter(t, srv)
	ctx := context.Background()

	aapl, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	msft, err := imp.GetData(ctx, "MSFT", "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	narrow, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-01-15")
	require.NoError(t, err)
	f, err := imp.GetFundamentals(ctx, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", aapl.Symbol)
	assert.Equal(t, "MSFT", msft.Symbol)
	assert.Less(t, narrow.Len(), aapl.Len())
	assert.Equal(t, "Apple Inc.", f.LongName)

	assert.Equal(t, 2, srv.Hits(aaplChart), "each range is fetched separately")
	assert.Equal(t, 1, srv.Hits(msftChart))
	assert.Equal(t, 1, srv.Hits(aaplSummary))

	// Keys differ by symbol, range and kind.
	keys := map[string]bool{
		cache.ComputeKey("yahoo", cache.KindPriceHistory, "AAPL", "2025-01-01", "2025-01-31"): true,
		cache.ComputeKey("yahoo", cache.KindPriceHistory, "MSFT", "2025-01-01", "2025-01-31"): true,
		cache.ComputeKey("yahoo", cache.KindPriceHistory, "AAPL", "2025-01-01", "2025-01-15"): true,
		cache.ComputeKey("yahoo", cache.KindFundamentals, "AAPL"):                             true,
		cache.ComputeKey("yahoo", cache.KindExpirations, "AAPL"):                              true,
	}
	assert.Len(t, keys, 5)
}

func TestIntegration_OptionChain(t *testing.T) {
	srv := newYahooServer(t)
	imp := newYahooImporter(t, srv)
	ctx := context.Background()

	dates, err := imp.GetOptionExpirationDates(ctx, "NVDA")
	require.NoError(t, err)
	require.Equal(t, []string{"2025-08-15", "2025-08-22"}, dates)

	chain, err := imp.GetOptionChain(ctx, "NVDA", dates[0])
	require.NoError(t, err)
	assert.NotEmpty(t, chain.Calls)
	assert.NotEmpty(t, chain.Puts)
}

func TestIntegration_Validation(t *testing.T) {
	srv := newYahooServer(t)
	imp := newYahooImporter(t, srv)

	_, err := imp.GetData(context.Background(), "MSFT", "2025-08-01", "2025-01-01")
	require.Error(t, err)
	assert.True(t, datasource.IsValidationError(err))
	assert.Equal(t, "The start date (2025-08-01) cannot be after the end date (2025-01-01).", err.Error())
	assert.Equal(t, 0, srv.Total(), "validation must not touch the network")
}

func TestIntegration_AlphaVantage(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.Handle("/query", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "test_alphavantage_key" {
			testutil.WriteJSON(w, http.StatusOK, `{"Error Message": "the parameter apikey is invalid or missing."}`)
			return
		}
		switch q.Get("function") {
		case "TIME_SERIES_DAILY_ADJUSTED":
			testutil.WriteJSON(w, http.StatusOK, testutil.AlphaVantageDaily(q.Get("symbol"), weekdays("2024-12-23", "2025-08-15")...))
		default:
			testutil.WriteJSON(w, http.StatusOK, `{"Information": "This is a premium endpoint."}`)
		}
	})

	cfg := loadConfig(t, map[string]string{
		"SOURCE":                           "alphavantage",
		"ALPHAVANTAGE_API_KEY":             "test_alphavantage_key",
		"ALPHAVANTAGE_BASE_URL":            srv.URL + "/query",
		"ALPHAVANTAGE_CACHE_DIR":           t.TempDir(),
		"ALPHAVANTAGE_REQUESTS_PER_MINUTE": "600",
	})
	src, err := buildSource(cfg, nil)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, config.SourceAlphaVantage, src.Name())

	imp, err := importer.New(src)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	second, err := imp.GetData(ctx, "AAPL", "2025-01-01", "2025-08-08")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, srv.Hits("/query"))

	_, err = imp.GetOptionChain(ctx, "NVDA", "2025-08-15")
	assert.Equal(t, datasource.ErrorKindAuth, datasource.FetchErrorKind(err))
}

func TestIntegration_Coordinator(t *testing.T) {
	srv := newYahooServer(t)
	cfg := loadConfig(t, map[string]string{
		"YAHOO_BASE_URL": srv.URL,
		"CACHE_DIR":      t.TempDir(),
		"SYMBOLS":        "aapl,msft,zzzz",
		"START_DATE":     "2025-01-01",
		"END_DATE":       "2025-01-10",
	})

	src, err := buildSource(cfg, nil)
	require.NoError(t, err)
	defer src.Close()
	imp, err := importer.New(src)
	require.NoError(t, err)

	jobs := buildJobs(cfg, time.Now())
	require.Len(t, jobs, 3)

	var out bytes.Buffer
	results, err := coordinator.New(imp, jobs).Run(context.Background(), &out)
	require.NoError(t, err)
	require.Len(t, results, 3)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "AAPL: 8 bars (2025-01-01..2025-01-10)", lines[0])
	assert.Equal(t, "MSFT: 8 bars (2025-01-01..2025-01-10)", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "ZZZZ: ERROR - yahoo: not_found error"), lines[2])
}

func TestBuildSource_Unknown(t *testing.T) {
	_, err := buildSource(&config.Config{Source: "bloomberg"}, nil)
	require.Error(t, err)
}
