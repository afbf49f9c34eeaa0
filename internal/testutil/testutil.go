// Package testutil provides fake provider servers and response fixtures.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
)

// Server is an httptest server that routes by URL path and counts every
// request it receives.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	total  int
}

// NewServer starts a server that is closed when the test ends. Unrouted
// paths answer 404.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.total++
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// Handle routes path to h, replacing any previous handler
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// HandleJSON answers path with a fixed JSON body
func (s *Server) HandleJSON(path string, status int, body string) {
	s.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Hits returns how many requests reached path
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Total returns how many requests reached the server
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// WriteJSON writes body with a JSON content type
func WriteJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// ChartRow is one trading day in a chart fixture
type ChartRow struct {
	Date     string
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// nyOffset is the New York summer gmtoffset Yahoo reports for US listings
const nyOffset = -4 * 60 * 60

// YahooChart renders a v8 chart response. Timestamps are the 09:30 New York
// session open of each row's date.
func YahooChart(symbol string, rows ...ChartRow) string {
	var (
		ts                                 []int64
		open, high, low, closes, adjCloses []float64
		volume                             []int64
	)
	for _, r := range rows {
		day := mustDate(r.Date)
		ts = append(ts, day.Add(9*time.Hour+30*time.Minute).Unix()-nyOffset)
		open = append(open, r.Open)
		high = append(high, r.High)
		low = append(low, r.Low)
		closes = append(closes, r.Close)
		adjCloses = append(adjCloses, r.AdjClose)
		volume = append(volume, r.Volume)
	}

	body := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":      map[string]any{"symbol": symbol, "currency": "USD", "gmtoffset": nyOffset},
				"timestamp": ts,
				"indicators": map[string]any{
					"quote": []any{map[string]any{
						"open": open, "high": high, "low": low, "close": closes, "volume": volume,
					}},
					"adjclose": []any{map[string]any{"adjclose": adjCloses}},
				},
			}},
			"error": nil,
		},
	}
	return mustJSON(body)
}

// YahooError renders the error envelope Yahoo wraps around failures
func YahooError(root, code, description string) string {
	return mustJSON(map[string]any{
		root: map[string]any{
			"result": nil,
			"error":  map[string]any{"code": code, "description": description},
		},
	})
}

// AlphaVantageDaily renders a TIME_SERIES_DAILY_ADJUSTED response
func AlphaVantageDaily(symbol string, rows ...ChartRow) string {
	series := make(map[string]map[string]string, len(rows))
	for _, r := range rows {
		series[r.Date] = map[string]string{
			"1. open":              ftoa(r.Open),
			"2. high":              ftoa(r.High),
			"3. low":               ftoa(r.Low),
			"4. close":             ftoa(r.Close),
			"5. adjusted close":    ftoa(r.AdjClose),
			"6. volume":            fmt.Sprintf("%d", r.Volume),
			"7. dividend amount":   "0.0000",
			"8. split coefficient": "1.0",
		}
	}
	return mustJSON(map[string]any{
		"Meta Data": map[string]string{
			"1. Information": "Daily Time Series with Splits and Dividend Events",
			"2. Symbol":      symbol,
		},
		"Time Series (Daily)": series,
	})
}

func ftoa(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad fixture date %q", s))
	}
	return t
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return string(b)
}
