package datasource

import (
	"regexp"
	"strings"
	"time"
)

// symbolPattern accepts exchange tickers plus the Yahoo index (^GSPC),
// class share (BRK-B, BRK.B) and currency pair (EURUSD=X) forms.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,19}$`)

// NormalizeSymbol trims and upper-cases symbol and checks it is a plausible ticker.
func NormalizeSymbol(symbol string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized == "" {
		return "", NewValidationError("symbol", symbol, "The symbol cannot be empty.")
	}
	if !symbolPattern.MatchString(normalized) {
		return "", NewValidationError("symbol", symbol, "The symbol (%s) is not a valid ticker.", symbol)
	}
	return normalized, nil
}

// ParseDateParam parses value as YYYY-MM-DD, reporting failures as a
// ValidationError that quotes the offending value. label names the
// parameter in the message, e.g. "start date".
func ParseDateParam(label, value string) (t time.Time, err error) {
	t, err = ParseDate(value)
	if err != nil {
		return t, NewValidationError(label, value, "The %s (%s) is not a valid date; expected format YYYY-MM-DD.", label, value)
	}
	return t, nil
}

// CheckRange truncates start and end to whole UTC days and rejects a range
// whose start falls after its end.
func CheckRange(start, end time.Time) (time.Time, time.Time, error) {
	start, end = Day(start), Day(end)
	if start.After(end) {
		s, e := start.Format(DateLayout), end.Format(DateLayout)
		return start, end, NewValidationError("start", s, "The start date (%s) cannot be after the end date (%s).", s, e)
	}
	return start, end, nil
}
