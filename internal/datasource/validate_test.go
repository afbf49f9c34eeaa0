package datasource

import (
	"testing"
	"time"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr string
	}{
		{"AAPL", "AAPL", ""},
		{" msft ", "MSFT", ""},
		{"brk-b", "BRK-B", ""},
		{"BRK.B", "BRK.B", ""},
		{"^GSPC", "^GSPC", ""},
		{"EURUSD=X", "EURUSD=X", ""},
		{"", "", "The symbol cannot be empty."},
		{"   ", "", "The symbol cannot be empty."},
		{"AA PL", "", "The symbol (AA PL) is not a valid ticker."},
		{"-AAPL", "", "The symbol (-AAPL) is not a valid ticker."},
		{"ABCDEFGHIJKLMNOPQRSTU", "", "The symbol (ABCDEFGHIJKLMNOPQRSTU) is not a valid ticker."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("NormalizeSymbol(%q) error = %v, want %q", tt.in, err, tt.wantErr)
				}
				if !IsValidationError(err) {
					t.Errorf("NormalizeSymbol(%q) error is %T, want *ValidationError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeSymbol(%q) returned unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateParam(t *testing.T) {
	got, err := ParseDateParam("start date", "2025-01-31")
	if err != nil {
		t.Fatalf("ParseDateParam() returned unexpected error: %v", err)
	}
	if want := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseDateParam() = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2025-1-31", "31/01/2025", "2025-02-30", "yesterday"} {
		_, err := ParseDateParam("end date", bad)
		want := "The end date (" + bad + ") is not a valid date; expected format YYYY-MM-DD."
		if err == nil || err.Error() != want {
			t.Errorf("ParseDateParam(%q) error = %v, want %q", bad, err, want)
		}
	}
}

func TestCheckRange(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	aug1 := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	start, end, err := CheckRange(jan1.Add(15*time.Hour), aug1.Add(time.Hour))
	if err != nil {
		t.Fatalf("CheckRange() returned unexpected error: %v", err)
	}
	if !start.Equal(jan1) || !end.Equal(aug1) {
		t.Errorf("CheckRange() = %v..%v, want whole days", start, end)
	}

	if _, _, err := CheckRange(jan1, jan1); err != nil {
		t.Errorf("CheckRange() rejected a single day: %v", err)
	}

	_, _, err = CheckRange(aug1, jan1)
	want := "The start date (2025-08-01) cannot be after the end date (2025-01-01)."
	if err == nil || err.Error() != want {
		t.Errorf("CheckRange() error = %v, want %q", err, want)
	}
}
