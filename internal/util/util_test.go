package util

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{"zero", 0, "USD", "$0.00"},
		{"thousands", 1234567.891, "USD", "$1,234,567.89"},
		{"euro", 12.5, "eur", "€12.50"},
		{"rounding carries", 9.999, "USD", "$10.00"},
		{"negative", -42.1, "GBP", "-£42.10"},
		{"unknown code", 12.5, "CHF", "12.50 CHF"},
		{"no code", 3, "", "3.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatPercentAndRatio(t *testing.T) {
	if got := FormatPercent(0.0123); got != "1.23%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatRatio(3.2); got != "3.20x" {
		t.Errorf("FormatRatio = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{500, "500"},
		{1500, "1.5K"},
		{1500000, "1.5M"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartForPeriod(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	tests := []struct {
		period string
		want   time.Time
	}{
		{"7d", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"30d", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"month", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"all", time.Time{}},
		{"bogus", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			if got := StartForPeriod(tt.period, now); !got.Equal(tt.want) {
				t.Errorf("StartForPeriod(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestNullHelpers(t *testing.T) {
	if NullStringPtr(nil).Valid {
		t.Error("nil string should be null")
	}
	if got := NullStringToPtr(sql.NullString{String: "x", Valid: true}); got == nil || *got != "x" {
		t.Errorf("NullStringToPtr = %v", got)
	}
	if NullIntPtr(nil).Valid {
		t.Error("nil int should be null")
	}
	n := 95
	if got := NullInt64ToIntPtr(NullIntPtr(&n)); got == nil || *got != 95 {
		t.Errorf("int round trip = %v", got)
	}
	if Deref(nil) != "" {
		t.Error("Deref(nil) should be empty")
	}
}

func TestGetXDGDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	got, err := GetXDGDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "adpulse"); got != want {
		t.Errorf("GetXDGDataDir() = %q, want %q", got, want)
	}
}
