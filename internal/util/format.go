package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatNumber formats an int64 with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
	"JPY": "¥",
}

// FormatMoney formats an amount with the currency symbol and thousands separators.
// Unknown currencies fall back to the code as a suffix: 12.50 -> "12.50 CHF".
func FormatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(currency)
	neg := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := fmt.Sprintf("%s.%02d", b.String(), cents)

	if sym, ok := currencySymbols[currency]; ok {
		s = sym + s
	} else if currency != "" {
		s = s + " " + currency
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatPercent formats a ratio (0.0123) as a percentage ("1.23%").
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// FormatRatio formats a multiplier such as ROAS ("3.20x").
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.2fx", r)
}

// FormatDateHuman formats a time in human-readable form (Jan 2, 2006).
func FormatDateHuman(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// ParseTimeRFC3339 parses an RFC3339 timestamp string to time.Time.
// Returns zero time if parsing fails.
func ParseTimeRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// StartForPeriod returns the start of a reporting period relative to now.
// Supported periods: "7d", "30d", "90d", "month", "all" (or any other value for all time).
func StartForPeriod(period string, now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case "7d":
		return today.AddDate(0, 0, -6)
	case "30d":
		return today.AddDate(0, 0, -29)
	case "90d":
		return today.AddDate(0, 0, -89)
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Periods lists the reporting periods offered in the UI.
var Periods = []string{"7d", "30d", "90d", "month", "all"}
