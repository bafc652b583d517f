// Package export writes campaign data as CSV or JSON for spreadsheets and
// external analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json or csv. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use json or csv)", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

var campaignHeader = []string{
	"id", "name", "platform", "objective", "funnel_stage", "status",
	"daily_budget", "total_budget", "start_date", "end_date",
	"spend", "impressions", "clicks", "leads", "conversions", "revenue",
	"ctr", "cpc", "cpm", "cpa", "roas",
}

// Campaigns writes one row per campaign with its lifetime totals.
func Campaigns(w io.Writer, format Format, summaries []domain.CampaignSummary) error {
	if format == FormatJSON {
		return writeJSON(w, summaries)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(campaignHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range summaries {
		c, t, d := s.Campaign, s.Totals, s.Derived
		row := []string{
			c.ID, c.Name, c.Platform, c.Objective, string(c.FunnelStage), string(c.Status),
			money(c.DailyBudget), money(c.TotalBudget), date(c.StartDate), date(c.EndDate),
			money(t.Spend), count(t.Impressions), count(t.Clicks), count(t.Leads),
			count(t.Conversions), money(t.Revenue),
			ratio(d.CTR), money(d.CPC), money(d.CPM), money(d.CPA), ratio(d.ROAS),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

var metricsHeader = []string{
	"campaign_id", "campaign", "date", "spend", "impressions", "clicks", "leads", "conversions", "revenue",
	"ctr", "cpc", "cpa", "roas",
}

// Metrics writes daily delivery rows. names maps campaign IDs to names for the
// CSV campaign column.
func Metrics(w io.Writer, format Format, rows []*domain.CampaignMetrics, names map[string]string) error {
	if format == FormatJSON {
		return writeJSON(w, rows)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(metricsHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range rows {
		d := m.Derive()
		row := []string{
			m.CampaignID, names[m.CampaignID], m.Date.Format("2006-01-02"),
			money(m.Spend), count(m.Impressions), count(m.Clicks), count(m.Leads),
			count(m.Conversions), money(m.Revenue),
			ratio(d.CTR), money(d.CPC), money(d.CPA), ratio(d.ROAS),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func ratio(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func count(n int64) string {
	return strconv.FormatInt(n, 10)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
