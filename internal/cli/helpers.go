package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// parseDate parses an optional YYYY-MM-DD flag value.
func parseDate(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a date (YYYY-MM-DD): %w", flag, err)
	}
	return &t, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printDerived(w io.Writer, t domain.Totals, currency string) {
	d := t.Derive()
	tbl := newTable(w, "Metric", "Value")
	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	tbl.AppendRows([]table.Row{
		{"Spend", util.FormatMoney(t.Spend, currency)},
		{"Impressions", util.FormatNumber(t.Impressions)},
		{"Clicks", util.FormatNumber(t.Clicks)},
		{"Leads", util.FormatNumber(t.Leads)},
		{"Conversions", util.FormatNumber(t.Conversions)},
		{"Revenue", util.FormatMoney(t.Revenue, currency)},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"CTR", util.FormatPercent(d.CTR)},
		{"CPM", util.FormatMoney(d.CPM, currency)},
		{"CPC", util.FormatMoney(d.CPC, currency)},
		{"CPL", util.FormatMoney(d.CPL, currency)},
		{"CPA", util.FormatMoney(d.CPA, currency)},
		{"Conversion rate", util.FormatPercent(d.ConversionRate)},
		{"ROAS", util.FormatRatio(d.ROAS)},
	})
	tbl.Render()
}

func printSignificance(w io.Writer, r domain.SignificanceResult) {
	verdict := "No significant difference yet"
	switch {
	case r.Winner == domain.VerdictVariant:
		verdict = "Variant wins"
	case r.Significant:
		verdict = "Variant is significantly worse"
	}
	fmt.Fprintf(w, "%s\n", verdict)
	fmt.Fprintf(w, "  Control rate: %s\n", util.FormatPercent(r.ControlRate))
	fmt.Fprintf(w, "  Variant rate: %s\n", util.FormatPercent(r.VariantRate))
	fmt.Fprintf(w, "  Lift:         %s\n", util.FormatPercent(r.Lift))
	fmt.Fprintf(w, "  Confidence:   %d%%\n", r.Confidence)
	fmt.Fprintf(w, "  z-score:      %.3f\n", r.ZScore)
}

func printFindings(w io.Writer, findings []domain.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "[%s] %s\n  %s\n", f.Priority, f.Name, f.Diagnosis)
		for _, r := range f.Remediations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}
