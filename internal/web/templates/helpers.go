package templates

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

type metricCard struct {
	label, value string
}

func metricCards(t domain.Totals, d domain.DerivedMetrics, currency string) []metricCard {
	return []metricCard{
		{"Spend", util.FormatMoney(t.Spend, currency)},
		{"Revenue", util.FormatMoney(t.Revenue, currency)},
		{"ROAS", util.FormatRatio(d.ROAS)},
		{"Impressions", formatInt(t.Impressions)},
		{"Clicks", formatInt(t.Clicks)},
		{"CTR", util.FormatPercent(d.CTR)},
		{"CPM", util.FormatMoney(d.CPM, currency)},
		{"CPC", util.FormatMoney(d.CPC, currency)},
		{"Leads", formatInt(t.Leads)},
		{"CPL", util.FormatMoney(d.CPL, currency)},
		{"Conversions", formatInt(t.Conversions)},
		{"CPA", util.FormatMoney(d.CPA, currency)},
		{"Conv. rate", util.FormatPercent(d.ConversionRate)},
	}
}

func pageTheme(p Page) string {
	if p.Theme == "" {
		return "light"
	}
	return p.Theme
}

func formatInt(n int64) string {
	return util.FormatNumber(n)
}

func formatDate(t time.Time) string {
	return util.FormatDateHuman(t)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return util.FormatDateHuman(*t)
}

func inputDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

func formatZScore(z float64) string {
	return strconv.FormatFloat(z, 'f', 3, 64)
}

// progressValue clamps a fraction for a <progress max="1"> element.
func progressValue(f float64) string {
	return strconv.FormatFloat(min(max(f, 0), 1), 'f', 2, 64)
}

func stageLabel(s domain.FunnelStage) string {
	if s == "" {
		return "-"
	}
	return s.Label()
}

func priorityClass(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "badge badge-danger"
	case domain.PriorityMedium:
		return "badge badge-warning"
	default:
		return "badge"
	}
}

func statusClass(status string) string {
	switch status {
	case "active", "running":
		return "badge badge-success"
	case "paused":
		return "badge badge-warning"
	default:
		return "badge"
	}
}

// statusVals is the hx-vals payload of a status change button.
func statusVals(status domain.CampaignStatus) string {
	return fmt.Sprintf(`{"status":%q}`, string(status))
}

func verdictLabel(r domain.SignificanceResult) string {
	switch {
	case r.Winner == domain.VerdictVariant:
		return "Variant wins"
	case r.Significant:
		return "Variant is significantly worse"
	default:
		return "No significant difference yet"
	}
}

func periodLabel(period string) string {
	switch period {
	case "7d":
		return "Last 7 days"
	case "30d":
		return "Last 30 days"
	case "90d":
		return "Last 90 days"
	case "month":
		return "This month"
	case "all":
		return "All time"
	default:
		return "Period " + period
	}
}

func fieldLabel(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// longField reports whether an asset attribute is edited in a textarea.
func longField(field string) bool {
	switch field {
	case "primary_text", "body", "key_message":
		return true
	}
	return false
}

func pathFor(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// pageURL builds a query URL from key/value pairs, skipping empty values.
func pageURL(path string, kv ...string) templ.SafeURL {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return templ.SafeURL(path)
	}
	return templ.SafeURL(path + "?" + q.Encode())
}

func draftCampaign() *domain.Campaign {
	return &domain.Campaign{Status: domain.CampaignDraft}
}

func settingsProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return &domain.Profile{Industry: domain.GeneralIndustry, Currency: "USD"}
	}
	return p
}

func libraryKind(f domain.AssetFilter) domain.AssetKind {
	if f.Kind == "" {
		return domain.AssetAudience
	}
	return f.Kind
}

// newestFirst returns the daily rows latest date first.
func newestFirst(rows []*domain.CampaignMetrics) []*domain.CampaignMetrics {
	out := slices.Clone(rows)
	slices.Reverse(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
