package analytics

import (
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// Overview contains everything the dashboard home page shows for a period.
type Overview struct {
	Period       string
	Since        time.Time
	Profile      *domain.Profile
	Totals       domain.Totals
	Derived      domain.DerivedMetrics
	Daily        []domain.DailyTotals
	Active       []domain.CampaignSummary
	RunningTests []TestReport
	Learnings    []*domain.Learning
}

// ActiveSpendShare returns each active campaign's share of their combined spend,
// keyed by campaign ID.
func (o Overview) ActiveSpendShare() map[string]float64 {
	var total float64
	for _, s := range o.Active {
		total += s.Totals.Spend
	}
	shares := make(map[string]float64, len(o.Active))
	for _, s := range o.Active {
		if total > 0 {
			shares[s.Campaign.ID] = s.Totals.Spend / total
		} else {
			shares[s.Campaign.ID] = 0
		}
	}
	return shares
}

// CampaignReport is the detail view of one campaign.
type CampaignReport struct {
	Campaign  *domain.Campaign
	Metrics   []*domain.CampaignMetrics
	Totals    domain.Totals
	Derived   domain.DerivedMetrics
	Benchmark domain.Benchmark
	Findings  []domain.Finding
	Tests     []*domain.Test
	Currency  string
}

// BudgetUsed returns spend as a fraction of the total budget, 0 without a budget.
func (r CampaignReport) BudgetUsed() float64 {
	if r.Campaign == nil || r.Campaign.TotalBudget <= 0 {
		return 0
	}
	return r.Totals.Spend / r.Campaign.TotalBudget
}

// TestReport pairs a test with the significance of its current counts.
type TestReport struct {
	Test   *domain.Test
	Result domain.SignificanceResult
	// RequiredPerArm estimates the visitors each arm needs to detect a 20% lift
	// over the observed control rate. Zero until the control has conversions.
	RequiredPerArm int64
}

// Progress returns the fraction of the required sample the smaller arm has reached.
func (r TestReport) Progress() float64 {
	if r.RequiredPerArm <= 0 {
		return 0
	}
	smaller := min(r.Test.ControlVisitors, r.Test.VariantVisitors)
	p := float64(smaller) / float64(r.RequiredPerArm)
	return min(p, 1)
}

// SeriesPoint is one point of a chart series.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Series is a named chart series.
type Series struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}
