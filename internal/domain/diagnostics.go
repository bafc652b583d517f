package domain

// Priority ranks how urgently a finding should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// minImpressions is the delivery volume below which ratio-based rules stay silent.
const minImpressions = 1000

// DiagnosticInput is the metrics tuple the rules are evaluated against.
type DiagnosticInput struct {
	Totals  Totals
	Derived DerivedMetrics
	Stage   FunnelStage
}

// NewDiagnosticInput derives ratios from totals.
func NewDiagnosticInput(t Totals, stage FunnelStage) DiagnosticInput {
	return DiagnosticInput{Totals: t, Derived: t.Derive(), Stage: stage}
}

// Rule maps a predicate over metrics to a canned diagnosis.
type Rule struct {
	ID           string
	Name         string
	Applies      func(DiagnosticInput) bool
	Diagnosis    string
	Remediations []string
	Priority     Priority
}

// Finding is a rule that matched.
type Finding struct {
	RuleID       string   `json:"rule_id"`
	Name         string   `json:"name"`
	Diagnosis    string   `json:"diagnosis"`
	Remediations []string `json:"remediations,omitempty"`
	Priority     Priority `json:"priority"`
}

// Diagnose evaluates every rule independently and returns all matches in rule order.
func Diagnose(in DiagnosticInput, rules []Rule) []Finding {
	var findings []Finding
	for _, r := range rules {
		if r.Applies == nil || !r.Applies(in) {
			continue
		}
		findings = append(findings, Finding{
			RuleID:       r.ID,
			Name:         r.Name,
			Diagnosis:    r.Diagnosis,
			Remediations: append([]string(nil), r.Remediations...),
			Priority:     r.Priority,
		})
	}
	return findings
}

// DefaultRules returns the built-in rules measured against b.
func DefaultRules(b Benchmark) []Rule {
	return []Rule{
		{
			ID:   "low_ctr",
			Name: "Low click-through rate",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Impressions >= minImpressions && in.Derived.CTR < b.CTR*0.75
			},
			Diagnosis: "People see the ads but few click. The creative or offer is not stopping the scroll for this audience.",
			Remediations: []string{
				"Test a new hook in the first line or first three seconds of video",
				"Lead with the offer or a concrete benefit instead of the brand",
				"Refresh images; creative older than a few weeks fatigues",
				"Check the audience matches the message",
			},
			Priority: PriorityHigh,
		},
		{
			ID:   "high_cpc",
			Name: "Expensive clicks",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Clicks > 0 && in.Derived.CPC > b.CPC*1.5
			},
			Diagnosis: "Each click costs well above the industry norm, usually a mix of weak CTR and a competitive auction.",
			Remediations: []string{
				"Improve CTR first; relevance lowers auction cost",
				"Broaden the audience or add placements",
				"Switch from manual bids to lowest-cost bidding",
			},
			Priority: PriorityMedium,
		},
		{
			ID:   "high_cpm",
			Name: "High cost per thousand impressions",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Impressions >= minImpressions && in.Derived.CPM > b.CPM*1.5
			},
			Diagnosis: "Reach is expensive. The audience is likely too narrow or heavily contested.",
			Remediations: []string{
				"Expand interests or use a broader lookalike",
				"Enable automatic placements",
				"Avoid peak-season dayparts if timing is flexible",
			},
			Priority: PriorityMedium,
		},
		{
			ID:   "landing_page",
			Name: "Clicks are not converting",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Clicks >= 100 && in.Derived.CTR >= b.CTR &&
					in.Derived.ConversionRate < b.ConversionRate*0.5
			},
			Diagnosis: "The ads earn healthy clicks but visitors leave without converting. The landing page or offer is the bottleneck.",
			Remediations: []string{
				"Make the landing page headline match the ad promise",
				"Cut form fields to the minimum",
				"Check mobile load time and page speed",
				"Verify the conversion pixel fires on the thank-you page",
			},
			Priority: PriorityHigh,
		},
		{
			ID:   "high_cpa",
			Name: "Cost per acquisition above target",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Conversions > 0 && in.Derived.CPA > b.CPA*1.5
			},
			Diagnosis: "Each conversion costs far more than comparable businesses pay.",
			Remediations: []string{
				"Shift budget to the best-performing ad sets",
				"Retarget warm audiences who already engaged",
				"Test a stronger offer or guarantee",
			},
			Priority: PriorityHigh,
		},
		{
			ID:   "unprofitable",
			Name: "Return on ad spend below break-even",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Spend > 0 && in.Totals.Revenue > 0 && in.Derived.ROAS < 1
			},
			Diagnosis: "The campaign returns less revenue than it spends.",
			Remediations: []string{
				"Pause the lowest-ROAS ad sets",
				"Raise average order value with bundles or upsells",
				"Count lifetime value before cutting retention campaigns",
			},
			Priority: PriorityHigh,
		},
		{
			ID:   "no_conversions",
			Name: "Meaningful spend with no conversions",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Conversions == 0 && in.Totals.Spend >= b.CPA*3
			},
			Diagnosis: "The campaign has spent several times a typical acquisition cost without a single recorded conversion.",
			Remediations: []string{
				"Confirm conversion tracking is installed and firing",
				"Check the campaign objective matches the conversion event",
				"Pause and rework the offer before spending more",
			},
			Priority: PriorityHigh,
		},
		{
			ID:   "low_volume",
			Name: "Too little delivery to judge",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Spend > 0 && in.Totals.Impressions < minImpressions
			},
			Diagnosis: "There is not enough delivery yet to draw conclusions.",
			Remediations: []string{
				"Let the campaign exit the learning phase before changing it",
				"Raise the daily budget or broaden targeting",
			},
			Priority: PriorityLow,
		},
		{
			ID:   "retention_cost",
			Name: "Retention costs more than acquisition",
			Applies: func(in DiagnosticInput) bool {
				return in.Stage == StageRetention && in.Totals.Conversions > 0 && in.Derived.CPA > b.CPA
			},
			Diagnosis: "Re-engaging existing customers should be cheaper than winning new ones.",
			Remediations: []string{
				"Use customer lists and email audiences instead of interest targeting",
				"Offer loyalty perks rather than discounts",
				"Cap frequency to avoid annoying existing customers",
			},
			Priority: PriorityMedium,
		},
		{
			ID:   "scale_up",
			Name: "Strong performer",
			Applies: func(in DiagnosticInput) bool {
				return in.Totals.Conversions >= 10 && in.Derived.CPA <= b.CPA*0.75 &&
					(in.Totals.Revenue == 0 || in.Derived.ROAS >= 2)
			},
			Diagnosis: "Acquisition cost is comfortably below benchmark. This campaign can take more budget.",
			Remediations: []string{
				"Increase budget by 20% every few days rather than all at once",
				"Duplicate the winning ad set into a new audience",
				"Record what worked as a learning",
			},
			Priority: PriorityLow,
		},
	}
}
