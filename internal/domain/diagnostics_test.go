package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ruleIDs(findings []Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func TestDiagnose_DefaultRules(t *testing.T) {
	general := BenchmarkFor(GeneralIndustry)

	tests := []struct {
		name   string
		totals Totals
		stage  FunnelStage
		want   []string
	}{
		{
			name:   "no delivery",
			totals: Totals{},
			want:   []string{},
		},
		{
			name:   "weak creative burning budget",
			totals: Totals{Spend: 1000, Impressions: 200000, Clicks: 800},
			want:   []string{"low_ctr", "no_conversions"},
		},
		{
			name:   "clicks but no sales",
			totals: Totals{Spend: 2000, Impressions: 50000, Clicks: 1000, Conversions: 20, Revenue: 1500},
			stage:  StageConversion,
			want:   []string{"high_cpm", "landing_page", "high_cpa", "unprofitable"},
		},
		{
			name:   "strong performer",
			totals: Totals{Spend: 1500, Impressions: 100000, Clicks: 1500, Conversions: 150},
			stage:  StageRetention,
			want:   []string{"scale_up"},
		},
		{
			name:   "just launched",
			totals: Totals{Spend: 20, Impressions: 500, Clicks: 15},
			want:   []string{"low_volume"},
		},
		{
			name:   "expensive retention",
			totals: Totals{Spend: 600, Impressions: 40000, Clicks: 400, Conversions: 24},
			stage:  StageRetention,
			want:   []string{"retention_cost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(NewDiagnosticInput(tt.totals, tt.stage), DefaultRules(general))
			if diff := cmp.Diff(tt.want, ruleIDs(got)); diff != "" {
				t.Errorf("Diagnose() rule IDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiagnose_EvaluatesEveryRuleInOrder(t *testing.T) {
	calls := 0
	always := func(DiagnosticInput) bool { calls++; return true }
	never := func(DiagnosticInput) bool { calls++; return false }

	rules := []Rule{
		{ID: "c", Applies: always, Priority: PriorityLow},
		{ID: "a", Applies: never},
		{ID: "b", Applies: always, Priority: PriorityHigh},
		{ID: "nil-predicate"},
		{ID: "d", Applies: always, Priority: PriorityMedium},
	}

	got := Diagnose(DiagnosticInput{}, rules)

	if diff := cmp.Diff([]string{"c", "b", "d"}, ruleIDs(got)); diff != "" {
		t.Errorf("Diagnose() order mismatch (-want +got):\n%s", diff)
	}
	if calls != 4 {
		t.Errorf("expected 4 predicate calls, got %d", calls)
	}
}

func TestDiagnose_FindingCopiesRemediations(t *testing.T) {
	rules := []Rule{{
		ID:           "r",
		Applies:      func(DiagnosticInput) bool { return true },
		Remediations: []string{"one", "two"},
	}}

	got := Diagnose(DiagnosticInput{}, rules)
	got[0].Remediations[0] = "changed"

	if rules[0].Remediations[0] != "one" {
		t.Error("mutating a finding changed the rule table")
	}
}

func TestDefaultRules_DeclarationOrderIsStable(t *testing.T) {
	want := []string{
		"low_ctr", "high_cpc", "high_cpm", "landing_page", "high_cpa",
		"unprofitable", "no_conversions", "low_volume", "retention_cost", "scale_up",
	}
	rules := DefaultRules(BenchmarkFor("ecommerce"))
	got := make([]string, 0, len(rules))
	for _, r := range rules {
		got = append(got, r.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultRules() order mismatch (-want +got):\n%s", diff)
	}
}

func TestBenchmarkFor(t *testing.T) {
	if got := BenchmarkFor("Real Estate"); got.Industry != "real_estate" {
		t.Errorf("BenchmarkFor(Real Estate) = %s, want real_estate", got.Industry)
	}
	if got := BenchmarkFor("underwater basket weaving"); got.Industry != GeneralIndustry {
		t.Errorf("unknown industry fell back to %s", got.Industry)
	}
	for _, ind := range Industries() {
		if BenchmarkFor(ind).Industry != ind {
			t.Errorf("Industries() lists %q without a benchmark", ind)
		}
	}
}
