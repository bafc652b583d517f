package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/demo"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

var fixedNow = time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC)

func newTestService(repos *ports.Repositories) *Service {
	s := NewService(repos, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func seed(t *testing.T) *ports.Repositories {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())

	require.NoError(t, repos.Profiles.Save(ctx, &domain.Profile{
		ID: "p1", BusinessName: "Acme", Industry: "ecommerce", Currency: "EUR", CreatedAt: fixedNow,
	}))
	campaignID := "c1"
	for _, c := range []*domain.Campaign{
		{ID: "c1", Name: "Active", Platform: "facebook", FunnelStage: domain.StageConversion, Status: domain.CampaignActive, TotalBudget: 400, CreatedAt: fixedNow},
		{ID: "c2", Name: "Paused", Platform: "google", Status: domain.CampaignPaused, CreatedAt: fixedNow.Add(time.Minute)},
	} {
		require.NoError(t, repos.Campaigns.Create(ctx, c))
	}

	rows := []*domain.CampaignMetrics{
		// Low CTR and no conversions on meaningful spend.
		{ID: "m1", CampaignID: "c1", Date: fixedNow.AddDate(0, 0, -1), Spend: 100, Impressions: 20000, Clicks: 40},
		{ID: "m2", CampaignID: "c1", Date: fixedNow.AddDate(0, 0, -40), Spend: 100, Impressions: 20000, Clicks: 40},
		{ID: "m3", CampaignID: "c2", Date: fixedNow.AddDate(0, 0, -2), Spend: 50, Impressions: 5000, Clicks: 100, Conversions: 5, Revenue: 200},
	}
	for _, m := range rows {
		m.Date = time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), 0, 0, 0, 0, time.UTC)
		require.NoError(t, repos.Metrics.Record(ctx, m))
	}

	require.NoError(t, repos.Tests.Create(ctx, &domain.Test{
		ID: "t1", CampaignID: &campaignID, Name: "Headline", Element: "headline",
		ControlLabel: "A", VariantLabel: "B",
		ControlVisitors: 1000, ControlConversions: 50, VariantVisitors: 1000, VariantConversions: 80,
		Status: domain.TestRunning, StartedAt: fixedNow, CreatedAt: fixedNow,
	}))
	require.NoError(t, repos.Learnings.Create(ctx, &domain.Learning{
		ID: "l1", Title: "Benefits win", Insight: "Benefit headlines beat feature headlines", CreatedAt: fixedNow,
	}))
	return repos
}

func TestOverview(t *testing.T) {
	svc := newTestService(seed(t))

	ov, err := svc.Overview(context.Background(), "7d")
	require.NoError(t, err)

	assert.Equal(t, "Acme", ov.Profile.BusinessName)
	assert.Equal(t, 150.0, ov.Totals.Spend, "only rows inside the period")
	assert.Equal(t, int64(2), ov.Totals.Days)
	assert.Len(t, ov.Daily, 2)
	require.Len(t, ov.Active, 1)
	assert.Equal(t, "c1", ov.Active[0].Campaign.ID)
	assert.Equal(t, 200.0, ov.Active[0].Totals.Spend, "summaries use lifetime totals")
	require.Len(t, ov.RunningTests, 1)
	assert.Equal(t, domain.VerdictVariant, ov.RunningTests[0].Result.Winner)
	assert.Len(t, ov.Learnings, 1)
	assert.InDelta(t, 200.0/150, ov.Derived.ROAS, 1e-9)
	assert.Equal(t, 1.0, ov.ActiveSpendShare()["c1"])
}

func TestOverviewAllTime(t *testing.T) {
	svc := newTestService(seed(t))

	ov, err := svc.Overview(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, 250.0, ov.Totals.Spend)
	assert.Len(t, ov.Daily, 3)
}

func TestCampaignReport(t *testing.T) {
	svc := newTestService(seed(t))

	r, err := svc.CampaignReport(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "EUR", r.Currency)
	assert.Equal(t, "ecommerce", r.Benchmark.Industry)
	assert.Len(t, r.Metrics, 2)
	assert.Equal(t, int64(40000), r.Totals.Impressions)
	assert.InDelta(t, 0.002, r.Derived.CTR, 1e-9)
	assert.InDelta(t, 0.5, r.BudgetUsed(), 1e-9)
	require.Len(t, r.Tests, 1)

	var ids []string
	for _, f := range r.Findings {
		ids = append(ids, f.RuleID)
	}
	assert.Contains(t, ids, "low_ctr")
	assert.Contains(t, ids, "no_conversions")
}

func TestCampaignReportNotFound(t *testing.T) {
	svc := newTestService(seed(t))
	_, err := svc.CampaignReport(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.TestReport(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTestReport(t *testing.T) {
	svc := newTestService(seed(t))

	r, err := svc.TestReport(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 99, r.Result.Confidence)
	assert.Equal(t, domain.RequiredSampleSize(0.05, minDetectableLift), r.RequiredPerArm)
	assert.Greater(t, r.RequiredPerArm, int64(1000))
	assert.InDelta(t, 1000/float64(r.RequiredPerArm), r.Progress(), 1e-9)
}

func TestTestReportsFilter(t *testing.T) {
	svc := newTestService(seed(t))

	running, err := svc.TestReports(context.Background(), domain.TestRunning)
	require.NoError(t, err)
	assert.Len(t, running, 1)

	completed, err := svc.TestReports(context.Background(), domain.TestCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestSeries(t *testing.T) {
	svc := newTestService(seed(t))

	series, err := svc.Series(context.Background(), "30d")
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, "spend", series[0].Name)
	require.Len(t, series[0].Points, 2)
	assert.Equal(t, "2024-06-18", series[0].Points[0].Date)
	assert.Equal(t, 50.0, series[0].Points[0].Value)
	assert.Equal(t, "conversions", series[3].Name)
	assert.Equal(t, 5.0, series[3].Points[0].Value)
}

func TestDiagnoseAdHoc(t *testing.T) {
	svc := newTestService(seed(t))

	findings, err := svc.Diagnose(context.Background(), domain.Totals{Spend: 10, Impressions: 100}, "")
	require.NoError(t, err)
	var ids []string
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}
	assert.Contains(t, ids, "low_volume")
}

func TestOverviewOnDemoData(t *testing.T) {
	repos, err := demo.NewRepositories(context.Background(), fixedNow)
	require.NoError(t, err)
	svc := newTestService(repos)

	ov, err := svc.Overview(context.Background(), "30d")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Bakery", ov.Profile.BusinessName)
	assert.Positive(t, ov.Totals.Spend)
	assert.NotEmpty(t, ov.Active)
	assert.NotEmpty(t, ov.RunningTests)
}
