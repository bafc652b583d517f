package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

var fixedNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, exporter ports.MetricsExporter) (*Service, *ports.Repositories) {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	n := 0
	svc := NewService(repos, exporter, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return svc, repos
}

func TestCreateCampaign(t *testing.T) {
	svc, repos := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, CampaignInput{
		Name: "  Spring sale ", Platform: "Facebook", FunnelStage: "Conversion", DailyBudget: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, "Spring sale", c.Name)
	assert.Equal(t, "facebook", c.Platform)
	assert.Equal(t, domain.StageConversion, c.FunnelStage)
	assert.Equal(t, domain.CampaignDraft, c.Status)

	stored, err := repos.Campaigns.GetByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CampaignInput
		field string
	}{
		{"missing name", CampaignInput{Platform: "google"}, "name"},
		{"bad stage", CampaignInput{Name: "x", Platform: "google", FunnelStage: "upsell"}, "funnel_stage"},
		{"bad status", CampaignInput{Name: "x", Platform: "google", Status: "archived"}, "status"},
		{"negative budget", CampaignInput{Name: "x", Platform: "google", DailyBudget: -1}, "budget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCampaign(ctx, tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestSetCampaignStatusActivates(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Launch", Platform: "tiktok"})
	require.NoError(t, err)

	c, err = svc.SetCampaignStatus(ctx, c.ID, domain.CampaignActive)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, c.Status)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, 10, c.StartDate.Day())

	_, err = svc.SetCampaignStatus(ctx, "missing", domain.CampaignPaused)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMetricsExports(t *testing.T) {
	exp := &mockExporter{}
	svc, repos := newTestService(t, exp)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Spring", Platform: "facebook"})
	require.NoError(t, err)

	m, err := svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Spend: 12.5, Impressions: 1000, Clicks: 30})
	require.NoError(t, err)
	assert.True(t, m.Date.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)), "zero date defaults to today")
	assert.Equal(t, 1, exp.campaignCalls)

	totals, err := repos.Metrics.TotalsByCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, totals.Spend)
}

func TestRecordMetricsExportFailureIsNotFatal(t *testing.T) {
	exp := &mockExporter{
		ExportCampaignMetricsFunc: func(ctx context.Context, c *domain.Campaign, m *domain.CampaignMetrics) error {
			return errors.New("collector down")
		},
	}
	svc, _ := newTestService(t, exp)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Spring", Platform: "facebook"})
	require.NoError(t, err)
	_, err = svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Spend: 1, Impressions: 10})
	assert.NoError(t, err)
}

func TestRecordMetricsRejects(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.RecordMetrics(ctx, MetricsInput{CampaignID: "missing", Impressions: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Spring", Platform: "facebook"})
	require.NoError(t, err)
	_, err = svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Impressions: 10, Clicks: 11})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordMetricsSameDayKeepsStoredRow(t *testing.T) {
	svc, repos := newTestService(t, nil)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Spring", Platform: "facebook"})
	require.NoError(t, err)

	first, err := svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Date: day, Spend: 10, Impressions: 100})
	require.NoError(t, err)
	second, err := svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Date: day, Spend: 20, Impressions: 200})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows, err := repos.Metrics.ListByCampaign(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].Spend)

	require.NoError(t, svc.DeleteMetrics(ctx, second.ID))
	rows, err = repos.Metrics.ListByCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecordMetricsRejectsNonFinite(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Spring", Platform: "facebook"})
	require.NoError(t, err)
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		_, err = svc.RecordMetrics(ctx, MetricsInput{CampaignID: c.ID, Spend: v})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestDeleteUnknownIDs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	deletes := map[string]func(context.Context, string) error{
		"campaign": svc.DeleteCampaign,
		"metrics":  svc.DeleteMetrics,
		"test":     svc.DeleteTest,
		"learning": svc.DeleteLearning,
		"failure":  svc.DeleteFailure,
		"asset":    svc.DeleteAsset,
	}
	for name, del := range deletes {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, del(ctx, "missing"), domain.ErrNotFound)
		})
	}
}

func TestTestLifecycle(t *testing.T) {
	exp := &mockExporter{}
	svc, _ := newTestService(t, exp)
	ctx := context.Background()

	test, err := svc.CreateTest(ctx, TestInput{Name: "Headline", Element: "headline", VariantLabel: "Benefit"})
	require.NoError(t, err)
	assert.Equal(t, "A", test.ControlLabel)
	assert.Equal(t, "Benefit", test.VariantLabel)

	_, _, err = svc.RecordTestResults(ctx, test.ID, domain.SignificanceInput{
		ControlVisitors: 100, ControlConversions: 120,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, res, err := svc.RecordTestResults(ctx, test.ID, domain.SignificanceInput{
		ControlVisitors: 1000, ControlConversions: 50, VariantVisitors: 1000, VariantConversions: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictVariant, res.Winner)
	assert.Equal(t, 0, exp.testCalls, "recording counts does not export")

	ended, res, err := svc.EndTest(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TestCompleted, ended.Status)
	require.NotNil(t, ended.Winner)
	assert.Equal(t, res.Winner, *ended.Winner)
	assert.Equal(t, 1, exp.testCalls)

	_, _, err = svc.EndTest(ctx, test.ID)
	assert.ErrorIs(t, err, domain.ErrTestEnded)
	_, _, err = svc.RecordTestResults(ctx, test.ID, domain.SignificanceInput{})
	assert.ErrorIs(t, err, domain.ErrTestEnded)
}

func TestCreateTestUnknownCampaign(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.CreateTest(context.Background(), TestInput{Name: "x", Element: "cta", CampaignID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLearningAndFailure(t *testing.T) {
	svc, repos := newTestService(t, nil)
	ctx := context.Background()

	l, err := svc.AddLearning(ctx, LearningInput{
		Title: "UGC wins", Insight: "Customer videos beat studio shots", Category: "Creative",
		FunnelStage: "awareness", Tags: "video, UGC, video",
	})
	require.NoError(t, err)
	assert.Equal(t, "creative", l.Category)
	assert.Equal(t, []string{"video", "ugc"}, l.Tags)

	_, err = svc.AddLearning(ctx, LearningInput{Title: "x", Insight: "y", TestID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddFailure(ctx, FailureInput{Title: "Flop"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f, err := svc.AddFailure(ctx, FailureInput{Title: "Flop", WhatHappened: "No sales", Lesson: "Test smaller"})
	require.NoError(t, err)
	failures, err := repos.Failures.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, f.ID, failures[0].ID)
}

func TestSaveAsset(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a, err := svc.SaveAsset(ctx, "", AssetInput{
		Kind: "ad_copy", Title: "Promo", Platform: "google",
		Attributes: map[string]string{"headline": "Fresh bread", "description": " ", "cta": "Shop"},
	})
	require.NoError(t, err)
	assert.NotContains(t, a.Attributes, "description", "blank attributes are dropped")

	_, err = svc.SaveAsset(ctx, a.ID, AssetInput{
		Kind: "ad_copy", Title: "Promo", Platform: "google",
		Attributes: map[string]string{"headline": "This headline is far too long for a search ad"},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "headline")

	_, err = svc.SaveAsset(ctx, "missing", AssetInput{Kind: "content", Title: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveProfileDefaults(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.SaveProfile(ctx, ProfileInput{BusinessName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, domain.GeneralIndustry, p.Industry)
	assert.Equal(t, "USD", p.Currency)

	p2, err := svc.SaveProfile(ctx, ProfileInput{BusinessName: "Acme", Currency: "eur", Industry: "Fitness"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID, "profile is updated in place")
	assert.Equal(t, "EUR", p2.Currency)
	assert.Equal(t, "fitness", p2.Industry)

	_, err = svc.SaveProfile(ctx, ProfileInput{BusinessName: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
