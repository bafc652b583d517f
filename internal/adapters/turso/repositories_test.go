package turso_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/adapters/turso"
	"github.com/emiliopalmerini/adpulse/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestProfileRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewProfileRepository(db)

	got, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "no profile saved yet")

	p := &domain.Profile{ID: "p1", BusinessName: "Acme Bakery", Industry: "food", Email: "hi@acme.test", Currency: "USD", CreatedAt: testNow}
	require.NoError(t, repo.Save(ctx, p))

	p.BusinessName = "Acme Bakery & Cafe"
	require.NoError(t, repo.Save(ctx, p))

	got, err = repo.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Bakery & Cafe", got.BusinessName)
	assert.True(t, got.CreatedAt.Equal(testNow))
}

func TestCampaignRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewCampaignRepository(db)

	start := day(1)
	c := &domain.Campaign{
		ID: "c1", Name: "Spring sale", Platform: "google", Objective: "sales",
		FunnelStage: domain.StageConversion, Status: domain.CampaignActive,
		DailyBudget: 20, TotalBudget: 600, StartDate: &start, Notes: strPtr("retargeting"),
		CreatedAt: testNow, UpdatedAt: testNow,
	}
	require.NoError(t, repo.Create(ctx, c))
	seedCampaign(t, db, "c2", domain.CampaignPaused)

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Spring sale", got.Name)
	assert.Equal(t, domain.StageConversion, got.FunnelStage)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
	assert.Nil(t, got.EndDate)
	assert.Nil(t, got.AudienceID)
	assert.Equal(t, "retargeting", *got.Notes)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	active, err := repo.List(ctx, domain.CampaignFilter{Status: domain.CampaignActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c1", active[0].ID)

	all, err := repo.List(ctx, domain.CampaignFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := repo.List(ctx, domain.CampaignFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	c.Status = domain.CampaignCompleted
	c.Notes = nil
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignCompleted, got.Status)
	assert.Nil(t, got.Notes)

	require.NoError(t, repo.Delete(ctx, "c1"))
	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetricsRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedCampaign(t, db, "c1", domain.CampaignActive)
	seedCampaign(t, db, "c2", domain.CampaignActive)
	repo := turso.NewMetricsRepository(db)

	rows := []*domain.CampaignMetrics{
		{ID: "m1", CampaignID: "c1", Date: day(10), Spend: 10, Impressions: 1000, Clicks: 20, Conversions: 1, Revenue: 30, CreatedAt: testNow},
		{ID: "m2", CampaignID: "c1", Date: day(11), Spend: 15, Impressions: 1500, Clicks: 30, Conversions: 2, Revenue: 60, CreatedAt: testNow},
		{ID: "m3", CampaignID: "c2", Date: day(11), Spend: 5, Impressions: 500, Clicks: 5, CreatedAt: testNow},
	}
	for _, m := range rows {
		require.NoError(t, repo.Record(ctx, m))
	}

	// Recording the same campaign and day replaces the earlier row and keeps its identity.
	replaced := &domain.CampaignMetrics{
		ID: "m4", CampaignID: "c1", Date: day(11), Spend: 20, Impressions: 2000, Clicks: 40, Conversions: 3, Revenue: 90, CreatedAt: testNow.Add(time.Hour),
	}
	require.NoError(t, repo.Record(ctx, replaced))
	assert.Equal(t, "m2", replaced.ID)
	assert.True(t, replaced.CreatedAt.Equal(testNow))

	got, err := repo.GetByID(ctx, "m2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, got.Spend)
	assert.True(t, got.Date.Equal(day(11)))

	got, err = repo.GetByID(ctx, "m4")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := repo.ListByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Date.Equal(day(10)))
	assert.Equal(t, 20.0, list[1].Spend)

	totals, err := repo.TotalsByCampaign(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Days)
	assert.Equal(t, 30.0, totals.Spend)
	assert.Equal(t, int64(3000), totals.Impressions)
	assert.Equal(t, int64(4), totals.Conversions)

	since, err := repo.Totals(ctx, day(11))
	require.NoError(t, err)
	assert.Equal(t, int64(1), since.Days)
	assert.Equal(t, 25.0, since.Spend)

	allTime, err := repo.Totals(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), allTime.Days)
	assert.Equal(t, 35.0, allTime.Spend)

	daily, err := repo.Daily(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.True(t, daily[1].Date.Equal(day(11)))
	assert.Equal(t, 25.0, daily[1].Spend)
	assert.Equal(t, int64(45), daily[1].Clicks)

	empty, err := repo.TotalsByCampaign(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.Totals{}, empty)

	require.NoError(t, repo.Delete(ctx, replaced.ID))
	list, err = repo.ListByCampaign(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].ID)

	// Metrics go with their campaign.
	require.NoError(t, turso.NewCampaignRepository(db).Delete(ctx, "c2"))
	list, err = repo.ListByCampaign(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTestRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedCampaign(t, db, "c1", domain.CampaignActive)
	repo := turso.NewTestRepository(db)

	test := domain.NewTest("t1", "Headline test", "headline", testNow)
	test.CampaignID = strPtr("c1")
	test.Hypothesis = strPtr("Benefit-led headlines convert better")
	require.NoError(t, repo.Create(ctx, test))
	require.NoError(t, repo.Create(ctx, domain.NewTest("t2", "CTA test", "cta", testNow.Add(time.Hour))))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.ControlLabel)
	assert.Equal(t, domain.TestRunning, got.Status)
	assert.Nil(t, got.Winner)
	assert.Nil(t, got.Confidence)
	assert.Equal(t, "c1", *got.CampaignID)

	got.ControlVisitors, got.ControlConversions = 1000, 50
	got.VariantVisitors, got.VariantConversions = 1000, 80
	_, err = got.Complete(testNow.Add(48 * time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, got))

	done, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TestCompleted, done.Status)
	require.NotNil(t, done.Winner)
	assert.Equal(t, domain.VerdictVariant, *done.Winner)
	require.NotNil(t, done.Confidence)
	assert.Equal(t, 99, *done.Confidence)
	require.NotNil(t, done.EndedAt)

	running, err := repo.List(ctx, domain.TestRunning)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "t2", running[0].ID)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t2", all[0].ID, "newest first")

	require.NoError(t, repo.Delete(ctx, "t2"))
	missing, err := repo.GetByID(ctx, "t2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLearningRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewLearningRepository(db)

	for i, tags := range [][]string{{"ads", "video"}, {"ad"}, nil} {
		l := &domain.Learning{
			ID:          fmt.Sprintf("l%d", i),
			Title:       fmt.Sprintf("Learning %d", i),
			Insight:     "Short videos beat statics",
			Category:    "creative",
			FunnelStage: domain.StageAwareness,
			Tags:        tags,
			CreatedAt:   testNow.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, l))
	}

	got, err := repo.GetByID(ctx, "l0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"ads", "video"}, got.Tags)
	assert.Nil(t, got.TestID)

	tagged, err := repo.List(ctx, domain.LearningFilter{Tag: "ad"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "l1", tagged[0].ID)

	all, err := repo.List(ctx, domain.LearningFilter{Category: "creative", Limit: 2})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "l2", all[0].ID)
	assert.Nil(t, all[0].Tags)

	require.NoError(t, repo.Delete(ctx, "l0"))
	got, err = repo.GetByID(ctx, "l0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFailureRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedCampaign(t, db, "c1", domain.CampaignCompleted)
	repo := turso.NewFailureRepository(db)

	require.NoError(t, repo.Create(ctx, &domain.Failure{
		ID: "f1", CampaignID: strPtr("c1"), Title: "Broad audience flop", WhatHappened: "Spent $500, zero leads",
		RootCause: "Audience too broad", Lesson: "Start with lookalikes", CreatedAt: testNow,
	}))
	require.NoError(t, repo.Create(ctx, &domain.Failure{
		ID: "f2", Title: "Landing page down", WhatHappened: "404 for two days", CreatedAt: testNow.Add(time.Hour),
	}))

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "f2", list[0].ID)
	assert.Nil(t, list[0].CampaignID)

	// Deleting the campaign keeps the post-mortem.
	require.NoError(t, turso.NewCampaignRepository(db).Delete(ctx, "c1"))
	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Start with lookalikes", got.Lesson)
	assert.Nil(t, got.CampaignID)

	require.NoError(t, repo.Delete(ctx, "f1"))
	list, err = repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "f2", list[0].ID)

	got, err = repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAssetRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewAssetRepository(db)

	copyAsset := &domain.Asset{
		ID: "a1", Kind: domain.AssetAdCopy, Title: "Spring promo", Platform: "facebook",
		Attributes: map[string]string{"headline": "Fresh bread daily", "cta": "Order now"},
		Tags:       []string{"spring"}, CreatedAt: testNow, UpdatedAt: testNow,
	}
	audience := &domain.Asset{
		ID: "a2", Kind: domain.AssetAudience, Title: "Local parents",
		Attributes: map[string]string{"locations": "Springfield"},
		CreatedAt:  testNow, UpdatedAt: testNow.Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, copyAsset))
	require.NoError(t, repo.Create(ctx, audience))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fresh bread daily", got.Attributes["headline"])
	assert.Equal(t, []string{"spring"}, got.Tags)

	byKind, err := repo.List(ctx, domain.AssetFilter{Kind: domain.AssetAudience})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "a2", byKind[0].ID)

	// Query matches attribute values as well as titles.
	byQuery, err := repo.List(ctx, domain.AssetFilter{Query: "springfield"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "a2", byQuery[0].ID)

	byQuery, err = repo.List(ctx, domain.AssetFilter{Query: "SPRING"})
	require.NoError(t, err)
	assert.Len(t, byQuery, 2)

	copyAsset.Title = "Spring promo v2"
	copyAsset.Attributes = nil
	copyAsset.UpdatedAt = testNow.Add(2 * time.Hour)
	require.NoError(t, repo.Update(ctx, copyAsset))

	all, err := repo.List(ctx, domain.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].ID, "most recently updated first")
	assert.Empty(t, all[0].Attributes)

	require.NoError(t, repo.Delete(ctx, "a1"))
	missing, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	got, err := turso.WithRetry(ctx, 2, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("hrana: stream not found")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)

	calls = 0
	_, err = turso.WithRetry(ctx, 2, func() (int, error) {
		calls++
		return 0, errors.New("syntax error")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-stream errors are not retried")

	calls = 0
	_, err = turso.WithRetry(ctx, 2, func() (int, error) {
		calls++
		return 0, errors.New("stream not found")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := turso.Open("", "", turso.Options{})
	assert.Error(t, err)
}
