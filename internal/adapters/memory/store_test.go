package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

var testNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func TestCreateRejectsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(NewStore())

	c := &domain.Campaign{ID: "c1", Name: "Spring", Platform: "google", Status: domain.CampaignDraft, CreatedAt: testNow}
	require.NoError(t, repos.Campaigns.Create(ctx, c))
	dup := *c
	dup.Name = "Overwritten"
	assert.ErrorContains(t, repos.Campaigns.Create(ctx, &dup), "already exists")

	got, err := repos.Campaigns.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Spring", got.Name)

	require.NoError(t, repos.Failures.Create(ctx, &domain.Failure{ID: "f1", Title: "Flop", CreatedAt: testNow}))
	assert.Error(t, repos.Failures.Create(ctx, &domain.Failure{ID: "f1", Title: "Flop", CreatedAt: testNow}))

	require.NoError(t, repos.Learnings.Create(ctx, &domain.Learning{ID: "l1", Title: "UGC wins", CreatedAt: testNow}))
	assert.Error(t, repos.Learnings.Create(ctx, &domain.Learning{ID: "l1", Title: "UGC wins", CreatedAt: testNow}))
}

func TestMetricsRecordKeepsStoredIdentity(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(NewStore())
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.CampaignMetrics{ID: "m1", CampaignID: "c1", Date: day, Spend: 10, CreatedAt: testNow}
	require.NoError(t, repos.Metrics.Record(ctx, first))

	second := &domain.CampaignMetrics{ID: "m2", CampaignID: "c1", Date: day.Add(3 * time.Hour), Spend: 20, CreatedAt: testNow.Add(time.Hour)}
	require.NoError(t, repos.Metrics.Record(ctx, second))
	assert.Equal(t, "m1", second.ID)
	assert.True(t, second.CreatedAt.Equal(testNow))

	got, err := repos.Metrics.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20.0, got.Spend)

	got, err = repos.Metrics.GetByID(ctx, "m2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
