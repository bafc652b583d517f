package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

func TestNewRepositoriesSeedsDemoBusiness(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 11, 30, 15, 0, 0, 0, time.UTC)

	repos, err := NewRepositories(ctx, now)
	require.NoError(t, err)

	profile, err := repos.Profiles.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "restaurants", profile.Benchmark().Industry)

	campaigns, err := repos.Campaigns.List(ctx, domain.CampaignFilter{})
	require.NoError(t, err)
	assert.Len(t, campaigns, 4)
	for _, c := range campaigns {
		assert.NoError(t, c.Validate(), c.Name)
	}

	totals, err := repos.Metrics.Totals(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(30), totals.Days)
	assert.Greater(t, totals.Spend, 0.0)
	assert.LessOrEqual(t, totals.Clicks, totals.Impressions)

	tests, err := repos.Tests.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, tests, 2)
	for _, tt := range tests {
		assert.NoError(t, tt.Validate(), tt.Name)
	}

	completed, err := repos.Tests.List(ctx, domain.TestCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	res, err := completed[0].Evaluate()
	require.NoError(t, err)
	assert.Equal(t, *completed[0].Winner, res.Winner, "stored verdict matches the counts")
	assert.Equal(t, *completed[0].Confidence, res.Confidence)

	assets, err := repos.Assets.List(ctx, domain.AssetFilter{})
	require.NoError(t, err)
	assert.Len(t, assets, 4)
	for _, a := range assets {
		assert.NoError(t, a.Validate(), a.Title)
	}
}
