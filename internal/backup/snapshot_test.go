package backup

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/demo"
)

var now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func TestCollectRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, err := demo.NewRepositories(ctx, now)
	require.NoError(t, err)

	snap, err := Collect(ctx, src, now)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, snap.Version)
	assert.Equal(t, 4, snap.Counts()["campaigns"])
	assert.NotZero(t, snap.Counts()["metrics"])

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	decoded, err := Decode(&buf)
	require.NoError(t, err)

	dst := memory.NewRepositories(memory.NewStore())
	require.NoError(t, Restore(ctx, dst, decoded))

	again, err := Collect(ctx, dst, now)
	require.NoError(t, err)
	if diff := cmp.Diff(snap.Counts(), again.Counts()); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, snap.Profile.BusinessName, again.Profile.BusinessName)

	srcTotals, err := src.Metrics.Totals(ctx, time.Time{})
	require.NoError(t, err)
	dstTotals, err := dst.Metrics.Totals(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, srcTotals.Impressions, dstTotals.Impressions)
	assert.Equal(t, srcTotals.Days, dstTotals.Days)
	assert.InDelta(t, srcTotals.Spend, dstTotals.Spend, 1e-6)
}

func TestRestoreIntoPopulatedStoreFails(t *testing.T) {
	ctx := context.Background()
	repos, err := demo.NewRepositories(ctx, now)
	require.NoError(t, err)

	snap, err := Collect(ctx, repos, now)
	require.NoError(t, err)
	assert.Error(t, Restore(ctx, repos, snap))
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	err := Restore(context.Background(), memory.NewRepositories(memory.NewStore()), &Snapshot{Version: 99})
	assert.ErrorContains(t, err, "unsupported snapshot version")
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("not json"))
	assert.Error(t, err)
}
