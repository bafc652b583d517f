package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/adapters/otel"
	"github.com/emiliopalmerini/adpulse/internal/analytics"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
)

// testApp returns an AppContext over an empty in-memory store with
// sequential IDs.
func testApp(t *testing.T) *AppContext {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	logger := zap.NewNop()
	exporter := otel.NewNoOpExporter()
	n := 0
	return &AppContext{
		Config: &config.Config{},
		Logger: logger,
		Repos:  repos,
		Tracker: tracker.NewService(repos, exporter, logger, tracker.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		})),
		Analytics: analytics.NewService(repos, logger),
		Exporter:  exporter,
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command against app and returns its output.
func run(t *testing.T, app *AppContext, args ...string) (string, error) {
	t.Helper()
	prev := newAppContext
	newAppContext = func(ctx context.Context, opts AppOptions) (*AppContext, error) {
		return app, nil
	}
	t.Cleanup(func() { newAppContext = prev })

	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCalcSignificance(t *testing.T) {
	out, err := run(t, nil, "calc", "significance",
		"--control-visitors", "1000", "--control-conversions", "50",
		"--variant-visitors", "1000", "--variant-conversions", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "Variant wins")
	assert.Contains(t, out, "Control rate: 5.00%")
	assert.Contains(t, out, "Variant rate: 8.00%")

	_, err = run(t, nil, "calc", "significance", "--control-visitors", "10", "--control-conversions", "20")
	assert.ErrorIs(t, err, domain.ErrInvalidCounts)
}

func TestCalcMetrics(t *testing.T) {
	out, err := run(t, nil, "calc", "metrics", "--spend", "100", "--impressions", "10000", "--clicks", "200", "--conversions", "4", "--revenue", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "2.00%")
	assert.Contains(t, out, "$25.00")
	assert.Contains(t, out, "3.00x")

	out, err = run(t, nil, "calc", "metrics", "--spend", "100", "--currency", "EUR")
	require.NoError(t, err)
	assert.Contains(t, out, "€100.00")

	_, err = run(t, nil, "calc", "metrics", "--spend", "-1")
	assert.Error(t, err)
}

func TestCalcSampleSizeAndAdCopy(t *testing.T) {
	out, err := run(t, nil, "calc", "sample-size", "--baseline", "0.05")
	require.NoError(t, err)
	assert.Contains(t, out, "visitors per arm")

	_, err = run(t, nil, "calc", "sample-size", "--baseline", "1.5")
	assert.Error(t, err)

	out, err = run(t, nil, "calc", "adcopy", "--platform", "google", "--headline", strings.Repeat("x", 31))
	assert.Error(t, err)
	assert.Contains(t, out, "headline: 31 characters, limit is 30")

	out, err = run(t, nil, "calc", "adcopy", "--platform", "google", "--headline", "Short")
	require.NoError(t, err)
	assert.Contains(t, out, "Fits within")
}

func TestCampaignCommands(t *testing.T) {
	app := testApp(t)

	out, err := run(t, app, "campaign", "create", "Spring sale", "--platform", "facebook", "--stage", "conversion", "--daily-budget", "25", "--start", "2024-05-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Created campaign Spring sale (id-1)")

	out, err = run(t, app, "campaign", "metrics", "id-1", "--date", "2024-05-02", "--spend", "60", "--impressions", "10000", "--clicks", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 2024-05-02 for campaign id-1")

	out, err = run(t, app, "campaign", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sale")
	assert.Contains(t, out, "$60.00")

	out, err = run(t, app, "campaign", "list", "--status", "paused")
	require.NoError(t, err)
	assert.Contains(t, out, "No campaigns found")

	out, err = run(t, app, "campaign", "diagnose", "id-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Spring sale (facebook, Conversion)")
	assert.NotContains(t, out, "No issues found")

	_, err = run(t, app, "campaign", "create", "Bad", "--platform", "google", "--stage", "upsell")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = run(t, app, "campaign", "metrics", "missing", "--spend", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, app, "campaign", "metrics", "id-1", "--date", "2024-05-03", "--spend", "NaN")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = run(t, app, "campaign", "create", "Dates", "--platform", "google", "--start", "May 1")
	assert.Error(t, err)
}

func TestTestCommands(t *testing.T) {
	app := testApp(t)

	out, err := run(t, app, "test", "create", "Benefit headline", "--element", "headline", "--variant", "Save 20%")
	require.NoError(t, err)
	assert.Contains(t, out, "Started test Benefit headline (id-1): A vs Save 20%")

	out, err = run(t, app, "test", "record", "id-1",
		"--control-visitors", "1000", "--control-conversions", "50",
		"--variant-visitors", "1000", "--variant-conversions", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "Variant wins")

	out, err = run(t, app, "test", "significance", "id-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Benefit headline: A (1.0K) vs Save 20% (1.0K)")

	out, err = run(t, app, "test", "end", "id-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ended test Benefit headline")

	_, err = run(t, app, "test", "end", "id-1")
	assert.ErrorIs(t, err, domain.ErrTestEnded)

	out, err = run(t, app, "test", "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "variant")
}

func TestLearningCommands(t *testing.T) {
	app := testApp(t)

	out, err := run(t, app, "learning", "add", "UGC beats studio", "--insight", "UGC halved CPA", "--category", "creative", "--tags", "video,ugc")
	require.NoError(t, err)
	assert.Contains(t, out, "Added learning UGC beats studio")

	out, err = run(t, app, "learning", "list", "--tag", "ugc")
	require.NoError(t, err)
	assert.Contains(t, out, "UGC beats studio")
	assert.Contains(t, out, "video, ugc")

	out, err = run(t, app, "learning", "list", "--tag", "audio")
	require.NoError(t, err)
	assert.Contains(t, out, "No learnings found")
}

func TestSeed(t *testing.T) {
	app := testApp(t)
	_, err := run(t, app, "seed")
	require.NoError(t, err)

	campaigns, err := app.Repos.Campaigns.List(context.Background(), domain.CampaignFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, campaigns)

	app.Demo = true
	out, err := run(t, app, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already runs on seeded data")
}

func TestExportCampaignsToFile(t *testing.T) {
	app := testApp(t)
	_, err := run(t, app, "campaign", "create", "Spring sale", "--platform", "google")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "campaigns.csv")
	out, err := run(t, app, "export", "campaigns", "--format", "csv", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 campaigns to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id-1,Spring sale,google")

	_, err = run(t, app, "export", "metrics", "--format", "xml")
	assert.Error(t, err)
}

func TestBackupRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	src := testApp(t)
	_, err := run(t, src, "seed")
	require.NoError(t, err)

	out, err := run(t, src, "backup", "create", "--name", "snap1")
	require.NoError(t, err)
	assert.Contains(t, out, "snap1.json.gz")

	_, err = run(t, src, "backup", "create", "--name", "snap1")
	assert.Error(t, err, "existing backups are not overwritten")

	out, err = run(t, nil, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "snap1")

	dst := testApp(t)
	out, err = run(t, dst, "backup", "restore", "snap1")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored snap1")

	ctx := context.Background()
	want, err := src.Repos.Campaigns.List(ctx, domain.CampaignFilter{})
	require.NoError(t, err)
	got, err := dst.Repos.Campaigns.List(ctx, domain.CampaignFilter{})
	require.NoError(t, err)
	assert.Len(t, got, len(want))

	_, err = run(t, nil, "backup", "delete", "snap1")
	require.NoError(t, err)
	out, err = run(t, nil, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups found")
}

func TestMigrateNeedsDatabase(t *testing.T) {
	app := testApp(t)
	app.Demo = true
	_, err := run(t, app, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a database")
}

func TestNewAppContextDemo(t *testing.T) {
	t.Setenv("TURSO_DATABASE_URL", "")
	ctx := context.Background()

	app, err := NewAppContext(ctx, AppOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env"), LogLevel: "error"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close(ctx)) }()

	assert.True(t, app.Demo)
	assert.Nil(t, app.DB)
	p, err := app.Repos.Profiles.Current(ctx)
	require.NoError(t, err)
	assert.NotNil(t, p, "demo data is seeded")
}

func TestNewAppContextLocalDatabase(t *testing.T) {
	t.Setenv("TURSO_DATABASE_URL", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := NewAppContext(ctx, AppOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env"), Local: true, Migrate: true, LogLevel: "error"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close(ctx)) }()

	assert.False(t, app.Demo)
	require.NotNil(t, app.DB)
	campaigns, err := app.Repos.Campaigns.List(ctx, domain.CampaignFilter{})
	require.NoError(t, err)
	assert.Empty(t, campaigns)

	c, err := app.Tracker.CreateCampaign(ctx, tracker.CampaignInput{Name: "Local", Platform: "google"})
	require.NoError(t, err)
	got, err := app.Repos.Campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Local", got.Name)
}
