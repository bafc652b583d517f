package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

func TestNewExporterDisabled(t *testing.T) {
	_, err := NewExporter(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"})
	assert.Error(t, err)

	_, err = NewExporter(context.Background(), Config{Enabled: true})
	assert.Error(t, err)
}

func TestExporterRecordsCampaignMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	e, err := newExporter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	c := &domain.Campaign{ID: "c1", Name: "Spring", Platform: "facebook", FunnelStage: domain.StageConversion}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.ExportCampaignMetrics(ctx, c, &domain.CampaignMetrics{Date: day, Spend: 10, Clicks: 4, Impressions: 100}))
	require.NoError(t, e.ExportCampaignMetrics(ctx, c, &domain.CampaignMetrics{Date: day.AddDate(0, 0, 1), Spend: 5.5, Clicks: 1, Impressions: 50}))

	test := domain.NewTest("t1", "Headline", "headline", day)
	require.NoError(t, e.ExportTestResult(ctx, test, domain.SignificanceResult{Winner: domain.VerdictVariant, Significant: true, Lift: 0.6}))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += float64(dp.Value)
				}
			}
		}
	}

	assert.InDelta(t, 15.5, sums["adpulse_campaign_spend_total"], 1e-9)
	assert.Equal(t, 5.0, sums["adpulse_campaign_clicks_total"])
	assert.Equal(t, 150.0, sums["adpulse_campaign_impressions_total"])
	assert.Equal(t, 1.0, sums["adpulse_ab_tests_completed_total"])
	require.NoError(t, e.Close(ctx))
}

func TestNoOpExporter(t *testing.T) {
	e := NewNoOpExporter()
	ctx := context.Background()
	assert.NoError(t, e.ExportCampaignMetrics(ctx, &domain.Campaign{}, &domain.CampaignMetrics{}))
	assert.NoError(t, e.ExportTestResult(ctx, &domain.Test{}, domain.SignificanceResult{}))
	assert.NoError(t, e.Close(ctx))
}
