package tracker

import (
	"context"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// mockExporter is a mock implementation of ports.MetricsExporter for testing.
type mockExporter struct {
	ExportCampaignMetricsFunc func(ctx context.Context, c *domain.Campaign, m *domain.CampaignMetrics) error
	ExportTestResultFunc      func(ctx context.Context, t *domain.Test, r domain.SignificanceResult) error

	campaignCalls int
	testCalls     int
}

func (m *mockExporter) ExportCampaignMetrics(ctx context.Context, c *domain.Campaign, cm *domain.CampaignMetrics) error {
	m.campaignCalls++
	if m.ExportCampaignMetricsFunc != nil {
		return m.ExportCampaignMetricsFunc(ctx, c, cm)
	}
	return nil
}

func (m *mockExporter) ExportTestResult(ctx context.Context, t *domain.Test, r domain.SignificanceResult) error {
	m.testCalls++
	if m.ExportTestResultFunc != nil {
		return m.ExportTestResultFunc(ctx, t, r)
	}
	return nil
}

func (m *mockExporter) Close(ctx context.Context) error {
	return nil
}
