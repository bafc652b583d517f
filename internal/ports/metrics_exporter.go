package ports

import (
	"context"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// MetricsExporter exports recorded campaign results to an external observability system.
type MetricsExporter interface {
	// ExportCampaignMetrics exports one recorded day of campaign delivery.
	ExportCampaignMetrics(ctx context.Context, c *domain.Campaign, m *domain.CampaignMetrics) error
	// ExportTestResult exports the verdict of a completed A/B test.
	ExportTestResult(ctx context.Context, t *domain.Test, r domain.SignificanceResult) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
