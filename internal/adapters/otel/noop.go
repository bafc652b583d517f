package otel

import (
	"context"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportCampaignMetrics(ctx context.Context, c *domain.Campaign, m *domain.CampaignMetrics) error {
	return nil
}

func (e *NoOpExporter) ExportTestResult(ctx context.Context, t *domain.Test, r domain.SignificanceResult) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
