package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/adapters/otel"
	"github.com/emiliopalmerini/adpulse/internal/adapters/turso"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestTursoRepositoryConformance(t *testing.T) {
	var _ ports.ProfileRepository = (*turso.ProfileRepository)(nil)
	var _ ports.CampaignRepository = (*turso.CampaignRepository)(nil)
	var _ ports.MetricsRepository = (*turso.MetricsRepository)(nil)
	var _ ports.TestRepository = (*turso.TestRepository)(nil)
	var _ ports.LearningRepository = (*turso.LearningRepository)(nil)
	var _ ports.FailureRepository = (*turso.FailureRepository)(nil)
	var _ ports.AssetRepository = (*turso.AssetRepository)(nil)
}

func TestMemoryRepositoryConformance(t *testing.T) {
	var _ ports.ProfileRepository = (*memory.ProfileRepository)(nil)
	var _ ports.CampaignRepository = (*memory.CampaignRepository)(nil)
	var _ ports.MetricsRepository = (*memory.MetricsRepository)(nil)
	var _ ports.TestRepository = (*memory.TestRepository)(nil)
	var _ ports.LearningRepository = (*memory.LearningRepository)(nil)
	var _ ports.FailureRepository = (*memory.FailureRepository)(nil)
	var _ ports.AssetRepository = (*memory.AssetRepository)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}
