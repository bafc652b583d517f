package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *ports.Repositories {
	return &ports.Repositories{
		Profiles:  NewProfileRepository(db),
		Campaigns: NewCampaignRepository(db),
		Metrics:   NewMetricsRepository(db),
		Tests:     NewTestRepository(db),
		Learnings: NewLearningRepository(db),
		Failures:  NewFailureRepository(db),
		Assets:    NewAssetRepository(db),
	}
}
