package turso_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/adapters/turso"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := turso.Open("file:"+filepath.Join(t.TempDir(), "adpulse.db"), "", turso.Options{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db.DB); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func seedCampaign(t *testing.T, db *sql.DB, id string, status domain.CampaignStatus) *domain.Campaign {
	t.Helper()
	c := &domain.Campaign{
		ID:          id,
		Name:        "Campaign " + id,
		Platform:    "facebook",
		Objective:   "leads",
		FunnelStage: domain.StageConversion,
		Status:      status,
		DailyBudget: 50,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	if err := turso.NewCampaignRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("failed to seed campaign: %v", err)
	}
	return c
}
