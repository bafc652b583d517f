package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// Lookups return (nil, nil) when the record does not exist.

type ProfileRepository interface {
	Current(ctx context.Context) (*domain.Profile, error)
	Save(ctx context.Context, profile *domain.Profile) error
}

type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, id string) error
}

type MetricsRepository interface {
	// Record stores a day of results, replacing any earlier row for the same
	// campaign and date. m.ID and m.CreatedAt are set to the stored row's values.
	Record(ctx context.Context, m *domain.CampaignMetrics) error
	GetByID(ctx context.Context, id string) (*domain.CampaignMetrics, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.CampaignMetrics, error)
	TotalsByCampaign(ctx context.Context, campaignID string) (domain.Totals, error)
	Totals(ctx context.Context, since time.Time) (domain.Totals, error)
	Daily(ctx context.Context, since time.Time) ([]domain.DailyTotals, error)
	Delete(ctx context.Context, id string) error
}

type TestRepository interface {
	Create(ctx context.Context, test *domain.Test) error
	GetByID(ctx context.Context, id string) (*domain.Test, error)
	List(ctx context.Context, status domain.TestStatus) ([]*domain.Test, error)
	Update(ctx context.Context, test *domain.Test) error
	Delete(ctx context.Context, id string) error
}

type LearningRepository interface {
	Create(ctx context.Context, learning *domain.Learning) error
	GetByID(ctx context.Context, id string) (*domain.Learning, error)
	List(ctx context.Context, filter domain.LearningFilter) ([]*domain.Learning, error)
	Delete(ctx context.Context, id string) error
}

type FailureRepository interface {
	Create(ctx context.Context, failure *domain.Failure) error
	GetByID(ctx context.Context, id string) (*domain.Failure, error)
	List(ctx context.Context, limit int) ([]*domain.Failure, error)
	Delete(ctx context.Context, id string) error
}

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	List(ctx context.Context, filter domain.AssetFilter) ([]*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id string) error
}

// Repositories groups every store the application reads and writes.
type Repositories struct {
	Profiles  ProfileRepository
	Campaigns CampaignRepository
	Metrics   MetricsRepository
	Tests     TestRepository
	Learnings LearningRepository
	Failures  FailureRepository
	Assets    AssetRepository
}
