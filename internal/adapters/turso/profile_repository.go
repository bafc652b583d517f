package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Current returns the single business profile, or nil when none has been saved.
func (r *ProfileRepository) Current(ctx context.Context) (*domain.Profile, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Profile, error) {
		var p domain.Profile
		var createdAt string
		err := r.db.QueryRowContext(ctx, `
			SELECT id, business_name, industry, email, currency, created_at
			FROM profiles ORDER BY created_at LIMIT 1
		`).Scan(&p.ID, &p.BusinessName, &p.Industry, &p.Email, &p.Currency, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		return &p, nil
	})
}

// Save inserts or replaces the profile.
func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, business_name, industry, email, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			business_name = excluded.business_name,
			industry = excluded.industry,
			email = excluded.email,
			currency = excluded.currency
	`, p.ID, p.BusinessName, p.Industry, p.Email, p.Currency, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
