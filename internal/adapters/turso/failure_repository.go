package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository {
	return &FailureRepository{db: db}
}

func (r *FailureRepository) Create(ctx context.Context, f *domain.Failure) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO failures (id, campaign_id, title, what_happened, root_cause, lesson, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, util.NullStringPtr(f.CampaignID), f.Title, f.WhatHappened, f.RootCause, f.Lesson, formatTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create failure: %w", err)
	}
	return nil
}

func (r *FailureRepository) GetByID(ctx context.Context, id string) (*domain.Failure, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Failure, error) {
		var f domain.Failure
		var campaignID sql.NullString
		var createdAt string
		err := r.db.QueryRowContext(ctx, `
			SELECT id, campaign_id, title, what_happened, root_cause, lesson, created_at
			FROM failures WHERE id = ?
		`, id).Scan(&f.ID, &campaignID, &f.Title, &f.WhatHappened, &f.RootCause, &f.Lesson, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get failure: %w", err)
		}
		f.CampaignID = util.NullStringToPtr(campaignID)
		f.CreatedAt = parseTime(createdAt)
		return &f, nil
	})
}

func (r *FailureRepository) List(ctx context.Context, limit int) ([]*domain.Failure, error) {
	query, args := limitClause(`
		SELECT id, campaign_id, title, what_happened, root_cause, lesson, created_at
		FROM failures ORDER BY created_at DESC, id`, nil, limit)

	return WithRetry(ctx, maxRetries, func() ([]*domain.Failure, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list failures: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var out []*domain.Failure
		for rows.Next() {
			var f domain.Failure
			var campaignID sql.NullString
			var createdAt string
			if err := rows.Scan(&f.ID, &campaignID, &f.Title, &f.WhatHappened, &f.RootCause, &f.Lesson, &createdAt); err != nil {
				return nil, fmt.Errorf("failed to scan failure: %w", err)
			}
			f.CampaignID = util.NullStringToPtr(campaignID)
			f.CreatedAt = parseTime(createdAt)
			out = append(out, &f)
		}
		return out, rows.Err()
	})
}

func (r *FailureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM failures WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete failure: %w", err)
	}
	return nil
}
