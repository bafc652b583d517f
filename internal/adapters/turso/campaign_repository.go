package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, name, platform, objective, funnel_stage, status, daily_budget, total_budget,
	start_date, end_date, audience_id, notes, created_at, updated_at`

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.Name, c.Platform, c.Objective, string(c.FunnelStage), string(c.Status),
		c.DailyBudget, c.TotalBudget,
		formatTimePtr(c.StartDate), formatTimePtr(c.EndDate),
		util.NullStringPtr(c.AudienceID), util.NullStringPtr(c.Notes),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Campaign, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
		c, err := scanCampaign(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get campaign: %w", err)
		}
		return c, nil
	})
}

func (r *CampaignRepository) List(ctx context.Context, f domain.CampaignFilter) ([]*domain.Campaign, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.FunnelStage != "" {
		where = append(where, "funnel_stage = ?")
		args = append(args, string(f.FunnelStage))
	}
	if f.Platform != "" {
		where = append(where, "platform = ?")
		args = append(args, f.Platform)
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	query, args = limitClause(query, args, f.Limit)

	return WithRetry(ctx, maxRetries, func() ([]*domain.Campaign, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list campaigns: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var campaigns []*domain.Campaign
		for rows.Next() {
			c, err := scanCampaign(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan campaign: %w", err)
			}
			campaigns = append(campaigns, c)
		}
		return campaigns, rows.Err()
	})
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET
			name = ?, platform = ?, objective = ?, funnel_stage = ?, status = ?,
			daily_budget = ?, total_budget = ?, start_date = ?, end_date = ?,
			audience_id = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Name, c.Platform, c.Objective, string(c.FunnelStage), string(c.Status),
		c.DailyBudget, c.TotalBudget, formatTimePtr(c.StartDate), formatTimePtr(c.EndDate),
		util.NullStringPtr(c.AudienceID), util.NullStringPtr(c.Notes), formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func scanCampaign(s rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var stage, status, createdAt, updatedAt string
	var startDate, endDate, audienceID, notes sql.NullString
	err := s.Scan(
		&c.ID, &c.Name, &c.Platform, &c.Objective, &stage, &status,
		&c.DailyBudget, &c.TotalBudget, &startDate, &endDate, &audienceID, &notes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.FunnelStage = domain.FunnelStage(stage)
	c.Status = domain.CampaignStatus(status)
	c.StartDate = parseTimePtr(startDate)
	c.EndDate = parseTimePtr(endDate)
	c.AudienceID = util.NullStringToPtr(audienceID)
	c.Notes = util.NullStringToPtr(notes)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
