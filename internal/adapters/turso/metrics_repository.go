package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

type MetricsRepository struct {
	db *sql.DB
}

func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Record upserts a day of results keyed on (campaign_id, date). A replaced
// row keeps its id and created_at, which are copied back into m.
func (r *MetricsRepository) Record(ctx context.Context, m *domain.CampaignMetrics) error {
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO campaign_metrics (
			id, campaign_id, date, spend, impressions, clicks, leads, conversions, revenue, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_id, date) DO UPDATE SET
			spend = excluded.spend,
			impressions = excluded.impressions,
			clicks = excluded.clicks,
			leads = excluded.leads,
			conversions = excluded.conversions,
			revenue = excluded.revenue
		RETURNING id, created_at
	`,
		m.ID, m.CampaignID, formatDate(m.Date), m.Spend, m.Impressions, m.Clicks,
		m.Leads, m.Conversions, m.Revenue, formatTime(m.CreatedAt),
	).Scan(&m.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to record campaign metrics: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)
	return nil
}

const metricsColumns = `id, campaign_id, date, spend, impressions, clicks, leads, conversions, revenue, created_at`

func scanMetrics(s rowScanner) (*domain.CampaignMetrics, error) {
	var m domain.CampaignMetrics
	var date, createdAt string
	if err := s.Scan(&m.ID, &m.CampaignID, &date, &m.Spend, &m.Impressions, &m.Clicks,
		&m.Leads, &m.Conversions, &m.Revenue, &createdAt); err != nil {
		return nil, err
	}
	m.Date = parseDate(date)
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

func (r *MetricsRepository) GetByID(ctx context.Context, id string) (*domain.CampaignMetrics, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.CampaignMetrics, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+metricsColumns+` FROM campaign_metrics WHERE id = ?`, id)
		m, err := scanMetrics(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get campaign metrics: %w", err)
		}
		return m, nil
	})
}

func (r *MetricsRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.CampaignMetrics, error) {
	return WithRetry(ctx, maxRetries, func() ([]*domain.CampaignMetrics, error) {
		rows, err := r.db.QueryContext(ctx, `SELECT `+metricsColumns+`
			FROM campaign_metrics WHERE campaign_id = ? ORDER BY date`, campaignID)
		if err != nil {
			return nil, fmt.Errorf("failed to list campaign metrics: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var out []*domain.CampaignMetrics
		for rows.Next() {
			m, err := scanMetrics(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan campaign metrics: %w", err)
			}
			out = append(out, m)
		}
		return out, rows.Err()
	})
}

const totalsSelect = `SELECT COUNT(DISTINCT date), COALESCE(SUM(spend), 0), COALESCE(SUM(impressions), 0),
	COALESCE(SUM(clicks), 0), COALESCE(SUM(leads), 0), COALESCE(SUM(conversions), 0),
	COALESCE(SUM(revenue), 0) FROM campaign_metrics`

func (r *MetricsRepository) TotalsByCampaign(ctx context.Context, campaignID string) (domain.Totals, error) {
	return r.totals(ctx, totalsSelect+` WHERE campaign_id = ?`, campaignID)
}

// Totals sums every campaign's results on or after since. A zero since means all time.
func (r *MetricsRepository) Totals(ctx context.Context, since time.Time) (domain.Totals, error) {
	return r.totals(ctx, totalsSelect+` WHERE date >= ?`, sinceDate(since))
}

func (r *MetricsRepository) totals(ctx context.Context, query string, args ...any) (domain.Totals, error) {
	return WithRetry(ctx, maxRetries, func() (domain.Totals, error) {
		var t domain.Totals
		err := r.db.QueryRowContext(ctx, query, args...).Scan(
			&t.Days, &t.Spend, &t.Impressions, &t.Clicks, &t.Leads, &t.Conversions, &t.Revenue,
		)
		if err != nil {
			return domain.Totals{}, fmt.Errorf("failed to get metrics totals: %w", err)
		}
		return t, nil
	})
}

// Daily returns per-day totals across campaigns, oldest first.
func (r *MetricsRepository) Daily(ctx context.Context, since time.Time) ([]domain.DailyTotals, error) {
	return WithRetry(ctx, maxRetries, func() ([]domain.DailyTotals, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT date, COUNT(DISTINCT date), SUM(spend), SUM(impressions), SUM(clicks), SUM(leads),
				SUM(conversions), SUM(revenue)
			FROM campaign_metrics
			WHERE date >= ?
			GROUP BY date
			ORDER BY date
		`, sinceDate(since))
		if err != nil {
			return nil, fmt.Errorf("failed to get daily metrics: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var out []domain.DailyTotals
		for rows.Next() {
			var d domain.DailyTotals
			var date string
			if err := rows.Scan(&date, &d.Days, &d.Spend, &d.Impressions, &d.Clicks, &d.Leads,
				&d.Conversions, &d.Revenue); err != nil {
				return nil, fmt.Errorf("failed to scan daily metrics: %w", err)
			}
			d.Date = parseDate(date)
			out = append(out, d)
		}
		return out, rows.Err()
	})
}

func (r *MetricsRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM campaign_metrics WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete campaign metrics: %w", err)
	}
	return nil
}

func sinceDate(since time.Time) string {
	if since.IsZero() {
		return "0000-00-00"
	}
	return formatDate(since)
}
