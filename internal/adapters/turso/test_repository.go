package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

type TestRepository struct {
	db *sql.DB
}

func NewTestRepository(db *sql.DB) *TestRepository {
	return &TestRepository{db: db}
}

const testColumns = `id, campaign_id, name, hypothesis, element, control_label, variant_label,
	control_visitors, control_conversions, variant_visitors, variant_conversions,
	status, winner, confidence, started_at, ended_at, created_at`

func (r *TestRepository) Create(ctx context.Context, t *domain.Test) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ab_tests (`+testColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, util.NullStringPtr(t.CampaignID), t.Name, util.NullStringPtr(t.Hypothesis), t.Element,
		t.ControlLabel, t.VariantLabel,
		t.ControlVisitors, t.ControlConversions, t.VariantVisitors, t.VariantConversions,
		string(t.Status), nullVerdict(t.Winner), util.NullIntPtr(t.Confidence),
		formatTime(t.StartedAt), formatTimePtr(t.EndedAt), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (r *TestRepository) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Test, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+testColumns+` FROM ab_tests WHERE id = ?`, id)
		t, err := scanTest(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get test: %w", err)
		}
		return t, nil
	})
}

// List returns tests newest first. An empty status lists every test.
func (r *TestRepository) List(ctx context.Context, status domain.TestStatus) ([]*domain.Test, error) {
	query := `SELECT ` + testColumns + ` FROM ab_tests`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY started_at DESC, id`

	return WithRetry(ctx, maxRetries, func() ([]*domain.Test, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list tests: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var tests []*domain.Test
		for rows.Next() {
			t, err := scanTest(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan test: %w", err)
			}
			tests = append(tests, t)
		}
		return tests, rows.Err()
	})
}

func (r *TestRepository) Update(ctx context.Context, t *domain.Test) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ab_tests SET
			campaign_id = ?, name = ?, hypothesis = ?, element = ?, control_label = ?, variant_label = ?,
			control_visitors = ?, control_conversions = ?, variant_visitors = ?, variant_conversions = ?,
			status = ?, winner = ?, confidence = ?, ended_at = ?
		WHERE id = ?
	`,
		util.NullStringPtr(t.CampaignID), t.Name, util.NullStringPtr(t.Hypothesis), t.Element,
		t.ControlLabel, t.VariantLabel,
		t.ControlVisitors, t.ControlConversions, t.VariantVisitors, t.VariantConversions,
		string(t.Status), nullVerdict(t.Winner), util.NullIntPtr(t.Confidence), formatTimePtr(t.EndedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test: %w", err)
	}
	return nil
}

func (r *TestRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ab_tests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}
	return nil
}

func scanTest(s rowScanner) (*domain.Test, error) {
	var t domain.Test
	var campaignID, hypothesis, winner, endedAt sql.NullString
	var confidence sql.NullInt64
	var status, startedAt, createdAt string
	err := s.Scan(
		&t.ID, &campaignID, &t.Name, &hypothesis, &t.Element, &t.ControlLabel, &t.VariantLabel,
		&t.ControlVisitors, &t.ControlConversions, &t.VariantVisitors, &t.VariantConversions,
		&status, &winner, &confidence, &startedAt, &endedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	t.CampaignID = util.NullStringToPtr(campaignID)
	t.Hypothesis = util.NullStringToPtr(hypothesis)
	t.Status = domain.TestStatus(status)
	if winner.Valid {
		v := domain.Verdict(winner.String)
		t.Winner = &v
	}
	t.Confidence = util.NullInt64ToIntPtr(confidence)
	t.StartedAt = parseTime(startedAt)
	t.EndedAt = parseTimePtr(endedAt)
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}

func nullVerdict(v *domain.Verdict) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*v), Valid: true}
}
