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

type LearningRepository struct {
	db *sql.DB
}

func NewLearningRepository(db *sql.DB) *LearningRepository {
	return &LearningRepository{db: db}
}

const learningColumns = `id, test_id, title, insight, category, funnel_stage, tags, created_at`

func (r *LearningRepository) Create(ctx context.Context, l *domain.Learning) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learnings (`+learningColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, util.NullStringPtr(l.TestID), l.Title, l.Insight, l.Category,
		string(l.FunnelStage), joinTags(l.Tags), formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create learning: %w", err)
	}
	return nil
}

func (r *LearningRepository) GetByID(ctx context.Context, id string) (*domain.Learning, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Learning, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+learningColumns+` FROM learnings WHERE id = ?`, id)
		l, err := scanLearning(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get learning: %w", err)
		}
		return l, nil
	})
}

func (r *LearningRepository) List(ctx context.Context, f domain.LearningFilter) ([]*domain.Learning, error) {
	var where []string
	var args []any
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.FunnelStage != "" {
		where = append(where, "funnel_stage = ?")
		args = append(args, string(f.FunnelStage))
	}
	if f.Tag != "" {
		// Tags are stored comma-joined; pad both sides so "ad" does not match "ads".
		where = append(where, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+strings.ToLower(f.Tag)+",%")
	}

	query := `SELECT ` + learningColumns + ` FROM learnings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	query, args = limitClause(query, args, f.Limit)

	return WithRetry(ctx, maxRetries, func() ([]*domain.Learning, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list learnings: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var out []*domain.Learning
		for rows.Next() {
			l, err := scanLearning(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan learning: %w", err)
			}
			out = append(out, l)
		}
		return out, rows.Err()
	})
}

func (r *LearningRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM learnings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete learning: %w", err)
	}
	return nil
}

func scanLearning(s rowScanner) (*domain.Learning, error) {
	var l domain.Learning
	var testID sql.NullString
	var stage, tags, createdAt string
	if err := s.Scan(&l.ID, &testID, &l.Title, &l.Insight, &l.Category, &stage, &tags, &createdAt); err != nil {
		return nil, err
	}
	l.TestID = util.NullStringToPtr(testID)
	l.FunnelStage = domain.FunnelStage(stage)
	l.Tags = splitTags(tags)
	l.CreatedAt = parseTime(createdAt)
	return &l, nil
}
