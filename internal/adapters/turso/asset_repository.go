package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, kind, title, platform, funnel_stage, attributes, tags, created_at, updated_at`

func (r *AssetRepository) Create(ctx context.Context, a *domain.Asset) error {
	attrs, err := encodeAttributes(a.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode asset attributes: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, string(a.Kind), a.Title, a.Platform, string(a.FunnelStage), attrs,
		joinTags(a.Tags), formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	return WithRetry(ctx, maxRetries, func() (*domain.Asset, error) {
		row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
		a, err := scanAsset(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get asset: %w", err)
		}
		return a, nil
	})
}

// List filters by kind and tag, and matches Query against title and attributes.
func (r *AssetRepository) List(ctx context.Context, f domain.AssetFilter) ([]*domain.Asset, error) {
	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Tag != "" {
		where = append(where, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+strings.ToLower(f.Tag)+",%")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(attributes) LIKE ?)")
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like)
	}

	query := `SELECT ` + assetColumns + ` FROM assets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"
	query, args = limitClause(query, args, f.Limit)

	return WithRetry(ctx, maxRetries, func() ([]*domain.Asset, error) {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var out []*domain.Asset
		for rows.Next() {
			a, err := scanAsset(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan asset: %w", err)
			}
			out = append(out, a)
		}
		return out, rows.Err()
	})
}

func (r *AssetRepository) Update(ctx context.Context, a *domain.Asset) error {
	attrs, err := encodeAttributes(a.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode asset attributes: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE assets SET kind = ?, title = ?, platform = ?, funnel_stage = ?, attributes = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`,
		string(a.Kind), a.Title, a.Platform, string(a.FunnelStage), attrs, joinTags(a.Tags),
		formatTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

func scanAsset(s rowScanner) (*domain.Asset, error) {
	var a domain.Asset
	var kind, stage, attrs, tags, createdAt, updatedAt string
	if err := s.Scan(&a.ID, &kind, &a.Title, &a.Platform, &stage, &attrs, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Kind = domain.AssetKind(kind)
	a.FunnelStage = domain.FunnelStage(stage)
	a.Attributes = decodeAttributes(attrs)
	a.Tags = splitTags(tags)
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}
