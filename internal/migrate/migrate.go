package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator applies embedded migrations and tracks the schema version with a dirty flag.
type Migrator struct {
	db     *sql.DB
	files  fs.FS
	logger *zap.Logger
}

// New returns a Migrator over the embedded migration files.
func New(db *sql.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, files: migrations.FS, logger: logger}
}

// RunAll runs all pending migrations on the provided database.
func RunAll(ctx context.Context, db *sql.DB) error {
	return New(db, nil).Up(ctx)
}

// EnsureTable creates the schema_migrations table if it doesn't exist.
func (m *Migrator) EnsureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// Current returns the current migration version and dirty state.
func (m *Migrator) Current(ctx context.Context) (int, bool, error) {
	var version, dirty int
	err := m.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

func (m *Migrator) setVersion(ctx context.Context, version int, dirty bool) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}
	_, err := m.db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// Load reads all migration files and returns them sorted by version.
func (m *Migrator) Load() ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(m.files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(m.files, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		// Down migrations are optional.
		downSQL, _ := fs.ReadFile(m.files, path.Join(path.Dir(p), fmt.Sprintf("%s_%s.down.sql", matches[1], name)))

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})
	return result, nil
}

func (m *Migrator) prepare(ctx context.Context) (int, []Migration, error) {
	if err := m.EnsureTable(ctx); err != nil {
		return 0, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, dirty, err := m.Current(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return 0, nil, fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	all, err := m.Load()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return current, all, nil
}

// Up runs all pending up migrations.
func (m *Migrator) Up(ctx context.Context) error {
	current, all, err := m.prepare(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, mig := range all {
		if mig.Version <= current {
			continue
		}
		if err := m.run(ctx, mig, true); err != nil {
			return err
		}
		applied++
	}

	if applied == 0 {
		m.logger.Debug("no migrations to run", zap.Int("version", current))
	} else {
		m.logger.Info("migrations applied", zap.Int("count", applied))
	}
	return nil
}

// To migrates up or down to the target version.
func (m *Migrator) To(ctx context.Context, target int) error {
	current, all, err := m.prepare(ctx)
	if err != nil {
		return err
	}

	switch {
	case target > current:
		for _, mig := range all {
			if mig.Version <= current {
				continue
			}
			if mig.Version > target {
				break
			}
			if err := m.run(ctx, mig, true); err != nil {
				return err
			}
		}
	case target < current:
		for i := len(all) - 1; i >= 0; i-- {
			mig := all[i]
			if mig.Version > current {
				continue
			}
			if mig.Version <= target {
				break
			}
			if mig.DownSQL == "" {
				return fmt.Errorf("no down migration for version %d", mig.Version)
			}
			if err := m.run(ctx, mig, false); err != nil {
				return err
			}
		}
	default:
		m.logger.Info("already at target version", zap.Int("version", current))
		return nil
	}

	m.logger.Info("migrated", zap.Int("from", current), zap.Int("to", target))
	return nil
}

func (m *Migrator) run(ctx context.Context, mig Migration, up bool) error {
	direction := "up"
	content := mig.UpSQL
	target := mig.Version
	if !up {
		direction = "down"
		content = mig.DownSQL
		target = mig.Version - 1
	}

	m.logger.Info("running migration",
		zap.String("direction", direction),
		zap.Int("version", mig.Version),
		zap.String("name", mig.Name))

	if err := m.setVersion(ctx, mig.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(content) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", mig.Version, direction, err, stmt)
		}
	}

	if err := m.setVersion(ctx, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// SplitSQL splits a script into non-empty statements on semicolons.
// Migrations must not contain semicolons inside string literals.
func SplitSQL(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
