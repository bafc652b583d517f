package turso

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// DB wraps a libSQL connection with Turso-specific pool settings.
type DB struct {
	*sql.DB
}

// Options configures the connection.
type Options struct {
	Ping bool
}

// Open connects to a Turso database. Local "file:" URLs need no auth token.
func Open(databaseURL, authToken string, opts Options) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	isRemote := !strings.HasPrefix(databaseURL, "file:")
	connStr := databaseURL
	if isRemote {
		var err error
		if connStr, err = connectionString(databaseURL, authToken); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isRemote {
		// Turso aggressively closes idle Hrana streams, so stale idle
		// connections fail with "stream not found".
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(0)
	} else {
		db.SetMaxOpenConns(1)
	}

	if opts.Ping {
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	if !isRemote {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{DB: db}, nil
}

// connectionString adds the auth token to a remote URL's query, keeping any
// parameters already present.
func connectionString(databaseURL, authToken string) (string, error) {
	if authToken == "" {
		return databaseURL, nil
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	q := u.Query()
	q.Set("authToken", authToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

const maxRetries = 2

// WithRetry executes fn, retrying up to maxRetries times on Turso stream errors.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		// Brief pause lets the pool hand out a fresh connection.
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
