package turso

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/util"
)

const dateLayout = "2006-01-02"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := util.ParseTimeRFC3339(ns.String)
	return &t
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func encodeAttributes(attrs map[string]string) (string, error) {
	if len(attrs) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeAttributes(s string) map[string]string {
	attrs := map[string]string{}
	_ = json.Unmarshal([]byte(s), &attrs)
	return attrs
}

func parseTime(s string) time.Time {
	return util.ParseTimeRFC3339(s)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

// limitClause appends a LIMIT when limit is positive.
func limitClause(query string, args []any, limit int) (string, []any) {
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return query, args
}
