// Package backup copies every record between a repository set and a portable
// JSON snapshot, for exports and for moving demo data into a hosted store.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// FormatVersion is bumped when the snapshot layout changes incompatibly.
const FormatVersion = 1

// Snapshot holds every record of one workspace.
type Snapshot struct {
	Version   int                       `json:"version"`
	CreatedAt time.Time                 `json:"created_at"`
	Profile   *domain.Profile           `json:"profile,omitempty"`
	Campaigns []*domain.Campaign        `json:"campaigns"`
	Metrics   []*domain.CampaignMetrics `json:"metrics"`
	Tests     []*domain.Test            `json:"tests"`
	Learnings []*domain.Learning        `json:"learnings"`
	Failures  []*domain.Failure         `json:"failures"`
	Assets    []*domain.Asset           `json:"assets"`
}

// Counts summarizes a snapshot for log lines and CLI output.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"campaigns": len(s.Campaigns),
		"metrics":   len(s.Metrics),
		"tests":     len(s.Tests),
		"learnings": len(s.Learnings),
		"failures":  len(s.Failures),
		"assets":    len(s.Assets),
	}
}

// Collect reads every record from repos.
func Collect(ctx context.Context, repos *ports.Repositories, now time.Time) (*Snapshot, error) {
	s := &Snapshot{Version: FormatVersion, CreatedAt: now.UTC()}

	var err error
	if s.Profile, err = repos.Profiles.Current(ctx); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if s.Campaigns, err = repos.Campaigns.List(ctx, domain.CampaignFilter{}); err != nil {
		return nil, fmt.Errorf("failed to read campaigns: %w", err)
	}
	for _, c := range s.Campaigns {
		rows, err := repos.Metrics.ListByCampaign(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read metrics for %s: %w", c.ID, err)
		}
		s.Metrics = append(s.Metrics, rows...)
	}
	if s.Tests, err = repos.Tests.List(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to read tests: %w", err)
	}
	if s.Learnings, err = repos.Learnings.List(ctx, domain.LearningFilter{}); err != nil {
		return nil, fmt.Errorf("failed to read learnings: %w", err)
	}
	if s.Failures, err = repos.Failures.List(ctx, 0); err != nil {
		return nil, fmt.Errorf("failed to read failures: %w", err)
	}
	if s.Assets, err = repos.Assets.List(ctx, domain.AssetFilter{}); err != nil {
		return nil, fmt.Errorf("failed to read assets: %w", err)
	}
	return s, nil
}

// Restore writes every record of s into repos. Records are created in
// dependency order so foreign keys resolve; existing IDs make Restore fail.
func Restore(ctx context.Context, repos *ports.Repositories, s *Snapshot) error {
	if s.Version != FormatVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Profile != nil {
		if err := repos.Profiles.Save(ctx, s.Profile); err != nil {
			return fmt.Errorf("failed to restore profile: %w", err)
		}
	}
	// Audiences are referenced by campaigns.
	for _, a := range s.Assets {
		if err := repos.Assets.Create(ctx, a); err != nil {
			return fmt.Errorf("failed to restore asset %s: %w", a.ID, err)
		}
	}
	for _, c := range s.Campaigns {
		if err := repos.Campaigns.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to restore campaign %s: %w", c.ID, err)
		}
	}
	for _, m := range s.Metrics {
		if err := repos.Metrics.Record(ctx, m); err != nil {
			return fmt.Errorf("failed to restore metrics %s: %w", m.ID, err)
		}
	}
	for _, t := range s.Tests {
		if err := repos.Tests.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to restore test %s: %w", t.ID, err)
		}
	}
	for _, l := range s.Learnings {
		if err := repos.Learnings.Create(ctx, l); err != nil {
			return fmt.Errorf("failed to restore learning %s: %w", l.ID, err)
		}
	}
	for _, f := range s.Failures {
		if err := repos.Failures.Create(ctx, f); err != nil {
			return fmt.Errorf("failed to restore failure %s: %w", f.ID, err)
		}
	}
	return nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
