// Package memory implements the repositories in process memory. It backs demo
// mode, where no hosted database is configured.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// Store holds every record behind a single lock.
type Store struct {
	mu        sync.RWMutex
	profile   *domain.Profile
	campaigns map[string]*domain.Campaign
	metrics   map[string]*domain.CampaignMetrics
	tests     map[string]*domain.Test
	learnings map[string]*domain.Learning
	failures  map[string]*domain.Failure
	assets    map[string]*domain.Asset
}

func NewStore() *Store {
	return &Store{
		campaigns: make(map[string]*domain.Campaign),
		metrics:   make(map[string]*domain.CampaignMetrics),
		tests:     make(map[string]*domain.Test),
		learnings: make(map[string]*domain.Learning),
		failures:  make(map[string]*domain.Failure),
		assets:    make(map[string]*domain.Asset),
	}
}

// NewRepositories exposes the store through the repository ports.
func NewRepositories(s *Store) *ports.Repositories {
	return &ports.Repositories{
		Profiles:  &ProfileRepository{s: s},
		Campaigns: &CampaignRepository{s: s},
		Metrics:   &MetricsRepository{s: s},
		Tests:     &TestRepository{s: s},
		Learnings: &LearningRepository{s: s},
		Failures:  &FailureRepository{s: s},
		Assets:    &AssetRepository{s: s},
	}
}

// Records are copied on the way in and out so callers never share memory with the store.

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	cp := *c
	if c.StartDate != nil {
		v := *c.StartDate
		cp.StartDate = &v
	}
	if c.EndDate != nil {
		v := *c.EndDate
		cp.EndDate = &v
	}
	cp.AudienceID = cloneStrPtr(c.AudienceID)
	cp.Notes = cloneStrPtr(c.Notes)
	return &cp
}

func cloneTest(t *domain.Test) *domain.Test {
	cp := *t
	cp.CampaignID = cloneStrPtr(t.CampaignID)
	cp.Hypothesis = cloneStrPtr(t.Hypothesis)
	if t.Winner != nil {
		v := *t.Winner
		cp.Winner = &v
	}
	if t.Confidence != nil {
		v := *t.Confidence
		cp.Confidence = &v
	}
	if t.EndedAt != nil {
		v := *t.EndedAt
		cp.EndedAt = &v
	}
	return &cp
}

func cloneLearning(l *domain.Learning) *domain.Learning {
	cp := *l
	cp.TestID = cloneStrPtr(l.TestID)
	cp.Tags = cloneTags(l.Tags)
	return &cp
}

func cloneFailure(f *domain.Failure) *domain.Failure {
	cp := *f
	cp.CampaignID = cloneStrPtr(f.CampaignID)
	return &cp
}

func cloneAsset(a *domain.Asset) *domain.Asset {
	cp := *a
	cp.Tags = cloneTags(a.Tags)
	cp.Attributes = make(map[string]string, len(a.Attributes))
	for k, v := range a.Attributes {
		cp.Attributes[k] = v
	}
	return &cp
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// insert adds v under id, refusing to replace an existing record.
func insert[T any](records map[string]T, kind, id string, v T) error {
	if _, exists := records[id]; exists {
		return fmt.Errorf("failed to create %s: id %s already exists", kind, id)
	}
	records[id] = v
	return nil
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// sortNewest orders by timestamp descending, then ID ascending.
func sortNewest[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return idi < idj
	})
}
