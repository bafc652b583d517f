package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) Current(ctx context.Context) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.profile == nil {
		return nil, nil
	}
	p := *r.s.profile
	return &p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	if r.s.profile != nil && r.s.profile.ID == p.ID {
		cp.CreatedAt = r.s.profile.CreatedAt
	}
	r.s.profile = &cp
	return nil
}

type CampaignRepository struct{ s *Store }

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insert(r.s.campaigns, "campaign", c.ID, cloneCampaign(c))
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, nil
	}
	return cloneCampaign(c), nil
}

func (r *CampaignRepository) List(ctx context.Context, f domain.CampaignFilter) ([]*domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Campaign
	for _, c := range r.s.campaigns {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.FunnelStage != "" && c.FunnelStage != f.FunnelStage {
			continue
		}
		if f.Platform != "" && c.Platform != f.Platform {
			continue
		}
		out = append(out, cloneCampaign(c))
	}
	sortNewest(out, func(c *domain.Campaign) (int64, string) { return c.CreatedAt.Unix(), c.ID })
	return applyLimit(out, f.Limit), nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.campaigns[c.ID]
	if !ok {
		return nil
	}
	cp := cloneCampaign(c)
	cp.CreatedAt = existing.CreatedAt
	r.s.campaigns[c.ID] = cp
	return nil
}

// Delete removes the campaign with its metrics and unlinks tests and failures.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.campaigns, id)
	for mid, m := range r.s.metrics {
		if m.CampaignID == id {
			delete(r.s.metrics, mid)
		}
	}
	for _, t := range r.s.tests {
		if t.CampaignID != nil && *t.CampaignID == id {
			t.CampaignID = nil
		}
	}
	for _, f := range r.s.failures {
		if f.CampaignID != nil && *f.CampaignID == id {
			f.CampaignID = nil
		}
	}
	return nil
}

type MetricsRepository struct{ s *Store }

func (r *MetricsRepository) Record(ctx context.Context, m *domain.CampaignMetrics) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	cp.Date = truncateDay(m.Date)
	for id, existing := range r.s.metrics {
		if existing.CampaignID == m.CampaignID && existing.Date.Equal(cp.Date) {
			cp.ID = id
			cp.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.s.metrics[cp.ID] = &cp
	m.ID = cp.ID
	m.CreatedAt = cp.CreatedAt
	return nil
}

func (r *MetricsRepository) GetByID(ctx context.Context, id string) (*domain.CampaignMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.metrics[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *MetricsRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.CampaignMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.CampaignMetrics
	for _, m := range r.s.metrics {
		if m.CampaignID == campaignID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MetricsRepository) TotalsByCampaign(ctx context.Context, campaignID string) (domain.Totals, error) {
	return r.totals(func(m *domain.CampaignMetrics) bool { return m.CampaignID == campaignID }), nil
}

func (r *MetricsRepository) Totals(ctx context.Context, since time.Time) (domain.Totals, error) {
	since = truncateDay(since)
	return r.totals(func(m *domain.CampaignMetrics) bool { return !m.Date.Before(since) }), nil
}

// totals sums matching rows; Days counts distinct dates.
func (r *MetricsRepository) totals(match func(*domain.CampaignMetrics) bool) domain.Totals {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var t domain.Totals
	days := make(map[time.Time]bool)
	for _, m := range r.s.metrics {
		if !match(m) {
			continue
		}
		t.Add(m)
		days[m.Date] = true
	}
	t.Days = int64(len(days))
	return t
}

func (r *MetricsRepository) Daily(ctx context.Context, since time.Time) ([]domain.DailyTotals, error) {
	since = truncateDay(since)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byDay := make(map[time.Time]*domain.DailyTotals)
	for _, m := range r.s.metrics {
		if m.Date.Before(since) {
			continue
		}
		d, ok := byDay[m.Date]
		if !ok {
			d = &domain.DailyTotals{Date: m.Date}
			byDay[m.Date] = d
		}
		d.Add(m)
		d.Days = 1
	}

	out := make([]domain.DailyTotals, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MetricsRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.metrics, id)
	return nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type TestRepository struct{ s *Store }

func (r *TestRepository) Create(ctx context.Context, t *domain.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insert(r.s.tests, "test", t.ID, cloneTest(t))
}

func (r *TestRepository) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tests[id]
	if !ok {
		return nil, nil
	}
	return cloneTest(t), nil
}

func (r *TestRepository) List(ctx context.Context, status domain.TestStatus) ([]*domain.Test, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*domain.Test
	for _, t := range r.s.tests {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, cloneTest(t))
	}
	sortNewest(out, func(t *domain.Test) (int64, string) { return t.StartedAt.Unix(), t.ID })
	return out, nil
}

func (r *TestRepository) Update(ctx context.Context, t *domain.Test) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tests[t.ID]; ok {
		r.s.tests[t.ID] = cloneTest(t)
	}
	return nil
}

func (r *TestRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tests, id)
	for _, l := range r.s.learnings {
		if l.TestID != nil && *l.TestID == id {
			l.TestID = nil
		}
	}
	return nil
}

type LearningRepository struct{ s *Store }

func (r *LearningRepository) Create(ctx context.Context, l *domain.Learning) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insert(r.s.learnings, "learning", l.ID, cloneLearning(l))
}

func (r *LearningRepository) GetByID(ctx context.Context, id string) (*domain.Learning, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.learnings[id]
	if !ok {
		return nil, nil
	}
	return cloneLearning(l), nil
}

func (r *LearningRepository) List(ctx context.Context, f domain.LearningFilter) ([]*domain.Learning, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tag := strings.ToLower(f.Tag)
	var out []*domain.Learning
	for _, l := range r.s.learnings {
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if f.FunnelStage != "" && l.FunnelStage != f.FunnelStage {
			continue
		}
		if tag != "" && !hasTag(l.Tags, tag) {
			continue
		}
		out = append(out, cloneLearning(l))
	}
	sortNewest(out, func(l *domain.Learning) (int64, string) { return l.CreatedAt.Unix(), l.ID })
	return applyLimit(out, f.Limit), nil
}

func (r *LearningRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.learnings, id)
	return nil
}

type FailureRepository struct{ s *Store }

func (r *FailureRepository) Create(ctx context.Context, f *domain.Failure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insert(r.s.failures, "failure", f.ID, cloneFailure(f))
}

func (r *FailureRepository) GetByID(ctx context.Context, id string) (*domain.Failure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.failures[id]
	if !ok {
		return nil, nil
	}
	return cloneFailure(f), nil
}

func (r *FailureRepository) List(ctx context.Context, limit int) ([]*domain.Failure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domain.Failure, 0, len(r.s.failures))
	for _, f := range r.s.failures {
		out = append(out, cloneFailure(f))
	}
	sortNewest(out, func(f *domain.Failure) (int64, string) { return f.CreatedAt.Unix(), f.ID })
	return applyLimit(out, limit), nil
}

func (r *FailureRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.failures, id)
	return nil
}

type AssetRepository struct{ s *Store }

func (r *AssetRepository) Create(ctx context.Context, a *domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return insert(r.s.assets, "asset", a.ID, cloneAsset(a))
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.assets[id]
	if !ok {
		return nil, nil
	}
	return cloneAsset(a), nil
}

func (r *AssetRepository) List(ctx context.Context, f domain.AssetFilter) ([]*domain.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tag := strings.ToLower(f.Tag)
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []*domain.Asset
	for _, a := range r.s.assets {
		if f.Kind != "" && a.Kind != f.Kind {
			continue
		}
		if tag != "" && !hasTag(a.Tags, tag) {
			continue
		}
		if query != "" && !assetMatches(a, query) {
			continue
		}
		out = append(out, cloneAsset(a))
	}
	sortNewest(out, func(a *domain.Asset) (int64, string) { return a.UpdatedAt.Unix(), a.ID })
	return applyLimit(out, f.Limit), nil
}

func assetMatches(a *domain.Asset, query string) bool {
	if strings.Contains(strings.ToLower(a.Title), query) {
		return true
	}
	for _, v := range a.Attributes {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

func (r *AssetRepository) Update(ctx context.Context, a *domain.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.assets[a.ID]
	if !ok {
		return nil
	}
	cp := cloneAsset(a)
	cp.CreatedAt = existing.CreatedAt
	r.s.assets[a.ID] = cp
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.assets, id)
	return nil
}
