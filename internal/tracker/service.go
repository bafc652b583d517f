// Package tracker records what happens to campaigns: new campaigns, daily
// delivery results, A/B test counts and verdicts, and the lessons learned.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// Service handles the business logic for recording marketing activity.
type Service struct {
	repos    *ports.Repositories
	exporter ports.MetricsExporter
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the UUID generator, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a new tracker service. A nil exporter disables export.
func NewService(repos *ports.Repositories, exporter ports.MetricsExporter, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repos:    repos,
		exporter: exporter,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) campaign(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := s.repos.Campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (s *Service) test(ctx context.Context, id string) (*domain.Test, error) {
	t, err := s.repos.Tests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("test %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// CreateCampaign validates and stores a new campaign. Status defaults to draft.
func (s *Service) CreateCampaign(ctx context.Context, in CampaignInput) (*domain.Campaign, error) {
	now := s.now()
	c := &domain.Campaign{ID: s.newID(), CreatedAt: now}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("campaign created", zap.String("id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// UpdateCampaign replaces the editable fields of an existing campaign.
func (s *Service) UpdateCampaign(ctx context.Context, id string, in CampaignInput) (*domain.Campaign, error) {
	c, err := s.campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCampaignStatus moves a campaign to another lifecycle status.
func (s *Service) SetCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	c, err := s.campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, &domain.ValidationError{Fields: map[string]string{"status": "is not a known status"}}
	}
	c.Status = status
	c.UpdatedAt = s.now()
	if status == domain.CampaignActive && c.StartDate == nil {
		today := truncateDay(c.UpdatedAt)
		c.StartDate = &today
	}
	if err := s.repos.Campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("campaign status changed", zap.String("id", id), zap.String("status", string(status)))
	return c, nil
}

func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := s.campaign(ctx, id); err != nil {
		return err
	}
	return s.repos.Campaigns.Delete(ctx, id)
}

// RecordMetrics stores one day of delivery for a campaign and exports it.
// Recording the same day twice replaces the earlier numbers.
func (s *Service) RecordMetrics(ctx context.Context, in MetricsInput) (*domain.CampaignMetrics, error) {
	m := in.metrics()
	m.ID = s.newID()
	m.CreatedAt = s.now()
	if m.Date.IsZero() {
		m.Date = truncateDay(m.CreatedAt)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c, err := s.campaign(ctx, m.CampaignID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Metrics.Record(ctx, m); err != nil {
		return nil, err
	}

	if s.exporter != nil {
		if err := s.exporter.ExportCampaignMetrics(ctx, c, m); err != nil {
			s.logger.Warn("failed to export campaign metrics", zap.String("campaign_id", c.ID), zap.Error(err))
		}
	}
	s.logger.Debug("metrics recorded",
		zap.String("campaign_id", c.ID),
		zap.String("date", m.Date.Format("2006-01-02")),
		zap.Float64("spend", m.Spend))
	return m, nil
}

func (s *Service) DeleteMetrics(ctx context.Context, id string) error {
	m, err := s.repos.Metrics.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("metrics %s: %w", id, domain.ErrNotFound)
	}
	return s.repos.Metrics.Delete(ctx, id)
}

// CreateTest starts a new A/B test.
func (s *Service) CreateTest(ctx context.Context, in TestInput) (*domain.Test, error) {
	t := domain.NewTest(s.newID(), strings.TrimSpace(in.Name), strings.TrimSpace(in.Element), s.now())
	if in.ControlLabel != "" {
		t.ControlLabel = strings.TrimSpace(in.ControlLabel)
	}
	if in.VariantLabel != "" {
		t.VariantLabel = strings.TrimSpace(in.VariantLabel)
	}
	t.Hypothesis = optional(in.Hypothesis)
	if in.CampaignID != "" {
		if _, err := s.campaign(ctx, in.CampaignID); err != nil {
			return nil, err
		}
		t.CampaignID = &in.CampaignID
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Tests.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("test created", zap.String("id", t.ID), zap.String("element", t.Element))
	return t, nil
}

// RecordTestResults replaces the visitor and conversion counts of a running test
// and returns the significance of the new counts.
func (s *Service) RecordTestResults(ctx context.Context, id string, counts domain.SignificanceInput) (*domain.Test, domain.SignificanceResult, error) {
	t, err := s.test(ctx, id)
	if err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	if t.Status == domain.TestCompleted {
		return nil, domain.SignificanceResult{}, domain.ErrTestEnded
	}
	t.ControlVisitors = counts.ControlVisitors
	t.ControlConversions = counts.ControlConversions
	t.VariantVisitors = counts.VariantVisitors
	t.VariantConversions = counts.VariantConversions
	if err := t.Validate(); err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	res, err := t.Evaluate()
	if err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	if err := s.repos.Tests.Update(ctx, t); err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	return t, res, nil
}

// EndTest completes a running test, storing its verdict and confidence.
func (s *Service) EndTest(ctx context.Context, id string) (*domain.Test, domain.SignificanceResult, error) {
	t, err := s.test(ctx, id)
	if err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	if t.Status == domain.TestCompleted {
		return nil, domain.SignificanceResult{}, domain.ErrTestEnded
	}
	res, err := t.Complete(s.now())
	if err != nil {
		return nil, domain.SignificanceResult{}, err
	}
	if err := s.repos.Tests.Update(ctx, t); err != nil {
		return nil, domain.SignificanceResult{}, err
	}

	if s.exporter != nil {
		if err := s.exporter.ExportTestResult(ctx, t, res); err != nil {
			s.logger.Warn("failed to export test result", zap.String("test_id", t.ID), zap.Error(err))
		}
	}
	s.logger.Info("test ended",
		zap.String("id", t.ID),
		zap.String("winner", string(res.Winner)),
		zap.Int("confidence", res.Confidence))
	return t, res, nil
}

func (s *Service) DeleteTest(ctx context.Context, id string) error {
	if _, err := s.test(ctx, id); err != nil {
		return err
	}
	return s.repos.Tests.Delete(ctx, id)
}

// AddLearning stores an insight, optionally linked to the test it came from.
func (s *Service) AddLearning(ctx context.Context, in LearningInput) (*domain.Learning, error) {
	stage, err := domain.ParseFunnelStage(in.FunnelStage)
	if err != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{"funnel_stage": err.Error()}}
	}
	l := &domain.Learning{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Insight:     strings.TrimSpace(in.Insight),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		FunnelStage: stage,
		Tags:        domain.ParseTags(in.Tags),
		CreatedAt:   s.now(),
	}
	if in.TestID != "" {
		if _, err := s.test(ctx, in.TestID); err != nil {
			return nil, err
		}
		l.TestID = &in.TestID
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Learnings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) DeleteLearning(ctx context.Context, id string) error {
	l, err := s.repos.Learnings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("learning %s: %w", id, domain.ErrNotFound)
	}
	return s.repos.Learnings.Delete(ctx, id)
}

// AddFailure stores a post-mortem.
func (s *Service) AddFailure(ctx context.Context, in FailureInput) (*domain.Failure, error) {
	f := &domain.Failure{
		ID:           s.newID(),
		Title:        strings.TrimSpace(in.Title),
		WhatHappened: strings.TrimSpace(in.WhatHappened),
		RootCause:    strings.TrimSpace(in.RootCause),
		Lesson:       strings.TrimSpace(in.Lesson),
		CreatedAt:    s.now(),
	}
	if in.CampaignID != "" {
		if _, err := s.campaign(ctx, in.CampaignID); err != nil {
			return nil, err
		}
		f.CampaignID = &in.CampaignID
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Failures.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteFailure(ctx context.Context, id string) error {
	f, err := s.repos.Failures.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("failure %s: %w", id, domain.ErrNotFound)
	}
	return s.repos.Failures.Delete(ctx, id)
}

// SaveAsset creates a library asset, or updates it when id is not empty.
func (s *Service) SaveAsset(ctx context.Context, id string, in AssetInput) (*domain.Asset, error) {
	now := s.now()
	var a *domain.Asset
	if id == "" {
		a = &domain.Asset{ID: s.newID(), CreatedAt: now}
	} else {
		existing, err := s.repos.Assets.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		a = existing
	}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = now
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if id == "" {
		err := s.repos.Assets.Create(ctx, a)
		return a, err
	}
	return a, s.repos.Assets.Update(ctx, a)
}

func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	a, err := s.repos.Assets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}
	return s.repos.Assets.Delete(ctx, id)
}

// SaveProfile creates or updates the business profile.
func (s *Service) SaveProfile(ctx context.Context, in ProfileInput) (*domain.Profile, error) {
	p, err := s.repos.Profiles.Current(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.Profile{ID: s.newID(), CreatedAt: s.now()}
	}
	p.BusinessName = strings.TrimSpace(in.BusinessName)
	p.Industry = strings.ToLower(strings.TrimSpace(in.Industry))
	if p.Industry == "" {
		p.Industry = domain.GeneralIndustry
	}
	p.Email = strings.TrimSpace(in.Email)
	p.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
