// Package analytics assembles the read-side views of campaign performance:
// the dashboard overview, per-campaign reports with diagnostics, and A/B test reports.
package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

// minDetectableLift is the relative lift the sample size estimate is sized for.
const minDetectableLift = 0.20

// recentLearnings is how many learnings the overview shows.
const recentLearnings = 5

// Service provides analytics business logic
type Service struct {
	repos  *ports.Repositories
	logger Logger
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService(repos *ports.Repositories, logger Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repos:  repos,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Overview returns aggregate results for the period, loading independent parts concurrently.
func (s *Service) Overview(ctx context.Context, period string) (Overview, error) {
	s.logger.Debug("fetching overview", zap.String("period", period))
	since := util.StartForPeriod(period, s.now())
	ov := Overview{Period: period, Since: since}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repos.Profiles.Current(gctx)
		ov.Profile = p
		return err
	})
	g.Go(func() error {
		t, err := s.repos.Metrics.Totals(gctx, since)
		ov.Totals = t
		return err
	})
	g.Go(func() error {
		d, err := s.repos.Metrics.Daily(gctx, since)
		ov.Daily = d
		return err
	})
	g.Go(func() error {
		active, err := s.CampaignSummaries(gctx, domain.CampaignFilter{Status: domain.CampaignActive})
		ov.Active = active
		return err
	})
	g.Go(func() error {
		tests, err := s.repos.Tests.List(gctx, domain.TestRunning)
		if err != nil {
			return err
		}
		for _, t := range tests {
			ov.RunningTests = append(ov.RunningTests, s.report(t))
		}
		return nil
	})
	g.Go(func() error {
		l, err := s.repos.Learnings.List(gctx, domain.LearningFilter{Limit: recentLearnings})
		ov.Learnings = l
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("failed to load overview: %w", err)
	}

	ov.Derived = ov.Totals.Derive()
	return ov, nil
}

// CampaignSummaries lists campaigns matching filter with their lifetime totals.
func (s *Service) CampaignSummaries(ctx context.Context, filter domain.CampaignFilter) ([]domain.CampaignSummary, error) {
	campaigns, err := s.repos.Campaigns.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		totals, err := s.repos.Metrics.TotalsByCampaign(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.CampaignSummary{Campaign: c, Totals: totals, Derived: totals.Derive()})
	}
	return summaries, nil
}

// CampaignReport returns a campaign with its daily results and the diagnostic
// findings for its lifetime totals against the profile's industry benchmark.
func (s *Service) CampaignReport(ctx context.Context, id string) (CampaignReport, error) {
	s.logger.Debug("building campaign report", zap.String("id", id))
	c, err := s.repos.Campaigns.GetByID(ctx, id)
	if err != nil {
		return CampaignReport{}, err
	}
	if c == nil {
		return CampaignReport{}, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}

	profile, err := s.repos.Profiles.Current(ctx)
	if err != nil {
		return CampaignReport{}, err
	}
	metrics, err := s.repos.Metrics.ListByCampaign(ctx, id)
	if err != nil {
		return CampaignReport{}, err
	}
	tests, err := s.repos.Tests.List(ctx, "")
	if err != nil {
		return CampaignReport{}, err
	}

	r := CampaignReport{
		Campaign:  c,
		Metrics:   metrics,
		Totals:    domain.SumMetrics(metrics),
		Benchmark: profile.Benchmark(),
		Currency:  "USD",
	}
	if profile != nil && profile.Currency != "" {
		r.Currency = profile.Currency
	}
	r.Derived = r.Totals.Derive()
	r.Findings = domain.Diagnose(domain.NewDiagnosticInput(r.Totals, c.FunnelStage), domain.DefaultRules(r.Benchmark))
	for _, t := range tests {
		if t.CampaignID != nil && *t.CampaignID == id {
			r.Tests = append(r.Tests, t)
		}
	}
	return r, nil
}

// Diagnose runs the diagnostic rules over ad-hoc totals, for the calculator form.
func (s *Service) Diagnose(ctx context.Context, totals domain.Totals, stage domain.FunnelStage) ([]domain.Finding, error) {
	profile, err := s.repos.Profiles.Current(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Diagnose(domain.NewDiagnosticInput(totals, stage), domain.DefaultRules(profile.Benchmark())), nil
}

// TestReport returns a test with the significance of its current counts.
func (s *Service) TestReport(ctx context.Context, id string) (TestReport, error) {
	t, err := s.repos.Tests.GetByID(ctx, id)
	if err != nil {
		return TestReport{}, err
	}
	if t == nil {
		return TestReport{}, fmt.Errorf("test %s: %w", id, domain.ErrNotFound)
	}
	return s.report(t), nil
}

// TestReports lists tests with the given status (all when empty).
func (s *Service) TestReports(ctx context.Context, status domain.TestStatus) ([]TestReport, error) {
	tests, err := s.repos.Tests.List(ctx, status)
	if err != nil {
		return nil, err
	}
	reports := make([]TestReport, 0, len(tests))
	for _, t := range tests {
		reports = append(reports, s.report(t))
	}
	return reports, nil
}

func (s *Service) report(t *domain.Test) TestReport {
	res, err := t.Evaluate()
	if err != nil {
		// Stored counts are validated on write; this only guards rows edited elsewhere.
		s.logger.Warn("failed to evaluate test", zap.String("id", t.ID), zap.Error(err))
	}
	r := TestReport{Test: t, Result: res}
	if res.ControlRate > 0 {
		r.RequiredPerArm = domain.RequiredSampleSize(res.ControlRate, minDetectableLift)
	}
	return r
}

// Series returns the daily chart series for the period: spend, revenue, clicks and conversions.
func (s *Service) Series(ctx context.Context, period string) ([]Series, error) {
	daily, err := s.repos.Metrics.Daily(ctx, util.StartForPeriod(period, s.now()))
	if err != nil {
		return nil, err
	}

	names := []string{"spend", "revenue", "clicks", "conversions"}
	values := []func(domain.Totals) float64{
		func(t domain.Totals) float64 { return t.Spend },
		func(t domain.Totals) float64 { return t.Revenue },
		func(t domain.Totals) float64 { return float64(t.Clicks) },
		func(t domain.Totals) float64 { return float64(t.Conversions) },
	}
	series := make([]Series, len(names))
	for i, name := range names {
		series[i] = Series{Name: name, Points: make([]SeriesPoint, 0, len(daily))}
		for _, d := range daily {
			series[i].Points = append(series[i].Points, SeriesPoint{
				Date:  d.Date.Format("2006-01-02"),
				Value: values[i](d.Totals),
			})
		}
	}
	return series, nil
}
