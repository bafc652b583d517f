// Package demo builds the sample business shown when adpulse runs without a
// hosted database, and seeds it into any set of repositories.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/adpulse/internal/adapters/memory"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/ports"
)

// NewRepositories returns in-memory repositories seeded with the demo business.
func NewRepositories(ctx context.Context, now time.Time) (*ports.Repositories, error) {
	repos := memory.NewRepositories(memory.NewStore())
	if err := Seed(ctx, repos, now); err != nil {
		return nil, err
	}
	return repos, nil
}

type dailyShape struct {
	spend       float64
	impressions int64
	ctr         float64
	convRate    float64
	aov         float64
}

// Seed writes a profile, four campaigns with 30 days of metrics, tests,
// learnings, a failure and library assets. Record IDs are fresh UUIDs.
func Seed(ctx context.Context, repos *ports.Repositories, now time.Time) error {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -29)

	profile := &domain.Profile{
		ID:           uuid.NewString(),
		BusinessName: "Sunrise Bakery",
		Industry:     "restaurants",
		Email:        "hello@sunrisebakery.example",
		Currency:     "USD",
		CreatedAt:    start,
	}
	if err := repos.Profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("seeding profile: %w", err)
	}

	audience := &domain.Asset{
		ID:          uuid.NewString(),
		Kind:        domain.AssetAudience,
		Title:       "Local foodies 25-45",
		Platform:    "facebook",
		FunnelStage: domain.StageAwareness,
		Attributes: map[string]string{
			"age_range": "25-45",
			"locations": "Portland, 10 mile radius",
			"interests": "baking, brunch, farmers markets",
		},
		Tags:      []string{"local", "core"},
		CreatedAt: start,
		UpdatedAt: start,
	}

	campaigns := []struct {
		c     domain.Campaign
		shape dailyShape
	}{
		{
			c: domain.Campaign{
				Name: "Weekend brunch awareness", Platform: "facebook", Objective: "reach",
				FunnelStage: domain.StageAwareness, Status: domain.CampaignActive, DailyBudget: 25,
				AudienceID: &audience.ID,
			},
			shape: dailyShape{spend: 25, impressions: 3200, ctr: 0.0065, convRate: 0.01, aov: 18},
		},
		{
			c: domain.Campaign{
				Name: "Holiday pre-orders", Platform: "instagram", Objective: "conversions",
				FunnelStage: domain.StageConversion, Status: domain.CampaignActive, DailyBudget: 40,
			},
			shape: dailyShape{spend: 40, impressions: 4100, ctr: 0.0150, convRate: 0.08, aov: 45},
		},
		{
			c: domain.Campaign{
				Name: "Catering leads", Platform: "google", Objective: "leads",
				FunnelStage: domain.StageConsideration, Status: domain.CampaignPaused, DailyBudget: 30,
			},
			shape: dailyShape{spend: 30, impressions: 900, ctr: 0.0300, convRate: 0.01, aov: 220},
		},
		{
			c: domain.Campaign{
				Name: "Loyalty win-back", Platform: "email", Objective: "retention",
				FunnelStage: domain.StageRetention, Status: domain.CampaignDraft,
			},
		},
	}

	var headlineCampaignID string
	for i, entry := range campaigns {
		c := entry.c
		c.ID = uuid.NewString()
		c.CreatedAt = start.Add(time.Duration(i) * time.Minute)
		c.UpdatedAt = c.CreatedAt
		if c.Status != domain.CampaignDraft {
			s := start
			c.StartDate = &s
		}
		if err := repos.Campaigns.Create(ctx, &c); err != nil {
			return fmt.Errorf("seeding campaign %q: %w", c.Name, err)
		}
		if c.FunnelStage == domain.StageConversion {
			headlineCampaignID = c.ID
		}
		if entry.shape.spend == 0 {
			continue
		}
		for d := 0; d < 30; d++ {
			if err := repos.Metrics.Record(ctx, dailyMetrics(c.ID, start.AddDate(0, 0, d), d, entry.shape)); err != nil {
				return fmt.Errorf("seeding metrics: %w", err)
			}
		}
	}

	hypothesis := "A benefit-led headline beats a product-led one"
	winner := domain.VerdictVariant
	confidence := 99
	ended := today.AddDate(0, 0, -10)
	finished := &domain.Test{
		ID: uuid.NewString(), CampaignID: &headlineCampaignID, Name: "Pre-order headline",
		Hypothesis: &hypothesis, Element: "headline",
		ControlLabel: "Order holiday pies", VariantLabel: "Skip the holiday baking",
		ControlVisitors: 2400, ControlConversions: 96, VariantVisitors: 2380, VariantConversions: 143,
		Status: domain.TestCompleted, Winner: &winner, Confidence: &confidence,
		StartedAt: start, EndedAt: &ended, CreatedAt: start,
	}
	running := domain.NewTest(uuid.NewString(), "Brunch creative", "image", today.AddDate(0, 0, -5))
	running.ControlLabel, running.VariantLabel = "Pastry flat lay", "Table with people"
	running.ControlVisitors, running.ControlConversions = 640, 12
	running.VariantVisitors, running.VariantConversions = 655, 17
	for _, t := range []*domain.Test{finished, running} {
		if err := repos.Tests.Create(ctx, t); err != nil {
			return fmt.Errorf("seeding test %q: %w", t.Name, err)
		}
	}

	learnings := []*domain.Learning{
		{
			ID: uuid.NewString(), TestID: &finished.ID, Title: "Benefit headlines win",
			Insight:  "Framing the offer around time saved lifted pre-orders by about 50%.",
			Category: "copy", FunnelStage: domain.StageConversion, Tags: []string{"headline", "holiday"},
			CreatedAt: ended,
		},
		{
			ID: uuid.NewString(), Title: "Video outperforms stills for reach",
			Insight:  "Short behind-the-counter clips got twice the CTR of product photos.",
			Category: "creative", FunnelStage: domain.StageAwareness, Tags: []string{"video"},
			CreatedAt: ended.AddDate(0, 0, 2),
		},
	}
	for _, l := range learnings {
		if err := repos.Learnings.Create(ctx, l); err != nil {
			return fmt.Errorf("seeding learning: %w", err)
		}
	}

	failure := &domain.Failure{
		ID: uuid.NewString(), Title: "Broad catering audience",
		WhatHappened: "Spent $300 on a statewide audience and got two unqualified leads.",
		RootCause:    "Catering buyers are local event planners, not consumers.",
		Lesson:       "Keep catering within 25 miles and target business pages.",
		CreatedAt:    today.AddDate(0, 0, -15),
	}
	if err := repos.Failures.Create(ctx, failure); err != nil {
		return fmt.Errorf("seeding failure: %w", err)
	}

	assets := []*domain.Asset{
		audience,
		{
			ID: uuid.NewString(), Kind: domain.AssetAdCopy, Title: "Holiday pre-order copy",
			Platform: "facebook", FunnelStage: domain.StageConversion,
			Attributes: map[string]string{
				"headline":     "Skip the holiday baking",
				"primary_text": "Order pies, rolls and cookies by Dec 20. Pick up fresh on your day.",
				"description":  "Pre-orders open now",
				"cta":          "Order Now",
			},
			Tags: []string{"holiday"}, CreatedAt: start, UpdatedAt: ended,
		},
		{
			ID: uuid.NewString(), Kind: domain.AssetCreativeBrief, Title: "Brunch reel",
			Platform: "instagram", FunnelStage: domain.StageAwareness,
			Attributes: map[string]string{
				"format":    "9:16 video, 15s",
				"message":   "Saturday mornings smell like this",
				"reference": "Steam over fresh croissants, handheld",
			},
			CreatedAt: start, UpdatedAt: start,
		},
		{
			ID: uuid.NewString(), Kind: domain.AssetContent, Title: "Sourdough starter guide",
			FunnelStage: domain.StageConsideration,
			Attributes: map[string]string{
				"url":    "https://sunrisebakery.example/blog/starter",
				"format": "blog post",
			},
			Tags: []string{"seo"}, CreatedAt: start, UpdatedAt: start,
		},
	}
	for _, a := range assets {
		if err := repos.Assets.Create(ctx, a); err != nil {
			return fmt.Errorf("seeding asset %q: %w", a.Title, err)
		}
	}

	return nil
}

// dailyMetrics varies delivery by weekday so charts have some texture.
func dailyMetrics(campaignID string, date time.Time, day int, s dailyShape) *domain.CampaignMetrics {
	factor := 1.0
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		factor = 1.3
	case time.Monday:
		factor = 0.8
	}
	factor += float64(day%5) * 0.03

	impressions := int64(float64(s.impressions) * factor)
	clicks := int64(float64(impressions) * s.ctr)
	conversions := int64(float64(clicks)*s.convRate + 0.5)
	return &domain.CampaignMetrics{
		ID:          uuid.NewString(),
		CampaignID:  campaignID,
		Date:        date,
		Spend:       s.spend * factor,
		Impressions: impressions,
		Clicks:      clicks,
		Leads:       conversions,
		Conversions: conversions,
		Revenue:     float64(conversions) * s.aov,
		CreatedAt:   date,
	}
}
