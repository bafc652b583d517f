package tracker

import (
	"strings"
	"time"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

// CampaignInput carries the editable campaign fields from a form, the API or the CLI.
type CampaignInput struct {
	Name        string
	Platform    string
	Objective   string
	FunnelStage string
	Status      string
	DailyBudget float64
	TotalBudget float64
	StartDate   *time.Time
	EndDate     *time.Time
	AudienceID  string
	Notes       string
}

func (in CampaignInput) apply(c *domain.Campaign) error {
	stage, err := domain.ParseFunnelStage(in.FunnelStage)
	if err != nil {
		return &domain.ValidationError{Fields: map[string]string{"funnel_stage": err.Error()}}
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	c.Objective = strings.TrimSpace(in.Objective)
	c.FunnelStage = stage
	c.Status = domain.CampaignStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	c.DailyBudget = in.DailyBudget
	c.TotalBudget = in.TotalBudget
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.AudienceID = optional(in.AudienceID)
	c.Notes = optional(in.Notes)
	return nil
}

// MetricsInput is one day of delivery. A zero Date means today.
type MetricsInput struct {
	CampaignID  string
	Date        time.Time
	Spend       float64
	Impressions int64
	Clicks      int64
	Leads       int64
	Conversions int64
	Revenue     float64
}

func (in MetricsInput) metrics() *domain.CampaignMetrics {
	m := &domain.CampaignMetrics{
		CampaignID:  in.CampaignID,
		Spend:       in.Spend,
		Impressions: in.Impressions,
		Clicks:      in.Clicks,
		Leads:       in.Leads,
		Conversions: in.Conversions,
		Revenue:     in.Revenue,
	}
	if !in.Date.IsZero() {
		m.Date = truncateDay(in.Date)
	}
	return m
}

// TestInput describes a new A/B test. Empty labels default to A and B.
type TestInput struct {
	Name         string
	Element      string
	Hypothesis   string
	CampaignID   string
	ControlLabel string
	VariantLabel string
}

type LearningInput struct {
	TestID      string
	Title       string
	Insight     string
	Category    string
	FunnelStage string
	Tags        string
}

type FailureInput struct {
	CampaignID   string
	Title        string
	WhatHappened string
	RootCause    string
	Lesson       string
}

// AssetInput describes a library item. Attributes hold the kind-specific fields.
type AssetInput struct {
	Kind        string
	Title       string
	Platform    string
	FunnelStage string
	Attributes  map[string]string
	Tags        string
}

func (in AssetInput) apply(a *domain.Asset) error {
	stage, err := domain.ParseFunnelStage(in.FunnelStage)
	if err != nil {
		return &domain.ValidationError{Fields: map[string]string{"funnel_stage": err.Error()}}
	}
	a.Kind = domain.AssetKind(strings.TrimSpace(in.Kind))
	a.Title = strings.TrimSpace(in.Title)
	a.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	a.FunnelStage = stage
	a.Tags = domain.ParseTags(in.Tags)
	a.Attributes = make(map[string]string, len(in.Attributes))
	for k, v := range in.Attributes {
		if v = strings.TrimSpace(v); v != "" {
			a.Attributes[k] = v
		}
	}
	return nil
}

type ProfileInput struct {
	BusinessName string
	Industry     string
	Email        string
	Currency     string
}
