package domain

import "time"

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignStatuses lists every status in lifecycle order.
var CampaignStatuses = []CampaignStatus{CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted}

func (s CampaignStatus) Valid() bool {
	for _, st := range CampaignStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Platforms lists the ad platforms a campaign can run on.
var Platforms = []string{"facebook", "instagram", "google", "linkedin", "tiktok", "email", "other"}

type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Platform    string         `json:"platform"`
	Objective   string         `json:"objective"`
	FunnelStage FunnelStage    `json:"funnel_stage"`
	Status      CampaignStatus `json:"status"`
	DailyBudget float64        `json:"daily_budget"`
	TotalBudget float64        `json:"total_budget"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	AudienceID  *string        `json:"audience_id,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (c *Campaign) Validate() error {
	var v validator
	v.required("name", c.Name)
	v.required("platform", c.Platform)
	if c.FunnelStage != "" {
		if _, err := ParseFunnelStage(string(c.FunnelStage)); err != nil {
			v.add("funnel_stage", err.Error())
		}
	}
	if !c.Status.Valid() {
		v.add("status", "is not a known status")
	}
	v.amount("budget", c.DailyBudget)
	v.amount("budget", c.TotalBudget)
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		v.add("end_date", "must not be before the start date")
	}
	return v.err()
}

// CampaignFilter narrows campaign listings. Empty fields match everything.
type CampaignFilter struct {
	Status      CampaignStatus
	FunnelStage FunnelStage
	Platform    string
	Limit       int
}

// CampaignSummary pairs a campaign with its delivery totals.
type CampaignSummary struct {
	Campaign *Campaign      `json:"campaign,omitempty"`
	Totals   Totals         `json:"totals"`
	Derived  DerivedMetrics `json:"derived"`
}
