package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCampaign_Validate(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		campaign  Campaign
		wantField string
	}{
		{"valid", Campaign{Name: "Spring", Platform: "google", Status: CampaignDraft, DailyBudget: 20}, ""},
		{"missing name", Campaign{Platform: "google", Status: CampaignDraft}, "name"},
		{"negative budget", Campaign{Name: "Spring", Platform: "google", Status: CampaignDraft, TotalBudget: -5}, "budget"},
		{"NaN budget", Campaign{Name: "Spring", Platform: "google", Status: CampaignDraft, DailyBudget: math.NaN()}, "budget"},
		{"infinite budget", Campaign{Name: "Spring", Platform: "google", Status: CampaignDraft, TotalBudget: math.Inf(1)}, "budget"},
		{"end before start", Campaign{Name: "Spring", Platform: "google", Status: CampaignDraft, StartDate: &start, EndDate: &before}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.campaign.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("Fields = %v, want %q", verr.Fields, tt.wantField)
			}
		})
	}
}
