package domain

import (
	"math"
	"testing"
	"time"
)

func TestTotals_Derive(t *testing.T) {
	tests := []struct {
		name     string
		totals   Totals
		expected DerivedMetrics
	}{
		{
			name: "normal case",
			totals: Totals{
				Spend:       500,
				Impressions: 100000,
				Clicks:      1500,
				Leads:       50,
				Conversions: 25,
				Revenue:     1750,
			},
			expected: DerivedMetrics{
				CPM:            5,        // 500/100000*1000
				CPC:            1.0 / 3,  // 500/1500
				CTR:            0.015,    // 1500/100000
				CPL:            10,       // 500/50
				CPA:            20,       // 500/25
				ROAS:           3.5,      // 1750/500
				ConversionRate: 1.0 / 60, // 25/1500
			},
		},
		{
			name:     "no delivery",
			totals:   Totals{},
			expected: DerivedMetrics{},
		},
		{
			name: "spend without clicks",
			totals: Totals{
				Spend:       120,
				Impressions: 40000,
			},
			expected: DerivedMetrics{
				CPM: 3,
			},
		},
		{
			name: "revenue without spend",
			totals: Totals{
				Impressions: 1000,
				Clicks:      10,
				Conversions: 2,
				Revenue:     80,
			},
			expected: DerivedMetrics{
				CTR:            0.01,
				ConversionRate: 0.2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.totals.Derive()
			assertFloatNear(t, "CPM", tt.expected.CPM, got.CPM)
			assertFloatNear(t, "CPC", tt.expected.CPC, got.CPC)
			assertFloatNear(t, "CTR", tt.expected.CTR, got.CTR)
			assertFloatNear(t, "CPL", tt.expected.CPL, got.CPL)
			assertFloatNear(t, "CPA", tt.expected.CPA, got.CPA)
			assertFloatNear(t, "ROAS", tt.expected.ROAS, got.ROAS)
			assertFloatNear(t, "ConversionRate", tt.expected.ConversionRate, got.ConversionRate)
		})
	}
}

func TestSumMetrics(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []*CampaignMetrics{
		{CampaignID: "c1", Date: day, Spend: 100, Impressions: 10000, Clicks: 200, Leads: 10, Conversions: 4, Revenue: 300},
		{CampaignID: "c1", Date: day.AddDate(0, 0, 1), Spend: 50, Impressions: 5000, Clicks: 50, Leads: 5, Conversions: 1, Revenue: 90},
	}

	got := SumMetrics(rows)

	if got.Days != 2 {
		t.Errorf("Days = %d, want 2", got.Days)
	}
	if got.Impressions != 15000 || got.Clicks != 250 || got.Leads != 15 || got.Conversions != 5 {
		t.Errorf("unexpected counts: %+v", got)
	}
	assertFloatNear(t, "Spend", 150, got.Spend)
	assertFloatNear(t, "Revenue", 390, got.Revenue)
	assertFloatNear(t, "CPA", 30, got.Derive().CPA)
}

func TestCampaignMetrics_Validate(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		metrics CampaignMetrics
		wantErr bool
	}{
		{"valid", CampaignMetrics{CampaignID: "c1", Date: day, Impressions: 10, Clicks: 5}, false},
		{"missing campaign", CampaignMetrics{Date: day}, true},
		{"missing date", CampaignMetrics{CampaignID: "c1"}, true},
		{"negative spend", CampaignMetrics{CampaignID: "c1", Date: day, Spend: -1}, true},
		{"NaN spend", CampaignMetrics{CampaignID: "c1", Date: day, Spend: math.NaN()}, true},
		{"infinite spend", CampaignMetrics{CampaignID: "c1", Date: day, Spend: math.Inf(1)}, true},
		{"infinite revenue", CampaignMetrics{CampaignID: "c1", Date: day, Revenue: math.Inf(-1)}, true},
		{"clicks above impressions", CampaignMetrics{CampaignID: "c1", Date: day, Impressions: 1, Clicks: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metrics.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func assertFloatNear(t *testing.T, name string, expected, actual float64) {
	t.Helper()
	if math.Abs(expected-actual) > 0.0001 {
		t.Errorf("%s: expected %.6f, got %.6f", name, expected, actual)
	}
}
