package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestCampaignsCSV(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	totals := domain.Totals{Spend: 150, Impressions: 20000, Clicks: 300, Conversions: 6, Revenue: 450}
	summaries := []domain.CampaignSummary{{
		Campaign: &domain.Campaign{
			ID: "c1", Name: "Spring, sale", Platform: "facebook", FunnelStage: domain.StageConversion,
			Status: domain.CampaignActive, DailyBudget: 25, StartDate: &start,
		},
		Totals:  totals,
		Derived: totals.Derive(),
	}}

	var buf bytes.Buffer
	require.NoError(t, Campaigns(&buf, FormatCSV, summaries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(campaignHeader, ","), lines[0])
	assert.Equal(t,
		`c1,"Spring, sale",facebook,,conversion,active,25.00,0.00,2024-05-01,,150.00,20000,300,0,6,450.00,0.0150,0.50,7.50,25.00,3.0000`,
		lines[1])
}

func TestMetricsJSON(t *testing.T) {
	rows := []*domain.CampaignMetrics{{
		ID: "m1", CampaignID: "c1", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Spend: 10, Impressions: 1000, Clicks: 20,
	}}

	var buf bytes.Buffer
	require.NoError(t, Metrics(&buf, FormatJSON, rows, nil))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0]["campaign_id"])
	assert.InDelta(t, 10.0, out[0]["spend"], 1e-9)
}

func TestMetricsCSVUsesCampaignNames(t *testing.T) {
	rows := []*domain.CampaignMetrics{{
		CampaignID: "c1", Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Spend: 10, Impressions: 1000, Clicks: 20, Conversions: 2, Revenue: 30,
	}}

	var buf bytes.Buffer
	require.NoError(t, Metrics(&buf, FormatCSV, rows, map[string]string{"c1": "Retarget"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "c1,Retarget,2024-05-02,10.00,1000,20,0,2,30.00,0.0200,0.50,5.00,3.0000", lines[1])
}
