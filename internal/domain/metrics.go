package domain

import "time"

// CampaignMetrics is one day of delivery results for a campaign.
type CampaignMetrics struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	Date        time.Time `json:"date"`
	Spend       float64   `json:"spend"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Leads       int64     `json:"leads"`
	Conversions int64     `json:"conversions"`
	Revenue     float64   `json:"revenue"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the counters describe a possible delivery day.
func (m *CampaignMetrics) Validate() error {
	var v validator
	v.required("campaign_id", m.CampaignID)
	if m.Date.IsZero() {
		v.add("date", "is required")
	}
	v.amount("spend", m.Spend)
	v.amount("revenue", m.Revenue)
	if m.Impressions < 0 || m.Clicks < 0 || m.Leads < 0 || m.Conversions < 0 {
		v.add("counts", "must not be negative")
	}
	if m.Clicks > m.Impressions {
		v.add("clicks", "cannot exceed impressions")
	}
	return v.err()
}

// Totals holds summed delivery results across days or campaigns.
type Totals struct {
	Days        int64   `json:"days"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Leads       int64   `json:"leads"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// DerivedMetrics holds the standard cost and performance ratios.
type DerivedMetrics struct {
	CPM            float64 `json:"cpm"`
	CPC            float64 `json:"cpc"`
	CTR            float64 `json:"ctr"`
	CPL            float64 `json:"cpl"`
	CPA            float64 `json:"cpa"`
	ROAS           float64 `json:"roas"`
	ConversionRate float64 `json:"conversion_rate"`
}

// SumMetrics aggregates a series of daily rows.
func SumMetrics(rows []*CampaignMetrics) Totals {
	var t Totals
	for _, m := range rows {
		t.Add(m)
	}
	return t
}

// Add folds one daily row into the totals.
func (t *Totals) Add(m *CampaignMetrics) {
	t.Days++
	t.Spend += m.Spend
	t.Impressions += m.Impressions
	t.Clicks += m.Clicks
	t.Leads += m.Leads
	t.Conversions += m.Conversions
	t.Revenue += m.Revenue
}

// Derive computes ratios over the totals.
// All divisions are zero-safe: returns 0 when the divisor is zero.
func (t Totals) Derive() DerivedMetrics {
	return derive(t.Spend, t.Impressions, t.Clicks, t.Leads, t.Conversions, t.Revenue)
}

// Derive computes ratios for a single day.
func (m *CampaignMetrics) Derive() DerivedMetrics {
	return derive(m.Spend, m.Impressions, m.Clicks, m.Leads, m.Conversions, m.Revenue)
}

func derive(spend float64, impressions, clicks, leads, conversions int64, revenue float64) DerivedMetrics {
	var d DerivedMetrics

	if impressions > 0 {
		d.CPM = spend / float64(impressions) * 1000
		d.CTR = float64(clicks) / float64(impressions)
	}
	if clicks > 0 {
		d.CPC = spend / float64(clicks)
		d.ConversionRate = float64(conversions) / float64(clicks)
	}
	if leads > 0 {
		d.CPL = spend / float64(leads)
	}
	if conversions > 0 {
		d.CPA = spend / float64(conversions)
	}
	if spend > 0 {
		d.ROAS = revenue / spend
	}

	return d
}

// DailyTotals is one point of a time series across campaigns.
type DailyTotals struct {
	Date time.Time `json:"date"`
	Totals
}
