package domain

import "time"

type TestStatus string

const (
	TestRunning   TestStatus = "running"
	TestCompleted TestStatus = "completed"
)

// Test is an A/B test comparing a control and a variant of one element.
type Test struct {
	ID                 string     `json:"id"`
	CampaignID         *string    `json:"campaign_id,omitempty"`
	Name               string     `json:"name"`
	Hypothesis         *string    `json:"hypothesis,omitempty"`
	Element            string     `json:"element"`
	ControlLabel       string     `json:"control_label"`
	VariantLabel       string     `json:"variant_label"`
	ControlVisitors    int64      `json:"control_visitors"`
	ControlConversions int64      `json:"control_conversions"`
	VariantVisitors    int64      `json:"variant_visitors"`
	VariantConversions int64      `json:"variant_conversions"`
	Status             TestStatus `json:"status"`
	Winner             *Verdict   `json:"winner,omitempty"`
	Confidence         *int       `json:"confidence,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// TestElements lists the ad elements commonly tested.
var TestElements = []string{"headline", "image", "video", "copy", "cta", "audience", "landing_page", "offer"}

// NewTest returns a running test with default arm labels.
func NewTest(id, name, element string, now time.Time) *Test {
	return &Test{
		ID:           id,
		Name:         name,
		Element:      element,
		ControlLabel: "A",
		VariantLabel: "B",
		Status:       TestRunning,
		StartedAt:    now,
		CreatedAt:    now,
	}
}

func (t *Test) Validate() error {
	var v validator
	v.required("name", t.Name)
	v.required("element", t.Element)
	if t.Status != TestRunning && t.Status != TestCompleted {
		v.add("status", "is not a known status")
	}
	if t.ControlConversions > t.ControlVisitors || t.VariantConversions > t.VariantVisitors {
		v.add("conversions", "cannot exceed visitors")
	}
	if t.ControlVisitors < 0 || t.VariantVisitors < 0 || t.ControlConversions < 0 || t.VariantConversions < 0 {
		v.add("counts", "must not be negative")
	}
	return v.err()
}

// Input returns the counts in the form the significance calculator expects.
func (t *Test) Input() SignificanceInput {
	return SignificanceInput{
		ControlVisitors:    t.ControlVisitors,
		ControlConversions: t.ControlConversions,
		VariantVisitors:    t.VariantVisitors,
		VariantConversions: t.VariantConversions,
	}
}

// Evaluate runs the significance test on the current counts.
func (t *Test) Evaluate() (SignificanceResult, error) {
	return Significance(t.Input())
}

// Complete ends the test and stores its verdict.
func (t *Test) Complete(now time.Time) (SignificanceResult, error) {
	res, err := t.Evaluate()
	if err != nil {
		return res, err
	}
	winner := res.Winner
	confidence := res.Confidence
	t.Winner = &winner
	t.Confidence = &confidence
	t.Status = TestCompleted
	t.EndedAt = &now
	return res, nil
}
