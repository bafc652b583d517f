package domain

import "math"

// Verdict is the outcome of an A/B significance test.
type Verdict string

const (
	VerdictVariant      Verdict = "variant"
	VerdictInconclusive Verdict = "inconclusive"
)

// Critical |z| values for two-sided confidence tiers.
const (
	z99 = 2.576
	z95 = 1.960
	z90 = 1.645
)

// WinningConfidence is the minimum confidence at which a winner is declared.
const WinningConfidence = 95

// SignificanceInput holds raw traffic and conversion counts for both arms.
type SignificanceInput struct {
	ControlVisitors    int64 `json:"control_visitors"`
	ControlConversions int64 `json:"control_conversions"`
	VariantVisitors    int64 `json:"variant_visitors"`
	VariantConversions int64 `json:"variant_conversions"`
}

// SignificanceResult is the outcome of a two-proportion z-test.
type SignificanceResult struct {
	ControlRate float64 `json:"control_rate"`
	VariantRate float64 `json:"variant_rate"`
	Lift        float64 `json:"lift"`
	ZScore      float64 `json:"z_score"`
	Confidence  int     `json:"confidence"`
	Significant bool    `json:"significant"`
	Winner      Verdict `json:"winner"`
}

// Significance runs a pooled two-proportion z-test of variant against control.
func Significance(in SignificanceInput) (SignificanceResult, error) {
	if in.ControlVisitors < 0 || in.VariantVisitors < 0 ||
		in.ControlConversions < 0 || in.VariantConversions < 0 ||
		in.ControlConversions > in.ControlVisitors ||
		in.VariantConversions > in.VariantVisitors {
		return SignificanceResult{}, ErrInvalidCounts
	}

	var r SignificanceResult
	if in.ControlVisitors > 0 {
		r.ControlRate = float64(in.ControlConversions) / float64(in.ControlVisitors)
	}
	if in.VariantVisitors > 0 {
		r.VariantRate = float64(in.VariantConversions) / float64(in.VariantVisitors)
	}
	if r.ControlRate > 0 {
		r.Lift = (r.VariantRate - r.ControlRate) / r.ControlRate
	}

	if in.ControlVisitors > 0 && in.VariantVisitors > 0 {
		pooled := float64(in.ControlConversions+in.VariantConversions) /
			float64(in.ControlVisitors+in.VariantVisitors)
		se := math.Sqrt(pooled * (1 - pooled) *
			(1/float64(in.ControlVisitors) + 1/float64(in.VariantVisitors)))
		if se > 0 {
			r.ZScore = (r.VariantRate - r.ControlRate) / se
		}
	}

	r.Confidence = ConfidenceForZ(r.ZScore)
	r.Significant = r.Confidence >= WinningConfidence
	r.Winner = VerdictInconclusive
	if r.Significant && r.VariantRate > r.ControlRate {
		r.Winner = VerdictVariant
	}

	return r, nil
}

// ConfidenceForZ maps |z| to a discrete confidence tier. Below the 90% tier the
// confidence is scaled linearly so it stays monotonic in |z|.
func ConfidenceForZ(z float64) int {
	az := math.Abs(z)
	switch {
	case az >= z99:
		return 99
	case az >= z95:
		return 95
	case az >= z90:
		return 90
	}
	c := int(math.Round(az / z90 * 90))
	if c > 89 {
		c = 89
	}
	return c
}

// RequiredSampleSize estimates visitors needed per arm to detect a relative lift
// over the baseline conversion rate at 95% confidence and 80% power.
// Returns 0 when the inputs cannot describe a detectable effect.
func RequiredSampleSize(baselineRate, minDetectableLift float64) int64 {
	if baselineRate <= 0 || baselineRate >= 1 || minDetectableLift <= 0 {
		return 0
	}
	p1 := baselineRate
	p2 := baselineRate * (1 + minDetectableLift)
	if p2 >= 1 {
		return 0
	}

	const zPower = 0.8416
	pBar := (p1 + p2) / 2
	a := z95 * math.Sqrt(2*pBar*(1-pBar))
	b := zPower * math.Sqrt(p1*(1-p1)+p2*(1-p2))
	delta := p2 - p1

	return int64(math.Ceil((a + b) * (a + b) / (delta * delta)))
}
