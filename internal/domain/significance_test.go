package domain

import (
	"errors"
	"math"
	"testing"
)

func TestSignificance(t *testing.T) {
	tests := []struct {
		name           string
		in             SignificanceInput
		wantConfidence int
		wantWinner     Verdict
		wantSig        bool
	}{
		{
			name:           "clear variant win",
			in:             SignificanceInput{ControlVisitors: 10000, ControlConversions: 500, VariantVisitors: 10000, VariantConversions: 650},
			wantConfidence: 99,
			wantWinner:     VerdictVariant,
			wantSig:        true,
		},
		{
			name:           "identical arms",
			in:             SignificanceInput{ControlVisitors: 1000, ControlConversions: 50, VariantVisitors: 1000, VariantConversions: 50},
			wantConfidence: 0,
			wantWinner:     VerdictInconclusive,
		},
		{
			name:           "variant significantly worse is not a winner",
			in:             SignificanceInput{ControlVisitors: 10000, ControlConversions: 650, VariantVisitors: 10000, VariantConversions: 500},
			wantConfidence: 99,
			wantWinner:     VerdictInconclusive,
			wantSig:        true,
		},
		{
			name:           "no traffic",
			in:             SignificanceInput{},
			wantConfidence: 0,
			wantWinner:     VerdictInconclusive,
		},
		{
			name:           "all visitors convert",
			in:             SignificanceInput{ControlVisitors: 10, ControlConversions: 10, VariantVisitors: 10, VariantConversions: 10},
			wantConfidence: 0,
			wantWinner:     VerdictInconclusive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Significance(tt.in)
			if err != nil {
				t.Fatalf("Significance() error = %v", err)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %d, want %d (z=%.3f)", got.Confidence, tt.wantConfidence, got.ZScore)
			}
			if got.Winner != tt.wantWinner {
				t.Errorf("Winner = %s, want %s", got.Winner, tt.wantWinner)
			}
			if got.Significant != tt.wantSig {
				t.Errorf("Significant = %v, want %v", got.Significant, tt.wantSig)
			}
		})
	}
}

func TestSignificance_Rates(t *testing.T) {
	got, err := Significance(SignificanceInput{
		ControlVisitors: 2000, ControlConversions: 100,
		VariantVisitors: 2000, VariantConversions: 120,
	})
	if err != nil {
		t.Fatalf("Significance() error = %v", err)
	}

	assertFloatNear(t, "ControlRate", 0.05, got.ControlRate)
	assertFloatNear(t, "VariantRate", 0.06, got.VariantRate)
	assertFloatNear(t, "Lift", 0.2, got.Lift)
	// pooled p = 0.055, se = sqrt(0.055*0.945*(2/2000)) = 0.0072094
	assertFloatNear(t, "ZScore", 0.01/0.0072094, got.ZScore)
	if got.Confidence != 76 {
		t.Errorf("Confidence = %d, want 76", got.Confidence)
	}
}

func TestSignificance_InvalidCounts(t *testing.T) {
	inputs := []SignificanceInput{
		{ControlVisitors: 10, ControlConversions: 11, VariantVisitors: 10},
		{ControlVisitors: 10, VariantVisitors: 10, VariantConversions: 12},
		{ControlVisitors: -1},
		{VariantConversions: -3},
	}
	for _, in := range inputs {
		if _, err := Significance(in); !errors.Is(err, ErrInvalidCounts) {
			t.Errorf("Significance(%+v) error = %v, want ErrInvalidCounts", in, err)
		}
	}
}

func TestConfidenceForZ_Monotonic(t *testing.T) {
	prev := -1
	for i := 0; i <= 400; i++ {
		z := float64(i) / 100
		c := ConfidenceForZ(z)
		if c < prev {
			t.Fatalf("confidence decreased at z=%.2f: %d < %d", z, c, prev)
		}
		if ConfidenceForZ(-z) != c {
			t.Fatalf("confidence not symmetric at z=%.2f", z)
		}
		prev = c
	}
}

func TestConfidenceForZ_Tiers(t *testing.T) {
	tests := []struct {
		z    float64
		want int
	}{
		{0, 0},
		{1.0, 55},
		{1.644, 89},
		{1.645, 90},
		{1.959, 90},
		{1.96, 95},
		{2.575, 95},
		{2.576, 99},
		{10, 99},
	}
	for _, tt := range tests {
		if got := ConfidenceForZ(tt.z); got != tt.want {
			t.Errorf("ConfidenceForZ(%.3f) = %d, want %d", tt.z, got, tt.want)
		}
	}
}

func TestSignificance_WinnerRequiresConfidenceAndDirection(t *testing.T) {
	for cc := int64(0); cc <= 200; cc += 20 {
		for vc := int64(0); vc <= 200; vc += 20 {
			r, err := Significance(SignificanceInput{
				ControlVisitors: 1000, ControlConversions: cc,
				VariantVisitors: 1000, VariantConversions: vc,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Winner == VerdictVariant && (r.Confidence < WinningConfidence || r.VariantRate <= r.ControlRate) {
				t.Errorf("winner declared for cc=%d vc=%d with confidence %d", cc, vc, r.Confidence)
			}
		}
	}
}

func TestRequiredSampleSize(t *testing.T) {
	n := RequiredSampleSize(0.05, 0.2)
	// Standard tables give roughly 8,150 visitors per arm for 5% -> 6%.
	if math.Abs(float64(n)-8150) > 100 {
		t.Errorf("RequiredSampleSize(0.05, 0.2) = %d, want ~8150", n)
	}
	if RequiredSampleSize(0, 0.2) != 0 {
		t.Error("expected 0 for zero baseline")
	}
	if RequiredSampleSize(0.9, 0.5) != 0 {
		t.Error("expected 0 when target rate exceeds 1")
	}
	if RequiredSampleSize(0.05, 0.1) <= n {
		t.Error("smaller lift should need more visitors")
	}
}
