package domain

import (
	"errors"
	"testing"
)

func TestParseFunnelStage(t *testing.T) {
	tests := []struct {
		in      string
		want    FunnelStage
		wantErr bool
	}{
		{"Awareness", StageAwareness, false},
		{" consideration ", StageConsideration, false},
		{"CONVERSION", StageConversion, false},
		{"retention", StageRetention, false},
		{"", "", false},
		{"loyalty", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFunnelStage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFunnelStage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFunnelStage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCampaign_ValidateReportsFields(t *testing.T) {
	c := Campaign{Status: "bogus", DailyBudget: -5}
	err := c.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	for _, field := range []string{"name", "platform", "status", "budget"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected error for field %q, got %v", field, verr.Fields)
		}
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" Video, ugc,,video , Hooks")
	want := []string{"video", "ugc", "hooks"}
	if len(got) != len(want) {
		t.Fatalf("ParseTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
