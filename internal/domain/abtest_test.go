package domain

import (
	"testing"
	"time"
)

func TestTest_Complete(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	test := NewTest("t1", "Headline test", "headline", now.AddDate(0, 0, -14))
	test.ControlVisitors, test.ControlConversions = 5000, 250
	test.VariantVisitors, test.VariantConversions = 5000, 340

	res, err := test.Complete(now)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if test.Status != TestCompleted {
		t.Errorf("Status = %s, want completed", test.Status)
	}
	if test.EndedAt == nil || !test.EndedAt.Equal(now) {
		t.Errorf("EndedAt = %v, want %v", test.EndedAt, now)
	}
	if test.Winner == nil || *test.Winner != VerdictVariant || res.Winner != VerdictVariant {
		t.Errorf("Winner = %v, want variant", test.Winner)
	}
	if test.Confidence == nil || *test.Confidence != res.Confidence {
		t.Errorf("Confidence not stored")
	}
}

func TestTest_Validate(t *testing.T) {
	test := NewTest("t1", "CTA test", "cta", time.Now())
	if err := test.Validate(); err != nil {
		t.Fatalf("fresh test should validate: %v", err)
	}

	test.VariantVisitors, test.VariantConversions = 10, 11
	if err := test.Validate(); err == nil {
		t.Error("expected error when conversions exceed visitors")
	}
}
