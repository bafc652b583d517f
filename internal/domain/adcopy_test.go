package domain

import (
	"strings"
	"testing"
)

func TestCheckAdCopy(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		copy     AdCopy
		want     []string
	}{
		{
			name:     "fits facebook",
			platform: "facebook",
			copy:     AdCopy{Headline: "Spring sale: 20% off", PrimaryText: "Fresh flowers delivered today."},
		},
		{
			name:     "google headline too long",
			platform: "Google",
			copy:     AdCopy{Headline: strings.Repeat("a", 31), Description: strings.Repeat("b", 90)},
			want:     []string{"headline"},
		},
		{
			name:     "tiktok ignores headline",
			platform: "tiktok",
			copy:     AdCopy{Headline: strings.Repeat("a", 200), PrimaryText: strings.Repeat("é", 101)},
			want:     []string{"primary_text"},
		},
		{
			name:     "unknown platform",
			platform: "billboard",
			copy:     AdCopy{Headline: strings.Repeat("a", 500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAdCopy(tt.platform, tt.copy)
			if len(got) != len(tt.want) {
				t.Fatalf("CheckAdCopy() = %v, want fields %v", got, tt.want)
			}
			for i, v := range got {
				if v.Field != tt.want[i] {
					t.Errorf("violation %d field = %s, want %s", i, v.Field, tt.want[i])
				}
			}
		})
	}
}

func TestAsset_ValidateAdCopy(t *testing.T) {
	a := Asset{
		Kind:       AssetAdCopy,
		Title:      "Spring promo",
		Platform:   "google",
		Attributes: map[string]string{"headline": strings.Repeat("x", 40)},
	}
	if err := a.Validate(); err == nil {
		t.Fatal("expected validation error for long headline")
	}

	a.Attributes["headline"] = "Short headline"
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
