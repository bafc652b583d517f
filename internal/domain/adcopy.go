package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// AdCopy is the text of a single ad.
type AdCopy struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primary_text"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
}

// AdCopyFromAttributes reads ad copy fields from an asset's attributes.
func AdCopyFromAttributes(attrs map[string]string) AdCopy {
	return AdCopy{
		Headline:    attrs["headline"],
		PrimaryText: attrs["primary_text"],
		Description: attrs["description"],
		CTA:         attrs["cta"],
	}
}

// CopyLimits are the maximum character counts a platform displays without truncation.
// Zero means the platform has no such field.
type CopyLimits struct {
	Headline    int `json:"headline"`
	PrimaryText int `json:"primary_text"`
	Description int `json:"description"`
}

var copyLimits = map[string]CopyLimits{
	"facebook":  {Headline: 40, PrimaryText: 125, Description: 30},
	"instagram": {Headline: 40, PrimaryText: 125},
	"google":    {Headline: 30, Description: 90},
	"linkedin":  {Headline: 70, PrimaryText: 150, Description: 100},
	"tiktok":    {PrimaryText: 100},
}

// LimitsFor returns the limits for a platform and whether the platform is known.
func LimitsFor(platform string) (CopyLimits, bool) {
	l, ok := copyLimits[strings.ToLower(strings.TrimSpace(platform))]
	return l, ok
}

// LimitViolation reports a field longer than the platform allows.
type LimitViolation struct {
	Field  string `json:"field"`
	Length int    `json:"length"`
	Limit  int    `json:"limit"`
}

func (v LimitViolation) Error() string {
	return fmt.Sprintf("%d characters, limit is %d", v.Length, v.Limit)
}

// CheckAdCopy returns the fields of c that exceed the platform's limits.
// Unknown platforms have no limits.
func CheckAdCopy(platform string, c AdCopy) []LimitViolation {
	limits, ok := LimitsFor(platform)
	if !ok {
		return nil
	}

	var out []LimitViolation
	check := func(field, value string, limit int) {
		if limit == 0 || value == "" {
			return
		}
		if n := utf8.RuneCountInString(value); n > limit {
			out = append(out, LimitViolation{Field: field, Length: n, Limit: limit})
		}
	}
	check("headline", c.Headline, limits.Headline)
	check("primary_text", c.PrimaryText, limits.PrimaryText)
	check("description", c.Description, limits.Description)
	return out
}
