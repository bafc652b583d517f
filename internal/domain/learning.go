package domain

import (
	"strings"
	"time"
)

// Learning records an insight worth reusing, usually from a finished test.
type Learning struct {
	ID          string      `json:"id"`
	TestID      *string     `json:"test_id,omitempty"`
	Title       string      `json:"title"`
	Insight     string      `json:"insight"`
	Category    string      `json:"category"`
	FunnelStage FunnelStage `json:"funnel_stage"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (l *Learning) Validate() error {
	var v validator
	v.required("title", l.Title)
	v.required("insight", l.Insight)
	if l.FunnelStage != "" {
		if _, err := ParseFunnelStage(string(l.FunnelStage)); err != nil {
			v.add("funnel_stage", err.Error())
		}
	}
	return v.err()
}

// LearningFilter narrows learning listings.
type LearningFilter struct {
	Category    string
	FunnelStage FunnelStage
	Tag         string
	Limit       int
}

// Failure is a post-mortem of something that did not work.
type Failure struct {
	ID           string    `json:"id"`
	CampaignID   *string   `json:"campaign_id,omitempty"`
	Title        string    `json:"title"`
	WhatHappened string    `json:"what_happened"`
	RootCause    string    `json:"root_cause"`
	Lesson       string    `json:"lesson"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f *Failure) Validate() error {
	var v validator
	v.required("title", f.Title)
	v.required("what_happened", f.WhatHappened)
	return v.err()
}

// ParseTags splits a comma-separated tag list, trimming blanks and duplicates.
func ParseTags(s string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
