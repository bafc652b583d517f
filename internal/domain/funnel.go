package domain

import (
	"fmt"
	"strings"
)

// FunnelStage is the marketing lifecycle bucket a campaign or asset targets.
type FunnelStage string

const (
	StageAwareness     FunnelStage = "awareness"
	StageConsideration FunnelStage = "consideration"
	StageConversion    FunnelStage = "conversion"
	StageRetention     FunnelStage = "retention"
)

// FunnelStages lists every stage in funnel order.
var FunnelStages = []FunnelStage{StageAwareness, StageConsideration, StageConversion, StageRetention}

// ParseFunnelStage accepts any casing of a stage name. An empty string yields an empty stage.
func ParseFunnelStage(s string) (FunnelStage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, st := range FunnelStages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown funnel stage %q", s)
}

// Label returns the display name of the stage.
func (f FunnelStage) Label() string {
	switch f {
	case StageAwareness:
		return "Awareness"
	case StageConsideration:
		return "Consideration"
	case StageConversion:
		return "Conversion"
	case StageRetention:
		return "Retention"
	default:
		return string(f)
	}
}
