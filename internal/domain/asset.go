package domain

import "time"

// AssetKind separates the content library into its sections.
type AssetKind string

const (
	AssetAudience      AssetKind = "audience"
	AssetAdCopy        AssetKind = "ad_copy"
	AssetCreativeBrief AssetKind = "creative_brief"
	AssetContent       AssetKind = "content"
)

var AssetKinds = []AssetKind{AssetAudience, AssetAdCopy, AssetCreativeBrief, AssetContent}

func (k AssetKind) Valid() bool {
	for _, kind := range AssetKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (k AssetKind) Label() string {
	switch k {
	case AssetAudience:
		return "Audiences"
	case AssetAdCopy:
		return "Ad copy"
	case AssetCreativeBrief:
		return "Creative briefs"
	case AssetContent:
		return "Content"
	default:
		return string(k)
	}
}

// Asset is a reusable library item. Kind-specific fields live in Attributes,
// e.g. headline/primary_text/cta for ad copy or age_range/locations for audiences.
type Asset struct {
	ID          string            `json:"id"`
	Kind        AssetKind         `json:"kind"`
	Title       string            `json:"title"`
	Platform    string            `json:"platform"`
	FunnelStage FunnelStage       `json:"funnel_stage"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (a *Asset) Validate() error {
	var v validator
	v.required("title", a.Title)
	if !a.Kind.Valid() {
		v.add("kind", "is not a known asset kind")
	}
	if a.FunnelStage != "" {
		if _, err := ParseFunnelStage(string(a.FunnelStage)); err != nil {
			v.add("funnel_stage", err.Error())
		}
	}
	if a.Kind == AssetAdCopy && a.Platform != "" {
		if violations := CheckAdCopy(a.Platform, AdCopyFromAttributes(a.Attributes)); len(violations) > 0 {
			v.add(violations[0].Field, violations[0].Error())
		}
	}
	return v.err()
}

// AssetFilter narrows library listings.
type AssetFilter struct {
	Kind  AssetKind
	Tag   string
	Query string
	Limit int
}

// AssetFields lists the attribute keys each asset kind uses, in form order.
var AssetFields = map[AssetKind][]string{
	AssetAudience:      {"age_range", "gender", "locations", "interests", "behaviors", "size_estimate"},
	AssetAdCopy:        {"headline", "primary_text", "description", "cta"},
	AssetCreativeBrief: {"objective", "key_message", "visual_direction", "format", "deliverables", "deadline"},
	AssetContent:       {"channel", "publish_date", "body"},
}
