// Package templates holds the templ components of the dashboard.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

// Page carries the per-request chrome shared by every full page.
type Page struct {
	Title    string
	Nav      string
	Demo     bool
	Theme    string
	Currency string
	Period   string
	// BannerDismissed hides the demo mode banner.
	BannerDismissed bool
}

type navItem struct {
	key, href, label string
}

var navItems = []navItem{
	{"dashboard", "/", "Dashboard"},
	{"campaigns", "/campaigns", "Campaigns"},
	{"tests", "/tests", "A/B Tests"},
	{"learnings", "/learnings", "Learnings"},
	{"failures", "/failures", "Failures"},
	{"library", "/library", "Library"},
	{"settings", "/settings", "Settings"},
}

var (
	currencies = []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY"}
	themes     = []string{"light", "dark"}
)
