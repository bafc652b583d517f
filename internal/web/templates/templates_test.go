package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestCampaignsPageEscapesNames(t *testing.T) {
	summaries := []domain.CampaignSummary{{
		Campaign: &domain.Campaign{ID: "c 1", Name: `<script>alert("x")</script>`, Platform: "google", Status: domain.CampaignActive},
		Totals:   domain.Totals{Spend: 1234.5, Conversions: 3},
	}}
	out := renderString(t, CampaignsPage(Page{Title: "Campaigns", Nav: "campaigns", Currency: "USD"}, summaries, domain.CampaignFilter{}, nil))

	if strings.Contains(out, "<script>alert") {
		t.Error("campaign name rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped campaign name missing")
	}
	if !strings.Contains(out, `href="/campaigns/c%201"`) {
		t.Error("campaign link not path-escaped")
	}
	if !strings.Contains(out, `<li><a href="/campaigns" class="active">`) {
		t.Error("campaigns nav item not active")
	}
}

func TestLayoutDemoBanner(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want bool
	}{
		{"live", Page{}, false},
		{"demo", Page{Demo: true}, true},
		{"dismissed", Page{Demo: true, BannerDismissed: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, Layout(tt.page))
			if got := strings.Contains(out, `id="demo-banner"`); got != tt.want {
				t.Errorf("banner shown = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out, `data-theme="light"`) {
				t.Error("default theme not applied")
			}
		})
	}
}

func TestSignificanceResultVerdicts(t *testing.T) {
	tests := []struct {
		name string
		res  domain.SignificanceResult
		want string
	}{
		{"winner", domain.SignificanceResult{Confidence: 99, Significant: true, Winner: domain.VerdictVariant}, "Variant wins"},
		{"worse", domain.SignificanceResult{Confidence: 99, Significant: true, Winner: domain.VerdictInconclusive}, "significantly worse"},
		{"inconclusive", domain.SignificanceResult{Confidence: 40, Winner: domain.VerdictInconclusive}, "No significant difference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, SignificanceResult(tt.res))
			if !strings.Contains(out, tt.want) {
				t.Errorf("SignificanceResult() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestFormErrorsSorted(t *testing.T) {
	out := renderString(t, FormErrors(map[string]string{"name": "is required", "budget": "must not be negative"}))
	if strings.Index(out, "budget") > strings.Index(out, "name") {
		t.Errorf("fields not sorted: %s", out)
	}
	if renderString(t, FormErrors(nil)) != "" {
		t.Error("empty fields should render nothing")
	}
}

func TestLayoutRendersChildren(t *testing.T) {
	ctx := templ.WithChildren(context.Background(), Message("ok", "saved"))
	var buf bytes.Buffer
	if err := Layout(Page{Title: "Settings", Nav: "settings"}).Render(ctx, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!doctype html>") {
		t.Errorf("missing doctype: %.40s", out)
	}
	if !strings.Contains(out, `<main class="container"><h1>Settings</h1><div class="ok">saved</div></main>`) {
		t.Errorf("children not rendered inside main: %s", out)
	}
}

func TestFragmentsEscapeText(t *testing.T) {
	out := renderString(t, FormErrors(map[string]string{"name": "<b>bad</b>"}))
	if strings.Contains(out, "<b>") || !strings.Contains(out, "&lt;b&gt;bad&lt;/b&gt;") {
		t.Errorf("FormErrors() did not escape message: %s", out)
	}
	out = renderString(t, Message(`x" onclick="y`, "<i>hi</i>"))
	if strings.Contains(out, `onclick="y"`) || strings.Contains(out, "<i>") {
		t.Errorf("Message() did not escape: %s", out)
	}
}

func TestPageURL(t *testing.T) {
	if got := pageURL("/library", "kind", "ad_copy", "q", ""); got != templ.SafeURL("/library?kind=ad_copy") {
		t.Errorf("pageURL() = %q", got)
	}
	if got := pageURL("/library"); got != templ.SafeURL("/library") {
		t.Errorf("pageURL() = %q", got)
	}
}
