package web

import (
	"net/http"
	"slices"

	"github.com/emiliopalmerini/adpulse/internal/util"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

// page builds the shared page chrome from the request's preferences.
func (s *Server) page(r *http.Request, title, nav string) templates.Page {
	prefs := s.preferences(r)
	currency := prefs.Currency
	if currency == "" {
		if p, err := s.repos.Profiles.Current(r.Context()); err == nil && p != nil {
			currency = p.Currency
		}
	}
	if currency == "" {
		currency = "USD"
	}
	return templates.Page{
		Title:           title,
		Nav:             nav,
		Demo:            s.cfg.Demo,
		Theme:           prefs.Theme,
		Currency:        currency,
		Period:          prefs.Period,
		BannerDismissed: prefs.BannerDismissed,
	}
}

// period returns the requested reporting period, falling back to the preference.
func (s *Server) period(r *http.Request, p templates.Page) string {
	if period := r.URL.Query().Get("period"); slices.Contains(util.Periods, period) {
		return period
	}
	return p.Period
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Dashboard", "dashboard")
	ov, err := s.analytics.Overview(r.Context(), s.period(r, p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.DashboardPage(p, ov))
}

func (s *Server) handleAPIChartDaily(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "", "")
	series, err := s.analytics.Series(r.Context(), s.period(r, p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}
