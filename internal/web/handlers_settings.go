package web

import (
	"net/http"

	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	profile, err := s.repos.Profiles.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.SettingsPage(s.page(r, "Settings", "settings"), profile))
}

func (s *Server) handleAPIGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.repos.Profiles.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusOK, map[string]any{"profile": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":   profile,
		"benchmark": profile.Benchmark(),
	})
}

func (s *Server) handleAPISaveProfile(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	p, err := s.tracker.SaveProfile(r.Context(), tracker.ProfileInput{
		BusinessName: f.str("business_name"),
		Industry:     f.str("industry"),
		Email:        f.str("email"),
		Currency:     f.str("currency"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.Message("ok", "Profile saved."))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p, "benchmark": p.Benchmark()})
}
