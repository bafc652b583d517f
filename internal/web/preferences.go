package web

import (
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/util"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

const preferencesSession = "adpulse-preferences"

// Preferences are per-browser display settings kept in a signed cookie.
type Preferences struct {
	Theme           string `json:"theme"`
	Currency        string `json:"currency"`
	Period          string `json:"period"`
	BannerDismissed bool   `json:"banner_dismissed"`
}

func defaultPreferences() Preferences {
	return Preferences{Theme: "light", Period: "30d"}
}

func (s *Server) preferences(r *http.Request) Preferences {
	p := defaultPreferences()
	sess, err := s.sessionStore.Get(r, preferencesSession)
	if err != nil {
		// A cookie signed with an old secret decodes as a fresh session.
		s.logger.Debug("ignoring unreadable preferences cookie", zap.Error(err))
		return p
	}
	if v, ok := sess.Values["theme"].(string); ok && v != "" {
		p.Theme = v
	}
	if v, ok := sess.Values["currency"].(string); ok {
		p.Currency = v
	}
	if v, ok := sess.Values["period"].(string); ok && v != "" {
		p.Period = v
	}
	if v, ok := sess.Values["banner_dismissed"].(bool); ok {
		p.BannerDismissed = v
	}
	return p
}

func (s *Server) savePreferences(w http.ResponseWriter, r *http.Request, p Preferences) error {
	sess, _ := s.sessionStore.Get(r, preferencesSession)
	sess.Values["theme"] = p.Theme
	sess.Values["currency"] = p.Currency
	sess.Values["period"] = p.Period
	sess.Values["banner_dismissed"] = p.BannerDismissed
	return sess.Save(r, w)
}

// handleAPIPreferences updates only the preferences present in the request.
func (s *Server) handleAPIPreferences(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	p := s.preferences(r)

	if values.Has("theme") {
		if theme := f.str("theme"); theme == "light" || theme == "dark" {
			p.Theme = theme
		} else {
			f.fail("theme", "must be light or dark")
		}
	}
	if values.Has("currency") {
		c := strings.ToUpper(f.str("currency"))
		if c != "" && len(c) != 3 {
			f.fail("currency", "must be a three-letter code")
		}
		p.Currency = c
	}
	if values.Has("period") {
		if period := f.str("period"); slices.Contains(util.Periods, period) {
			p.Period = period
		} else {
			f.fail("period", "is not a known period")
		}
	}
	if values.Has("banner_dismissed") {
		p.BannerDismissed = f.bool("banner_dismissed")
	}
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.savePreferences(w, r, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		if values.Has("banner_dismissed") {
			// The banner swaps itself out.
			w.WriteHeader(http.StatusOK)
			return
		}
		s.render(w, r, templates.Message("ok", "Preferences saved."))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
