package web

import (
	"net/http"
	"strconv"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

// Calculators work on submitted numbers only; nothing is stored.

func (s *Server) handleAPICalcSignificance(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	in := significanceInput(f)
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := domain.Significance(in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.SignificanceResult(res))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAPICalcSampleSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	baseline, err1 := strconv.ParseFloat(q.Get("baseline_rate"), 64)
	lift, err2 := strconv.ParseFloat(q.Get("min_lift"), 64)
	var perArm int64
	if err1 == nil && err2 == nil {
		perArm = domain.RequiredSampleSize(baseline, lift)
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.SampleSize(perArm))
		return
	}
	if perArm == 0 {
		s.writeError(w, r, &domain.ValidationError{Fields: map[string]string{
			"baseline_rate": "must be between 0 and 1",
			"min_lift":      "must be positive",
		}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"per_arm": perArm, "total": perArm * 2})
}

func totalsInput(f *formValues) domain.Totals {
	return domain.Totals{
		Spend:       f.float("spend"),
		Impressions: f.int("impressions"),
		Clicks:      f.int("clicks"),
		Leads:       f.int("leads"),
		Conversions: f.int("conversions"),
		Revenue:     f.float("revenue"),
	}
}

func (s *Server) handleAPICalcMetrics(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	totals := totalsInput(f)
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	derived := totals.Derive()
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.MetricCards(totals, derived, s.page(r, "", "").Currency))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totals": totals, "derived": derived})
}

func (s *Server) handleAPICalcDiagnose(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	totals := totalsInput(f)
	stage, serr := domain.ParseFunnelStage(f.str("funnel_stage"))
	if serr != nil {
		f.fail("funnel_stage", serr.Error())
	}
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	findings, err := s.analytics.Diagnose(r.Context(), totals, stage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.Findings(findings))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"derived": totals.Derive(), "findings": findings})
}

func (s *Server) handleAPICalcAdCopy(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	platform := f.str("platform")
	adCopy := domain.AdCopyFromAttributes(f.prefixed("attributes"))
	violations := domain.CheckAdCopy(platform, adCopy)
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.AdCopyCheck(platform, violations))
		return
	}
	limits, known := domain.LimitsFor(platform)
	writeJSON(w, http.StatusOK, map[string]any{
		"platform":   platform,
		"known":      known,
		"limits":     limits,
		"violations": violations,
	})
}
