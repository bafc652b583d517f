package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

func significanceInput(f *formValues) domain.SignificanceInput {
	return domain.SignificanceInput{
		ControlVisitors:    f.int("control_visitors"),
		ControlConversions: f.int("control_conversions"),
		VariantVisitors:    f.int("variant_visitors"),
		VariantConversions: f.int("variant_conversions"),
	}
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reports, err := s.analytics.TestReports(ctx, domain.TestStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	campaigns, err := s.repos.Campaigns.List(ctx, domain.CampaignFilter{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.TestsPage(s.page(r, "A/B Tests", "tests"), reports, campaigns))
}

func (s *Server) handleTestDetail(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.TestReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.TestDetailPage(s.page(r, report.Test.Name, "tests"), report))
}

func (s *Server) handleAPIListTests(w http.ResponseWriter, r *http.Request) {
	reports, err := s.analytics.TestReports(r.Context(), domain.TestStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(reports))
	for _, rep := range reports {
		out = append(out, testJSON(rep.Test, rep.Result, rep.RequiredPerArm))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tests": out})
}

func testJSON(t *domain.Test, res domain.SignificanceResult, requiredPerArm int64) map[string]any {
	return map[string]any{
		"test":             t,
		"result":           res,
		"required_per_arm": requiredPerArm,
	}
}

func (s *Server) handleAPIGetTest(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analytics.TestReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, testJSON(rep.Test, rep.Result, rep.RequiredPerArm))
}

func (s *Server) handleAPICreateTest(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	t, err := s.tracker.CreateTest(r.Context(), tracker.TestInput{
		Name:         f.str("name"),
		Element:      f.str("element"),
		Hypothesis:   f.str("hypothesis"),
		CampaignID:   f.str("campaign_id"),
		ControlLabel: f.str("control_label"),
		VariantLabel: f.str("variant_label"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusCreated, "/tests/"+t.ID, t)
}

func (s *Server) handleAPIRecordTestResults(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	counts := significanceInput(f)
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, res, err := s.tracker.RecordTestResults(r.Context(), chi.URLParam(r, "id"), counts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.SignificanceResult(res))
		return
	}
	writeJSON(w, http.StatusOK, testJSON(t, res, 0))
}

func (s *Server) handleAPIEndTest(w http.ResponseWriter, r *http.Request) {
	t, res, err := s.tracker.EndTest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusOK, "/tests/"+t.ID, testJSON(t, res, 0))
}

func (s *Server) handleAPIDeleteTest(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteTest(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "/tests")
}
