package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

func campaignFilter(r *http.Request, limit int) domain.CampaignFilter {
	q := r.URL.Query()
	stage, _ := domain.ParseFunnelStage(q.Get("funnel_stage"))
	return domain.CampaignFilter{
		Status:      domain.CampaignStatus(q.Get("status")),
		FunnelStage: stage,
		Platform:    q.Get("platform"),
		Limit:       limit,
	}
}

func campaignInput(f *formValues) tracker.CampaignInput {
	return tracker.CampaignInput{
		Name:        f.str("name"),
		Platform:    f.str("platform"),
		Objective:   f.str("objective"),
		FunnelStage: f.str("funnel_stage"),
		Status:      f.str("status"),
		DailyBudget: f.float("daily_budget"),
		TotalBudget: f.float("total_budget"),
		StartDate:   f.date("start_date"),
		EndDate:     f.date("end_date"),
		AudienceID:  f.str("audience_id"),
		Notes:       f.str("notes"),
	}
}

func (s *Server) audiences(r *http.Request) []*domain.Asset {
	audiences, err := s.repos.Assets.List(r.Context(), domain.AssetFilter{Kind: domain.AssetAudience})
	if err != nil {
		s.logger.Warn("failed to list audiences", zap.Error(err))
		return nil
	}
	return audiences
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := campaignFilter(r, s.cfg.PageSize)
	summaries, err := s.analytics.CampaignSummaries(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.CampaignsPage(s.page(r, "Campaigns", "campaigns"), summaries, filter, s.audiences(r)))
}

func (s *Server) handleCampaignDetail(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.CampaignReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := s.page(r, report.Campaign.Name, "campaigns")
	report.Currency = p.Currency
	s.render(w, r, templates.CampaignDetailPage(p, report, s.audiences(r)))
}

func (s *Server) handleAPIListCampaigns(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.analytics.CampaignSummaries(r.Context(), campaignFilter(r, limitParam(r, s.cfg.PageSize)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": summaries})
}

func (s *Server) handleAPIGetCampaign(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.CampaignReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"campaign":  report.Campaign,
		"metrics":   report.Metrics,
		"totals":    report.Totals,
		"derived":   report.Derived,
		"benchmark": report.Benchmark,
		"findings":  report.Findings,
		"tests":     report.Tests,
	})
}

func (s *Server) handleAPICreateCampaign(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	in := campaignInput(f)
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.tracker.CreateCampaign(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusCreated, "/campaigns/"+c.ID, c)
}

func (s *Server) handleAPIUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	in := campaignInput(f)
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.tracker.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusOK, "/campaigns/"+c.ID, c)
}

func (s *Server) handleAPISetCampaignStatus(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status := domain.CampaignStatus(newFormValues(values).str("status"))
	c, err := s.tracker.SetCampaignStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusOK, "/campaigns/"+c.ID, c)
}

func (s *Server) handleAPIDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "/campaigns")
}

func (s *Server) handleAPIRecordMetrics(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	in := tracker.MetricsInput{
		CampaignID:  chi.URLParam(r, "id"),
		Spend:       f.float("spend"),
		Impressions: f.int("impressions"),
		Clicks:      f.int("clicks"),
		Leads:       f.int("leads"),
		Conversions: f.int("conversions"),
		Revenue:     f.float("revenue"),
	}
	if d := f.date("date"); d != nil {
		in.Date = *d
	}
	if err := f.err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.tracker.RecordMetrics(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusCreated, "/campaigns/"+m.CampaignID, map[string]any{
		"metrics": m,
		"derived": m.Derive(),
	})
}

func (s *Server) handleAPIDeleteMetrics(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteMetrics(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "")
}

func (s *Server) handleAPIDiagnoseCampaign(w http.ResponseWriter, r *http.Request) {
	report, err := s.analytics.CampaignReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if middleware.IsHTMX(r) {
		s.render(w, r, templates.Findings(report.Findings))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"benchmark": report.Benchmark,
		"findings":  report.Findings,
	})
}
