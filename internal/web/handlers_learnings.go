package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

func learningFilter(r *http.Request, limit int) domain.LearningFilter {
	q := r.URL.Query()
	stage, _ := domain.ParseFunnelStage(q.Get("funnel_stage"))
	return domain.LearningFilter{
		Category:    q.Get("category"),
		FunnelStage: stage,
		Tag:         q.Get("tag"),
		Limit:       limit,
	}
}

func (s *Server) handleLearnings(w http.ResponseWriter, r *http.Request) {
	filter := learningFilter(r, s.cfg.PageSize)
	learnings, err := s.repos.Learnings.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.LearningsPage(s.page(r, "Learnings", "learnings"), learnings, filter))
}

func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	failures, err := s.repos.Failures.List(ctx, s.cfg.PageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	campaigns, err := s.repos.Campaigns.List(ctx, domain.CampaignFilter{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.FailuresPage(s.page(r, "Failures", "failures"), failures, campaigns))
}

func (s *Server) handleAPIListLearnings(w http.ResponseWriter, r *http.Request) {
	learnings, err := s.repos.Learnings.List(r.Context(), learningFilter(r, limitParam(r, s.cfg.PageSize)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"learnings": learnings})
}

func (s *Server) handleAPICreateLearning(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	l, err := s.tracker.AddLearning(r.Context(), tracker.LearningInput{
		TestID:      f.str("test_id"),
		Title:       f.str("title"),
		Insight:     f.str("insight"),
		Category:    f.str("category"),
		FunnelStage: f.str("funnel_stage"),
		Tags:        f.str("tags"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusCreated, "/learnings", l)
}

func (s *Server) handleAPIDeleteLearning(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteLearning(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "")
}

func (s *Server) handleAPIListFailures(w http.ResponseWriter, r *http.Request) {
	failures, err := s.repos.Failures.List(r.Context(), limitParam(r, s.cfg.PageSize))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"failures": failures})
}

func (s *Server) handleAPICreateFailure(w http.ResponseWriter, r *http.Request) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := newFormValues(values)
	failure, err := s.tracker.AddFailure(r.Context(), tracker.FailureInput{
		CampaignID:   f.str("campaign_id"),
		Title:        f.str("title"),
		WhatHappened: f.str("what_happened"),
		RootCause:    f.str("root_cause"),
		Lesson:       f.str("lesson"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.created(w, r, http.StatusCreated, "/failures", failure)
}

func (s *Server) handleAPIDeleteFailure(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteFailure(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "")
}
