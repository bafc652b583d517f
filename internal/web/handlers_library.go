package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/web/templates"
)

func assetFilter(r *http.Request, limit int) domain.AssetFilter {
	q := r.URL.Query()
	return domain.AssetFilter{
		Kind:  domain.AssetKind(q.Get("kind")),
		Tag:   q.Get("tag"),
		Query: q.Get("q"),
		Limit: limit,
	}
}

func assetInput(f *formValues) tracker.AssetInput {
	return tracker.AssetInput{
		Kind:        f.str("kind"),
		Title:       f.str("title"),
		Platform:    f.str("platform"),
		FunnelStage: f.str("funnel_stage"),
		Attributes:  f.prefixed("attributes"),
		Tags:        f.str("tags"),
	}
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	filter := assetFilter(r, s.cfg.PageSize)
	if filter.Kind == "" {
		filter.Kind = domain.AssetAudience
	}
	if !filter.Kind.Valid() {
		s.writeError(w, r, &domain.ValidationError{Fields: map[string]string{"kind": "is not a known asset kind"}})
		return
	}
	assets, err := s.repos.Assets.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, templates.LibraryPage(s.page(r, "Library", "library"), filter, assets))
}

func (s *Server) handleAPIListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.repos.Assets.List(r.Context(), assetFilter(r, limitParam(r, s.cfg.PageSize)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": assets})
}

func (s *Server) handleAPIGetAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.repos.Assets.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if a == nil {
		s.writeError(w, r, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAPICreateAsset(w http.ResponseWriter, r *http.Request) {
	s.saveAsset(w, r, "")
}

func (s *Server) handleAPIUpdateAsset(w http.ResponseWriter, r *http.Request) {
	s.saveAsset(w, r, chi.URLParam(r, "id"))
}

func (s *Server) saveAsset(w http.ResponseWriter, r *http.Request, id string) {
	values, err := readValues(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.tracker.SaveAsset(r.Context(), id, assetInput(newFormValues(values)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	s.created(w, r, status, "/library?kind="+url.QueryEscape(string(a.Kind)), a)
}

func (s *Server) handleAPIDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteAsset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.deleted(w, r, "")
}
