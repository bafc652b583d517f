package web

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/backup"
	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/export"
)

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}

func exportFormat(r *http.Request) (export.Format, error) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", &domain.ValidationError{Fields: map[string]string{"format": err.Error()}}
	}
	return format, nil
}

func (s *Server) handleAPIExportCampaigns(w http.ResponseWriter, r *http.Request) {
	format, err := exportFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summaries, err := s.analytics.CampaignSummaries(r.Context(), campaignFilter(r, 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	attachment(w, format.ContentType(), "campaigns."+string(format))
	if err := export.Campaigns(w, format, summaries); err != nil {
		s.logger.Error("failed to write campaign export", zap.Error(err))
	}
}

// handleAPIExportMetrics exports daily rows for one campaign, or all campaigns
// when no campaign is given.
func (s *Server) handleAPIExportMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format, err := exportFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var campaigns []*domain.Campaign
	if id := r.URL.Query().Get("campaign"); id != "" {
		c, err := s.repos.Campaigns.GetByID(ctx, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if c == nil {
			s.writeError(w, r, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound))
			return
		}
		campaigns = []*domain.Campaign{c}
	} else if campaigns, err = s.repos.Campaigns.List(ctx, domain.CampaignFilter{}); err != nil {
		s.writeError(w, r, err)
		return
	}

	var rows []*domain.CampaignMetrics
	names := make(map[string]string, len(campaigns))
	for _, c := range campaigns {
		names[c.ID] = c.Name
		m, err := s.repos.Metrics.ListByCampaign(ctx, c.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		rows = append(rows, m...)
	}

	attachment(w, format.ContentType(), "metrics."+string(format))
	if err := export.Metrics(w, format, rows, names); err != nil {
		s.logger.Error("failed to write metrics export", zap.Error(err))
	}
}

func (s *Server) handleAPIExportBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := backup.Collect(r.Context(), s.repos, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	attachment(w, "application/json", "adpulse-backup-"+s.now().Format("2006-01-02")+".json")
	if err := backup.Encode(w, snap); err != nil {
		s.logger.Error("failed to write backup", zap.Error(err))
	}
}
