package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to JSON or CSV",
	Long: `Export campaign data for spreadsheets or external analysis.

Examples:
  adpulse export campaigns --format csv --output campaigns.csv
  adpulse export metrics --campaign 3f2a... --format json`,
}

var exportCampaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Export campaigns with lifetime totals",
	RunE:  withApp(runExportCampaigns),
}

var exportMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Export daily results",
	RunE:  withApp(runExportMetrics),
}

// Flags
var (
	exportFormat   string
	exportOutput   string
	exportCampaign string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCampaignsCmd)
	exportCmd.AddCommand(exportMetricsCmd)

	exportCmd.PersistentFlags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportMetricsCmd.Flags().StringVarP(&exportCampaign, "campaign", "c", "", "Only this campaign ID")
}

// exportWriter opens the output file, or stdout when none is set.
func exportWriter(cmd *cobra.Command) (io.Writer, func() error, error) {
	if exportOutput == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func runExportCampaigns(cmd *cobra.Command, args []string, app *AppContext) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	summaries, err := app.Analytics.CampaignSummaries(cmd.Context(), domain.CampaignFilter{})
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	w, closeFn, err := exportWriter(cmd)
	if err != nil {
		return err
	}
	if err := export.Campaigns(w, format, summaries); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d campaigns to %s\n", len(summaries), exportOutput)
	}
	return nil
}

func runExportMetrics(cmd *cobra.Command, args []string, app *AppContext) error {
	ctx := cmd.Context()
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	var campaigns []*domain.Campaign
	if exportCampaign != "" {
		c, err := app.Repos.Campaigns.GetByID(ctx, exportCampaign)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("campaign %q not found", exportCampaign)
		}
		campaigns = []*domain.Campaign{c}
	} else if campaigns, err = app.Repos.Campaigns.List(ctx, domain.CampaignFilter{}); err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	var rows []*domain.CampaignMetrics
	names := make(map[string]string, len(campaigns))
	for _, c := range campaigns {
		names[c.ID] = c.Name
		m, err := app.Repos.Metrics.ListByCampaign(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}
		rows = append(rows, m...)
	}

	w, closeFn, err := exportWriter(cmd)
	if err != nil {
		return err
	}
	if err := export.Metrics(w, format, rows, names); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(rows), exportOutput)
	}
	return nil
}
