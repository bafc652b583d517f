package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage campaigns",
	Long:  `Create campaigns, record their daily results and diagnose their performance.`,
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns with lifetime totals",
	RunE:  withApp(runCampaignList),
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a campaign",
	Long: `Create a campaign in draft status unless --status is given.

Examples:
  adpulse campaign create "Spring sale" --platform facebook --stage conversion --daily-budget 25`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runCampaignCreate),
}

var campaignMetricsCmd = &cobra.Command{
	Use:   "metrics <campaign-id>",
	Short: "Record a day of results",
	Long: `Record one day of delivery for a campaign. Recording the same date again
replaces the earlier row.

Examples:
  adpulse campaign metrics 3f2a... --spend 42.10 --impressions 8300 --clicks 97 --conversions 3 --revenue 180`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runCampaignMetrics),
}

var campaignDiagnoseCmd = &cobra.Command{
	Use:   "diagnose <campaign-id>",
	Short: "Diagnose a campaign's lifetime results",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCampaignDiagnose),
}

// Flags
var (
	campaignStatus      string
	campaignStage       string
	campaignPlatform    string
	campaignObjective   string
	campaignDailyBudget float64
	campaignTotalBudget float64
	campaignStart       string
	campaignEnd         string
	campaignNotes       string

	metricsDate        string
	metricsSpend       float64
	metricsImpressions int64
	metricsClicks      int64
	metricsLeads       int64
	metricsConversions int64
	metricsRevenue     float64
)

func init() {
	rootCmd.AddCommand(campaignCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignCreateCmd)
	campaignCmd.AddCommand(campaignMetricsCmd)
	campaignCmd.AddCommand(campaignDiagnoseCmd)

	campaignListCmd.Flags().StringVar(&campaignStatus, "status", "", "Filter by status")
	campaignListCmd.Flags().StringVar(&campaignStage, "stage", "", "Filter by funnel stage")
	campaignListCmd.Flags().StringVar(&campaignPlatform, "platform", "", "Filter by platform")

	campaignCreateCmd.Flags().StringVar(&campaignPlatform, "platform", "", "Ad platform (facebook, instagram, google, linkedin, tiktok)")
	campaignCreateCmd.Flags().StringVar(&campaignStage, "stage", "", "Funnel stage (awareness, consideration, conversion, retention)")
	campaignCreateCmd.Flags().StringVar(&campaignObjective, "objective", "", "Campaign objective")
	campaignCreateCmd.Flags().StringVar(&campaignStatus, "status", "", "Initial status (default draft)")
	campaignCreateCmd.Flags().Float64Var(&campaignDailyBudget, "daily-budget", 0, "Daily budget")
	campaignCreateCmd.Flags().Float64Var(&campaignTotalBudget, "total-budget", 0, "Total budget")
	campaignCreateCmd.Flags().StringVar(&campaignStart, "start", "", "Start date (YYYY-MM-DD)")
	campaignCreateCmd.Flags().StringVar(&campaignEnd, "end", "", "End date (YYYY-MM-DD)")
	campaignCreateCmd.Flags().StringVar(&campaignNotes, "notes", "", "Free-form notes")

	campaignMetricsCmd.Flags().StringVar(&metricsDate, "date", "", "Day of the results (YYYY-MM-DD, default today)")
	campaignMetricsCmd.Flags().Float64Var(&metricsSpend, "spend", 0, "Amount spent")
	campaignMetricsCmd.Flags().Int64Var(&metricsImpressions, "impressions", 0, "Impressions")
	campaignMetricsCmd.Flags().Int64Var(&metricsClicks, "clicks", 0, "Clicks")
	campaignMetricsCmd.Flags().Int64Var(&metricsLeads, "leads", 0, "Leads")
	campaignMetricsCmd.Flags().Int64Var(&metricsConversions, "conversions", 0, "Conversions")
	campaignMetricsCmd.Flags().Float64Var(&metricsRevenue, "revenue", 0, "Revenue")
}

func runCampaignList(cmd *cobra.Command, args []string, app *AppContext) error {
	ctx := cmd.Context()
	stage, err := domain.ParseFunnelStage(campaignStage)
	if err != nil {
		return err
	}
	summaries, err := app.Analytics.CampaignSummaries(ctx, domain.CampaignFilter{
		Status:      domain.CampaignStatus(strings.ToLower(campaignStatus)),
		FunnelStage: stage,
		Platform:    strings.ToLower(campaignPlatform),
	})
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No campaigns found")
		return nil
	}

	currency := profileCurrency(cmd, app)
	t := newTable(out, "ID", "Name", "Status", "Platform", "Stage", "Spend", "Conv.", "CPA", "ROAS")
	for _, s := range summaries {
		c := s.Campaign
		t.AppendRow([]any{
			c.ID, c.Name, c.Status, c.Platform, orDash(c.FunnelStage.Label()),
			util.FormatMoney(s.Totals.Spend, currency), util.FormatNumber(s.Totals.Conversions),
			util.FormatMoney(s.Derived.CPA, currency), util.FormatRatio(s.Derived.ROAS),
		})
	}
	t.Render()
	return nil
}

func runCampaignCreate(cmd *cobra.Command, args []string, app *AppContext) error {
	start, err := parseDate("start", campaignStart)
	if err != nil {
		return err
	}
	end, err := parseDate("end", campaignEnd)
	if err != nil {
		return err
	}

	c, err := app.Tracker.CreateCampaign(cmd.Context(), tracker.CampaignInput{
		Name:        args[0],
		Platform:    campaignPlatform,
		Objective:   campaignObjective,
		FunnelStage: campaignStage,
		Status:      campaignStatus,
		DailyBudget: campaignDailyBudget,
		TotalBudget: campaignTotalBudget,
		StartDate:   start,
		EndDate:     end,
		Notes:       campaignNotes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created campaign %s (%s)\n", c.Name, c.ID)
	return nil
}

func runCampaignMetrics(cmd *cobra.Command, args []string, app *AppContext) error {
	var date time.Time
	if d, err := parseDate("date", metricsDate); err != nil {
		return err
	} else if d != nil {
		date = *d
	}

	m, err := app.Tracker.RecordMetrics(cmd.Context(), tracker.MetricsInput{
		CampaignID:  args[0],
		Date:        date,
		Spend:       metricsSpend,
		Impressions: metricsImpressions,
		Clicks:      metricsClicks,
		Leads:       metricsLeads,
		Conversions: metricsConversions,
		Revenue:     metricsRevenue,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %s for campaign %s\n", m.Date.Format("2006-01-02"), m.CampaignID)
	printDerived(out, domain.SumMetrics([]*domain.CampaignMetrics{m}), profileCurrency(cmd, app))
	return nil
}

func runCampaignDiagnose(cmd *cobra.Command, args []string, app *AppContext) error {
	report, err := app.Analytics.CampaignReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %s)\n", report.Campaign.Name, report.Campaign.Platform, orDash(report.Campaign.FunnelStage.Label()))
	printDerived(out, report.Totals, report.Currency)
	fmt.Fprintln(out)
	printFindings(out, report.Findings)
	return nil
}

func profileCurrency(cmd *cobra.Command, app *AppContext) string {
	p, err := app.Repos.Profiles.Current(cmd.Context())
	if err != nil || p == nil || p.Currency == "" {
		return "USD"
	}
	return p.Currency
}
