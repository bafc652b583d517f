package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

// Calculators need no database.

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run the ad calculators",
}

var calcSignificanceCmd = &cobra.Command{
	Use:   "significance",
	Short: "Test whether a variant beat its control",
	Long: `Run a two-proportion z-test on A/B counts.

Examples:
  adpulse calc significance --control-visitors 1000 --control-conversions 50 \
    --variant-visitors 1000 --variant-conversions 80`,
	RunE: runCalcSignificance,
}

var calcMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute CPM, CPC, CTR, CPL, CPA and ROAS",
	RunE:  runCalcMetrics,
}

var calcSampleSizeCmd = &cobra.Command{
	Use:   "sample-size",
	Short: "Estimate visitors per arm needed to detect a lift",
	RunE:  runCalcSampleSize,
}

var calcAdCopyCmd = &cobra.Command{
	Use:   "adcopy",
	Short: "Check ad copy against a platform's character limits",
	RunE:  runCalcAdCopy,
}

// Flags
var (
	calcCurrency string
	calcBaseline float64
	calcLift     float64
	copyPlatform string
	copyText     domain.AdCopy
)

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcSignificanceCmd)
	calcCmd.AddCommand(calcMetricsCmd)
	calcCmd.AddCommand(calcSampleSizeCmd)
	calcCmd.AddCommand(calcAdCopyCmd)

	addCountFlags(calcSignificanceCmd)

	calcMetricsCmd.Flags().Float64Var(&metricsSpend, "spend", 0, "Amount spent")
	calcMetricsCmd.Flags().Int64Var(&metricsImpressions, "impressions", 0, "Impressions")
	calcMetricsCmd.Flags().Int64Var(&metricsClicks, "clicks", 0, "Clicks")
	calcMetricsCmd.Flags().Int64Var(&metricsLeads, "leads", 0, "Leads")
	calcMetricsCmd.Flags().Int64Var(&metricsConversions, "conversions", 0, "Conversions")
	calcMetricsCmd.Flags().Float64Var(&metricsRevenue, "revenue", 0, "Revenue")
	calcMetricsCmd.Flags().StringVar(&calcCurrency, "currency", "USD", "Currency for money values")

	calcSampleSizeCmd.Flags().Float64Var(&calcBaseline, "baseline", 0, "Baseline conversion rate (0-1)")
	calcSampleSizeCmd.Flags().Float64Var(&calcLift, "lift", 0.2, "Minimum detectable relative lift")

	calcAdCopyCmd.Flags().StringVarP(&copyPlatform, "platform", "p", "", "Ad platform")
	calcAdCopyCmd.Flags().StringVar(&copyText.Headline, "headline", "", "Headline")
	calcAdCopyCmd.Flags().StringVar(&copyText.PrimaryText, "primary-text", "", "Primary text")
	calcAdCopyCmd.Flags().StringVar(&copyText.Description, "description", "", "Description")
}

func runCalcSignificance(cmd *cobra.Command, args []string) error {
	res, err := domain.Significance(countsFromFlags())
	if err != nil {
		return err
	}
	printSignificance(cmd.OutOrStdout(), res)
	return nil
}

func runCalcMetrics(cmd *cobra.Command, args []string) error {
	totals := domain.Totals{
		Spend:       metricsSpend,
		Impressions: metricsImpressions,
		Clicks:      metricsClicks,
		Leads:       metricsLeads,
		Conversions: metricsConversions,
		Revenue:     metricsRevenue,
	}
	if totals.Spend < 0 || totals.Impressions < 0 || totals.Clicks < 0 || totals.Leads < 0 || totals.Conversions < 0 || totals.Revenue < 0 {
		return fmt.Errorf("values must not be negative")
	}
	printDerived(cmd.OutOrStdout(), totals, calcCurrency)
	return nil
}

func runCalcSampleSize(cmd *cobra.Command, args []string) error {
	perArm := domain.RequiredSampleSize(calcBaseline, calcLift)
	if perArm == 0 {
		return fmt.Errorf("--baseline must be between 0 and 1 and --lift must be positive")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s visitors per arm (%s total) for 95%% confidence and 80%% power\n",
		util.FormatNumber(perArm), util.FormatNumber(perArm*2))
	return nil
}

func runCalcAdCopy(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if _, ok := domain.LimitsFor(copyPlatform); !ok {
		fmt.Fprintf(out, "No known limits for %q\n", copyPlatform)
		return nil
	}
	violations := domain.CheckAdCopy(copyPlatform, copyText)
	if len(violations) == 0 {
		fmt.Fprintln(out, "Fits within the platform limits.")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintf(out, "%s: %s\n", v.Field, v.Error())
	}
	return fmt.Errorf("%d field(s) over the limit", len(violations))
}
