package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Manage A/B tests",
	Long:  `Create A/B tests, record their visitor and conversion counts, and end them with a verdict.`,
}

var testListCmd = &cobra.Command{
	Use:   "list",
	Short: "List A/B tests",
	RunE:  withApp(runTestList),
}

var testCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Start an A/B test",
	Long: `Start an A/B test.

Examples:
  adpulse test create "Benefit headline" --element headline --variant "Save 20%"`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runTestCreate),
}

var testRecordCmd = &cobra.Command{
	Use:   "record <test-id>",
	Short: "Replace the counts of a running test",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTestRecord),
}

var testEndCmd = &cobra.Command{
	Use:   "end <test-id>",
	Short: "End a test and store its verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTestEnd),
}

var testSignificanceCmd = &cobra.Command{
	Use:   "significance <test-id>",
	Short: "Show the significance of a test's current counts",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runTestSignificance),
}

// Flags
var (
	testStatus     string
	testElement    string
	testHypothesis string
	testCampaign   string
	testControl    string
	testVariant    string

	countControlVisitors    int64
	countControlConversions int64
	countVariantVisitors    int64
	countVariantConversions int64
)

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.AddCommand(testListCmd)
	testCmd.AddCommand(testCreateCmd)
	testCmd.AddCommand(testRecordCmd)
	testCmd.AddCommand(testEndCmd)
	testCmd.AddCommand(testSignificanceCmd)

	testListCmd.Flags().StringVar(&testStatus, "status", "", "Filter by status (running, completed)")

	testCreateCmd.Flags().StringVarP(&testElement, "element", "e", "", "Element under test (headline, image, cta, ...)")
	testCreateCmd.Flags().StringVarP(&testHypothesis, "hypothesis", "H", "", "Hypothesis to test")
	testCreateCmd.Flags().StringVarP(&testCampaign, "campaign", "c", "", "Campaign ID the test runs in")
	testCreateCmd.Flags().StringVar(&testControl, "control", "", "Control label (default A)")
	testCreateCmd.Flags().StringVar(&testVariant, "variant", "", "Variant label (default B)")

	addCountFlags(testRecordCmd)
}

func addCountFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&countControlVisitors, "control-visitors", 0, "Control visitors")
	cmd.Flags().Int64Var(&countControlConversions, "control-conversions", 0, "Control conversions")
	cmd.Flags().Int64Var(&countVariantVisitors, "variant-visitors", 0, "Variant visitors")
	cmd.Flags().Int64Var(&countVariantConversions, "variant-conversions", 0, "Variant conversions")
}

func countsFromFlags() domain.SignificanceInput {
	return domain.SignificanceInput{
		ControlVisitors:    countControlVisitors,
		ControlConversions: countControlConversions,
		VariantVisitors:    countVariantVisitors,
		VariantConversions: countVariantConversions,
	}
}

func runTestList(cmd *cobra.Command, args []string, app *AppContext) error {
	reports, err := app.Analytics.TestReports(cmd.Context(), domain.TestStatus(strings.ToLower(testStatus)))
	if err != nil {
		return fmt.Errorf("failed to list tests: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No tests found")
		return nil
	}

	t := newTable(out, "ID", "Name", "Element", "Status", "Visitors", "Lift", "Confidence", "Verdict")
	for _, r := range reports {
		verdict := "-"
		if r.Test.Winner != nil {
			verdict = string(*r.Test.Winner)
		}
		t.AppendRow([]any{
			r.Test.ID, r.Test.Name, r.Test.Element, r.Test.Status,
			util.FormatNumber(r.Test.ControlVisitors + r.Test.VariantVisitors),
			util.FormatPercent(r.Result.Lift), fmt.Sprintf("%d%%", r.Result.Confidence), verdict,
		})
	}
	t.Render()
	return nil
}

func runTestCreate(cmd *cobra.Command, args []string, app *AppContext) error {
	t, err := app.Tracker.CreateTest(cmd.Context(), tracker.TestInput{
		Name:         args[0],
		Element:      testElement,
		Hypothesis:   testHypothesis,
		CampaignID:   testCampaign,
		ControlLabel: testControl,
		VariantLabel: testVariant,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Started test %s (%s): %s vs %s\n", t.Name, t.ID, t.ControlLabel, t.VariantLabel)
	return nil
}

func runTestRecord(cmd *cobra.Command, args []string, app *AppContext) error {
	_, res, err := app.Tracker.RecordTestResults(cmd.Context(), args[0], countsFromFlags())
	if err != nil {
		return err
	}
	printSignificance(cmd.OutOrStdout(), res)
	return nil
}

func runTestEnd(cmd *cobra.Command, args []string, app *AppContext) error {
	t, res, err := app.Tracker.EndTest(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ended test %s\n", t.Name)
	printSignificance(out, res)
	return nil
}

func runTestSignificance(cmd *cobra.Command, args []string, app *AppContext) error {
	r, err := app.Analytics.TestReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%s) vs %s (%s)\n", r.Test.Name,
		r.Test.ControlLabel, util.FormatNumber(r.Test.ControlVisitors),
		r.Test.VariantLabel, util.FormatNumber(r.Test.VariantVisitors))
	printSignificance(out, r.Result)
	if r.Test.Status == domain.TestRunning && r.RequiredPerArm > 0 {
		fmt.Fprintf(out, "  Progress:     %.0f%% of %s visitors per arm\n", r.Progress()*100, util.FormatNumber(r.RequiredPerArm))
	}
	return nil
}
