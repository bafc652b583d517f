package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/domain"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
)

var learningCmd = &cobra.Command{
	Use:   "learning",
	Short: "Record what tests and campaigns taught you",
}

var learningListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learnings, newest first",
	RunE:  withApp(runLearningList),
}

var learningAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a learning",
	Long: `Add a learning.

Examples:
  adpulse learning add "UGC beats studio video" --insight "UGC video halved CPA on Instagram" \
    --category creative --stage conversion --tags video,ugc`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runLearningAdd),
}

// Flags
var (
	learningCategory string
	learningStage    string
	learningTag      string
	learningTags     string
	learningInsight  string
	learningTest     string
	learningLimit    int
)

func init() {
	rootCmd.AddCommand(learningCmd)
	learningCmd.AddCommand(learningListCmd)
	learningCmd.AddCommand(learningAddCmd)

	learningListCmd.Flags().StringVar(&learningCategory, "category", "", "Filter by category")
	learningListCmd.Flags().StringVar(&learningStage, "stage", "", "Filter by funnel stage")
	learningListCmd.Flags().StringVar(&learningTag, "tag", "", "Filter by tag")
	learningListCmd.Flags().IntVarP(&learningLimit, "limit", "n", 20, "Maximum learnings to show")

	learningAddCmd.Flags().StringVarP(&learningInsight, "insight", "i", "", "What was learned")
	learningAddCmd.Flags().StringVar(&learningCategory, "category", "", "Category (creative, audience, copy, ...)")
	learningAddCmd.Flags().StringVar(&learningStage, "stage", "", "Funnel stage")
	learningAddCmd.Flags().StringVar(&learningTags, "tags", "", "Comma-separated tags")
	learningAddCmd.Flags().StringVar(&learningTest, "test", "", "ID of the test the learning came from")
}

func runLearningList(cmd *cobra.Command, args []string, app *AppContext) error {
	stage, err := domain.ParseFunnelStage(learningStage)
	if err != nil {
		return err
	}
	learnings, err := app.Repos.Learnings.List(cmd.Context(), domain.LearningFilter{
		Category:    learningCategory,
		FunnelStage: stage,
		Tag:         learningTag,
		Limit:       learningLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list learnings: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(learnings) == 0 {
		fmt.Fprintln(out, "No learnings found")
		return nil
	}

	t := newTable(out, "Date", "Title", "Category", "Stage", "Tags")
	for _, l := range learnings {
		t.AppendRow([]any{
			l.CreatedAt.Format("2006-01-02"), l.Title, orDash(l.Category),
			orDash(l.FunnelStage.Label()), orDash(joinTags(l.Tags)),
		})
	}
	t.Render()
	return nil
}

func runLearningAdd(cmd *cobra.Command, args []string, app *AppContext) error {
	l, err := app.Tracker.AddLearning(cmd.Context(), tracker.LearningInput{
		TestID:      learningTest,
		Title:       args[0],
		Insight:     learningInsight,
		Category:    learningCategory,
		FunnelStage: learningStage,
		Tags:        learningTags,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added learning %s (%s)\n", l.Title, l.ID)
	return nil
}
