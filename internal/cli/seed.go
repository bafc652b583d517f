package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/demo"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo business into the database",
	Long: `Load the demo profile, campaigns, results, tests and learnings into the
configured database. Useful to try the dashboard against a real store.`,
	RunE: withApp(runSeed),
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string, app *AppContext) error {
	out := cmd.OutOrStdout()
	if app.Demo {
		fmt.Fprintln(out, "Demo mode already runs on seeded data; set TURSO_DATABASE_URL or use --local to seed a database")
		return nil
	}
	if err := demo.Seed(cmd.Context(), app.Repos, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	fmt.Fprintln(out, "Seeded demo data")
	return nil
}
