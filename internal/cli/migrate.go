package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  adpulse migrate      # Run all pending migrations
  adpulse migrate 2    # Migrate to version 2
  adpulse migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: withAppOptions(func(o AppOptions) AppOptions {
		o.Migrate = false
		return o
	}, runMigrate),
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string, app *AppContext) error {
	if app.DB == nil {
		return fmt.Errorf("migrate needs a database: set TURSO_DATABASE_URL or use --local")
	}
	ctx := cmd.Context()
	m := migrate.New(app.DB.DB, app.Logger)

	if len(args) == 0 {
		if err := m.Up(ctx); err != nil {
			return err
		}
	} else {
		target, err := strconv.Atoi(args[0])
		if err != nil || target < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		if err := m.To(ctx, target); err != nil {
			return err
		}
	}

	version, _, err := m.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
	return nil
}
