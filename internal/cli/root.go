package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adpulse",
	Short: "Marketing operations dashboard for small-business advertisers",
	Long: `adpulse tracks ad campaigns, A/B tests and what you learned from them.

It serves a web dashboard and offers the same operations from the command line.
Without TURSO_DATABASE_URL it runs in demo mode on seeded in-memory data.`,
	SilenceUsage: true,
}

// Global flags
var (
	envFile  string
	useLocal bool
	useDemo  bool
	logLevel string
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the environment")
	rootCmd.PersistentFlags().BoolVar(&useLocal, "local", false, "Use a local database file in the XDG data directory")
	rootCmd.PersistentFlags().BoolVar(&useDemo, "demo", false, "Use seeded in-memory demo data")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func appOptions() AppOptions {
	return AppOptions{
		EnvFile:  envFile,
		Local:    useLocal,
		Demo:     useDemo,
		LogLevel: logLevel,
		Migrate:  useLocal,
	}
}
