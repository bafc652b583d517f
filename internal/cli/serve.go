package cli

import (
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the web dashboard and JSON API.

Examples:
  adpulse serve                # Listen on ADPULSE_SERVER_ADDR (default :8080)
  adpulse serve --addr :3000   # Listen on port 3000
  adpulse serve --demo         # Serve seeded in-memory data`,
	RunE: withApp(runServe),
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on")
}

func serverConfig(app *AppContext) web.Config {
	sc := app.Config.Server
	cfg := web.Config{
		Addr:            sc.Addr,
		ShutdownTimeout: sc.ShutdownTimeout,
		SessionSecret:   sc.SessionSecret,
		RateLimit:       sc.RateLimit,
		RateBurst:       sc.RateBurst,
		TrustProxy:      sc.TrustProxy,
		PageSize:        sc.PageSize,
		Demo:            app.Demo,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string, app *AppContext) error {
	server := web.NewServer(serverConfig(app), app.Repos, app.Tracker, app.Analytics, app.Logger)
	return server.Serve(cmd.Context())
}
