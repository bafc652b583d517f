package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/adpulse/internal/adapters/otel"
	"github.com/emiliopalmerini/adpulse/internal/adapters/turso"
	"github.com/emiliopalmerini/adpulse/internal/analytics"
	"github.com/emiliopalmerini/adpulse/internal/demo"
	"github.com/emiliopalmerini/adpulse/internal/infrastructure/config"
	"github.com/emiliopalmerini/adpulse/internal/infrastructure/logging"
	"github.com/emiliopalmerini/adpulse/internal/migrate"
	"github.com/emiliopalmerini/adpulse/internal/ports"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
	"github.com/emiliopalmerini/adpulse/internal/util"
)

// AppOptions are the command-line overrides applied on top of the configuration.
type AppOptions struct {
	EnvFile  string
	Local    bool
	Demo     bool
	LogLevel string
	// Migrate applies pending migrations after connecting.
	Migrate bool
}

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *turso.DB
	Repos     *ports.Repositories
	Tracker   *tracker.Service
	Analytics *analytics.Service
	Exporter  ports.MetricsExporter
	Demo      bool
}

// newAppContext is replaced in tests.
var newAppContext = NewAppContext

// NewAppContext creates an AppContext with all dependencies initialized.
// Without a database URL the in-memory demo store is used.
func NewAppContext(ctx context.Context, opts AppOptions) (*AppContext, error) {
	var envFiles []string
	if opts.EnvFile != "" {
		envFiles = []string{opts.EnvFile}
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Demo {
		cfg.Demo = true
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Local && cfg.Database.URL == "" {
		if cfg.Database.URL, err = util.LocalDatabaseURL(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	app := &AppContext{Config: cfg, Logger: logger, Demo: cfg.DemoMode()}
	app.Exporter = newExporter(ctx, cfg.OTel, logger)

	if app.Demo {
		app.Repos, err = demo.NewRepositories(ctx, time.Now().UTC())
		if err != nil {
			_ = app.Close(ctx)
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Debug("using in-memory demo data")
	} else {
		app.DB, err = turso.Open(cfg.Database.URL, cfg.Database.AuthToken, turso.Options{Ping: true})
		if err != nil {
			_ = app.Close(ctx)
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if opts.Migrate {
			if err := migrate.New(app.DB.DB, logger).Up(ctx); err != nil {
				_ = app.Close(ctx)
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		app.Repos = turso.NewRepositories(app.DB.DB)
	}

	app.Tracker = tracker.NewService(app.Repos, app.Exporter, logger)
	app.Analytics = analytics.NewService(app.Repos, logger)
	return app, nil
}

func newExporter(ctx context.Context, cfg otel.Config, logger *zap.Logger) ports.MetricsExporter {
	if !cfg.Enabled {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, cfg)
	if err != nil {
		logger.Warn("metrics export disabled", zap.Error(err))
		return otel.NewNoOpExporter()
	}
	logger.Info("exporting metrics", zap.String("endpoint", cfg.Endpoint))
	return exp
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error
	if a.Exporter != nil {
		errs = append(errs, a.Exporter.Close(ctx))
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

type appFunc func(cmd *cobra.Command, args []string, app *AppContext) error

// withApp wraps a command that needs the application dependencies.
func withApp(fn appFunc) func(*cobra.Command, []string) error {
	return withAppOptions(func(o AppOptions) AppOptions { return o }, fn)
}

// withAppOptions is withApp with the options adjusted for one command.
func withAppOptions(adjust func(AppOptions) AppOptions, fn appFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newAppContext(ctx, adjust(appOptions()))
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.Close(closeCtx); err != nil {
				app.Logger.Warn("failed to close resources", zap.Error(err))
			}
		}()
		return fn(cmd, args, app)
	}
}
