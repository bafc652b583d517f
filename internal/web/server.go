package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/adpulse/internal/analytics"
	"github.com/emiliopalmerini/adpulse/internal/ports"
	"github.com/emiliopalmerini/adpulse/internal/shared/middleware"
	"github.com/emiliopalmerini/adpulse/internal/tracker"
)

//go:embed static/*
var staticFiles embed.FS

// Config holds HTTP server settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// SessionSecret signs the preferences cookie. Empty generates a
	// random key, so preferences reset on restart.
	SessionSecret string
	RateLimit     float64
	RateBurst     int
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Enable it only behind a proxy that sets those headers, since the rate
	// limiter keys on that address.
	TrustProxy bool
	PageSize   int
	Demo       bool
}

type Server struct {
	cfg          Config
	repos        *ports.Repositories
	tracker      *tracker.Service
	analytics    *analytics.Service
	sessionStore sessions.Store
	logger       *zap.Logger
	router       chi.Router
	now          func() time.Time
}

func NewServer(cfg Config, repos *ports.Repositories, tr *tracker.Service, an *analytics.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Warn("no session secret configured, preferences will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		cfg:          cfg,
		repos:        repos,
		tracker:      tr,
		analytics:    an,
		sessionStore: sessionStore,
		logger:       logger,
		router:       chi.NewRouter(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chimw.RequestID)
	if s.cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		accessLog(s.logger),
		chimw.Recoverer,
		middleware.HTMX,
	)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	r.Get("/", s.handleDashboard)
	r.Get("/campaigns", s.handleCampaigns)
	r.Get("/campaigns/{id}", s.handleCampaignDetail)
	r.Get("/tests", s.handleTests)
	r.Get("/tests/{id}", s.handleTestDetail)
	r.Get("/learnings", s.handleLearnings)
	r.Get("/failures", s.handleFailures)
	r.Get("/library", s.handleLibrary)
	r.Get("/settings", s.handleSettings)

	// API endpoints (for HTMX and JSON clients)
	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(newIPLimiter(s.cfg.RateLimit, max(s.cfg.RateBurst, 1)).middleware)
		}

		r.Get("/campaigns", s.handleAPIListCampaigns)
		r.Post("/campaigns", s.handleAPICreateCampaign)
		r.Get("/campaigns/{id}", s.handleAPIGetCampaign)
		r.Put("/campaigns/{id}", s.handleAPIUpdateCampaign)
		r.Delete("/campaigns/{id}", s.handleAPIDeleteCampaign)
		r.Post("/campaigns/{id}/status", s.handleAPISetCampaignStatus)
		r.Post("/campaigns/{id}/metrics", s.handleAPIRecordMetrics)
		r.Get("/campaigns/{id}/diagnose", s.handleAPIDiagnoseCampaign)
		r.Delete("/metrics/{id}", s.handleAPIDeleteMetrics)

		r.Get("/tests", s.handleAPIListTests)
		r.Post("/tests", s.handleAPICreateTest)
		r.Get("/tests/{id}", s.handleAPIGetTest)
		r.Post("/tests/{id}/results", s.handleAPIRecordTestResults)
		r.Post("/tests/{id}/end", s.handleAPIEndTest)
		r.Delete("/tests/{id}", s.handleAPIDeleteTest)

		r.Post("/calc/significance", s.handleAPICalcSignificance)
		r.Get("/calc/sample-size", s.handleAPICalcSampleSize)
		r.Post("/calc/metrics", s.handleAPICalcMetrics)
		r.Post("/calc/diagnose", s.handleAPICalcDiagnose)
		r.Post("/calc/adcopy", s.handleAPICalcAdCopy)

		r.Get("/learnings", s.handleAPIListLearnings)
		r.Post("/learnings", s.handleAPICreateLearning)
		r.Delete("/learnings/{id}", s.handleAPIDeleteLearning)
		r.Get("/failures", s.handleAPIListFailures)
		r.Post("/failures", s.handleAPICreateFailure)
		r.Delete("/failures/{id}", s.handleAPIDeleteFailure)

		r.Get("/assets", s.handleAPIListAssets)
		r.Post("/assets", s.handleAPICreateAsset)
		r.Get("/assets/{id}", s.handleAPIGetAsset)
		r.Put("/assets/{id}", s.handleAPIUpdateAsset)
		r.Delete("/assets/{id}", s.handleAPIDeleteAsset)

		r.Get("/profile", s.handleAPIGetProfile)
		r.Put("/profile", s.handleAPISaveProfile)
		r.Post("/preferences", s.handleAPIPreferences)

		r.Get("/charts/daily", s.handleAPIChartDaily)

		// Export
		r.Get("/export/campaigns", s.handleAPIExportCampaigns)
		r.Get("/export/metrics", s.handleAPIExportMetrics)
		r.Get("/export/backup", s.handleAPIExportBackup)
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener, for tests and socket activation.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("starting server",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("demo", s.cfg.Demo))

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
