// Package server provides the HTTP server and routing for FinSight.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/config"
	"github.com/mwestcott/finsight/internal/database"
	"github.com/mwestcott/finsight/internal/modules/accounts"
	"github.com/mwestcott/finsight/internal/modules/amortization"
	amortizationhandlers "github.com/mwestcott/finsight/internal/modules/amortization/handlers"
	"github.com/mwestcott/finsight/internal/modules/benchmarks"
	"github.com/mwestcott/finsight/internal/modules/credit"
	credithandlers "github.com/mwestcott/finsight/internal/modules/credit/handlers"
	"github.com/mwestcott/finsight/internal/modules/debts"
	debtshandlers "github.com/mwestcott/finsight/internal/modules/debts/handlers"
	"github.com/mwestcott/finsight/internal/modules/performance"
	performancehandlers "github.com/mwestcott/finsight/internal/modules/performance/handlers"
	"github.com/mwestcott/finsight/internal/modules/risk"
	riskhandlers "github.com/mwestcott/finsight/internal/modules/risk/handlers"
	"github.com/mwestcott/finsight/internal/modules/snapshots"
	snapshothandlers "github.com/mwestcott/finsight/internal/modules/snapshots/handlers"
	"github.com/mwestcott/finsight/internal/modules/taxlots"
	taxlothandlers "github.com/mwestcott/finsight/internal/modules/taxlots/handlers"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/internal/scheduler"
)

// Config holds everything the server needs to wire its routes.
type Config struct {
	Log       zerolog.Logger
	FinanceDB *database.DB
	CacheDB   *database.DB
	Config    *config.Config

	AccountRepo   *accounts.Repository
	BenchmarkRepo *benchmarks.Repository
	DebtRepo      *debts.Repository
	SnapshotRepo  *snapshots.Repository

	Builder     *timeseries.Builder
	Performance *performance.Calculator
	Comparator  *benchmarks.Comparator
	Risk        *risk.Analyzer
	TaxLots     *taxlots.Engine
	Loans       *amortization.Engine
	Credit      *credit.Calculator
	Strategist  *debts.Strategist

	NetWorth    *snapshots.Service
	SnapshotJob scheduler.Job
	CleanupJob  scheduler.Job

	Scheduler *scheduler.Scheduler
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	financeDB      *database.DB
	cacheDB        *database.DB
	cfg            *config.Config
	systemHandlers *SystemHandlers
	deps           Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		financeDB: cfg.FinanceDB,
		cacheDB:   cfg.CacheDB,
		cfg:       cfg.Config,
		deps:      cfg,
	}

	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Config.DataDir,
		cfg.FinanceDB,
		cfg.CacheDB,
		cfg.Scheduler,
		cfg.SnapshotJob,
		cfg.CleanupJob,
	)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// System monitoring
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/networth-snapshot", s.systemHandlers.HandleTriggerSnapshot)
				r.Post("/cache-cleanup", s.systemHandlers.HandleTriggerCleanup)
			})
		})

		performanceHandler := performancehandlers.NewHandler(
			s.deps.AccountRepo,
			s.deps.BenchmarkRepo,
			s.deps.Builder,
			s.deps.Performance,
			s.deps.Comparator,
			s.log,
		)
		performanceHandler.RegisterRoutes(r)

		riskHandler := riskhandlers.NewHandler(
			s.deps.AccountRepo,
			s.deps.BenchmarkRepo,
			s.deps.Builder,
			s.deps.Risk,
			s.log,
		)
		riskHandler.RegisterRoutes(r)

		taxLotHandler := taxlothandlers.NewHandler(s.deps.AccountRepo, s.deps.TaxLots, s.log)
		taxLotHandler.RegisterRoutes(r)

		loanHandler := amortizationhandlers.NewHandler(s.deps.Loans, s.log)
		loanHandler.RegisterRoutes(r)

		creditHandler := credithandlers.NewHandler(s.deps.DebtRepo, s.deps.Credit, s.log)
		creditHandler.RegisterRoutes(r)

		debtHandler := debtshandlers.NewHandler(s.deps.DebtRepo, s.deps.Strategist, s.log)
		debtHandler.RegisterRoutes(r)

		snapshotHandler := snapshothandlers.NewHandler(s.deps.NetWorth, s.deps.SnapshotRepo, s.log)
		snapshotHandler.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
