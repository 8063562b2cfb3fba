// Package main is the entry point for the FinSight personal financial
// analytics service. It serves portfolio performance, risk, tax lot,
// loan and debt analytics over a REST API, and schedules the daily
// net-worth snapshot.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwestcott/finsight/internal/config"
	"github.com/mwestcott/finsight/internal/database"
	"github.com/mwestcott/finsight/internal/modules/accounts"
	"github.com/mwestcott/finsight/internal/modules/amortization"
	"github.com/mwestcott/finsight/internal/modules/benchmarks"
	"github.com/mwestcott/finsight/internal/modules/credit"
	"github.com/mwestcott/finsight/internal/modules/debts"
	"github.com/mwestcott/finsight/internal/modules/performance"
	"github.com/mwestcott/finsight/internal/modules/risk"
	"github.com/mwestcott/finsight/internal/modules/snapshots"
	"github.com/mwestcott/finsight/internal/modules/taxlots"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/internal/scheduler"
	"github.com/mwestcott/finsight/internal/server"
	"github.com/mwestcott/finsight/pkg/logger"
)

func main() {
	// Load configuration first to get the log level.
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting FinSight")

	// Two-database layout: finance.db holds the durable ledger
	// (accounts, transactions, prices, debts), cache.db holds
	// recomputable snapshot data and can be deleted at any time.
	financeDB, err := database.New(database.Config{
		Path:    cfg.FinanceDBPath(),
		Name:    "finance",
		Profile: database.ProfileLedger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open finance database")
	}
	defer financeDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath(),
		Name:    "cache",
		Profile: database.ProfileCache,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := financeDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate finance database")
	}
	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cache database")
	}

	// Repositories.
	accountRepo := accounts.NewRepository(financeDB.Conn(), log)
	benchmarkRepo := benchmarks.NewRepository(financeDB.Conn(), log)
	debtRepo := debts.NewRepository(financeDB.Conn(), log)
	snapshotRepo := snapshots.NewRepository(cacheDB.Conn())

	// Analytics engines.
	builder := timeseries.NewBuilder(log)
	perfCalculator := performance.NewCalculator(cfg.RiskFreeRate, log)
	comparator := benchmarks.NewComparator(cfg.RiskFreeRate, log)
	analyzer := risk.NewAnalyzer(log)
	lotEngine := taxlots.NewEngine(taxlots.DefaultConfig(), log)
	loanEngine := amortization.NewEngine(log)
	creditCalculator := credit.NewCalculator(log)
	strategist := debts.NewStrategist(log)

	// Net-worth snapshots and their scheduled jobs.
	netWorthService := snapshots.NewService(accountRepo, debtRepo, log)
	snapshotJob := snapshots.NewSnapshotJob(netWorthService, snapshotRepo, accountRepo, log)
	cleanupJob := snapshots.NewCleanupJob(snapshotRepo, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.SnapshotSchedule, snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule snapshot job")
	}
	if err := sched.AddJob(cfg.CacheCleanupSchedule, cleanupJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule cache cleanup job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       log,
		FinanceDB: financeDB,
		CacheDB:   cacheDB,
		Config:    cfg,

		AccountRepo:   accountRepo,
		BenchmarkRepo: benchmarkRepo,
		DebtRepo:      debtRepo,
		SnapshotRepo:  snapshotRepo,

		Builder:     builder,
		Performance: perfCalculator,
		Comparator:  comparator,
		Risk:        analyzer,
		TaxLots:     lotEngine,
		Loans:       loanEngine,
		Credit:      creditCalculator,
		Strategist:  strategist,

		NetWorth:    netWorthService,
		SnapshotJob: snapshotJob,
		CleanupJob:  cleanupJob,

		Scheduler: sched,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// In-flight requests get up to 10 seconds to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
