package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/api"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/brapi"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/logging"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/scheduler"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/version"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/yahoo"
)

// jobTimeout bounds one scheduled run across all owners.
const jobTimeout = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logging.SetGlobalLogger(log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("Connected to database")

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	dividendRepo := repository.NewDividendRepository(db)

	// External feeds
	brapiClient := brapi.NewClient(cfg.Feed.BrapiBaseURL, cfg.Feed.BrapiToken, cfg.Feed.CacheTTL)
	yahooClient := yahoo.NewFinanceClient(cfg.Feed.YahooBaseURL)

	// Create services
	services := api.Services{
		System:  service.NewSystemService(db),
		Import:  service.NewImportService(holdingRepo, dividendRepo, brapiClient, log),
		Price:   service.NewPriceService(holdingRepo, brapiClient, yahooClient, log),
		Holding: service.NewHoldingService(holdingRepo, dividendRepo),
	}

	// Background jobs
	sched := scheduler.New(log, jobTimeout)
	if err := sched.AddJob(cfg.Scheduler.DividendsSpec, scheduler.NewDividendFeedJob(holdingRepo, services.Import, log)); err != nil {
		log.Fatal().Err(err).Msg("Invalid SCHEDULE_DIVIDENDS")
	}
	if err := sched.AddJob(cfg.Scheduler.PricesSpec, scheduler.NewPriceRefreshJob(holdingRepo, services.Price, log)); err != nil {
		log.Fatal().Err(err).Msg("Invalid SCHEDULE_PRICES")
	}
	sched.Start()

	// Create router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
