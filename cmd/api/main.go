package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/api"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/gcsuploader"
	"github.com/dvloznov/finance-dashboard/internal/jobs/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

func main() {
	envFile := flag.String("env", "", "Path to a .env file (defaults to ./.env when present)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.NewWithLevel(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	client := services.NewHTTPClient(cfg.Services.URL, cfg.Services.Timeout)
	analyzer, err := services.NewAnalyzer(ctx, cfg.Services.Analyzer, client, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create document analyzer")
	}

	// Archiving is optional; a nil interface disables the step.
	var archiver pipeline.Archiver
	if cfg.GCP.Bucket != "" {
		a, err := gcsuploader.NewArchiver(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create document archiver")
		}
		defer a.Close()
		archiver = a
	} else {
		log.Warn().Msg("No GCS bucket configured - uploaded documents will not be archived")
	}

	s := store.NewMemory()
	ingestor := pipeline.NewIngestor(s, pipeline.NewDocumentPipeline(s, analyzer, archiver))
	reviewer := pipeline.NewReviewer(s, client, client)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.Queue.Size, cfg.Queue.Workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, ingestor.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}
	log.Info().Int("workers", cfg.Queue.Workers).Str("analyzer", cfg.Services.Analyzer).Msg("Started analysis workers")

	handler := api.NewRouter(api.Deps{
		Store:     s,
		Ingestor:  ingestor,
		Reviewer:  reviewer,
		Publisher: jobQueue,
		JobStore:  jobStore,
		Log:       log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Services.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight analyses
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
