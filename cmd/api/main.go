package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/walletwise/insights/internal/api/handlers"
	"github.com/walletwise/insights/internal/api/middleware"
	infraBQ "github.com/walletwise/insights/internal/infra/bigquery"
	"github.com/walletwise/insights/internal/insights"
	"github.com/walletwise/insights/internal/jobs"
	jobsmem "github.com/walletwise/insights/internal/jobs/inmemory"
	"github.com/walletwise/insights/internal/logger"
)

func main() {
	var (
		port = flag.String("port", "8080", "HTTP server port")
	)
	flag.Parse()

	log := logger.New()
	ctx := logger.WithContext(context.Background(), log)

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	runner := insights.NewRunner(repo, nil)

	// In production the queue would be Cloud Tasks or Pub/Sub
	jobStore := jobsmem.NewStore()
	jobQueue := jobsmem.NewQueue(100, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeUserJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("user_id", analyzeJob.UserID).
			Int("window_days", analyzeJob.WindowDays).
			Msg("Processing analysis job")

		if _, err := runner.Run(ctx, analyzeJob.UserID, analyzeJob.WindowDays); err != nil {
			log.Error().
				Err(err).
				Str("job_id", analyzeJob.JobID).
				Str("user_id", analyzeJob.UserID).
				Msg("Analysis run failed")
			return err
		}
		return nil
	}

	go func() {
		log.Info().Msg("Starting analysis worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Analysis worker stopped with error")
		}
	}()

	analysesHandler := handlers.NewAnalysesHandler(repo, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)
	insightsHandler := handlers.NewInsightsHandler(repo, repo, repo, repo, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" {
			middleware.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		userID := parts[0]

		if parts[1] == "analyses" {
			if r.Method != http.MethodPost {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			analysesHandler.EnqueueAnalysis(w, r, userID)
			return
		}

		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		switch parts[1] {
		case "persona":
			insightsHandler.GetPersona(w, r, userID)
		case "recommendations":
			insightsHandler.GetRecommendations(w, r, userID)
		case "trace":
			insightsHandler.GetTrace(w, r, userID)
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := middleware.RequestID(middleware.Logger(log)(middleware.Recovery(log)(middleware.CORS(mux))))

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		os.Exit(1)
	}

	log.Info().Msg("API server stopped")
}
