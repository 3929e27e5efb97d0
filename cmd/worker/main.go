package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/walletwise/insights/internal/domain"
	infraBQ "github.com/walletwise/insights/internal/infra/bigquery"
	"github.com/walletwise/insights/internal/insights"
	"github.com/walletwise/insights/internal/jobs"
	jobsmem "github.com/walletwise/insights/internal/jobs/inmemory"
	"github.com/walletwise/insights/internal/logger"
)

func main() {
	var (
		users      = flag.String("users", os.Getenv("ANALYZE_USERS"), "comma-separated user ids to analyze on each tick (or set ANALYZE_USERS)")
		window     = flag.Int("window", 0, "lookback window in days; 0 enqueues every standard window")
		interval   = flag.Duration("interval", time.Hour, "how often to re-enqueue analysis for each user")
		jobTimeout = flag.Duration("job-timeout", 2*time.Minute, "per-job timeout; a timed-out run is retried, never recorded")
	)
	flag.Parse()

	log := logger.New()
	ctx := logger.WithContext(context.Background(), log)

	userIDs := splitUsers(*users)
	if len(userIDs) == 0 {
		log.Fatal().Msg("No users configured; pass -users or set ANALYZE_USERS")
	}

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	runner := insights.NewRunner(repo, nil)

	jobStore := jobsmem.NewStore()
	jobQueue := jobsmem.NewQueue(100, jobStore)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeUserJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("user_id", analyzeJob.UserID).
			Int("window_days", analyzeJob.WindowDays).
			Msg("Processing analysis job")

		runCtx, cancelRun := context.WithTimeout(ctx, *jobTimeout)
		defer cancelRun()

		if _, err := runner.Run(runCtx, analyzeJob.UserID, analyzeJob.WindowDays); err != nil {
			log.Error().
				Err(err).
				Str("job_id", analyzeJob.JobID).
				Str("user_id", analyzeJob.UserID).
				Msg("Analysis run failed")
			return err
		}
		return nil
	}

	if err := jobQueue.Start(workerCtx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().
		Int("users", len(userIDs)).
		Dur("interval", *interval).
		Msg("Worker service started")

	windows := domain.Windows()
	if *window > 0 {
		windows = []int{*window}
	}

	enqueue := func() {
		for _, userID := range userIDs {
			for _, windowDays := range windows {
				job := &jobs.AnalyzeUserJob{
					JobID:      uuid.NewString(),
					UserID:     userID,
					WindowDays: windowDays,
					Status:     jobs.JobStatusPending,
					CreatedAt:  time.Now(),
					MaxRetries: 3,
				}
				if err := jobQueue.PublishAnalyzeUser(workerCtx, job); err != nil {
					log.Error().Err(err).Str("user_id", userID).Msg("Failed to enqueue analysis")
				}
			}
		}
	}
	enqueue()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			enqueue()
		case <-quit:
			log.Info().Msg("Shutting down worker service...")

			cancel()

			stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancelStop()
			if err := jobQueue.Stop(stopCtx); err != nil {
				log.Error().Err(err).Msg("Failed to stop job queue cleanly")
			}

			log.Info().Msg("Worker service stopped")
			return
		}
	}
}

func splitUsers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
