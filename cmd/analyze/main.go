package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/export"
	infraBQ "github.com/walletwise/insights/internal/infra/bigquery"
	"github.com/walletwise/insights/internal/insights"
	"github.com/walletwise/insights/internal/logger"
	"github.com/walletwise/insights/internal/reviewsync"
	"github.com/walletwise/insights/internal/store/inmemory"
	"github.com/walletwise/insights/internal/synth"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runAnalysis(log)
	case "demo":
		runDemo(log)
	case "export":
		runExport(log)
	case "review-push":
		runReviewPush(log)
	case "review-pull":
		runReviewPull(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Insights CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  analyze <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  run          Run the full analysis for one user and print the trace")
	fmt.Println("  demo         Run the analysis against a seeded synthetic ledger")
	fmt.Println("  export       Export a user's latest trace to Cloud Storage")
	fmt.Println("  review-push  Push a user's recommendations to the Notion review board")
	fmt.Println("  review-pull  Pull operator verdicts from the review board")
	fmt.Println("  help         Show this help message")
	fmt.Println("\nRun 'analyze <command> -h' for more information on a command.")
}

func runAnalysis(log zerolog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	userID := fs.String("user", "", "user id to analyze")
	window := fs.Int("window", 30, "lookback window in days")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}

	ctx := logger.WithContext(context.Background(), log)

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	consented, err := repo.HasActiveConsent(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check consent")
	}
	if !consented {
		log.Fatal().Str("user_id", *userID).Msg("User has not opted in to analysis")
	}

	runner := insights.NewRunner(repo, nil)
	trace, err := runner.Run(ctx, *userID, *window)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis run failed")
	}

	printTrace(log, trace)
}

func runDemo(log zerolog.Logger) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "random seed for the synthetic ledger")
	window := fs.Int("window", 30, "lookback window in days")
	profile := fs.String("profile", "high-utilization", "synthetic profile: high-utilization, subscription-heavy, variable-income, savings-builder")
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)

	const userID = "demo-user"
	now := time.Now()

	gen := synth.NewGenerator(*seed)
	slice := gen.Ledger(userID, *window, now, demoProfile(*profile))

	db := inmemory.NewStore()
	db.PutAccounts(userID, slice.Accounts)
	db.PutLiabilities(userID, slice.Liabilities)
	db.PutTransactions(userID, slice.Transactions)
	age, score := 34, 700
	db.SetProfile(domain.UserProfile{UserID: userID, Age: &age, CreditScore: &score})
	db.SetConsent(userID, true)
	db.SetCatalog(synth.Catalog())

	runner := insights.NewRunner(db, func() time.Time { return now })
	trace, err := runner.Run(ctx, userID, *window)
	if err != nil {
		log.Fatal().Err(err).Msg("Demo run failed")
	}

	printTrace(log, trace)
}

func demoProfile(name string) synth.Profile {
	switch name {
	case "subscription-heavy":
		return synth.Profile{
			Subscriptions:  5,
			MonthlyPayroll: 3200,
		}
	case "variable-income":
		return synth.Profile{
			Subscriptions:    1,
			MonthlyPayroll:   2800,
			PayrollJitterPct: 0.4,
		}
	case "savings-builder":
		return synth.Profile{
			Subscriptions:  1,
			MonthlyPayroll: 3500,
			SavingsBalance: 4000,
			SavingsMonthly: 300,
		}
	default:
		return synth.Profile{
			Subscriptions:   2,
			MonthlyPayroll:  3000,
			CardUtilization: 0.85,
		}
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	userID := fs.String("user", "", "user id whose latest trace to export")
	window := fs.Int("window", 30, "lookback window in days")
	bucket := fs.String("bucket", os.Getenv("TRACE_BUCKET"), "GCS bucket for trace objects (or set TRACE_BUCKET)")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}
	if *bucket == "" {
		log.Fatal().Msg("-bucket is required")
	}

	ctx := logger.WithContext(context.Background(), log)

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	trace, err := repo.DecisionTrace(ctx, *userID, *window)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read trace")
	}
	if trace == nil {
		log.Fatal().Str("user_id", *userID).Int("window_days", *window).Msg("No trace for this window")
	}

	writer, err := export.NewGCSTraceWriter(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trace writer")
	}
	defer writer.Close()

	name, err := export.NewExporter(writer).Export(ctx, trace)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	log.Info().
		Str("trace_id", trace.TraceID).
		Str("object", fmt.Sprintf("gs://%s/%s", *bucket, name)).
		Msg("Trace exported")
}

func runReviewPush(log zerolog.Logger) {
	fs := flag.NewFlagSet("review-push", flag.ExitOnError)
	userID := fs.String("user", "", "user id whose recommendations to push")
	window := fs.Int("window", 30, "lookback window in days")
	token := fs.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN)")
	database := fs.String("notion-db", os.Getenv("NOTION_REVIEW_DB"), "Notion review database id (or set NOTION_REVIEW_DB)")
	dryRun := fs.Bool("dry-run", false, "log what would change without writing")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}
	if *token == "" || *database == "" {
		log.Fatal().Msg("-notion-token and -notion-db are required")
	}

	ctx := logger.WithContext(context.Background(), log)

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	items, err := repo.Recommendations(ctx, *userID, *window)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read recommendations")
	}

	notion := reviewsync.NewNotionClient(*token)
	if err := reviewsync.PushItems(ctx, notion, *database, items, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Review push failed")
	}
}

func runReviewPull(log zerolog.Logger) {
	fs := flag.NewFlagSet("review-pull", flag.ExitOnError)
	token := fs.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN)")
	database := fs.String("notion-db", os.Getenv("NOTION_REVIEW_DB"), "Notion review database id (or set NOTION_REVIEW_DB)")
	dryRun := fs.Bool("dry-run", false, "log what would change without writing")
	fs.Parse(os.Args[2:])

	if *token == "" || *database == "" {
		log.Fatal().Msg("-notion-token and -notion-db are required")
	}

	ctx := logger.WithContext(context.Background(), log)

	repo, err := infraBQ.NewRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	notion := reviewsync.NewNotionClient(*token)
	if err := reviewsync.PullVerdicts(ctx, notion, *database, repo, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Review pull failed")
	}
}

func printTrace(log zerolog.Logger, trace domain.DecisionTrace) {
	out, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal trace")
	}
	fmt.Println(string(out))
}
