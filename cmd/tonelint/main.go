// tonelint checks catalog content against the recommendation tone gate
// before it ships. It renders each entry's rationale the way the pipeline
// would and reports anything the gate would reject, optionally asking the
// model for a compliant rewrite.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/logger"
	"github.com/walletwise/insights/internal/recommend"
	"github.com/walletwise/insights/internal/synth"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "path to a catalog JSON file (defaults to the built-in demo catalog)")
		suggest     = flag.Bool("suggest", false, "ask the model for rewrites of failing text (needs GEMINI_API_KEY)")
	)
	flag.Parse()

	log := logger.New()
	ctx := logger.WithContext(context.Background(), log)

	entries, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	failures := 0
	for _, entry := range entries {
		for _, p := range entry.Personas {
			text := recommend.BuildRationale(entry, sampleInputs(p))
			err := recommend.CheckTone(text)
			if err == nil {
				continue
			}
			failures++

			fmt.Printf("FAIL  %s (persona %s): %v\n      %s\n", entry.ID, p, err, text)

			if *suggest {
				fixed, fixErr := recommend.SuggestToneFix(ctx, text, err)
				if fixErr != nil {
					log.Warn().Err(fixErr).Str("catalog_id", entry.ID).Msg("No rewrite available")
					continue
				}
				fmt.Printf("      suggestion: %s\n", fixed)
			}
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d rationale(s) would be rejected by the tone gate\n", failures)
		os.Exit(1)
	}
	fmt.Printf("All %d catalog entries pass the tone gate\n", len(entries))
}

func loadCatalog(path string) ([]domain.CatalogEntry, error) {
	if path == "" {
		return synth.Catalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadCatalog: %w", err)
	}
	var entries []domain.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("loadCatalog: parsing %s: %w", path, err)
	}
	return entries, nil
}

// sampleInputs fills every signal with plausible values so each persona's
// template renders through its numeric path instead of the generic
// fallback.
func sampleInputs(p domain.PersonaID) recommend.Inputs {
	return recommend.Inputs{
		Persona: p,
		Signals: domain.SignalSet{
			Subscription: &domain.SubscriptionSignal{
				RecurringMerchantCount: 4,
				MonthlyRecurringSpend:  62.50,
			},
			Savings: &domain.SavingsSignal{
				GrowthRatePct: 4.2,
				NetInflow:     350,
			},
			Credit: &domain.CreditSignal{
				MaxUtilizationPct: 72,
			},
			Income: &domain.IncomeSignal{
				MedianPayGapDays:     14,
				CashFlowBufferMonths: 1.8,
			},
		},
	}
}
