// Package insights orchestrates one full analysis run per (user, window):
// signals, persona, recommendations, then the decision trace. Individual
// stages stay pure; this package owns the storage round-trips between them.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/logger"
	"github.com/walletwise/insights/internal/persona"
	"github.com/walletwise/insights/internal/recommend"
	"github.com/walletwise/insights/internal/signals"
	"github.com/walletwise/insights/internal/store"
	"github.com/walletwise/insights/internal/trace"
)

// conflictRetries bounds how often a run re-reads and retries after losing
// a signal write race to a concurrent recomputation of the same key.
const conflictRetries = 2

// Backend is the full set of storage capabilities a run needs.
type Backend interface {
	store.LedgerReader
	store.SignalStore
	store.PersonaStore
	store.RecommendationStore
	store.CatalogReader
	store.ProfileReader
	store.TraceStore
}

// Runner executes the pipeline end to end.
type Runner struct {
	backend    Backend
	engine     *signals.Engine
	classifier *persona.Classifier
	generator  *recommend.Generator
	assembler  *trace.Assembler
	now        func() time.Time
}

// NewRunner wires the four components over one backend. now may be nil;
// tests inject a fixed clock that flows into every stage.
func NewRunner(backend Backend, now func() time.Time) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{
		backend:    backend,
		engine:     signals.NewEngine(backend, backend, now),
		classifier: persona.NewClassifier(backend, now),
		generator:  recommend.NewGenerator(backend, now),
		assembler:  trace.NewAssembler(backend, backend, backend, now),
		now:        now,
	}
}

// Run recomputes signals, assigns the persona, regenerates recommendations
// and assembles the decision trace for (userID, windowDays). Callers
// orchestrating many users should wrap ctx with a per-user timeout and
// treat a timeout as retryable, never as a persona verdict.
func (r *Runner) Run(ctx context.Context, userID string, windowDays int) (domain.DecisionTrace, error) {
	log := logger.FromContext(ctx)

	set, err := r.computeSignals(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, err
	}

	assignment, err := r.classifier.Assign(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: assigning persona: %w", err)
	}
	if err := r.backend.ReplacePersonaAssignment(ctx, &assignment); err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: storing persona: %w", err)
	}

	profile, err := r.backend.UserProfile(ctx, userID)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: reading profile: %w", err)
	}

	items, err := r.generator.Generate(ctx, recommend.Inputs{
		UserID:            userID,
		WindowDays:        windowDays,
		Persona:           assignment.Persona,
		Signals:           set,
		Profile:           profile,
		HasSavingsAccount: r.hasSavingsAccount(ctx, userID, windowDays),
	})
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: generating recommendations: %w", err)
	}
	if err := r.backend.ReplaceRecommendations(ctx, userID, windowDays, items); err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: storing recommendations: %w", err)
	}

	decisionTrace, err := r.assembler.Build(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: assembling trace: %w", err)
	}
	if err := r.backend.InsertDecisionTrace(ctx, &decisionTrace); err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Run: storing trace: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Int("window_days", windowDays).
		Str("persona", string(assignment.Persona)).
		Int("recommendations", len(items)).
		Msg("Analysis run completed")

	return decisionTrace, nil
}

// computeSignals recomputes all four kinds, retrying a bounded number of
// times when a concurrent recomputation of the same key wins the write
// race.
func (r *Runner) computeSignals(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		set, err := r.engine.ComputeAll(ctx, userID, windowDays)
		if err == nil {
			return set, nil
		}
		if !errors.Is(err, domain.ErrConcurrentWrite) {
			return domain.SignalSet{}, fmt.Errorf("computeSignals: %w", err)
		}
		lastErr = err
		log.Warn().
			Str("user_id", userID).
			Int("window_days", windowDays).
			Int("attempt", attempt+1).
			Msg("Signal write lost a concurrent race, re-reading and retrying")
	}
	return domain.SignalSet{}, fmt.Errorf("computeSignals: retries exhausted: %w", lastErr)
}

// hasSavingsAccount feeds the "no existing savings account" eligibility
// criterion. A ledger read failure reports true so the criterion fails
// closed instead of approving an offer on missing data.
func (r *Runner) hasSavingsAccount(ctx context.Context, userID string, windowDays int) bool {
	now := r.now()
	slice, err := r.backend.LedgerSlice(ctx, userID, now.AddDate(0, 0, -windowDays), now)
	if err != nil {
		return true
	}
	for _, a := range slice.Accounts {
		if a.Type == domain.AccountSavings && a.HolderCategory != domain.HolderBusiness {
			return true
		}
	}
	return false
}
