// Package recommend filters the content catalog through the guardrail
// pipeline: safety, eligibility, rationale synthesis, tone check and
// disclosure attachment. Failing candidates are dropped, never rewritten,
// in the hot path.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/logger"
	"github.com/walletwise/insights/internal/store"
)

// Candidate caps per window, in catalog order.
const (
	MaxEducationItems = 5
	MaxOfferItems     = 3
)

// Inputs bundles everything the guardrails evaluate for one user.
type Inputs struct {
	UserID            string
	WindowDays        int
	Persona           domain.PersonaID
	Signals           domain.SignalSet
	Profile           domain.UserProfile
	HasSavingsAccount bool
}

// Generator runs the pipeline against a content catalog.
type Generator struct {
	catalog store.CatalogReader
	now     func() time.Time
}

// NewGenerator creates a generator. now may be nil; tests inject a fixed
// clock.
func NewGenerator(catalog store.CatalogReader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{catalog: catalog, now: now}
}

// Generate filters the catalog to entries tagged with the persona and runs
// each through the guardrails, in catalog order, up to the per-kind caps.
// One malformed catalog entry is skipped with a warning and never aborts
// the remainder. Every returned item carries a non-empty rationale and
// disclosure.
func (g *Generator) Generate(ctx context.Context, in Inputs) ([]domain.RecommendationItem, error) {
	log := logger.FromContext(ctx)

	entries, err := g.catalog.ListCatalogEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("Generate: listing catalog: %w", err)
	}

	now := g.now()
	items := make([]domain.RecommendationItem, 0, MaxEducationItems+MaxOfferItems)
	var educationCount, offerCount int

	for _, entry := range entries {
		if !entry.AppliesTo(in.Persona) {
			continue
		}
		if entry.Kind == domain.RecommendationEducation && educationCount >= MaxEducationItems {
			continue
		}
		if entry.Kind == domain.RecommendationOffer && offerCount >= MaxOfferItems {
			continue
		}

		if err := validateEntry(entry); err != nil {
			log.Warn().Err(err).Str("catalog_id", entry.ID).Msg("Skipping malformed catalog entry")
			continue
		}

		decision := domain.GuardrailDecision{SafetyPassed: true, EligibilityPassed: true}

		if err := CheckSafety(entry); err != nil {
			log.Debug().Err(err).Str("catalog_id", entry.ID).Msg("Offer failed safety screen")
			continue
		}

		elig := CheckEligibility(entry, in)
		decision.CriteriaChecked = elig.CriteriaChecked
		if !elig.Eligible {
			log.Debug().
				Str("catalog_id", entry.ID).
				Strs("reasons", elig.Reasons).
				Msg("Offer failed eligibility screen")
			continue
		}

		rationale := BuildRationale(entry, in)
		if err := CheckTone(rationale); err != nil {
			log.Warn().Err(err).Str("catalog_id", entry.ID).Msg("Dropping item that failed tone check")
			continue
		}
		decision.TonePassed = true

		item := domain.RecommendationItem{
			ID:         uuid.NewString(),
			UserID:     in.UserID,
			WindowDays: in.WindowDays,
			Persona:    in.Persona,
			Kind:       entry.Kind,
			CatalogID:  entry.ID,
			Title:      entry.Title,
			Rationale:  rationale,
			Decision:   decision,
			Status:     domain.StatusPending,
			CreatedAt:  now,
		}
		AttachDisclosure(&item)

		items = append(items, item)
		switch entry.Kind {
		case domain.RecommendationEducation:
			educationCount++
		case domain.RecommendationOffer:
			offerCount++
		}
	}
	return items, nil
}
