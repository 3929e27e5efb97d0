// Package trace flattens the current persona, signals and recommendations
// for one (user, window) into a single auditable record. It is a read-only
// projection: nothing is recomputed here.
package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store"
)

// Assembler builds decision traces from the current stored state.
type Assembler struct {
	personas store.PersonaReader
	signals  store.SignalReader
	recs     store.RecommendationReader
	now      func() time.Time
}

// NewAssembler creates an assembler. now may be nil; tests inject a fixed
// clock.
func NewAssembler(personas store.PersonaReader, signals store.SignalReader, recs store.RecommendationReader, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{personas: personas, signals: signals, recs: recs, now: now}
}

// Build assembles the trace for (userID, windowDays). Absent signals stay
// null in the output; a user with no persona assignment yields a trace with
// a null persona rather than an error.
func (a *Assembler) Build(ctx context.Context, userID string, windowDays int) (domain.DecisionTrace, error) {
	assignment, err := a.personas.PersonaAssignment(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Build: reading persona: %w", err)
	}

	set, err := a.signals.SignalSet(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Build: reading signals: %w", err)
	}

	items, err := a.recs.Recommendations(ctx, userID, windowDays)
	if err != nil {
		return domain.DecisionTrace{}, fmt.Errorf("Build: reading recommendations: %w", err)
	}

	var educationCount, offerCount int
	for _, item := range items {
		switch item.Kind {
		case domain.RecommendationEducation:
			educationCount++
		case domain.RecommendationOffer:
			offerCount++
		}
	}

	return domain.DecisionTrace{
		TraceID:             uuid.NewString(),
		UserID:              userID,
		WindowDays:          windowDays,
		Persona:             assignment,
		Signals:             set,
		Recommendations:     items,
		SignalCount:         len(set.PresentKinds()),
		EducationCount:      educationCount,
		OfferCount:          offerCount,
		RecommendationCount: len(items),
		GeneratedAt:         a.now(),
	}, nil
}
