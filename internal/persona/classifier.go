// Package persona assigns one deterministic behavioral label per
// (user, window) by walking an ordered rule chain; the first predicate
// that matches wins.
package persona

import (
	"context"
	"fmt"
	"time"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store"
)

// Classifier evaluates the rule chain against a user's signal bundle.
type Classifier struct {
	signals store.SignalReader
	now     func() time.Time
}

// NewClassifier creates a classifier. now may be nil; tests inject a fixed
// clock.
func NewClassifier(signals store.SignalReader, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{signals: signals, now: now}
}

// Assign reads the signal bundle for (userID, windowDays) and classifies it.
// The result is pure: identical signals always yield the identical persona
// and evidence.
func (c *Classifier) Assign(ctx context.Context, userID string, windowDays int) (domain.PersonaAssignment, error) {
	set, err := c.signals.SignalSet(ctx, userID, windowDays)
	if err != nil {
		return domain.PersonaAssignment{}, fmt.Errorf("Assign: reading signals: %w", err)
	}
	return Classify(userID, windowDays, set, c.now()), nil
}

// Classify walks the rule chain over an already loaded bundle. When no rule
// fires, or no signal record exists at all, the result is insufficient_data
// with evidence distinguishing the two cases.
func Classify(userID string, windowDays int, set domain.SignalSet, now time.Time) domain.PersonaAssignment {
	for _, rule := range Rules() {
		matched, evidence, fired := rule.Match(set)
		if !matched {
			continue
		}
		return domain.PersonaAssignment{
			UserID:            userID,
			WindowDays:        windowDays,
			Persona:           rule.Persona,
			CriteriaMet:       evidence,
			MatchedConditions: fired,
			AssignedAt:        now,
		}
	}

	evidence := map[string]interface{}{}
	if set.Empty() {
		evidence["reason"] = "no_signals_present"
	} else {
		evidence["reason"] = "no_rule_matched"
		present := set.PresentKinds()
		kinds := make([]string, 0, len(present))
		for _, k := range present {
			kinds = append(kinds, string(k))
		}
		evidence["signals_present"] = kinds
	}

	return domain.PersonaAssignment{
		UserID:      userID,
		WindowDays:  windowDays,
		Persona:     domain.PersonaInsufficientData,
		CriteriaMet: evidence,
		AssignedAt:  now,
	}
}
