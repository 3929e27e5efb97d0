// Package signals computes the four behavioral signal records from a user's
// ledger slice. Every computator is a total function: missing accounts or
// transactions produce a zeroed record, not an error.
package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store"
)

// Engine wires the computators to a ledger reader and a signal store.
type Engine struct {
	ledger store.LedgerReader
	sigs   store.SignalStore
	now    func() time.Time
}

// NewEngine creates an engine. now may be nil, in which case time.Now is
// used; tests inject a fixed clock for deterministic output.
func NewEngine(ledger store.LedgerReader, sigs store.SignalStore, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{ledger: ledger, sigs: sigs, now: now}
}

// Compute recomputes one signal kind for (userID, windowDays) and replaces
// the stored record. A lost write race surfaces domain.ErrConcurrentWrite;
// the caller retries after re-reading.
func (e *Engine) Compute(ctx context.Context, kind domain.SignalKind, userID string, windowDays int) error {
	slice, now, err := e.readSlice(ctx, userID, windowDays)
	if err != nil {
		return err
	}

	switch kind {
	case domain.SignalSubscription:
		return e.sigs.ReplaceSubscription(ctx, ComputeSubscription(userID, windowDays, slice, now))
	case domain.SignalSavings:
		return e.sigs.ReplaceSavings(ctx, ComputeSavings(userID, windowDays, slice, now))
	case domain.SignalCredit:
		return e.sigs.ReplaceCredit(ctx, ComputeCredit(userID, windowDays, slice, now))
	case domain.SignalIncome:
		return e.sigs.ReplaceIncome(ctx, ComputeIncome(userID, windowDays, slice, now))
	default:
		return fmt.Errorf("Compute: unknown signal kind %q", kind)
	}
}

// ComputeAll recomputes all four kinds from a single ledger read and
// returns the fresh bundle.
func (e *Engine) ComputeAll(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	slice, now, err := e.readSlice(ctx, userID, windowDays)
	if err != nil {
		return domain.SignalSet{}, err
	}

	set := domain.SignalSet{
		Subscription: ComputeSubscription(userID, windowDays, slice, now),
		Savings:      ComputeSavings(userID, windowDays, slice, now),
		Credit:       ComputeCredit(userID, windowDays, slice, now),
		Income:       ComputeIncome(userID, windowDays, slice, now),
	}

	if err := e.sigs.ReplaceSubscription(ctx, set.Subscription); err != nil {
		return domain.SignalSet{}, fmt.Errorf("ComputeAll: subscription: %w", err)
	}
	if err := e.sigs.ReplaceSavings(ctx, set.Savings); err != nil {
		return domain.SignalSet{}, fmt.Errorf("ComputeAll: savings: %w", err)
	}
	if err := e.sigs.ReplaceCredit(ctx, set.Credit); err != nil {
		return domain.SignalSet{}, fmt.Errorf("ComputeAll: credit: %w", err)
	}
	if err := e.sigs.ReplaceIncome(ctx, set.Income); err != nil {
		return domain.SignalSet{}, fmt.Errorf("ComputeAll: income: %w", err)
	}
	return set, nil
}

func (e *Engine) readSlice(ctx context.Context, userID string, windowDays int) (domain.LedgerSlice, time.Time, error) {
	if windowDays <= 0 {
		return domain.LedgerSlice{}, time.Time{}, fmt.Errorf("readSlice: window must be positive, got %d", windowDays)
	}

	now := e.now()
	from := now.AddDate(0, 0, -windowDays)

	slice, err := e.ledger.LedgerSlice(ctx, userID, from, now)
	if err != nil {
		return domain.LedgerSlice{}, time.Time{}, fmt.Errorf("readSlice: %w", err)
	}
	return slice, now, nil
}
