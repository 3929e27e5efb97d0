// Package store declares the read/write capabilities the decision core
// consumes. Concrete backends live in internal/infra/bigquery and
// internal/store/inmemory; the core only ever sees these interfaces.
package store

import (
	"context"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// LedgerReader returns a user's ledger data. Implementations should already
// restrict to individual-holder accounts and non-pending transactions inside
// the window; the signal engine filters again defensively.
type LedgerReader interface {
	// LedgerSlice retrieves the user's accounts, liabilities and window
	// transactions in one read.
	LedgerSlice(ctx context.Context, userID string, from, to time.Time) (domain.LedgerSlice, error)
}

// SignalReader returns the (possibly partial) signal bundle for a key.
// Absent kinds come back as nil pointers, never as zeroed records.
type SignalReader interface {
	SignalSet(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error)
}

// SignalStore persists signal records with a uniqueness constraint on
// (user, window, kind). Replace is delete-then-insert; a writer that loses
// a concurrent race gets domain.ErrConcurrentWrite and must retry after
// re-reading.
type SignalStore interface {
	SignalReader

	ReplaceSubscription(ctx context.Context, sig *domain.SubscriptionSignal) error
	ReplaceSavings(ctx context.Context, sig *domain.SavingsSignal) error
	ReplaceCredit(ctx context.Context, sig *domain.CreditSignal) error
	ReplaceIncome(ctx context.Context, sig *domain.IncomeSignal) error
}

// PersonaReader returns the current assignment for a key, or nil when the
// user has never been classified.
type PersonaReader interface {
	PersonaAssignment(ctx context.Context, userID string, windowDays int) (*domain.PersonaAssignment, error)
}

// PersonaStore persists exactly one assignment per (user, window).
type PersonaStore interface {
	PersonaReader

	ReplacePersonaAssignment(ctx context.Context, assignment *domain.PersonaAssignment) error
}

// RecommendationReader returns the items generated for a key.
type RecommendationReader interface {
	Recommendations(ctx context.Context, userID string, windowDays int) ([]domain.RecommendationItem, error)
}

// RecommendationStore persists recommendation items. ReplaceRecommendations
// swaps the full window set; UpdateStatus is the operator-review write-back.
type RecommendationStore interface {
	RecommendationReader

	ReplaceRecommendations(ctx context.Context, userID string, windowDays int, items []domain.RecommendationItem) error
	UpdateRecommendationStatus(ctx context.Context, itemID string, status domain.RecommendationStatus) error
}

// CatalogReader lists the static content catalog. Implementations may
// return entries that fail validation; the recommendation pipeline skips
// those individually.
type CatalogReader interface {
	ListCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error)
}

// ProfileReader returns the user demographics the eligibility screen needs.
// A missing profile is represented as zero-value with nil fields.
type ProfileReader interface {
	UserProfile(ctx context.Context, userID string) (domain.UserProfile, error)
}

// ConsentChecker is the boolean opt-in gate consulted at the service
// boundary. The core itself assumes it is only invoked for consented users.
type ConsentChecker interface {
	HasActiveConsent(ctx context.Context, userID string) (bool, error)
}

// TraceStore persists decision traces. Traces are write-once per export.
type TraceStore interface {
	InsertDecisionTrace(ctx context.Context, trace *domain.DecisionTrace) error
	DecisionTrace(ctx context.Context, userID string, windowDays int) (*domain.DecisionTrace, error)
}
