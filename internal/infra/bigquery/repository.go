package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store"
)

// Repository bundles every table operation behind one shared client so a
// worker run does not open a connection per query.
type Repository struct {
	client *bigquery.Client
}

// NewRepository opens a BigQuery client for the configured project.
// Callers own the repository and must Close it.
func NewRepository(ctx context.Context) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client}, nil
}

func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) LedgerSlice(ctx context.Context, userID string, from, to time.Time) (domain.LedgerSlice, error) {
	return LedgerSliceWithClient(ctx, r.client, userID, from, to)
}

func (r *Repository) UserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return UserProfileWithClient(ctx, r.client, userID)
}

func (r *Repository) HasActiveConsent(ctx context.Context, userID string) (bool, error) {
	return HasActiveConsentWithClient(ctx, r.client, userID)
}

func (r *Repository) SignalSet(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	return SignalSetWithClient(ctx, r.client, userID, windowDays)
}

func (r *Repository) ReplaceSubscription(ctx context.Context, sig *domain.SubscriptionSignal) error {
	return r.replaceSignal(ctx, sig.UserID, sig.WindowDays, domain.SignalSubscription, sig, sig.ComputedAt)
}

func (r *Repository) ReplaceSavings(ctx context.Context, sig *domain.SavingsSignal) error {
	return r.replaceSignal(ctx, sig.UserID, sig.WindowDays, domain.SignalSavings, sig, sig.ComputedAt)
}

func (r *Repository) ReplaceCredit(ctx context.Context, sig *domain.CreditSignal) error {
	return r.replaceSignal(ctx, sig.UserID, sig.WindowDays, domain.SignalCredit, sig, sig.ComputedAt)
}

func (r *Repository) ReplaceIncome(ctx context.Context, sig *domain.IncomeSignal) error {
	return r.replaceSignal(ctx, sig.UserID, sig.WindowDays, domain.SignalIncome, sig, sig.ComputedAt)
}

func (r *Repository) replaceSignal(ctx context.Context, userID string, windowDays int, kind domain.SignalKind, payload interface{}, computedAt time.Time) error {
	row, err := newSignalRow(userID, windowDays, kind, payload, computedAt)
	if err != nil {
		return err
	}
	return ReplaceSignalWithClient(ctx, r.client, row)
}

func (r *Repository) PersonaAssignment(ctx context.Context, userID string, windowDays int) (*domain.PersonaAssignment, error) {
	return PersonaAssignmentWithClient(ctx, r.client, userID, windowDays)
}

func (r *Repository) ReplacePersonaAssignment(ctx context.Context, assignment *domain.PersonaAssignment) error {
	return ReplacePersonaAssignmentWithClient(ctx, r.client, assignment)
}

func (r *Repository) Recommendations(ctx context.Context, userID string, windowDays int) ([]domain.RecommendationItem, error) {
	return RecommendationsWithClient(ctx, r.client, userID, windowDays)
}

func (r *Repository) ReplaceRecommendations(ctx context.Context, userID string, windowDays int, items []domain.RecommendationItem) error {
	return ReplaceRecommendationsWithClient(ctx, r.client, userID, windowDays, items)
}

func (r *Repository) UpdateRecommendationStatus(ctx context.Context, itemID string, status domain.RecommendationStatus) error {
	return UpdateRecommendationStatusWithClient(ctx, r.client, itemID, status)
}

func (r *Repository) ListCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	return ListCatalogEntriesWithClient(ctx, r.client)
}

func (r *Repository) InsertDecisionTrace(ctx context.Context, trace *domain.DecisionTrace) error {
	return InsertDecisionTraceWithClient(ctx, r.client, trace)
}

func (r *Repository) DecisionTrace(ctx context.Context, userID string, windowDays int) (*domain.DecisionTrace, error) {
	return DecisionTraceWithClient(ctx, r.client, userID, windowDays)
}

var (
	_ store.LedgerReader        = (*Repository)(nil)
	_ store.SignalStore         = (*Repository)(nil)
	_ store.PersonaStore        = (*Repository)(nil)
	_ store.RecommendationStore = (*Repository)(nil)
	_ store.CatalogReader       = (*Repository)(nil)
	_ store.ProfileReader       = (*Repository)(nil)
	_ store.ConsentChecker      = (*Repository)(nil)
	_ store.TraceStore          = (*Repository)(nil)
)
