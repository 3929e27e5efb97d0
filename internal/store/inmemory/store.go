// Package inmemory is a mutex-guarded implementation of every store
// interface. It backs tests and single-instance local runs; data is lost on
// restart. The per-store mutex is what provides the (user, window, kind)
// uniqueness guarantee here; the BigQuery backend relies on its table
// constraint instead.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

type signalKey struct {
	userID     string
	windowDays int
}

// Store holds all ledger, signal, persona, recommendation, catalog and
// consent state in memory. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	accounts     map[string][]domain.Account     // userID -> accounts
	liabilities  map[string][]domain.Liability   // userID -> liabilities
	transactions map[string][]domain.Transaction // userID -> transactions
	profiles     map[string]domain.UserProfile
	consent      map[string]bool

	signals map[signalKey]domain.SignalSet
	personas map[signalKey]domain.PersonaAssignment
	recs     map[signalKey][]domain.RecommendationItem
	traces   map[signalKey][]domain.DecisionTrace

	catalog []domain.CatalogEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string][]domain.Account),
		liabilities:  make(map[string][]domain.Liability),
		transactions: make(map[string][]domain.Transaction),
		profiles:     make(map[string]domain.UserProfile),
		consent:      make(map[string]bool),
		signals:      make(map[signalKey]domain.SignalSet),
		personas:     make(map[signalKey]domain.PersonaAssignment),
		recs:         make(map[signalKey][]domain.RecommendationItem),
		traces:       make(map[signalKey][]domain.DecisionTrace),
	}
}

// ---- seeding (the ingestion collaborator's write surface) ----

// PutAccounts replaces a user's accounts.
func (s *Store) PutAccounts(userID string, accounts []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = append([]domain.Account(nil), accounts...)
}

// PutLiabilities replaces a user's liabilities.
func (s *Store) PutLiabilities(userID string, liabilities []domain.Liability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liabilities[userID] = append([]domain.Liability(nil), liabilities...)
}

// PutTransactions replaces a user's transactions.
func (s *Store) PutTransactions(userID string, txs []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[userID] = append([]domain.Transaction(nil), txs...)
}

// SetProfile stores a user's demographics.
func (s *Store) SetProfile(profile domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

// SetConsent records the opt-in flag for a user.
func (s *Store) SetConsent(userID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consent[userID] = active
}

// SetCatalog replaces the content catalog.
func (s *Store) SetCatalog(entries []domain.CatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append([]domain.CatalogEntry(nil), entries...)
}

// ---- store.LedgerReader ----

// LedgerSlice returns the user's individual-holder accounts, liabilities
// and non-pending transactions dated inside [from, to].
func (s *Store) LedgerSlice(ctx context.Context, userID string, from, to time.Time) (domain.LedgerSlice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var slice domain.LedgerSlice
	for _, a := range s.accounts[userID] {
		if a.HolderCategory == domain.HolderBusiness {
			continue
		}
		slice.Accounts = append(slice.Accounts, a)
	}
	slice.Liabilities = append(slice.Liabilities, s.liabilities[userID]...)
	for _, t := range s.transactions[userID] {
		if t.Pending {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		slice.Transactions = append(slice.Transactions, t)
	}
	return slice, nil
}

// ---- store.SignalStore ----

// SignalSet returns the stored bundle; absent kinds stay nil.
func (s *Store) SignalSet(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.signals[signalKey{userID, windowDays}]
	out := domain.SignalSet{}
	if set.Subscription != nil {
		cp := *set.Subscription
		out.Subscription = &cp
	}
	if set.Savings != nil {
		cp := *set.Savings
		out.Savings = &cp
	}
	if set.Credit != nil {
		cp := *set.Credit
		out.Credit = &cp
	}
	if set.Income != nil {
		cp := *set.Income
		out.Income = &cp
	}
	return out, nil
}

// ReplaceSubscription swaps the stored subscription record atomically.
func (s *Store) ReplaceSubscription(ctx context.Context, sig *domain.SubscriptionSignal) error {
	if sig == nil {
		return fmt.Errorf("ReplaceSubscription: nil signal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{sig.UserID, sig.WindowDays}
	set := s.signals[key]
	cp := *sig
	set.Subscription = &cp
	s.signals[key] = set
	return nil
}

// ReplaceSavings swaps the stored savings record atomically.
func (s *Store) ReplaceSavings(ctx context.Context, sig *domain.SavingsSignal) error {
	if sig == nil {
		return fmt.Errorf("ReplaceSavings: nil signal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{sig.UserID, sig.WindowDays}
	set := s.signals[key]
	cp := *sig
	set.Savings = &cp
	s.signals[key] = set
	return nil
}

// ReplaceCredit swaps the stored credit record atomically.
func (s *Store) ReplaceCredit(ctx context.Context, sig *domain.CreditSignal) error {
	if sig == nil {
		return fmt.Errorf("ReplaceCredit: nil signal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{sig.UserID, sig.WindowDays}
	set := s.signals[key]
	cp := *sig
	set.Credit = &cp
	s.signals[key] = set
	return nil
}

// ReplaceIncome swaps the stored income record atomically.
func (s *Store) ReplaceIncome(ctx context.Context, sig *domain.IncomeSignal) error {
	if sig == nil {
		return fmt.Errorf("ReplaceIncome: nil signal")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{sig.UserID, sig.WindowDays}
	set := s.signals[key]
	cp := *sig
	set.Income = &cp
	s.signals[key] = set
	return nil
}

// ---- store.PersonaStore ----

// PersonaAssignment returns the current assignment, or nil.
func (s *Store) PersonaAssignment(ctx context.Context, userID string, windowDays int) (*domain.PersonaAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.personas[signalKey{userID, windowDays}]
	if !ok {
		return nil, nil
	}
	cp := a
	return &cp, nil
}

// ReplacePersonaAssignment swaps the assignment for (user, window).
func (s *Store) ReplacePersonaAssignment(ctx context.Context, assignment *domain.PersonaAssignment) error {
	if assignment == nil {
		return fmt.Errorf("ReplacePersonaAssignment: nil assignment")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas[signalKey{assignment.UserID, assignment.WindowDays}] = *assignment
	return nil
}

// ---- store.RecommendationStore ----

// Recommendations returns the window's items in insertion order.
func (s *Store) Recommendations(ctx context.Context, userID string, windowDays int) ([]domain.RecommendationItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RecommendationItem(nil), s.recs[signalKey{userID, windowDays}]...), nil
}

// ReplaceRecommendations swaps the full item set for (user, window).
func (s *Store) ReplaceRecommendations(ctx context.Context, userID string, windowDays int, items []domain.RecommendationItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[signalKey{userID, windowDays}] = append([]domain.RecommendationItem(nil), items...)
	return nil
}

// UpdateRecommendationStatus is the operator-review write-back.
func (s *Store) UpdateRecommendationStatus(ctx context.Context, itemID string, status domain.RecommendationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, items := range s.recs {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Status = status
				s.recs[key] = items
				return nil
			}
		}
	}
	return fmt.Errorf("UpdateRecommendationStatus: item not found: %s", itemID)
}

// ---- store.CatalogReader ----

// ListCatalogEntries returns the catalog in configured order.
func (s *Store) ListCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CatalogEntry(nil), s.catalog...), nil
}

// ---- store.ProfileReader ----

// UserProfile returns the stored demographics; unknown users get a profile
// with every optional field nil.
func (s *Store) UserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{UserID: userID}, nil
	}
	return p, nil
}

// ---- store.ConsentChecker ----

// HasActiveConsent returns the opt-in flag; unknown users have no consent.
func (s *Store) HasActiveConsent(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consent[userID], nil
}

// ---- store.TraceStore ----

// InsertDecisionTrace appends a write-once trace export.
func (s *Store) InsertDecisionTrace(ctx context.Context, trace *domain.DecisionTrace) error {
	if trace == nil {
		return fmt.Errorf("InsertDecisionTrace: nil trace")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{trace.UserID, trace.WindowDays}
	for _, existing := range s.traces[key] {
		if existing.TraceID == trace.TraceID {
			return fmt.Errorf("InsertDecisionTrace: trace %s already exists", trace.TraceID)
		}
	}
	s.traces[key] = append(s.traces[key], *trace)
	return nil
}

// DecisionTrace returns the most recent export for (user, window), or nil.
func (s *Store) DecisionTrace(ctx context.Context, userID string, windowDays int) (*domain.DecisionTrace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exports := s.traces[signalKey{userID, windowDays}]
	if len(exports) == 0 {
		return nil, nil
	}
	sorted := append([]domain.DecisionTrace(nil), exports...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GeneratedAt.Before(sorted[j].GeneratedAt)
	})
	cp := sorted[len(sorted)-1]
	return &cp, nil
}
