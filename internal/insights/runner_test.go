package insights

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/store/inmemory"
)

var runnerNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return runnerNow }

func seedHighUtilizationUser(s *inmemory.Store) {
	limit := 1000.0
	minPay := 35.0
	s.PutAccounts("u1", []domain.Account{
		{ID: "chk", UserID: "u1", Type: domain.AccountChecking, HolderCategory: domain.HolderIndividual, Balance: 2500},
		{ID: "card", UserID: "u1", Type: domain.AccountCreditCard, HolderCategory: domain.HolderIndividual, Balance: 800, CreditLimit: &limit},
	})
	s.PutLiabilities("u1", []domain.Liability{
		{ID: "liab", UserID: "u1", AccountID: "card", Balance: 800, CreditLimit: &limit, MinimumPayment: &minPay},
	})
	s.PutTransactions("u1", []domain.Transaction{
		{ID: "t1", AccountID: "chk", Amount: 120, Date: runnerNow.AddDate(0, 0, -5), Category: "Groceries"},
	})
	s.SetProfile(domain.UserProfile{UserID: "u1"})
	s.SetConsent("u1", true)
	s.SetCatalog([]domain.CatalogEntry{
		{
			ID:       "edu-utilization",
			Kind:     domain.RecommendationEducation,
			Title:    "Understanding credit utilization",
			Personas: []domain.PersonaID{domain.PersonaHighUtilization},
		},
	})
}

func TestRunEndToEnd(t *testing.T) {
	s := inmemory.NewStore()
	seedHighUtilizationUser(s)
	runner := NewRunner(s, fixedClock)

	trace, err := runner.Run(context.Background(), "u1", 30)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if trace.Persona == nil || trace.Persona.Persona != domain.PersonaHighUtilization {
		t.Fatalf("Persona = %+v, want high_utilization", trace.Persona)
	}
	if trace.SignalCount != 4 {
		t.Errorf("SignalCount = %d, want 4", trace.SignalCount)
	}
	if trace.RecommendationCount != 1 || trace.EducationCount != 1 {
		t.Errorf("counts = (%d education, %d total), want (1, 1)",
			trace.EducationCount, trace.RecommendationCount)
	}
	if !trace.GeneratedAt.Equal(runnerNow) {
		t.Errorf("GeneratedAt = %v, want %v", trace.GeneratedAt, runnerNow)
	}

	// Every stage persisted its output.
	set, _ := s.SignalSet(context.Background(), "u1", 30)
	if set.Credit == nil || set.Credit.MaxUtilizationPct != 80 {
		t.Errorf("stored Credit = %+v, want 80%% utilization", set.Credit)
	}
	stored, _ := s.DecisionTrace(context.Background(), "u1", 30)
	if stored == nil || stored.TraceID != trace.TraceID {
		t.Errorf("stored trace = %+v, want %s", stored, trace.TraceID)
	}
	items, _ := s.Recommendations(context.Background(), "u1", 30)
	if len(items) != 1 || items[0].Status != domain.StatusPending {
		t.Errorf("stored items = %+v, want one pending item", items)
	}
}

// conflictBackend loses the credit signal write race a fixed number of
// times before succeeding.
type conflictBackend struct {
	*inmemory.Store
	failures int
}

func (b *conflictBackend) ReplaceCredit(ctx context.Context, sig *domain.CreditSignal) error {
	if b.failures > 0 {
		b.failures--
		return fmt.Errorf("ReplaceCredit: %w", domain.ErrConcurrentWrite)
	}
	return b.Store.ReplaceCredit(ctx, sig)
}

func TestRunRetriesLostWriteRace(t *testing.T) {
	s := inmemory.NewStore()
	seedHighUtilizationUser(s)
	backend := &conflictBackend{Store: s, failures: 1}
	runner := NewRunner(backend, fixedClock)

	trace, err := runner.Run(context.Background(), "u1", 30)
	if err != nil {
		t.Fatalf("Run after one lost race: %v", err)
	}
	if trace.Persona == nil || trace.Persona.Persona != domain.PersonaHighUtilization {
		t.Errorf("Persona = %+v, want high_utilization", trace.Persona)
	}
}

func TestRunGivesUpAfterRepeatedConflicts(t *testing.T) {
	s := inmemory.NewStore()
	seedHighUtilizationUser(s)
	backend := &conflictBackend{Store: s, failures: conflictRetries + 1}
	runner := NewRunner(backend, fixedClock)

	_, err := runner.Run(context.Background(), "u1", 30)
	if err == nil {
		t.Fatal("Run = nil error, want exhausted retries")
	}
	if !errors.Is(err, domain.ErrConcurrentWrite) {
		t.Errorf("error %v does not wrap ErrConcurrentWrite", err)
	}
}

func TestRunRejectsNonPositiveWindow(t *testing.T) {
	s := inmemory.NewStore()
	seedHighUtilizationUser(s)
	runner := NewRunner(s, fixedClock)

	if _, err := runner.Run(context.Background(), "u1", 0); err == nil {
		t.Fatal("Run with window 0 = nil error, want failure")
	}
}
