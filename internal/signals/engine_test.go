package signals

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// fakeLedger returns a fixed slice for any user.
type fakeLedger struct {
	slice domain.LedgerSlice
	err   error
}

func (f *fakeLedger) LedgerSlice(ctx context.Context, userID string, from, to time.Time) (domain.LedgerSlice, error) {
	return f.slice, f.err
}

// memSignals records the latest replacement per kind.
type memSignals struct {
	subscription *domain.SubscriptionSignal
	savings      *domain.SavingsSignal
	credit       *domain.CreditSignal
	income       *domain.IncomeSignal
}

func (m *memSignals) SignalSet(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	return domain.SignalSet{
		Subscription: m.subscription,
		Savings:      m.savings,
		Credit:       m.credit,
		Income:       m.income,
	}, nil
}

func (m *memSignals) ReplaceSubscription(ctx context.Context, sig *domain.SubscriptionSignal) error {
	m.subscription = sig
	return nil
}

func (m *memSignals) ReplaceSavings(ctx context.Context, sig *domain.SavingsSignal) error {
	m.savings = sig
	return nil
}

func (m *memSignals) ReplaceCredit(ctx context.Context, sig *domain.CreditSignal) error {
	m.credit = sig
	return nil
}

func (m *memSignals) ReplaceIncome(ctx context.Context, sig *domain.IncomeSignal) error {
	m.income = sig
	return nil
}

func engineFixtureSlice() domain.LedgerSlice {
	return domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk"), savingsAccount("sav", 1000)},
		Transactions: []domain.Transaction{
			subscriptionTx("t1", "chk", "StreamFlix", 9.99, 5),
			payrollTx("p1", 3000, 2),
			payrollTx("p2", 3000, 16),
		},
		Liabilities: []domain.Liability{
			{ID: "l1", UserID: "u1", Balance: 300, CreditLimit: fptr(1000)},
		},
	}
}

func TestComputeAllStoresEveryKind(t *testing.T) {
	sigs := &memSignals{}
	eng := NewEngine(&fakeLedger{slice: engineFixtureSlice()}, sigs, func() time.Time { return testNow })

	set, err := eng.ComputeAll(context.Background(), "u1", 30)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}

	if set.Subscription == nil || set.Savings == nil || set.Credit == nil || set.Income == nil {
		t.Fatal("ComputeAll returned a partial set")
	}
	if sigs.subscription != set.Subscription || sigs.income != set.Income {
		t.Error("stored records differ from returned records")
	}
	if set.Subscription.RecurringMerchantCount != 1 {
		t.Errorf("RecurringMerchantCount = %d, want 1", set.Subscription.RecurringMerchantCount)
	}
	if set.Income.PayrollCount != 2 {
		t.Errorf("PayrollCount = %d, want 2", set.Income.PayrollCount)
	}
}

func TestComputeAllDeterministic(t *testing.T) {
	clock := func() time.Time { return testNow }
	run := func() domain.SignalSet {
		eng := NewEngine(&fakeLedger{slice: engineFixtureSlice()}, &memSignals{}, clock)
		set, err := eng.ComputeAll(context.Background(), "u1", 30)
		if err != nil {
			t.Fatalf("ComputeAll: %v", err)
		}
		return set
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same ledger produced different signals:\n%+v\n%+v", first, second)
	}
}

func TestComputeSingleKind(t *testing.T) {
	sigs := &memSignals{}
	eng := NewEngine(&fakeLedger{slice: engineFixtureSlice()}, sigs, func() time.Time { return testNow })

	if err := eng.Compute(context.Background(), domain.SignalCredit, "u1", 30); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if sigs.credit == nil {
		t.Fatal("credit signal not stored")
	}
	if sigs.subscription != nil || sigs.savings != nil || sigs.income != nil {
		t.Error("Compute touched kinds it was not asked for")
	}
	if got := sigs.credit.MaxUtilizationPct; got != 30 {
		t.Errorf("MaxUtilizationPct = %v, want 30", got)
	}
}

func TestComputeRejectsUnknownKind(t *testing.T) {
	eng := NewEngine(&fakeLedger{}, &memSignals{}, nil)
	if err := eng.Compute(context.Background(), domain.SignalKind("bogus"), "u1", 30); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestComputeRejectsNonPositiveWindow(t *testing.T) {
	eng := NewEngine(&fakeLedger{}, &memSignals{}, nil)
	for _, window := range []int{0, -30} {
		if _, err := eng.ComputeAll(context.Background(), "u1", window); err == nil {
			t.Errorf("window %d: expected error", window)
		}
	}
}
