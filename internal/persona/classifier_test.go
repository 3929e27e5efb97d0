package persona

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func highUtilCredit() *domain.CreditSignal {
	return &domain.CreditSignal{
		UserID: "u1", WindowDays: 30,
		CardCount: 1, MaxUtilizationPct: 85,
		Utilization30Flag: true, Utilization50Flag: true, Utilization80Flag: true,
	}
}

func heavySubscription() *domain.SubscriptionSignal {
	return &domain.SubscriptionSignal{
		UserID: "u1", WindowDays: 30,
		RecurringMerchantCount: 4,
		MonthlyRecurringSpend:  80,
		SubscriptionShare:      0.2,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// A user matching both high_utilization and subscription_heavy must get
	// high_utilization: the chain order decides, not match strength.
	set := domain.SignalSet{
		Credit:       highUtilCredit(),
		Subscription: heavySubscription(),
	}

	got := Classify("u1", 30, set, testNow)

	if got.Persona != domain.PersonaHighUtilization {
		t.Fatalf("Persona = %s, want %s", got.Persona, domain.PersonaHighUtilization)
	}
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name string
		set  domain.SignalSet
		want domain.PersonaID
	}{
		{
			name: "high utilization via interest charges alone",
			set: domain.SignalSet{
				Credit: &domain.CreditSignal{MaxUtilizationPct: 10, HasInterestCharges: true},
			},
			want: domain.PersonaHighUtilization,
		},
		{
			name: "variable income budgeter",
			set: domain.SignalSet{
				Income: &domain.IncomeSignal{
					PayrollCount:         3,
					MedianPayGapDays:     50,
					CashFlowBufferMonths: 0.4,
				},
			},
			want: domain.PersonaVariableIncomeBudgeter,
		},
		{
			name: "subscription heavy",
			set:  domain.SignalSet{Subscription: heavySubscription()},
			want: domain.PersonaSubscriptionHeavy,
		},
		{
			name: "subscription count below minimum",
			set: domain.SignalSet{
				Subscription: &domain.SubscriptionSignal{
					RecurringMerchantCount: 2,
					MonthlyRecurringSpend:  120,
					SubscriptionShare:      0.3,
				},
			},
			want: domain.PersonaInsufficientData,
		},
		{
			name: "savings builder with low utilization",
			set: domain.SignalSet{
				Savings: &domain.SavingsSignal{GrowthRatePct: 5, NetInflow: 400},
				Credit:  &domain.CreditSignal{MaxUtilizationPct: 10},
			},
			want: domain.PersonaSavingsBuilder,
		},
		{
			name: "savings builder without credit data",
			set: domain.SignalSet{
				Savings: &domain.SavingsSignal{GrowthRatePct: 5, NetInflow: 400},
			},
			want: domain.PersonaSavingsBuilder,
		},
		{
			name: "savings growth blocked by utilization",
			set: domain.SignalSet{
				Savings: &domain.SavingsSignal{GrowthRatePct: 5, NetInflow: 400},
				Credit:  &domain.CreditSignal{MaxUtilizationPct: 40},
			},
			want: domain.PersonaInsufficientData,
		},
		{
			name: "cash flow optimizer",
			set: domain.SignalSet{
				Income: &domain.IncomeSignal{
					PayrollCount:         2,
					MedianPayGapDays:     14,
					CashFlowBufferMonths: 0.7,
				},
			},
			want: domain.PersonaCashFlowOptimizer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("u1", 30, tt.set, testNow)
			if got.Persona != tt.want {
				t.Errorf("Persona = %s, want %s", got.Persona, tt.want)
			}
		})
	}
}

func TestClassifyInsufficientDataEvidence(t *testing.T) {
	// No signals at all.
	empty := Classify("u1", 30, domain.SignalSet{}, testNow)
	if empty.Persona != domain.PersonaInsufficientData {
		t.Fatalf("Persona = %s, want insufficient_data", empty.Persona)
	}
	if empty.CriteriaMet["reason"] != "no_signals_present" {
		t.Errorf("reason = %v, want no_signals_present", empty.CriteriaMet["reason"])
	}

	// Signals present, nothing fired.
	quiet := Classify("u1", 30, domain.SignalSet{
		Credit: &domain.CreditSignal{MaxUtilizationPct: 5},
	}, testNow)
	if quiet.Persona != domain.PersonaInsufficientData {
		t.Fatalf("Persona = %s, want insufficient_data", quiet.Persona)
	}
	if quiet.CriteriaMet["reason"] != "no_rule_matched" {
		t.Errorf("reason = %v, want no_rule_matched", quiet.CriteriaMet["reason"])
	}
	if kinds, ok := quiet.CriteriaMet["signals_present"].([]string); !ok || len(kinds) != 1 || kinds[0] != "credit" {
		t.Errorf("signals_present = %v, want [credit]", quiet.CriteriaMet["signals_present"])
	}
}

func TestClassifyDeterministic(t *testing.T) {
	set := domain.SignalSet{
		Credit:       highUtilCredit(),
		Subscription: heavySubscription(),
		Income:       &domain.IncomeSignal{PayrollCount: 2, CashFlowBufferMonths: 0.8},
	}

	first := Classify("u1", 30, set, testNow)
	second := Classify("u1", 30, set, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical signals produced different assignments:\n%+v\n%+v", first, second)
	}
}

func TestClassifyRecordsEvidence(t *testing.T) {
	got := Classify("u1", 30, domain.SignalSet{Credit: highUtilCredit()}, testNow)

	if got.CriteriaMet["max_utilization_pct"] != 85.0 {
		t.Errorf("max_utilization_pct = %v, want 85", got.CriteriaMet["max_utilization_pct"])
	}
	found := false
	for _, c := range got.MatchedConditions {
		if c == "max_utilization_at_or_above_50" {
			found = true
		}
	}
	if !found {
		t.Errorf("MatchedConditions = %v, missing max_utilization_at_or_above_50", got.MatchedConditions)
	}
}

// fixedSignals feeds a static bundle to the classifier.
type fixedSignals struct {
	set domain.SignalSet
}

func (f *fixedSignals) SignalSet(ctx context.Context, userID string, windowDays int) (domain.SignalSet, error) {
	return f.set, nil
}

func TestAssignReadsStore(t *testing.T) {
	c := NewClassifier(&fixedSignals{set: domain.SignalSet{Credit: highUtilCredit()}}, func() time.Time { return testNow })

	got, err := c.Assign(context.Background(), "u1", 30)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got.Persona != domain.PersonaHighUtilization {
		t.Errorf("Persona = %s, want high_utilization", got.Persona)
	}
	if !got.AssignedAt.Equal(testNow) {
		t.Errorf("AssignedAt = %v, want %v", got.AssignedAt, testNow)
	}
}
