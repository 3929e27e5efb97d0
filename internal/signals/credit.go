package signals

import (
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// Utilization flag thresholds, in percent.
const (
	utilizationFlag30 = 30.0
	utilizationFlag50 = 50.0
	utilizationFlag80 = 80.0
)

// minimumPaymentTolerance absorbs rounding between the reported minimum
// payment and the actual charge: a last payment within 110% of the minimum
// still counts as minimum-only.
const minimumPaymentTolerance = 1.10

// ComputeCredit reduces the liabilities and ledger slice into the credit
// signal for one (user, window). Cards with a missing or zero limit are
// skipped in utilization math.
func ComputeCredit(userID string, windowDays int, slice domain.LedgerSlice, now time.Time) *domain.CreditSignal {
	sig := &domain.CreditSignal{
		UserID:     userID,
		WindowDays: windowDays,
		ComputedAt: now,
	}

	if len(slice.Liabilities) == 0 {
		return sig
	}

	business := make(map[string]bool)
	for _, a := range slice.Accounts {
		if a.HolderCategory == domain.HolderBusiness {
			business[a.ID] = true
		}
	}

	var (
		utilizations []float64
		sum          float64
	)
	linked := make(map[string]bool)

	for _, l := range slice.Liabilities {
		// Liabilities on business accounts stay out of the math, like the
		// accounts themselves.
		if business[l.AccountID] {
			continue
		}
		if l.AccountID != "" {
			linked[l.AccountID] = true
		}
		if l.IsOverdue {
			sig.HasOverdue = true
		}
		if l.MinimumPayment != nil && l.LastPaymentAmount != nil &&
			*l.MinimumPayment > 0 &&
			*l.LastPaymentAmount <= *l.MinimumPayment*minimumPaymentTolerance {
			sig.MinimumPaymentOnly = true
		}
		if l.CreditLimit == nil || *l.CreditLimit <= 0 {
			continue
		}
		util := l.Balance / *l.CreditLimit * 100
		utilizations = append(utilizations, util)
		sum += util
		if util > sig.MaxUtilizationPct {
			sig.MaxUtilizationPct = util
		}
	}

	sig.CardCount = len(utilizations)
	if len(utilizations) > 0 {
		sig.MeanUtilizationPct = sum / float64(len(utilizations))
	}
	sig.Utilization30Flag = sig.MaxUtilizationPct >= utilizationFlag30
	sig.Utilization50Flag = sig.MaxUtilizationPct >= utilizationFlag50
	sig.Utilization80Flag = sig.MaxUtilizationPct >= utilizationFlag80

	// Interest charges fire only on transactions against liability-linked
	// accounts.
	accounts := individualAccounts(slice.Accounts)
	for _, t := range settledTransactions(slice.Transactions, accounts) {
		if linked[t.AccountID] && isInterestCharge(t) {
			sig.HasInterestCharges = true
			break
		}
	}
	return sig
}
