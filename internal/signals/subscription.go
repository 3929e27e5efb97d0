package signals

import (
	"sort"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// RecurringThreshold returns the occurrence count a merchant needs inside
// the window to count as recurring. A monthly charge shows up proportionally
// fewer times in a short window, so the threshold scales with window length.
func RecurringThreshold(windowDays int) int {
	switch {
	case windowDays <= 45:
		return 1
	case windowDays <= 75:
		return 2
	default:
		return 3
	}
}

// ComputeSubscription reduces the ledger slice into the subscription signal
// for one (user, window). It is total: with no qualifying accounts or
// transactions it returns a fully zeroed record, never an error.
func ComputeSubscription(userID string, windowDays int, slice domain.LedgerSlice, now time.Time) *domain.SubscriptionSignal {
	sig := &domain.SubscriptionSignal{
		UserID:     userID,
		WindowDays: windowDays,
		ComputedAt: now,
	}

	accounts := individualAccounts(slice.Accounts)
	txs := settledTransactions(slice.Transactions, accounts)
	if len(txs) == 0 {
		return sig
	}

	type merchantAgg struct {
		count int
		spend float64
	}
	merchants := make(map[string]*merchantAgg)

	var subscriptionSpend float64
	for _, t := range txs {
		if !isSubscription(t) || t.Amount <= 0 {
			continue
		}
		subscriptionSpend += t.Amount

		agg := merchants[t.MerchantName]
		if agg == nil {
			agg = &merchantAgg{}
			merchants[t.MerchantName] = agg
		}
		agg.count++
		agg.spend += t.Amount
	}

	threshold := RecurringThreshold(windowDays)
	var recurring []string
	for name, agg := range merchants {
		if agg.count >= threshold {
			recurring = append(recurring, name)
		}
	}
	sort.Strings(recurring)

	outflow := totalOutflow(txs)

	sig.RecurringMerchantCount = len(recurring)
	sig.RecurringMerchants = recurring
	sig.TotalSubscriptionSpend = subscriptionSpend
	sig.MonthlyRecurringSpend = subscriptionSpend / domain.WindowMonths(windowDays)
	if outflow > 0 {
		sig.SubscriptionShare = subscriptionSpend / outflow
	}
	return sig
}
