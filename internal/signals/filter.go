package signals

import (
	"strings"

	"github.com/walletwise/insights/internal/domain"
)

// individualAccounts drops business-holder accounts. Unknown holders stay:
// only accounts positively marked business are excluded.
func individualAccounts(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.HolderCategory == domain.HolderBusiness {
			continue
		}
		out = append(out, a)
	}
	return out
}

// accountsOfType filters an already holder-filtered slice by account type.
func accountsOfType(accounts []domain.Account, t domain.AccountType) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// settledTransactions drops pending transactions and any transaction that
// does not belong to one of the given accounts.
func settledTransactions(txs []domain.Transaction, accounts []domain.Account) []domain.Transaction {
	ids := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		ids[a.ID] = true
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Pending || !ids[t.AccountID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isSubscription reports whether a transaction is tagged as subscription
// spend by its category taxonomy.
func isSubscription(t domain.Transaction) bool {
	switch normalizeTag(t.Category) {
	case "subscription", "subscriptions":
		return true
	}
	switch normalizeTag(t.Subcategory) {
	case "subscription", "subscriptions":
		return true
	}
	return false
}

// isInterestCharge reports whether a transaction is an interest charge.
func isInterestCharge(t domain.Transaction) bool {
	return normalizeTag(t.Category) == "interest charge" ||
		normalizeTag(t.Subcategory) == "interest charge"
}

// isPayroll reports whether the category/subcategory pair marks a paycheck
// and the sign indicates money in.
func isPayroll(t domain.Transaction) bool {
	if !t.Inflow() {
		return false
	}
	if normalizeTag(t.Category) != "income" {
		return false
	}
	switch normalizeTag(t.Subcategory) {
	case "paycheck", "payroll", "wages":
		return true
	}
	return false
}

// totalOutflow sums positive (money-out) amounts.
func totalOutflow(txs []domain.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Amount > 0 {
			sum += t.Amount
		}
	}
	return sum
}
