package signals

import (
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// ComputeSavings reduces the ledger slice into the savings signal for one
// (user, window).
//
// The growth rate divides net inflow by an estimated prior balance
// (current balance minus net inflow), not an observed historical balance.
// When that estimate is non-positive the rate is reported as 0 rather than
// extrapolated. Known approximation, kept intentionally.
func ComputeSavings(userID string, windowDays int, slice domain.LedgerSlice, now time.Time) *domain.SavingsSignal {
	sig := &domain.SavingsSignal{
		UserID:     userID,
		WindowDays: windowDays,
		ComputedAt: now,
	}

	accounts := individualAccounts(slice.Accounts)
	savings := accountsOfType(accounts, domain.AccountSavings)
	if len(savings) == 0 {
		return sig
	}

	var balance float64
	for _, a := range savings {
		balance += a.Balance
	}
	sig.SavingsBalance = balance

	var inflow, outflow float64
	for _, t := range settledTransactions(slice.Transactions, savings) {
		if t.Inflow() {
			inflow += -t.Amount
		} else {
			outflow += t.Amount
		}
	}
	net := inflow - outflow
	sig.NetInflow = net

	if prior := balance - net; prior > 0 {
		sig.GrowthRatePct = net / prior * 100
	}

	checking := accountsOfType(accounts, domain.AccountChecking)
	checkingOutflow := totalOutflow(settledTransactions(slice.Transactions, checking))
	monthlyOutflow := checkingOutflow / domain.WindowMonths(windowDays)
	if monthlyOutflow > 0 {
		sig.EmergencyFundMonths = balance / monthlyOutflow
	}
	return sig
}
