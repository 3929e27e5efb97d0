package signals

import (
	"math"
	"sort"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

// ComputeIncome reduces the ledger slice into the income signal for one
// (user, window). Pay-gap statistics need at least two payroll transactions;
// below that every frequency field stays zero.
func ComputeIncome(userID string, windowDays int, slice domain.LedgerSlice, now time.Time) *domain.IncomeSignal {
	sig := &domain.IncomeSignal{
		UserID:     userID,
		WindowDays: windowDays,
		ComputedAt: now,
	}

	accounts := individualAccounts(slice.Accounts)
	txs := settledTransactions(slice.Transactions, accounts)

	var payrolls []domain.Transaction
	for _, t := range txs {
		if isPayroll(t) {
			payrolls = append(payrolls, t)
			sig.TotalPayrollInflow += -t.Amount
		}
	}
	sig.PayrollCount = len(payrolls)

	if len(payrolls) >= 2 {
		sort.Slice(payrolls, func(i, j int) bool {
			return payrolls[i].Date.Before(payrolls[j].Date)
		})
		gaps := make([]float64, 0, len(payrolls)-1)
		for i := 1; i < len(payrolls); i++ {
			gaps = append(gaps, payrolls[i].Date.Sub(payrolls[i-1].Date).Hours()/24)
		}
		// Median over mean: robust against one missed or extra paycheck.
		sig.MedianPayGapDays = median(gaps)
		sig.PayGapStdDevDays = stdDev(gaps)
	}

	checking := accountsOfType(accounts, domain.AccountChecking)
	var checkingBalance float64
	for _, a := range checking {
		checkingBalance += a.Balance
	}
	checkingOutflow := totalOutflow(settledTransactions(slice.Transactions, checking))
	monthlyOutflow := checkingOutflow / domain.WindowMonths(windowDays)
	if monthlyOutflow > 0 {
		sig.CashFlowBufferMonths = checkingBalance / monthlyOutflow
	}
	return sig
}

// median returns the middle value of xs, averaging the central pair for
// even lengths. xs may be reordered.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid]
	}
	return (xs[mid-1] + xs[mid]) / 2
}

// stdDev returns the population standard deviation of xs.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}
