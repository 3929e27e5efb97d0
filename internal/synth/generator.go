// Package synth produces deterministic synthetic ledgers for demos and
// load testing. Generation is seeded; the same seed always produces the
// same slice.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/walletwise/insights/internal/domain"
)

var subscriptionMerchants = []string{
	"StreamFlix", "TuneBox", "CloudVault", "NewsDaily", "FitClub",
}

var spendMerchants = []string{
	"Corner Grocer", "Metro Transit", "Bistro 52", "PharmaPlus", "Gas & Go",
}

// Profile tunes what kind of user the generator emits.
type Profile struct {
	Subscriptions    int     // distinct subscription merchants
	MonthlyPayroll   float64 // 0 disables payroll
	PayrollJitterPct float64 // pay-gap variability, 0..1
	CardUtilization  float64 // 0..1, 0 disables the credit card
	SavingsBalance   float64
	SavingsMonthly   float64 // monthly transfer into savings
	Overdue          bool
}

// Generator emits ledger slices from an injected random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a private source; the package never touches the
// global one.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Ledger produces a slice for one user covering windowDays back from now.
func (g *Generator) Ledger(userID string, windowDays int, now time.Time, p Profile) domain.LedgerSlice {
	var slice domain.LedgerSlice

	checking := domain.Account{
		ID:             userID + "-chk",
		UserID:         userID,
		Type:           domain.AccountChecking,
		HolderCategory: domain.HolderIndividual,
		Balance:        1500 + g.rng.Float64()*3000,
	}
	slice.Accounts = append(slice.Accounts, checking)

	start := now.AddDate(0, 0, -windowDays)

	if p.SavingsBalance > 0 || p.SavingsMonthly > 0 {
		savings := domain.Account{
			ID:             userID + "-sav",
			UserID:         userID,
			Type:           domain.AccountSavings,
			HolderCategory: domain.HolderIndividual,
			Balance:        p.SavingsBalance,
		}
		slice.Accounts = append(slice.Accounts, savings)
		slice.Transactions = append(slice.Transactions,
			g.monthlySeries(savings.ID, "transfer", "savings", "Auto Transfer", -p.SavingsMonthly, start, now)...)
	}

	if p.CardUtilization > 0 {
		limit := 2000.0
		balance := limit * p.CardUtilization
		card := domain.Account{
			ID:             userID + "-cc",
			UserID:         userID,
			Type:           domain.AccountCreditCard,
			HolderCategory: domain.HolderIndividual,
			Balance:        balance,
			CreditLimit:    &limit,
		}
		slice.Accounts = append(slice.Accounts, card)

		minPay := 35.0
		lastPay := minPay * (1 + g.rng.Float64()*0.05)
		lastDate := now.AddDate(0, 0, -7)
		slice.Liabilities = append(slice.Liabilities, domain.Liability{
			ID:                userID + "-liab-cc",
			UserID:            userID,
			AccountID:         card.ID,
			Balance:           balance,
			CreditLimit:       &limit,
			MinimumPayment:    &minPay,
			LastPaymentAmount: &lastPay,
			LastPaymentDate:   &lastDate,
			IsOverdue:         p.Overdue,
		})
	}

	for i := 0; i < p.Subscriptions && i < len(subscriptionMerchants); i++ {
		amount := 5 + g.rng.Float64()*15
		slice.Transactions = append(slice.Transactions,
			g.monthlySeries(checking.ID, "subscriptions", "streaming", subscriptionMerchants[i], amount, start, now)...)
	}

	if p.MonthlyPayroll > 0 {
		slice.Transactions = append(slice.Transactions, g.payroll(checking.ID, p, start, now)...)
	}

	slice.Transactions = append(slice.Transactions, g.everydaySpend(checking.ID, start, now)...)

	return slice
}

// monthlySeries emits one transaction per ~30 days at a fixed amount.
// Negative amounts are inflows on the target account.
func (g *Generator) monthlySeries(accountID, category, subcategory, merchant string, amount float64, start, end time.Time) []domain.Transaction {
	var txs []domain.Transaction
	for d, i := start.AddDate(0, 0, 3), 0; d.Before(end); d, i = d.AddDate(0, 0, 30), i+1 {
		txs = append(txs, domain.Transaction{
			ID:           fmt.Sprintf("%s-%s-%d", accountID, merchant, i),
			AccountID:    accountID,
			Amount:       amount,
			Date:         d,
			MerchantName: merchant,
			Category:     category,
			Subcategory:  subcategory,
		})
	}
	return txs
}

func (g *Generator) payroll(accountID string, p Profile, start, end time.Time) []domain.Transaction {
	var txs []domain.Transaction
	gap := 30.0
	d := start.AddDate(0, 0, 1)
	for i := 0; d.Before(end); i++ {
		txs = append(txs, domain.Transaction{
			ID:           fmt.Sprintf("%s-pay-%d", accountID, i),
			AccountID:    accountID,
			Amount:       -p.MonthlyPayroll,
			Date:         d,
			MerchantName: "Employer Inc",
			Category:     "income",
			Subcategory:  "paycheck",
		})
		jitter := 1 + (g.rng.Float64()*2-1)*p.PayrollJitterPct
		d = d.AddDate(0, 0, int(gap*jitter))
	}
	return txs
}

func (g *Generator) everydaySpend(accountID string, start, end time.Time) []domain.Transaction {
	var txs []domain.Transaction
	for d, i := start, 0; d.Before(end); d, i = d.AddDate(0, 0, 2+g.rng.Intn(3)), i+1 {
		merchant := spendMerchants[g.rng.Intn(len(spendMerchants))]
		txs = append(txs, domain.Transaction{
			ID:           fmt.Sprintf("%s-spend-%d", accountID, i),
			AccountID:    accountID,
			Amount:       5 + g.rng.Float64()*80,
			Date:         d,
			MerchantName: merchant,
			Category:     "general",
		})
	}
	return txs
}
