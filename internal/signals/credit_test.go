package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletwise/insights/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestComputeCreditUtilizationFlags(t *testing.T) {
	slice := domain.LedgerSlice{
		Liabilities: []domain.Liability{
			{ID: "l1", UserID: "u1", Balance: 1200, CreditLimit: fptr(2000)},
		},
	}

	sig := ComputeCredit("u1", 30, slice, testNow)

	assert.Equal(t, 1, sig.CardCount)
	assert.InDelta(t, 60.0, sig.MaxUtilizationPct, 1e-9)
	assert.InDelta(t, 60.0, sig.MeanUtilizationPct, 1e-9)
	assert.True(t, sig.Utilization30Flag)
	assert.True(t, sig.Utilization50Flag)
	assert.False(t, sig.Utilization80Flag)
}

func TestComputeCreditMaxAndMeanAcrossCards(t *testing.T) {
	slice := domain.LedgerSlice{
		Liabilities: []domain.Liability{
			{ID: "l1", UserID: "u1", Balance: 900, CreditLimit: fptr(1000)},
			{ID: "l2", UserID: "u1", Balance: 100, CreditLimit: fptr(1000)},
			{ID: "l3", UserID: "u1", Balance: 500}, // no limit, skipped
		},
	}

	sig := ComputeCredit("u1", 30, slice, testNow)

	assert.Equal(t, 2, sig.CardCount)
	assert.InDelta(t, 90.0, sig.MaxUtilizationPct, 1e-9)
	assert.InDelta(t, 50.0, sig.MeanUtilizationPct, 1e-9)
	assert.True(t, sig.Utilization80Flag)
}

func TestComputeCreditMinimumPaymentOnly(t *testing.T) {
	tests := []struct {
		name        string
		lastPayment float64
		want        bool
	}{
		{"exactly minimum", 35, true},
		{"within tolerance", 38, true},
		{"above tolerance", 39, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slice := domain.LedgerSlice{
				Liabilities: []domain.Liability{{
					ID: "l1", UserID: "u1", Balance: 500, CreditLimit: fptr(2000),
					MinimumPayment:    fptr(35),
					LastPaymentAmount: fptr(tt.lastPayment),
				}},
			}
			sig := ComputeCredit("u1", 30, slice, testNow)
			assert.Equal(t, tt.want, sig.MinimumPaymentOnly)
		})
	}
}

func TestComputeCreditInterestChargesOnlyOnLinkedAccounts(t *testing.T) {
	cc := domain.Account{
		ID: "cc", UserID: "u1", Type: domain.AccountCreditCard,
		HolderCategory: domain.HolderIndividual,
	}
	interest := domain.Transaction{
		ID: "t1", AccountID: "cc", Amount: 12.40,
		Date: testNow.AddDate(0, 0, -3), Category: "Interest Charge",
	}

	linked := domain.LedgerSlice{
		Accounts:     []domain.Account{cc, checkingAccount("chk")},
		Liabilities:  []domain.Liability{{ID: "l1", UserID: "u1", AccountID: "cc", Balance: 100, CreditLimit: fptr(1000)}},
		Transactions: []domain.Transaction{interest},
	}
	assert.True(t, ComputeCredit("u1", 30, linked, testNow).HasInterestCharges)

	// Same charge on an account no liability points at does not count.
	unlinked := linked
	unlinked.Liabilities = []domain.Liability{{ID: "l1", UserID: "u1", Balance: 100, CreditLimit: fptr(1000)}}
	assert.False(t, ComputeCredit("u1", 30, unlinked, testNow).HasInterestCharges)
}

func TestComputeCreditOverdue(t *testing.T) {
	slice := domain.LedgerSlice{
		Liabilities: []domain.Liability{
			{ID: "l1", UserID: "u1", Balance: 10, CreditLimit: fptr(1000), IsOverdue: true},
		},
	}
	assert.True(t, ComputeCredit("u1", 30, slice, testNow).HasOverdue)
}

func TestComputeCreditSkipsBusinessLinkedLiabilities(t *testing.T) {
	biz := domain.Account{
		ID: "biz-cc", UserID: "u1", Type: domain.AccountCreditCard,
		HolderCategory: domain.HolderBusiness,
	}
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk"), biz},
		Liabilities: []domain.Liability{
			{ID: "l1", UserID: "u1", AccountID: "chk", Balance: 200, CreditLimit: fptr(1000)},
			{ID: "l2", UserID: "u1", AccountID: "biz-cc", Balance: 950, CreditLimit: fptr(1000), IsOverdue: true},
		},
	}

	sig := ComputeCredit("u1", 30, slice, testNow)

	assert.Equal(t, 1, sig.CardCount)
	assert.InDelta(t, 20.0, sig.MaxUtilizationPct, 1e-9)
	assert.False(t, sig.Utilization80Flag)
	assert.False(t, sig.HasOverdue)
}

func TestComputeCreditNoLiabilities(t *testing.T) {
	sig := ComputeCredit("u1", 30, domain.LedgerSlice{}, testNow)

	assert.Zero(t, sig.CardCount)
	assert.Zero(t, sig.MaxUtilizationPct)
	assert.False(t, sig.Utilization30Flag)
	assert.False(t, sig.HasOverdue)
}
