package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletwise/insights/internal/domain"
)

func payrollTx(id string, amount float64, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:           id,
		AccountID:    "chk",
		Amount:       -amount,
		Date:         testNow.AddDate(0, 0, -daysAgo),
		MerchantName: "Employer Inc",
		Category:     "Income",
		Subcategory:  "Paycheck",
	}
}

func TestComputeIncomePayGapMedian(t *testing.T) {
	// Payrolls at days 125, 105, 60, 0 ago: gaps of 20, 45 and 60 days.
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk")},
		Transactions: []domain.Transaction{
			payrollTx("p1", 2000, 125),
			payrollTx("p2", 2000, 105),
			payrollTx("p3", 2000, 60),
			payrollTx("p4", 2000, 0),
		},
	}

	sig := ComputeIncome("u1", 180, slice, testNow)

	assert.Equal(t, 4, sig.PayrollCount)
	assert.InDelta(t, 45.0, sig.MedianPayGapDays, 1e-9)
	assert.Greater(t, sig.PayGapStdDevDays, 0.0)
	assert.InDelta(t, 8000.0, sig.TotalPayrollInflow, 1e-9)
}

func TestComputeIncomeSinglePayroll(t *testing.T) {
	slice := domain.LedgerSlice{
		Accounts:     []domain.Account{checkingAccount("chk")},
		Transactions: []domain.Transaction{payrollTx("p1", 2500, 10)},
	}

	sig := ComputeIncome("u1", 30, slice, testNow)

	assert.Equal(t, 1, sig.PayrollCount)
	assert.Zero(t, sig.MedianPayGapDays)
	assert.Zero(t, sig.PayGapStdDevDays)
	assert.InDelta(t, 2500.0, sig.TotalPayrollInflow, 1e-9)
}

func TestComputeIncomeIgnoresNonPayrollInflow(t *testing.T) {
	refund := domain.Transaction{
		ID: "r1", AccountID: "chk", Amount: -75,
		Date: testNow.AddDate(0, 0, -4), Category: "refund",
	}
	slice := domain.LedgerSlice{
		Accounts:     []domain.Account{checkingAccount("chk")},
		Transactions: []domain.Transaction{refund},
	}

	sig := ComputeIncome("u1", 30, slice, testNow)

	assert.Zero(t, sig.PayrollCount)
	assert.Zero(t, sig.TotalPayrollInflow)
}

func TestComputeIncomeCashFlowBuffer(t *testing.T) {
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk")}, // balance 2000
		Transactions: []domain.Transaction{
			{ID: "t1", AccountID: "chk", Amount: 400, Date: testNow.AddDate(0, 0, -5)},
			{ID: "t2", AccountID: "chk", Amount: 600, Date: testNow.AddDate(0, 0, -15)},
		},
	}

	sig := ComputeIncome("u1", 30, slice, testNow)

	// 1000/month outflow against a 2000 balance.
	assert.InDelta(t, 2.0, sig.CashFlowBufferMonths, 1e-9)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		xs   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{7}, 7},
		{[]float64{20, 45, 60}, 45},
		{[]float64{10, 20, 30, 40}, 25},
		{[]float64{60, 20, 45}, 45},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, median(append([]float64(nil), tt.xs...)), 1e-9)
	}
}
