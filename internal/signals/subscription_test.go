package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletwise/insights/internal/domain"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func checkingAccount(id string) domain.Account {
	return domain.Account{
		ID:             id,
		UserID:         "u1",
		Type:           domain.AccountChecking,
		HolderCategory: domain.HolderIndividual,
		Balance:        2000,
	}
}

func subscriptionTx(id, account, merchant string, amount float64, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:           id,
		AccountID:    account,
		Amount:       amount,
		Date:         testNow.AddDate(0, 0, -daysAgo),
		MerchantName: merchant,
		Category:     "Subscriptions",
	}
}

func TestRecurringThreshold(t *testing.T) {
	tests := []struct {
		windowDays int
		want       int
	}{
		{30, 1},
		{45, 1},
		{46, 2},
		{60, 2},
		{75, 2},
		{76, 3},
		{120, 3},
		{180, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecurringThreshold(tt.windowDays), "window %d", tt.windowDays)
	}
}

func TestComputeSubscriptionThresholdScalesWithWindow(t *testing.T) {
	// The same merchant charged twice: recurring in 30d and 60d windows,
	// not recurring in a 120d window where three occurrences are needed.
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk")},
		Transactions: []domain.Transaction{
			subscriptionTx("t1", "chk", "StreamFlix", 9.99, 5),
			subscriptionTx("t2", "chk", "StreamFlix", 9.99, 20),
		},
	}

	for _, tt := range []struct {
		windowDays    int
		wantRecurring int
	}{
		{30, 1},
		{60, 1},
		{120, 0},
	} {
		sig := ComputeSubscription("u1", tt.windowDays, slice, testNow)
		assert.Equal(t, tt.wantRecurring, sig.RecurringMerchantCount, "window %d", tt.windowDays)
	}
}

func TestComputeSubscriptionAggregates(t *testing.T) {
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{checkingAccount("chk")},
		Transactions: []domain.Transaction{
			subscriptionTx("t1", "chk", "StreamFlix", 10, 3),
			subscriptionTx("t2", "chk", "TuneBox", 5, 8),
			{
				ID: "t3", AccountID: "chk", Amount: 85,
				Date: testNow.AddDate(0, 0, -4), MerchantName: "Corner Grocer",
				Category: "groceries",
			},
		},
	}

	sig := ComputeSubscription("u1", 30, slice, testNow)

	require.Equal(t, 2, sig.RecurringMerchantCount)
	assert.Equal(t, []string{"StreamFlix", "TuneBox"}, sig.RecurringMerchants)
	assert.InDelta(t, 15.0, sig.TotalSubscriptionSpend, 1e-9)
	assert.InDelta(t, 15.0, sig.MonthlyRecurringSpend, 1e-9)
	assert.InDelta(t, 15.0/100.0, sig.SubscriptionShare, 1e-9)
}

func TestComputeSubscriptionIgnoresPendingAndBusiness(t *testing.T) {
	slice := domain.LedgerSlice{
		Accounts: []domain.Account{
			checkingAccount("chk"),
			{
				ID: "biz", UserID: "u1", Type: domain.AccountChecking,
				HolderCategory: domain.HolderBusiness,
			},
		},
		Transactions: []domain.Transaction{
			subscriptionTx("t1", "biz", "SaaS Tools", 49, 2),
			func() domain.Transaction {
				tx := subscriptionTx("t2", "chk", "StreamFlix", 9.99, 2)
				tx.Pending = true
				return tx
			}(),
		},
	}

	sig := ComputeSubscription("u1", 30, slice, testNow)

	assert.Zero(t, sig.RecurringMerchantCount)
	assert.Zero(t, sig.TotalSubscriptionSpend)
}

func TestComputeSubscriptionNoData(t *testing.T) {
	sig := ComputeSubscription("u1", 30, domain.LedgerSlice{}, testNow)

	require.NotNil(t, sig)
	assert.Equal(t, "u1", sig.UserID)
	assert.Equal(t, 30, sig.WindowDays)
	assert.Equal(t, testNow, sig.ComputedAt)
	assert.Zero(t, sig.RecurringMerchantCount)
	assert.Zero(t, sig.SubscriptionShare)
}

func TestComputeSubscriptionNoDataRepeatable(t *testing.T) {
	first := ComputeSubscription("u1", 30, domain.LedgerSlice{}, testNow)
	second := ComputeSubscription("u1", 30, domain.LedgerSlice{}, testNow)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
}
