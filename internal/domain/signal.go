package domain

import (
	"time"
)

// SignalKind identifies one of the four behavioral signal computators.
type SignalKind string

const (
	SignalSubscription SignalKind = "subscription"
	SignalSavings      SignalKind = "savings"
	SignalCredit       SignalKind = "credit"
	SignalIncome       SignalKind = "income"
)

// SignalKinds lists every kind in a stable order.
func SignalKinds() []SignalKind {
	return []SignalKind{SignalSubscription, SignalSavings, SignalCredit, SignalIncome}
}

// Windows returns the lookback windows (in days) the reference deployment
// computes. Any positive window resolves correctly: threshold math that is
// expressed in months divides by 30.
func Windows() []int {
	return []int{30, 180}
}

// WindowMonths converts a window length in days to months for
// monthly-normalized math.
func WindowMonths(windowDays int) float64 {
	return float64(windowDays) / 30.0
}

// SubscriptionSignal summarizes recurring-merchant spend inside one window.
type SubscriptionSignal struct {
	UserID                 string    `json:"user_id"`
	WindowDays             int       `json:"window_days"`
	RecurringMerchantCount int       `json:"recurring_merchant_count"`
	MonthlyRecurringSpend  float64   `json:"monthly_recurring_spend"`
	SubscriptionShare      float64   `json:"subscription_share"`
	TotalSubscriptionSpend float64   `json:"total_subscription_spend"`
	RecurringMerchants     []string  `json:"recurring_merchants,omitempty"`
	ComputedAt             time.Time `json:"computed_at"`
}

// SavingsSignal summarizes savings-account movement inside one window.
//
// GrowthRatePct divides net inflow by an estimated prior balance
// (current balance minus net inflow) rather than an observed historical
// balance. When inflow exceeds the current balance the estimate goes
// non-positive and the rate is reported as 0 instead of being
// extrapolated. This is a known approximation, preserved as specified.
type SavingsSignal struct {
	UserID              string    `json:"user_id"`
	WindowDays          int       `json:"window_days"`
	SavingsBalance      float64   `json:"savings_balance"`
	NetInflow           float64   `json:"net_inflow"`
	GrowthRatePct       float64   `json:"growth_rate_pct"`
	EmergencyFundMonths float64   `json:"emergency_fund_months"`
	ComputedAt          time.Time `json:"computed_at"`
}

// CreditSignal summarizes card utilization and repayment behavior.
type CreditSignal struct {
	UserID             string    `json:"user_id"`
	WindowDays         int       `json:"window_days"`
	CardCount          int       `json:"card_count"`
	MaxUtilizationPct  float64   `json:"max_utilization_pct"`
	MeanUtilizationPct float64   `json:"mean_utilization_pct"`
	Utilization30Flag  bool      `json:"utilization_30_flag"`
	Utilization50Flag  bool      `json:"utilization_50_flag"`
	Utilization80Flag  bool      `json:"utilization_80_flag"`
	HasInterestCharges bool      `json:"has_interest_charges"`
	MinimumPaymentOnly bool      `json:"minimum_payment_only"`
	HasOverdue         bool      `json:"has_overdue"`
	ComputedAt         time.Time `json:"computed_at"`
}

// IncomeSignal summarizes payroll cadence and cash-flow headroom.
type IncomeSignal struct {
	UserID              string    `json:"user_id"`
	WindowDays          int       `json:"window_days"`
	PayrollCount        int       `json:"payroll_count"`
	MedianPayGapDays    float64   `json:"median_pay_gap_days"`
	PayGapStdDevDays    float64   `json:"pay_gap_std_dev_days"`
	TotalPayrollInflow  float64   `json:"total_payroll_inflow"`
	CashFlowBufferMonths float64  `json:"cash_flow_buffer_months"`
	ComputedAt          time.Time `json:"computed_at"`
}

// SignalSet bundles the four per-kind records for one (user, window).
// A nil pointer means the signal has never been computed, which is
// distinct from a computed record full of zeroes.
type SignalSet struct {
	Subscription *SubscriptionSignal `json:"subscription"`
	Savings      *SavingsSignal      `json:"savings"`
	Credit       *CreditSignal       `json:"credit"`
	Income       *IncomeSignal       `json:"income"`
}

// Empty reports whether no signal record is present at all.
func (s SignalSet) Empty() bool {
	return s.Subscription == nil && s.Savings == nil && s.Credit == nil && s.Income == nil
}

// PresentKinds lists the kinds that have a record, in stable order.
func (s SignalSet) PresentKinds() []SignalKind {
	var kinds []SignalKind
	if s.Subscription != nil {
		kinds = append(kinds, SignalSubscription)
	}
	if s.Savings != nil {
		kinds = append(kinds, SignalSavings)
	}
	if s.Credit != nil {
		kinds = append(kinds, SignalCredit)
	}
	if s.Income != nil {
		kinds = append(kinds, SignalIncome)
	}
	return kinds
}
