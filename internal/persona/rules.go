package persona

import (
	"github.com/walletwise/insights/internal/domain"
)

// Rule thresholds. The chain order, not these numbers, is the tie-break for
// users matching several personas.
const (
	highUtilizationPct     = 50.0
	variableGapDays        = 45.0
	variableBufferMonths   = 1.0
	recurringMerchantMin   = 3
	recurringSpendMin      = 50.0
	subscriptionShareMin   = 0.10
	savingsGrowthMinPct    = 2.0
	savingsNetInflowMin    = 200.0
	savingsUtilizationCap  = 30.0
	optimizerPayrollMin    = 2
	optimizerUtilizationCap = 50.0
	optimizerBufferLow     = 0.5
	optimizerBufferHigh    = 1.0
)

// Rule pairs a persona with its predicate. Predicates receive the full
// (possibly partial) signal bundle and return whether they matched plus an
// evidence map naming every value they looked at.
type Rule struct {
	Persona domain.PersonaID
	Match   func(domain.SignalSet) (bool, map[string]interface{}, []string)
}

// Rules returns the classification chain, highest priority first. The
// classifier takes the first match; keeping the order in one place makes it
// explicit and testable.
func Rules() []Rule {
	return []Rule{
		{Persona: domain.PersonaHighUtilization, Match: matchHighUtilization},
		{Persona: domain.PersonaVariableIncomeBudgeter, Match: matchVariableIncomeBudgeter},
		{Persona: domain.PersonaSubscriptionHeavy, Match: matchSubscriptionHeavy},
		{Persona: domain.PersonaSavingsBuilder, Match: matchSavingsBuilder},
		{Persona: domain.PersonaCashFlowOptimizer, Match: matchCashFlowOptimizer},
	}
}

// matchHighUtilization fires on any sign of credit stress.
func matchHighUtilization(s domain.SignalSet) (bool, map[string]interface{}, []string) {
	if s.Credit == nil {
		return false, map[string]interface{}{"credit_signal": "absent"}, nil
	}

	evidence := map[string]interface{}{
		"max_utilization_pct":  s.Credit.MaxUtilizationPct,
		"has_interest_charges": s.Credit.HasInterestCharges,
		"minimum_payment_only": s.Credit.MinimumPaymentOnly,
		"has_overdue":          s.Credit.HasOverdue,
	}

	var fired []string
	if s.Credit.MaxUtilizationPct >= highUtilizationPct {
		fired = append(fired, "max_utilization_at_or_above_50")
	}
	if s.Credit.HasInterestCharges {
		fired = append(fired, "interest_charges_present")
	}
	if s.Credit.MinimumPaymentOnly {
		fired = append(fired, "minimum_payment_only")
	}
	if s.Credit.HasOverdue {
		fired = append(fired, "overdue_liability")
	}
	return len(fired) > 0, evidence, fired
}

// matchVariableIncomeBudgeter fires on irregular pay with a thin buffer.
func matchVariableIncomeBudgeter(s domain.SignalSet) (bool, map[string]interface{}, []string) {
	if s.Income == nil {
		return false, map[string]interface{}{"income_signal": "absent"}, nil
	}

	evidence := map[string]interface{}{
		"median_pay_gap_days":     s.Income.MedianPayGapDays,
		"cash_flow_buffer_months": s.Income.CashFlowBufferMonths,
	}

	if s.Income.MedianPayGapDays > variableGapDays && s.Income.CashFlowBufferMonths < variableBufferMonths {
		return true, evidence, []string{"pay_gap_over_45_days", "buffer_under_1_month"}
	}
	return false, evidence, nil
}

// matchSubscriptionHeavy fires on a dense recurring-merchant footprint.
func matchSubscriptionHeavy(s domain.SignalSet) (bool, map[string]interface{}, []string) {
	if s.Subscription == nil {
		return false, map[string]interface{}{"subscription_signal": "absent"}, nil
	}

	evidence := map[string]interface{}{
		"recurring_merchant_count": s.Subscription.RecurringMerchantCount,
		"monthly_recurring_spend":  s.Subscription.MonthlyRecurringSpend,
		"subscription_share":       s.Subscription.SubscriptionShare,
	}

	if s.Subscription.RecurringMerchantCount < recurringMerchantMin {
		return false, evidence, nil
	}

	var fired []string
	if s.Subscription.MonthlyRecurringSpend >= recurringSpendMin {
		fired = append(fired, "monthly_recurring_spend_at_or_above_50")
	}
	if s.Subscription.SubscriptionShare >= subscriptionShareMin {
		fired = append(fired, "subscription_share_at_or_above_10pct")
	}
	if len(fired) == 0 {
		return false, evidence, nil
	}
	return true, evidence, append([]string{"recurring_merchants_at_or_above_3"}, fired...)
}

// matchSavingsBuilder fires on growing savings with low credit pressure.
// Absent credit data satisfies the low-utilization condition.
func matchSavingsBuilder(s domain.SignalSet) (bool, map[string]interface{}, []string) {
	if s.Savings == nil {
		return false, map[string]interface{}{"savings_signal": "absent"}, nil
	}

	evidence := map[string]interface{}{
		"growth_rate_pct": s.Savings.GrowthRatePct,
		"net_inflow":      s.Savings.NetInflow,
	}

	var fired []string
	if s.Savings.GrowthRatePct >= savingsGrowthMinPct {
		fired = append(fired, "growth_rate_at_or_above_2pct")
	}
	if s.Savings.NetInflow >= savingsNetInflowMin {
		fired = append(fired, "net_inflow_at_or_above_200")
	}
	if len(fired) == 0 {
		return false, evidence, nil
	}

	if s.Credit == nil {
		evidence["max_utilization_pct"] = "absent"
		fired = append(fired, "no_credit_data")
		return true, evidence, fired
	}

	evidence["max_utilization_pct"] = s.Credit.MaxUtilizationPct
	if s.Credit.MaxUtilizationPct >= savingsUtilizationCap {
		return false, evidence, nil
	}
	return true, evidence, append(fired, "max_utilization_under_30")
}

// matchCashFlowOptimizer fires on steady pay with a buffer of roughly half
// a month to one month.
func matchCashFlowOptimizer(s domain.SignalSet) (bool, map[string]interface{}, []string) {
	if s.Income == nil {
		return false, map[string]interface{}{"income_signal": "absent"}, nil
	}

	evidence := map[string]interface{}{
		"payroll_count":           s.Income.PayrollCount,
		"cash_flow_buffer_months": s.Income.CashFlowBufferMonths,
	}

	if s.Income.PayrollCount < optimizerPayrollMin {
		return false, evidence, nil
	}
	if s.Credit != nil {
		evidence["max_utilization_pct"] = s.Credit.MaxUtilizationPct
		if s.Credit.MaxUtilizationPct >= optimizerUtilizationCap {
			return false, evidence, nil
		}
	}
	if s.Income.CashFlowBufferMonths < optimizerBufferLow || s.Income.CashFlowBufferMonths > optimizerBufferHigh {
		return false, evidence, nil
	}
	return true, evidence, []string{
		"payroll_count_at_or_above_2",
		"max_utilization_under_50",
		"buffer_between_half_and_one_month",
	}
}
