package recommend

import (
	"fmt"

	"github.com/walletwise/insights/internal/domain"
)

// BuildRationale produces the persona-specific explanation for why an entry
// is being surfaced. Every template cites at least one concrete numeric
// signal value so the rationale is checkable against the signals it came
// from. Templates without their backing signal fall back to a generic line
// that still names the persona.
func BuildRationale(entry domain.CatalogEntry, in Inputs) string {
	switch in.Persona {
	case domain.PersonaHighUtilization:
		if c := in.Signals.Credit; c != nil {
			return fmt.Sprintf(
				"Your highest card utilization is %.0f%% right now. Paying balances down could lower interest costs over time, and %q is one option to help with that.",
				c.MaxUtilizationPct, entry.Title)
		}

	case domain.PersonaVariableIncomeBudgeter:
		if i := in.Signals.Income; i != nil {
			return fmt.Sprintf(
				"Your paychecks arrive about %.0f days apart and your cash buffer covers %.1f months of spending. %q could help smooth the gaps between pay dates.",
				i.MedianPayGapDays, i.CashFlowBufferMonths, entry.Title)
		}

	case domain.PersonaSubscriptionHeavy:
		if sub := in.Signals.Subscription; sub != nil {
			return fmt.Sprintf(
				"You have %d recurring subscriptions totaling about $%.2f per month. Reviewing them with %q could free up money you might put toward other goals.",
				sub.RecurringMerchantCount, sub.MonthlyRecurringSpend, entry.Title)
		}

	case domain.PersonaSavingsBuilder:
		if sv := in.Signals.Savings; sv != nil {
			return fmt.Sprintf(
				"Your savings grew %.1f%% this period with $%.2f in net deposits. %q could help you keep that momentum going.",
				sv.GrowthRatePct, sv.NetInflow, entry.Title)
		}

	case domain.PersonaCashFlowOptimizer:
		if i := in.Signals.Income; i != nil {
			return fmt.Sprintf(
				"Your cash buffer currently covers %.1f months of checking outflow. %q could help you make the most of that steady position.",
				i.CashFlowBufferMonths, entry.Title)
		}
	}

	return fmt.Sprintf("Based on your recent activity, %q might be worth considering.", entry.Title)
}
