package recommend

import (
	"fmt"
	"sort"

	"github.com/walletwise/insights/internal/domain"
)

// EligibilityResult records which criteria were evaluated and, when the
// entry is rejected, the human-readable reasons.
type EligibilityResult struct {
	Eligible        bool
	CriteriaChecked []string
	Reasons         []string
}

// CheckEligibility evaluates an offer's criteria mapping against the user's
// signals and demographics. Criteria that need a value the user has no
// record for fail closed. Absence of criteria means unconditional
// eligibility. Education entries are always eligible.
func CheckEligibility(e domain.CatalogEntry, in Inputs) EligibilityResult {
	res := EligibilityResult{Eligible: true}
	if e.Kind != domain.RecommendationOffer || len(e.Criteria) == 0 {
		return res
	}

	check := func(name string, reason string, ok bool) {
		res.CriteriaChecked = append(res.CriteriaChecked, name)
		if !ok {
			res.Eligible = false
			res.Reasons = append(res.Reasons, reason)
		}
	}

	for _, name := range sortedCriteriaNames(e.Criteria) {
		raw := e.Criteria[name]
		switch name {
		case "min_credit_score":
			min, err := asFloat(raw)
			if err != nil {
				check(name, fmt.Sprintf("min_credit_score misconfigured: %v", err), false)
				continue
			}
			if in.Profile.CreditScore == nil {
				check(name, "no credit score on record; cannot verify minimum", false)
				continue
			}
			check(name, fmt.Sprintf("credit score %d is below the required %.0f", *in.Profile.CreditScore, min),
				float64(*in.Profile.CreditScore) >= min)

		case "max_utilization_pct":
			max, err := asFloat(raw)
			if err != nil {
				check(name, fmt.Sprintf("max_utilization_pct misconfigured: %v", err), false)
				continue
			}
			var util float64
			if in.Signals.Credit != nil {
				util = in.Signals.Credit.MaxUtilizationPct
			}
			check(name, fmt.Sprintf("utilization %.1f%% is above the allowed %.0f%%", util, max), util <= max)

		case "not_overdue":
			overdue := in.Signals.Credit != nil && in.Signals.Credit.HasOverdue
			check(name, "an overdue liability disqualifies this offer", !overdue)

		case "min_age":
			min, err := asFloat(raw)
			if err != nil {
				check(name, fmt.Sprintf("min_age misconfigured: %v", err), false)
				continue
			}
			if in.Profile.Age == nil {
				check(name, "no age on record; cannot verify minimum age", false)
				continue
			}
			check(name, fmt.Sprintf("age %d is below the required %.0f", *in.Profile.Age, min),
				float64(*in.Profile.Age) >= min)

		case "min_monthly_recurring_spend":
			min, err := asFloat(raw)
			if err != nil {
				check(name, fmt.Sprintf("min_monthly_recurring_spend misconfigured: %v", err), false)
				continue
			}
			var spend float64
			if in.Signals.Subscription != nil {
				spend = in.Signals.Subscription.MonthlyRecurringSpend
			}
			check(name, fmt.Sprintf("monthly recurring spend %.2f is below the required %.2f", spend, min),
				spend >= min)

		case "no_existing_savings_account":
			want, _ := raw.(bool)
			if !want {
				continue
			}
			check(name, "user already holds a savings account", !in.HasSavingsAccount)

		default:
			check(name, fmt.Sprintf("unsupported criterion %q", name), false)
		}
	}
	return res
}

// sortedCriteriaNames keeps evaluation order, and therefore rejection
// reasons, deterministic.
func sortedCriteriaNames(criteria map[string]interface{}) []string {
	names := make([]string, 0, len(criteria))
	for name := range criteria {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func asFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v has type %T, want a number", v, v)
	}
}
