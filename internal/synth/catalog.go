package synth

import "github.com/walletwise/insights/internal/domain"

// Catalog returns a small, well-formed content catalog covering every
// persona. Demos and local runs seed stores with it.
func Catalog() []domain.CatalogEntry {
	pct := func(v float64) *float64 { return &v }

	return []domain.CatalogEntry{
		{
			ID:       "edu-utilization-basics",
			Kind:     domain.RecommendationEducation,
			Title:    "Understanding credit utilization",
			Personas: []domain.PersonaID{domain.PersonaHighUtilization},
		},
		{
			ID:       "edu-snowball",
			Kind:     domain.RecommendationEducation,
			Title:    "Paying down a balance step by step",
			Personas: []domain.PersonaID{domain.PersonaHighUtilization},
		},
		{
			ID:       "edu-variable-income",
			Kind:     domain.RecommendationEducation,
			Title:    "Budgeting on an uneven paycheck",
			Personas: []domain.PersonaID{domain.PersonaVariableIncomeBudgeter},
		},
		{
			ID:       "edu-subscription-audit",
			Kind:     domain.RecommendationEducation,
			Title:    "Auditing your recurring subscriptions",
			Personas: []domain.PersonaID{domain.PersonaSubscriptionHeavy},
		},
		{
			ID:       "edu-emergency-fund",
			Kind:     domain.RecommendationEducation,
			Title:    "Growing an emergency fund",
			Personas: []domain.PersonaID{domain.PersonaSavingsBuilder, domain.PersonaCashFlowOptimizer},
		},
		{
			ID:          "offer-balance-transfer",
			Kind:        domain.RecommendationOffer,
			ProductType: "balance_transfer_card",
			Title:       "Balance transfer card with a lower rate",
			Personas:    []domain.PersonaID{domain.PersonaHighUtilization},
			Criteria: map[string]interface{}{
				"min_credit_score": 650,
				"not_overdue":      true,
			},
			APRPct: pct(19.9),
			FeePct: pct(3),
		},
		{
			ID:          "offer-hysa",
			Kind:        domain.RecommendationOffer,
			ProductType: "savings_account",
			Title:       "High-yield savings account",
			Personas:    []domain.PersonaID{domain.PersonaCashFlowOptimizer},
			Criteria: map[string]interface{}{
				"min_age":                     18,
				"no_existing_savings_account": true,
			},
		},
	}
}
