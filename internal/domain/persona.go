package domain

import (
	"time"
)

// PersonaID is one of the fixed behavioral labels the classifier can assign.
type PersonaID string

const (
	PersonaHighUtilization        PersonaID = "high_utilization"
	PersonaVariableIncomeBudgeter PersonaID = "variable_income_budgeter"
	PersonaSubscriptionHeavy      PersonaID = "subscription_heavy"
	PersonaSavingsBuilder         PersonaID = "savings_builder"
	PersonaCashFlowOptimizer      PersonaID = "cash_flow_optimizer"
	PersonaInsufficientData       PersonaID = "insufficient_data"
)

// PersonaAssignment is the single classification result for one
// (user, window). Re-assignment replaces the prior record in place.
type PersonaAssignment struct {
	UserID            string                 `json:"user_id"`
	WindowDays        int                    `json:"window_days"`
	Persona           PersonaID              `json:"persona"`
	CriteriaMet       map[string]interface{} `json:"criteria_met"`
	MatchedConditions []string               `json:"matched_conditions"`
	AssignedAt        time.Time              `json:"assigned_at"`
}
