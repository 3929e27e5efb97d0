package domain

import (
	"time"
)

// DecisionTrace is the denormalized audit snapshot for one (user, window):
// the persona assignment, all four signals (nulls allowed), and every
// recommendation generated for the window. Field names and nesting are a
// stable contract; fairness, metrics and report collaborators parse them.
type DecisionTrace struct {
	TraceID             string               `json:"trace_id"`
	UserID              string               `json:"user_id"`
	WindowDays          int                  `json:"window_days"`
	Persona             *PersonaAssignment   `json:"persona"`
	Signals             SignalSet            `json:"signals"`
	Recommendations     []RecommendationItem `json:"recommendations"`
	SignalCount         int                  `json:"signal_count"`
	EducationCount      int                  `json:"education_count"`
	OfferCount          int                  `json:"offer_count"`
	RecommendationCount int                  `json:"recommendation_count"`
	GeneratedAt         time.Time            `json:"generated_at"`
}
