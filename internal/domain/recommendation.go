package domain

import (
	"time"
)

// RecommendationKind distinguishes educational content from product offers.
// Offers pass through the safety and eligibility screens; education does not.
type RecommendationKind string

const (
	RecommendationEducation RecommendationKind = "education"
	RecommendationOffer     RecommendationKind = "offer"
)

// RecommendationStatus is the operator-review lifecycle. The engine always
// writes items as pending; only the review collaborator mutates status, and
// the engine never reads it back.
type RecommendationStatus string

const (
	StatusPending  RecommendationStatus = "pending"
	StatusApproved RecommendationStatus = "approved"
	StatusRejected RecommendationStatus = "rejected"
	StatusFlagged  RecommendationStatus = "flagged"
)

// CatalogEntry is one externally supplied piece of content keyed by the
// personas it applies to.
type CatalogEntry struct {
	ID          string                 `json:"id"`
	Kind        RecommendationKind     `json:"kind"`
	ProductType string                 `json:"product_type,omitempty"`
	Title       string                 `json:"title"`
	Personas    []PersonaID            `json:"personas"`
	Criteria    map[string]interface{} `json:"criteria,omitempty"`
	FeePct      *float64               `json:"fee_pct,omitempty"`
	APRPct      *float64               `json:"apr_pct,omitempty"`
}

// AppliesTo reports whether the entry is tagged with the given persona.
func (e CatalogEntry) AppliesTo(p PersonaID) bool {
	for _, tag := range e.Personas {
		if tag == p {
			return true
		}
	}
	return false
}

// GuardrailDecision is the machine-checkable audit payload attached to every
// surviving recommendation, recording what each screen concluded.
type GuardrailDecision struct {
	SafetyPassed      bool     `json:"safety_passed"`
	EligibilityPassed bool     `json:"eligibility_passed"`
	TonePassed        bool     `json:"tone_passed"`
	CriteriaChecked   []string `json:"criteria_checked,omitempty"`
	Reasons           []string `json:"reasons,omitempty"`
}

// RecommendationItem is one guardrailed recommendation. Items are only
// externally visible once Rationale and Disclosure are both non-empty.
type RecommendationItem struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	WindowDays int                  `json:"window_days"`
	Persona    PersonaID            `json:"persona"`
	Kind       RecommendationKind   `json:"kind"`
	CatalogID  string               `json:"catalog_id"`
	Title      string               `json:"title"`
	Rationale  string               `json:"rationale"`
	Decision   GuardrailDecision    `json:"decision"`
	Disclosure string               `json:"disclosure"`
	Status     RecommendationStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}
