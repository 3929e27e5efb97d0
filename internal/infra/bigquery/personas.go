package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
)

// PersonaRow mirrors the insights.persona_assignments table. Exactly one
// row exists per (user_id, window_days); re-assignment replaces it.
type PersonaRow struct {
	UserID            string            `bigquery:"user_id"`     // REQUIRED
	WindowDays        int64             `bigquery:"window_days"` // REQUIRED
	Persona           string            `bigquery:"persona"`     // REQUIRED
	CriteriaMet       bigquery.NullJSON `bigquery:"criteria_met"`
	MatchedConditions []string          `bigquery:"matched_conditions"` // REPEATED STRING
	AssignedTS        time.Time         `bigquery:"assigned_ts"`        // REQUIRED
}

func newPersonaRow(a *domain.PersonaAssignment) (*PersonaRow, error) {
	criteria, err := json.Marshal(a.CriteriaMet)
	if err != nil {
		return nil, fmt.Errorf("newPersonaRow: marshaling criteria: %w", err)
	}
	return &PersonaRow{
		UserID:            a.UserID,
		WindowDays:        int64(a.WindowDays),
		Persona:           string(a.Persona),
		CriteriaMet:       bigquery.NullJSON{JSONVal: string(criteria), Valid: true},
		MatchedConditions: a.MatchedConditions,
		AssignedTS:        a.AssignedAt,
	}, nil
}

func (r *PersonaRow) toDomain() (*domain.PersonaAssignment, error) {
	a := &domain.PersonaAssignment{
		UserID:            r.UserID,
		WindowDays:        int(r.WindowDays),
		Persona:           domain.PersonaID(r.Persona),
		MatchedConditions: r.MatchedConditions,
		AssignedAt:        r.AssignedTS,
	}
	if r.CriteriaMet.Valid {
		if err := json.Unmarshal([]byte(r.CriteriaMet.JSONVal), &a.CriteriaMet); err != nil {
			return nil, fmt.Errorf("PersonaRow.toDomain: unmarshaling criteria: %w", err)
		}
	}
	return a, nil
}
