package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
)

// DecisionTraceRow mirrors the insights.decision_traces table. The trace
// body is stored whole as JSON so the audit snapshot round-trips exactly.
type DecisionTraceRow struct {
	TraceID     string            `bigquery:"trace_id"`    // REQUIRED
	UserID      string            `bigquery:"user_id"`     // REQUIRED
	WindowDays  int64             `bigquery:"window_days"` // REQUIRED
	Persona     string            `bigquery:"persona"`
	Payload     bigquery.NullJSON `bigquery:"payload"`      // REQUIRED
	GeneratedTS time.Time         `bigquery:"generated_ts"` // REQUIRED
}

func newDecisionTraceRow(trace *domain.DecisionTrace) (*DecisionTraceRow, error) {
	payload, err := json.Marshal(trace)
	if err != nil {
		return nil, fmt.Errorf("newDecisionTraceRow: marshaling trace: %w", err)
	}
	row := &DecisionTraceRow{
		TraceID:     trace.TraceID,
		UserID:      trace.UserID,
		WindowDays:  int64(trace.WindowDays),
		Payload:     bigquery.NullJSON{JSONVal: string(payload), Valid: true},
		GeneratedTS: trace.GeneratedAt,
	}
	if trace.Persona != nil {
		row.Persona = string(trace.Persona.Persona)
	}
	return row, nil
}

func (r *DecisionTraceRow) toDomain() (*domain.DecisionTrace, error) {
	if !r.Payload.Valid {
		return nil, fmt.Errorf("DecisionTraceRow.toDomain: trace %s has no payload", r.TraceID)
	}
	var trace domain.DecisionTrace
	if err := json.Unmarshal([]byte(r.Payload.JSONVal), &trace); err != nil {
		return nil, fmt.Errorf("DecisionTraceRow.toDomain: unmarshaling trace %s: %w", r.TraceID, err)
	}
	return &trace, nil
}
