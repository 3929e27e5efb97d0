package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
)

// SignalRow mirrors the insights.signals table. The table carries a
// uniqueness constraint on (user_id, window_days, kind); recomputation is
// delete-then-insert against that constraint. The typed record travels as
// a JSON payload so the four kinds share one table.
type SignalRow struct {
	UserID     string            `bigquery:"user_id"`     // REQUIRED
	WindowDays int64             `bigquery:"window_days"` // REQUIRED
	Kind       string            `bigquery:"kind"`        // REQUIRED
	Payload    bigquery.NullJSON `bigquery:"payload"`     // REQUIRED JSON
	ComputedTS time.Time         `bigquery:"computed_ts"` // REQUIRED
}

func newSignalRow(userID string, windowDays int, kind domain.SignalKind, payload interface{}, computedAt time.Time) (*SignalRow, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("newSignalRow: marshaling %s payload: %w", kind, err)
	}
	return &SignalRow{
		UserID:     userID,
		WindowDays: int64(windowDays),
		Kind:       string(kind),
		Payload:    bigquery.NullJSON{JSONVal: string(raw), Valid: true},
		ComputedTS: computedAt,
	}, nil
}

func (r *SignalRow) decodeInto(target interface{}) error {
	if !r.Payload.Valid {
		return fmt.Errorf("decodeInto: signal row %s/%d/%s has no payload", r.UserID, r.WindowDays, r.Kind)
	}
	if err := json.Unmarshal([]byte(r.Payload.JSONVal), target); err != nil {
		return fmt.Errorf("decodeInto: unmarshaling %s payload: %w", r.Kind, err)
	}
	return nil
}
