package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// InsertDecisionTraceWithClient appends one trace. Traces are write-once:
// an existing trace_id is rejected, never overwritten.
func InsertDecisionTraceWithClient(ctx context.Context, client *bigquery.Client, trace *domain.DecisionTrace) error {
	row, err := newDecisionTraceRow(trace)
	if err != nil {
		return fmt.Errorf("InsertDecisionTraceWithClient: %w", err)
	}

	count, err := countTraceRows(ctx, client, row.TraceID)
	if err != nil {
		return fmt.Errorf("InsertDecisionTraceWithClient: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("InsertDecisionTraceWithClient: trace %s already recorded", row.TraceID)
	}

	insert := client.Query(fmt.Sprintf(`
		INSERT `+"`%s.%s.decision_traces`"+` (
			trace_id, user_id, window_days, persona, payload, generated_ts
		)
		VALUES (
			@trace_id, @user_id, @window_days, @persona, PARSE_JSON(@payload), @generated_ts
		)
	`, projectID, datasetID))
	insert.Parameters = []bigquery.QueryParameter{
		{Name: "trace_id", Value: row.TraceID},
		{Name: "user_id", Value: row.UserID},
		{Name: "window_days", Value: row.WindowDays},
		{Name: "persona", Value: row.Persona},
		{Name: "payload", Value: row.Payload.JSONVal},
		{Name: "generated_ts", Value: row.GeneratedTS},
	}
	return runJob(ctx, insert, "InsertDecisionTraceWithClient")
}

// DecisionTraceWithClient returns the newest trace for (user, window), or
// nil when the user has never been analyzed.
func DecisionTraceWithClient(ctx context.Context, client *bigquery.Client, userID string, windowDays int) (*domain.DecisionTrace, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT trace_id, user_id, window_days, persona,
		       TO_JSON_STRING(payload) AS payload, generated_ts
		FROM `+"`%s.%s.decision_traces`"+`
		WHERE user_id = @user_id AND window_days = @window_days
		ORDER BY generated_ts DESC
		LIMIT 1
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("DecisionTraceWithClient: reading query", err)
	}

	var row DecisionTraceRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, readFailure("DecisionTraceWithClient: iterating", err)
	}
	return row.toDomain()
}

func countTraceRows(ctx context.Context, client *bigquery.Client, traceID string) (int64, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT COUNT(*) AS n
		FROM `+"`%s.%s.decision_traces`"+`
		WHERE trace_id = @trace_id
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "trace_id", Value: traceID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, readFailure("countTraceRows: reading query", err)
	}
	var row struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&row); err != nil {
		return 0, readFailure("countTraceRows: iterating", err)
	}
	return row.N, nil
}
