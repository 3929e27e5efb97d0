package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// ReplacePersonaAssignmentWithClient swaps the single assignment row for
// (user, window) in place.
func ReplacePersonaAssignmentWithClient(ctx context.Context, client *bigquery.Client, assignment *domain.PersonaAssignment) error {
	row, err := newPersonaRow(assignment)
	if err != nil {
		return fmt.Errorf("ReplacePersonaAssignmentWithClient: %w", err)
	}

	del := client.Query(fmt.Sprintf(`
		DELETE FROM `+"`%s.%s.persona_assignments`"+`
		WHERE user_id = @user_id AND window_days = @window_days
	`, projectID, datasetID))
	del.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: row.UserID},
		{Name: "window_days", Value: row.WindowDays},
	}
	if err := runJob(ctx, del, "ReplacePersonaAssignmentWithClient: delete"); err != nil {
		return err
	}

	insert := client.Query(fmt.Sprintf(`
		INSERT `+"`%s.%s.persona_assignments`"+` (
			user_id, window_days, persona, criteria_met, matched_conditions, assigned_ts
		)
		VALUES (
			@user_id, @window_days, @persona, PARSE_JSON(@criteria_met), @matched_conditions, @assigned_ts
		)
	`, projectID, datasetID))
	insert.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: row.UserID},
		{Name: "window_days", Value: row.WindowDays},
		{Name: "persona", Value: row.Persona},
		{Name: "criteria_met", Value: row.CriteriaMet.JSONVal},
		{Name: "matched_conditions", Value: row.MatchedConditions},
		{Name: "assigned_ts", Value: row.AssignedTS},
	}
	return runJob(ctx, insert, "ReplacePersonaAssignmentWithClient: insert")
}

// PersonaAssignmentWithClient reads the current assignment, or nil when
// the user has never been classified for this window.
func PersonaAssignmentWithClient(ctx context.Context, client *bigquery.Client, userID string, windowDays int) (*domain.PersonaAssignment, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id, window_days, persona, TO_JSON_STRING(criteria_met) AS criteria_met,
		       matched_conditions, assigned_ts
		FROM `+"`%s.%s.persona_assignments`"+`
		WHERE user_id = @user_id AND window_days = @window_days
		LIMIT 1
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("PersonaAssignmentWithClient: reading query", err)
	}

	var row PersonaRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, readFailure("PersonaAssignmentWithClient: iterating", err)
	}
	return row.toDomain()
}

// runJob runs a DML query to completion and unwraps the three error sites.
func runJob(ctx context.Context, q *bigquery.Query, label string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", label, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", label, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", label, err)
	}
	return nil
}
