package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// ReplaceSignalWithClient atomically swaps the stored record for
// (user, window, kind): delete the prior row, insert the new one, then
// verify the uniqueness constraint still holds. When a concurrent
// recomputation of the same key also inserted, the losing writer deletes
// its own row and surfaces domain.ErrConcurrentWrite so the caller can
// retry after re-reading.
func ReplaceSignalWithClient(ctx context.Context, client *bigquery.Client, row *SignalRow) error {
	if err := runSignalDelete(ctx, client, row.UserID, int(row.WindowDays), domain.SignalKind(row.Kind)); err != nil {
		return fmt.Errorf("ReplaceSignalWithClient: deleting prior row: %w", err)
	}

	insert := client.Query(fmt.Sprintf(`
		INSERT `+"`%s.%s.signals`"+` (user_id, window_days, kind, payload, computed_ts)
		VALUES (@user_id, @window_days, @kind, PARSE_JSON(@payload), @computed_ts)
	`, projectID, datasetID))
	insert.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: row.UserID},
		{Name: "window_days", Value: row.WindowDays},
		{Name: "kind", Value: row.Kind},
		{Name: "payload", Value: row.Payload.JSONVal},
		{Name: "computed_ts", Value: row.ComputedTS},
	}

	job, err := insert.Run(ctx)
	if err != nil {
		return fmt.Errorf("ReplaceSignalWithClient: running insert: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("ReplaceSignalWithClient: waiting for insert: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("ReplaceSignalWithClient: insert job: %w", err)
	}

	count, err := countSignalRows(ctx, client, row.UserID, int(row.WindowDays), domain.SignalKind(row.Kind))
	if err != nil {
		return fmt.Errorf("ReplaceSignalWithClient: verifying uniqueness: %w", err)
	}
	if count > 1 {
		// Lost the race. Remove our duplicate and let the caller retry.
		if err := runSignalDelete(ctx, client, row.UserID, int(row.WindowDays), domain.SignalKind(row.Kind)); err != nil {
			return fmt.Errorf("ReplaceSignalWithClient: clearing duplicates: %w", err)
		}
		return fmt.Errorf("ReplaceSignalWithClient: %s/%d/%s: %w",
			row.UserID, row.WindowDays, row.Kind, domain.ErrConcurrentWrite)
	}
	return nil
}

func runSignalDelete(ctx context.Context, client *bigquery.Client, userID string, windowDays int, kind domain.SignalKind) error {
	q := client.Query(fmt.Sprintf(`
		DELETE FROM `+"`%s.%s.signals`"+`
		WHERE user_id = @user_id AND window_days = @window_days AND kind = @kind
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
		{Name: "kind", Value: string(kind)},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("runSignalDelete: running delete: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("runSignalDelete: waiting for delete: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("runSignalDelete: delete job: %w", err)
	}
	return nil
}

func countSignalRows(ctx context.Context, client *bigquery.Client, userID string, windowDays int, kind domain.SignalKind) (int64, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT COUNT(*) AS n
		FROM `+"`%s.%s.signals`"+`
		WHERE user_id = @user_id AND window_days = @window_days AND kind = @kind
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
		{Name: "kind", Value: string(kind)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, readFailure("countSignalRows: reading query", err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	if err := it.Next(&row); err != nil && err != iterator.Done {
		return 0, readFailure("countSignalRows: iterating", err)
	}
	return row.N, nil
}

// SignalSetWithClient reads the (possibly partial) bundle for a key.
// Absent kinds stay nil.
func SignalSetWithClient(ctx context.Context, client *bigquery.Client, userID string, windowDays int) (domain.SignalSet, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id, window_days, kind, TO_JSON_STRING(payload) AS payload, computed_ts
		FROM `+"`%s.%s.signals`"+`
		WHERE user_id = @user_id AND window_days = @window_days
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.SignalSet{}, readFailure("SignalSetWithClient: reading query", err)
	}

	var set domain.SignalSet
	for {
		var row SignalRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return domain.SignalSet{}, readFailure("SignalSetWithClient: iterating", err)
		}

		switch domain.SignalKind(row.Kind) {
		case domain.SignalSubscription:
			var sig domain.SubscriptionSignal
			if err := row.decodeInto(&sig); err != nil {
				return domain.SignalSet{}, fmt.Errorf("SignalSetWithClient: %w", err)
			}
			set.Subscription = &sig
		case domain.SignalSavings:
			var sig domain.SavingsSignal
			if err := row.decodeInto(&sig); err != nil {
				return domain.SignalSet{}, fmt.Errorf("SignalSetWithClient: %w", err)
			}
			set.Savings = &sig
		case domain.SignalCredit:
			var sig domain.CreditSignal
			if err := row.decodeInto(&sig); err != nil {
				return domain.SignalSet{}, fmt.Errorf("SignalSetWithClient: %w", err)
			}
			set.Credit = &sig
		case domain.SignalIncome:
			var sig domain.IncomeSignal
			if err := row.decodeInto(&sig); err != nil {
				return domain.SignalSet{}, fmt.Errorf("SignalSetWithClient: %w", err)
			}
			set.Income = &sig
		}
	}
	return set, nil
}
