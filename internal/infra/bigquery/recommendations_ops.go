package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// ReplaceRecommendationsWithClient swaps the full item set for
// (user, window): delete the prior generation, insert the new one.
func ReplaceRecommendationsWithClient(ctx context.Context, client *bigquery.Client, userID string, windowDays int, items []domain.RecommendationItem) error {
	del := client.Query(fmt.Sprintf(`
		DELETE FROM `+"`%s.%s.recommendations`"+`
		WHERE user_id = @user_id AND window_days = @window_days
	`, projectID, datasetID))
	del.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
	}
	if err := runJob(ctx, del, "ReplaceRecommendationsWithClient: delete"); err != nil {
		return err
	}

	for _, item := range items {
		row, err := newRecommendationRow(item)
		if err != nil {
			return fmt.Errorf("ReplaceRecommendationsWithClient: %w", err)
		}

		insert := client.Query(fmt.Sprintf(`
			INSERT `+"`%s.%s.recommendations`"+` (
				recommendation_id, user_id, window_days, persona, kind, catalog_id,
				title, rationale, decision, disclosure, status, created_ts
			)
			VALUES (
				@recommendation_id, @user_id, @window_days, @persona, @kind, @catalog_id,
				@title, @rationale, PARSE_JSON(@decision), @disclosure, @status, @created_ts
			)
		`, projectID, datasetID))
		insert.Parameters = []bigquery.QueryParameter{
			{Name: "recommendation_id", Value: row.RecommendationID},
			{Name: "user_id", Value: row.UserID},
			{Name: "window_days", Value: row.WindowDays},
			{Name: "persona", Value: row.Persona},
			{Name: "kind", Value: row.Kind},
			{Name: "catalog_id", Value: row.CatalogID},
			{Name: "title", Value: row.Title},
			{Name: "rationale", Value: row.Rationale},
			{Name: "decision", Value: row.Decision.JSONVal},
			{Name: "disclosure", Value: row.Disclosure},
			{Name: "status", Value: row.Status},
			{Name: "created_ts", Value: row.CreatedTS},
		}
		if err := runJob(ctx, insert, "ReplaceRecommendationsWithClient: insert"); err != nil {
			return err
		}
	}
	return nil
}

// RecommendationsWithClient lists the window's items in creation order.
func RecommendationsWithClient(ctx context.Context, client *bigquery.Client, userID string, windowDays int) ([]domain.RecommendationItem, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT recommendation_id, user_id, window_days, persona, kind, catalog_id,
		       title, rationale, TO_JSON_STRING(decision) AS decision,
		       disclosure, status, created_ts
		FROM `+"`%s.%s.recommendations`"+`
		WHERE user_id = @user_id AND window_days = @window_days
		ORDER BY created_ts, recommendation_id
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "window_days", Value: int64(windowDays)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("RecommendationsWithClient: reading query", err)
	}

	var items []domain.RecommendationItem
	for {
		var row RecommendationRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, readFailure("RecommendationsWithClient: iterating", err)
		}
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("RecommendationsWithClient: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateRecommendationStatusWithClient is the operator-review write-back.
func UpdateRecommendationStatusWithClient(ctx context.Context, client *bigquery.Client, itemID string, status domain.RecommendationStatus) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE `+"`%s.%s.recommendations`"+`
		SET status = @status
		WHERE recommendation_id = @recommendation_id
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: string(status)},
		{Name: "recommendation_id", Value: itemID},
	}
	return runJob(ctx, q, "UpdateRecommendationStatusWithClient")
}
