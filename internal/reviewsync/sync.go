// Package reviewsync mirrors recommendation items onto a Notion review
// board and pulls operator verdicts back. The engine writes items as
// pending; reviewers flip each page's Status select, and the pull pass
// writes those verdicts back to the store.
package reviewsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/walletwise/insights/internal/domain"
	"github.com/walletwise/insights/internal/logger"
	"github.com/walletwise/insights/internal/store"
)

const pageSize = 100

// PushItems creates one board page per item that does not already have
// one. The Recommendation ID title property is the idempotency key.
func PushItems(ctx context.Context, notion NotionService, databaseID string, items []domain.RecommendationItem, dryRun bool) error {
	log := logger.FromContext(ctx)

	pages, err := queryAllPages(ctx, notion, databaseID)
	if err != nil {
		return fmt.Errorf("PushItems: %w", err)
	}

	existing := make(map[string]bool, len(pages))
	for _, page := range pages {
		if id := extractItemID(page); id != "" {
			existing[id] = true
		}
	}

	var created, skipped int
	for _, item := range items {
		if existing[item.ID] {
			skipped++
			continue
		}
		if dryRun {
			log.Info().
				Str("recommendation_id", item.ID).
				Msg("[DRY RUN] Would create review page")
			created++
			continue
		}
		if _, err := notion.CreatePage(ctx, databaseID, ItemToNotionProperties(item)); err != nil {
			return fmt.Errorf("PushItems: creating page for %s: %w", item.ID, err)
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Msg("Pushed recommendation items to review board")
	return nil
}

// PullVerdicts reads every board page and writes non-pending statuses back
// to the recommendation store. Pages with no recognizable id or status are
// skipped with a warning.
func PullVerdicts(ctx context.Context, notion NotionService, databaseID string, recs store.RecommendationStore, dryRun bool) error {
	log := logger.FromContext(ctx)

	pages, err := queryAllPages(ctx, notion, databaseID)
	if err != nil {
		return fmt.Errorf("PullVerdicts: %w", err)
	}

	var applied, skipped int
	for _, page := range pages {
		itemID := extractItemID(page)
		status := extractStatus(page)
		if itemID == "" || status == "" {
			log.Warn().
				Str("page_id", string(page.ID)).
				Msg("Skipping review page with missing id or status")
			skipped++
			continue
		}
		if status == domain.StatusPending {
			skipped++
			continue
		}
		if dryRun {
			log.Info().
				Str("recommendation_id", itemID).
				Str("status", string(status)).
				Msg("[DRY RUN] Would apply verdict")
			applied++
			continue
		}
		if err := recs.UpdateRecommendationStatus(ctx, itemID, status); err != nil {
			return fmt.Errorf("PullVerdicts: updating %s: %w", itemID, err)
		}
		applied++
	}

	log.Info().
		Int("applied", applied).
		Int("skipped", skipped).
		Msg("Pulled review verdicts from board")
	return nil
}

// queryAllPages walks the database cursor to cursor until exhausted.
func queryAllPages(ctx context.Context, notion NotionService, databaseID string) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}

	for {
		resp, err := notion.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}
