package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// ListCatalogEntriesWithClient returns the full catalog in its published
// order. Catalog order is what drives recommendation precedence downstream.
func ListCatalogEntriesWithClient(ctx context.Context, client *bigquery.Client) ([]domain.CatalogEntry, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT catalog_id, kind, product_type, title, personas,
		       TO_JSON_STRING(criteria) AS criteria, fee_pct, apr_pct
		FROM `+"`%s.%s.catalog_entries`"+`
		ORDER BY position
	`, projectID, datasetID))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("ListCatalogEntriesWithClient: reading query", err)
	}

	var entries []domain.CatalogEntry
	for {
		var row CatalogEntryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, readFailure("ListCatalogEntriesWithClient: iterating", err)
		}
		entry, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ListCatalogEntriesWithClient: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
