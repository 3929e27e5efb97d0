package bigquery

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
)

// CatalogEntryRow mirrors the insights.catalog_entries table. The table is
// loaded by the content team; the engine only ever reads it.
type CatalogEntryRow struct {
	CatalogID   string               `bigquery:"catalog_id"` // REQUIRED
	Kind        string               `bigquery:"kind"`       // REQUIRED
	ProductType bigquery.NullString  `bigquery:"product_type"`
	Title       string               `bigquery:"title"` // REQUIRED
	Personas    []string             `bigquery:"personas"`
	Criteria    bigquery.NullJSON    `bigquery:"criteria"`
	FeePct      bigquery.NullFloat64 `bigquery:"fee_pct"`
	APRPct      bigquery.NullFloat64 `bigquery:"apr_pct"`
}

func (r *CatalogEntryRow) toDomain() (domain.CatalogEntry, error) {
	entry := domain.CatalogEntry{
		ID:    r.CatalogID,
		Kind:  domain.RecommendationKind(r.Kind),
		Title: r.Title,
	}
	if r.ProductType.Valid {
		entry.ProductType = r.ProductType.StringVal
	}
	for _, p := range r.Personas {
		entry.Personas = append(entry.Personas, domain.PersonaID(p))
	}
	if r.Criteria.Valid && r.Criteria.JSONVal != "" && r.Criteria.JSONVal != "null" {
		if err := json.Unmarshal([]byte(r.Criteria.JSONVal), &entry.Criteria); err != nil {
			return domain.CatalogEntry{}, fmt.Errorf("CatalogEntryRow.toDomain: unmarshaling criteria: %w", err)
		}
	}
	if r.FeePct.Valid {
		v := r.FeePct.Float64
		entry.FeePct = &v
	}
	if r.APRPct.Valid {
		v := r.APRPct.Float64
		entry.APRPct = &v
	}
	return entry, nil
}
