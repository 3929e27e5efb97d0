package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/walletwise/insights/internal/domain"
)

// RecommendationRow mirrors the insights.recommendations table.
type RecommendationRow struct {
	RecommendationID string            `bigquery:"recommendation_id"` // REQUIRED
	UserID           string            `bigquery:"user_id"`           // REQUIRED
	WindowDays       int64             `bigquery:"window_days"`       // REQUIRED
	Persona          string            `bigquery:"persona"`           // REQUIRED
	Kind             string            `bigquery:"kind"`              // REQUIRED
	CatalogID        string            `bigquery:"catalog_id"`
	Title            string            `bigquery:"title"`      // REQUIRED
	Rationale        string            `bigquery:"rationale"`  // REQUIRED
	Decision         bigquery.NullJSON `bigquery:"decision"`
	Disclosure       string            `bigquery:"disclosure"` // REQUIRED
	Status           string            `bigquery:"status"`     // REQUIRED
	CreatedTS        time.Time         `bigquery:"created_ts"` // REQUIRED
}

func newRecommendationRow(item domain.RecommendationItem) (*RecommendationRow, error) {
	decision, err := json.Marshal(item.Decision)
	if err != nil {
		return nil, fmt.Errorf("newRecommendationRow: marshaling decision: %w", err)
	}
	return &RecommendationRow{
		RecommendationID: item.ID,
		UserID:           item.UserID,
		WindowDays:       int64(item.WindowDays),
		Persona:          string(item.Persona),
		Kind:             string(item.Kind),
		CatalogID:        item.CatalogID,
		Title:            item.Title,
		Rationale:        item.Rationale,
		Decision:         bigquery.NullJSON{JSONVal: string(decision), Valid: true},
		Disclosure:       item.Disclosure,
		Status:           string(item.Status),
		CreatedTS:        item.CreatedAt,
	}, nil
}

func (r *RecommendationRow) toDomain() (domain.RecommendationItem, error) {
	item := domain.RecommendationItem{
		ID:         r.RecommendationID,
		UserID:     r.UserID,
		WindowDays: int(r.WindowDays),
		Persona:    domain.PersonaID(r.Persona),
		Kind:       domain.RecommendationKind(r.Kind),
		CatalogID:  r.CatalogID,
		Title:      r.Title,
		Rationale:  r.Rationale,
		Disclosure: r.Disclosure,
		Status:     domain.RecommendationStatus(r.Status),
		CreatedAt:  r.CreatedTS,
	}
	if r.Decision.Valid {
		if err := json.Unmarshal([]byte(r.Decision.JSONVal), &item.Decision); err != nil {
			return domain.RecommendationItem{}, fmt.Errorf("RecommendationRow.toDomain: unmarshaling decision: %w", err)
		}
	}
	return item, nil
}
