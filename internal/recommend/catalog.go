package recommend

import (
	"fmt"
	"strings"

	"github.com/walletwise/insights/internal/domain"
)

// validateEntry checks a catalog entry for the fields the pipeline cannot
// work without. A failure is a configuration error scoped to that entry
// only; callers skip it and continue with the remainder of the catalog.
func validateEntry(e domain.CatalogEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", domain.ErrCatalogMalformed)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: entry %s has no title", domain.ErrCatalogMalformed, e.ID)
	}
	switch e.Kind {
	case domain.RecommendationEducation, domain.RecommendationOffer:
	default:
		return fmt.Errorf("%w: entry %s has unknown kind %q", domain.ErrCatalogMalformed, e.ID, e.Kind)
	}
	if len(e.Personas) == 0 {
		return fmt.Errorf("%w: entry %s is tagged with no personas", domain.ErrCatalogMalformed, e.ID)
	}
	return nil
}
