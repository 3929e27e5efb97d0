package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletwise/insights/internal/domain"
)

type staticCatalog struct {
	entries []domain.CatalogEntry
	err     error
}

func (c *staticCatalog) ListCatalogEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	return c.entries, c.err
}

func testInputs() Inputs {
	return Inputs{
		UserID:     "user-1",
		WindowDays: 30,
		Persona:    domain.PersonaHighUtilization,
		Signals: domain.SignalSet{
			Credit: &domain.CreditSignal{MaxUtilizationPct: 62, Utilization50Flag: true},
		},
	}
}

func educationFor(id string, persona domain.PersonaID) domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:       id,
		Kind:     domain.RecommendationEducation,
		Title:    "Guide " + id,
		Personas: []domain.PersonaID{persona},
	}
}

func TestGenerateItemShape(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	catalog := &staticCatalog{entries: []domain.CatalogEntry{
		educationFor("edu-1", domain.PersonaHighUtilization),
		offerEntry("offer-1", "balance_transfer_card", fptr(3), fptr(19.9)),
	}}
	gen := NewGenerator(catalog, func() time.Time { return now })

	items, err := gen.Generate(context.Background(), testInputs())
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "user-1", item.UserID)
		assert.Equal(t, 30, item.WindowDays)
		assert.Equal(t, domain.PersonaHighUtilization, item.Persona)
		assert.NotEmpty(t, item.Rationale)
		assert.Contains(t, item.Disclosure, Disclaimer)
		assert.Equal(t, domain.StatusPending, item.Status)
		assert.Equal(t, now, item.CreatedAt)
		assert.True(t, item.Decision.SafetyPassed)
		assert.True(t, item.Decision.EligibilityPassed)
		assert.True(t, item.Decision.TonePassed)
	}
	assert.Equal(t, "edu-1", items[0].CatalogID)
	assert.Equal(t, "offer-1", items[1].CatalogID)
}

func TestGenerateCapsPerKind(t *testing.T) {
	var entries []domain.CatalogEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, educationFor(fmt.Sprintf("edu-%d", i), domain.PersonaHighUtilization))
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, offerEntry(fmt.Sprintf("offer-%d", i), "personal_loan", nil, nil))
	}
	gen := NewGenerator(&staticCatalog{entries: entries}, nil)

	items, err := gen.Generate(context.Background(), testInputs())
	require.NoError(t, err)

	var education, offers []string
	for _, item := range items {
		switch item.Kind {
		case domain.RecommendationEducation:
			education = append(education, item.CatalogID)
		case domain.RecommendationOffer:
			offers = append(offers, item.CatalogID)
		}
	}
	assert.Equal(t, []string{"edu-0", "edu-1", "edu-2", "edu-3", "edu-4"}, education,
		"caps keep the first entries in catalog order")
	assert.Equal(t, []string{"offer-0", "offer-1", "offer-2"}, offers)
}

func TestGenerateSkipsNonMatchingPersona(t *testing.T) {
	catalog := &staticCatalog{entries: []domain.CatalogEntry{
		educationFor("edu-other", domain.PersonaSavingsBuilder),
		educationFor("edu-match", domain.PersonaHighUtilization),
	}}
	gen := NewGenerator(catalog, nil)

	items, err := gen.Generate(context.Background(), testInputs())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "edu-match", items[0].CatalogID)
}

func TestGenerateMalformedEntrySkippedNotFatal(t *testing.T) {
	malformed := domain.CatalogEntry{
		ID:       "bad-kind",
		Kind:     "webinar",
		Title:    "Broken",
		Personas: []domain.PersonaID{domain.PersonaHighUtilization},
	}
	catalog := &staticCatalog{entries: []domain.CatalogEntry{
		malformed,
		educationFor("edu-ok", domain.PersonaHighUtilization),
	}}
	gen := NewGenerator(catalog, nil)

	items, err := gen.Generate(context.Background(), testInputs())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "edu-ok", items[0].CatalogID)
}

func TestGenerateDropsGuardrailFailures(t *testing.T) {
	predatory := offerEntry("offer-payday", "payday_loan", nil, nil)
	ineligible := offerEntry("offer-gated", "personal_loan", nil, nil)
	ineligible.Criteria = map[string]interface{}{"min_credit_score": 650.0}
	toneFailing := educationFor("edu-shaming", domain.PersonaHighUtilization)
	toneFailing.Title = "Stop being irresponsible"

	catalog := &staticCatalog{entries: []domain.CatalogEntry{
		predatory,
		ineligible,
		toneFailing,
		educationFor("edu-keep", domain.PersonaHighUtilization),
	}}
	gen := NewGenerator(catalog, nil)

	// No credit score on record, so the gated offer fails closed.
	items, err := gen.Generate(context.Background(), testInputs())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "edu-keep", items[0].CatalogID)
}

func TestGenerateCatalogErrorPropagates(t *testing.T) {
	catalog := &staticCatalog{err: errors.New("backend down")}
	gen := NewGenerator(catalog, nil)

	_, err := gen.Generate(context.Background(), testInputs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing catalog")
}
