package recommend

import (
	"fmt"
	"strings"

	"github.com/walletwise/insights/internal/domain"
)

// Absolute limits for offered products. These block regardless of who is
// asking.
const (
	maxOfferFeePct = 10.0
	maxOfferAPRPct = 36.0
)

// predatoryProductTypes is the fixed block list of product categories that
// are never offered.
var predatoryProductTypes = map[string]bool{
	"payday_loan": true,
	"title_loan":  true,
	"pawn_loan":   true,
	"rent_to_own": true,
}

// CheckSafety screens an offer against the predatory-product block list and
// the fee/APR ceilings. Education entries pass untouched. A non-nil return
// names the violated rule.
func CheckSafety(e domain.CatalogEntry) error {
	if e.Kind != domain.RecommendationOffer {
		return nil
	}

	productType := strings.ToLower(strings.TrimSpace(e.ProductType))
	if predatoryProductTypes[productType] {
		return fmt.Errorf("product type %q is blocked", productType)
	}
	if e.FeePct != nil && *e.FeePct > maxOfferFeePct {
		return fmt.Errorf("fee %.1f%% exceeds the %.0f%% ceiling", *e.FeePct, maxOfferFeePct)
	}
	if e.APRPct != nil && *e.APRPct > maxOfferAPRPct {
		return fmt.Errorf("APR %.1f%% exceeds the %.0f%% ceiling", *e.APRPct, maxOfferAPRPct)
	}
	return nil
}
