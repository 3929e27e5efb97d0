package recommend

import (
	"strings"

	"github.com/walletwise/insights/internal/domain"
)

// Disclaimer is the mandatory educational disclosure carried by every item
// the pipeline returns.
const Disclaimer = "This is educational information, not personalized financial advice. " +
	"Consider your full financial situation or consult a licensed advisor before acting."

// AttachDisclosure appends the mandatory disclaimer to an item. It is
// idempotent: running it again never duplicates the text.
func AttachDisclosure(item *domain.RecommendationItem) {
	if strings.Contains(item.Disclosure, Disclaimer) {
		return
	}
	if item.Disclosure == "" {
		item.Disclosure = Disclaimer
		return
	}
	item.Disclosure = strings.TrimSpace(item.Disclosure) + " " + Disclaimer
}
