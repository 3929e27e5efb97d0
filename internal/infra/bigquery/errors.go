package bigquery

import (
	"fmt"

	"github.com/walletwise/insights/internal/domain"
)

// readFailure tags a failed read so callers can classify it as retryable
// with errors.Is(err, domain.ErrDataUnavailable). The driver error stays in
// the chain for logging.
func readFailure(label string, err error) error {
	return fmt.Errorf("%s: %w: %w", label, domain.ErrDataUnavailable, err)
}
