package bigquery

import (
	"errors"
	"strings"
	"testing"

	"github.com/walletwise/insights/internal/domain"
)

func TestReadFailureClassifiesAsDataUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := readFailure("listAccounts: reading query", cause)

	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("errors.Is(ErrDataUnavailable) = false for %v", err)
	}
	if errors.Is(err, domain.ErrConcurrentWrite) {
		t.Errorf("read failure misclassified as a write conflict: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("driver error dropped from the chain: %v", err)
	}
	if !strings.Contains(err.Error(), "listAccounts: reading query") {
		t.Errorf("label missing from message: %v", err)
	}
}
