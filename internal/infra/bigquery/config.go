// Package bigquery persists ledger data, signals, personas,
// recommendations, the content catalog and decision traces. One file per
// table holds the row struct; the matching _ops file holds the
// parameterized queries, each with a ...WithClient variant for sharing a
// client.
package bigquery

import (
	"os"
)

var (
	projectID = envOr("BQ_PROJECT", "walletwise-prod")
	datasetID = envOr("BQ_DATASET", "insights")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
