// Package idhash computes deterministic identifiers so that re-running the
// engine on identical inputs produces identical records.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"meanrev-lab/internal/domain"
)

// ComputeRunID computes a deterministic run identifier from the symbol, the
// strategy parameters and the covered date range. The first 16 bytes of the
// SHA256 digest are base58-encoded to keep IDs short enough for filenames
// and URLs.
func ComputeRunID(symbol string, cfg domain.StrategyConfig, firstDate, lastDate time.Time) string {
	data := fmt.Sprintf("%s|%s|%d|%d",
		symbol,
		cfg.ID(),
		firstDate.UTC().Unix(),
		lastDate.UTC().Unix(),
	)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
