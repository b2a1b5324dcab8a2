package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(run_id|symbol|entry_date)
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID, symbol string, entryDate time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", runID, symbol, entryDate.UTC().Unix())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
