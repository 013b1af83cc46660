package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DeterministicID derives a stable id from its parts. Analysis records
// (statements, contradictions, patterns, timeline events) use derived ids so
// that repeated runs over identical input produce byte-identical output.
func DeterministicID(prefix string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return prefix + "-" + hex.EncodeToString(sum[:6])
}
