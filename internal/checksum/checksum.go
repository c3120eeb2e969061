// Package checksum computes document content digests and the ETag
// values derived from them.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag formats a digest as a strong HTTP validator.
func ETag(sum string) string {
	return `"` + sum + `"`
}

// MatchesETag reports whether an If-None-Match header value matches the
// digest. Weak validators, quoting, and multi-value lists are tolerated.
func MatchesETag(header, sum string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		candidate = strings.Trim(candidate, `"`)
		if candidate == sum {
			return true
		}
	}
	return false
}
