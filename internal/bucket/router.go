// Package bucket resolves a lookup keyword to the shard group (bucket)
// that would hold its row, so a client only has to fetch parameters and
// issue queries against one bucket instead of the whole database.
package bucket

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HexPrefixLen is the number of hex characters of a keyword's SHA-256
// digest consulted for bucket routing.
const HexPrefixLen = 16

// ID computes the bucket a keyword routes to: the first hexPrefixLen
// hex characters of SHA-256(keyword), interpreted as a hex integer and
// reduced mod totalBuckets.
func ID(keyword []byte, hexPrefixLen, totalBuckets int) (int, error) {
	if totalBuckets <= 0 {
		return 0, fmt.Errorf("bucket: totalBuckets must be positive, got %d", totalBuckets)
	}
	sum := sha256.Sum256(keyword)
	hexStr := hex.EncodeToString(sum[:])
	if hexPrefixLen > len(hexStr) {
		hexPrefixLen = len(hexStr)
	}
	prefix := hexStr[:hexPrefixLen]

	var val uint64
	for _, c := range prefix {
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		default:
			return 0, fmt.Errorf("bucket: invalid hex digit %q", c)
		}
		val = val*16 + d
	}
	return int(val % uint64(totalBuckets)), nil
}
