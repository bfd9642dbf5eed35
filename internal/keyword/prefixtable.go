// Package keyword maps an arbitrary lookup keyword (a leaked-credential
// hash, in this system) down to a small set of candidate row indices,
// so a client only has to issue PIR queries for rows that might match.
package keyword

import (
	"crypto/sha256"
	"encoding/base64"
)

// IndexMapping resolves a keyword to the row indices a client should
// query. Implementations never guarantee a match — callers still verify
// candidates against the PIR-decoded row itself.
type IndexMapping interface {
	Indices(keywordRaw []byte) []int
}

// LocalHashPrefixTable is a client-local keyword index: it stores a
// truncated prefix of every row's own decoded bytes, and returns every
// row whose prefix matches the SHA-256 hash of a looked-up keyword.
type LocalHashPrefixTable struct {
	prefixBits int
	prefixes   [][]byte
}

// NewLocalHashPrefixTable builds a table over entries (base64-encoded
// database rows, in row order), keeping the first prefixBits bits of
// each row's own decoded bytes directly — rows are already leak-hash
// values, so no further hashing happens at build time. Only Indices
// hashes its input.
func NewLocalHashPrefixTable(entries []string, prefixBits int) (*LocalHashPrefixTable, error) {
	t := &LocalHashPrefixTable{prefixBits: prefixBits}
	t.prefixes = make([][]byte, len(entries))
	for i, entry := range entries {
		raw, err := base64.StdEncoding.DecodeString(entry)
		if err != nil {
			return nil, err
		}
		t.prefixes[i] = truncatePrefix(raw, prefixBits)
	}
	return t, nil
}

// truncatePrefix keeps the first prefixBits bits of raw.
func truncatePrefix(raw []byte, prefixBits int) []byte {
	prefixBytes := (prefixBits + 7) / 8
	out := make([]byte, prefixBytes)
	copy(out, raw[:min(len(raw), prefixBytes)])
	if rem := prefixBits % 8; rem != 0 && prefixBytes > 0 {
		mask := byte(0xFF << uint(8-rem))
		out[prefixBytes-1] &= mask
	}
	return out
}

// Prefix returns the stored prefix for row i.
func (t *LocalHashPrefixTable) Prefix(i int) []byte { return t.prefixes[i] }

// Len returns the number of rows indexed.
func (t *LocalHashPrefixTable) Len() int { return len(t.prefixes) }

// Indices hashes keywordRaw with SHA-256 and returns every row index
// whose stored prefix matches the hash's prefix. keywordRaw is the raw
// lookup value (e.g. a credential string), not a row's decoded bytes.
func (t *LocalHashPrefixTable) Indices(keywordRaw []byte) []int {
	sum := sha256.Sum256(keywordRaw)
	want := truncatePrefix(sum[:], t.prefixBits)
	var out []int
	for i, p := range t.prefixes {
		if bytesEqual(p, want) {
			out = append(out, i)
		}
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
