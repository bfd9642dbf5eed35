package keyword

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndicesFindsMatchingRow(t *testing.T) {
	// Rows store leak-hash values directly (no build-time hashing); a
	// matching lookup hashes its raw keyword to compare against them.
	cred0 := []byte("row-zero-credential")
	cred1 := []byte("row-one-credential")
	hash0 := sha256.Sum256(cred0)
	hash1 := sha256.Sum256(cred1)
	entries := []string{
		base64.StdEncoding.EncodeToString(hash0[:]),
		base64.StdEncoding.EncodeToString(hash1[:]),
	}

	table, err := NewLocalHashPrefixTable(entries, 24)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	idx := table.Indices(cred0)
	require.Contains(t, idx, 0)
}

func TestIndicesNoMatch(t *testing.T) {
	entries := []string{base64.StdEncoding.EncodeToString([]byte("alpha"))}
	table, err := NewLocalHashPrefixTable(entries, 16)
	require.NoError(t, err)

	idx := table.Indices([]byte("totally-different"))
	require.Empty(t, idx)
}

func TestWireRoundTrip(t *testing.T) {
	entries := []string{
		base64.StdEncoding.EncodeToString([]byte("alpha")),
		base64.StdEncoding.EncodeToString([]byte("beta")),
	}
	table, err := NewLocalHashPrefixTable(entries, 20)
	require.NoError(t, err)

	raw, err := json.Marshal(table.toWire())
	require.NoError(t, err)

	var wt wireTable
	require.NoError(t, json.Unmarshal(raw, &wt))

	round, err := fromWire(wt)
	require.NoError(t, err)
	require.Equal(t, table.prefixes, round.prefixes)
	require.Equal(t, table.prefixBits, round.prefixBits)
}

func TestPrefixOfNonByteAlignedBits(t *testing.T) {
	p := truncatePrefix([]byte("hello world"), 12)
	require.Len(t, p, 2)
}
