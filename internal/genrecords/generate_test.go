package genrecords

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leakcheck/creds-pir/internal/oprf"
)

func TestGenerateCredentialsUnique(t *testing.T) {
	creds := GenerateCredentials(50)
	seen := map[string]bool{}
	for _, c := range creds {
		require.False(t, seen[c], "duplicate credential: %s", c)
		seen[c] = true
	}
}

func TestGenerateRecordsMatchCredentials(t *testing.T) {
	key, err := oprf.KeyGen()
	require.NoError(t, err)

	creds, records, err := GenerateRecords(key, 10)
	require.NoError(t, err)
	require.Len(t, records, 10)
	require.Len(t, creds, 10)

	// Re-deriving the OPRF output for a known credential must match its
	// published record.
	state, alpha, err := oprf.Blind([]byte(creds[3]))
	require.NoError(t, err)
	beta, err := oprf.Evaluate(key, alpha)
	require.NoError(t, err)
	n, err := oprf.Unblind(state, beta)
	require.NoError(t, err)
	want := oprf.Finalize([]byte(creds[3]), n)

	gotRaw, err := base64.StdEncoding.DecodeString(records[3])
	require.NoError(t, err)
	require.Equal(t, want, gotRaw)
}
