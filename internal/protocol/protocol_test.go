package protocol

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leakcheck/creds-pir/internal/oprf"
	"github.com/leakcheck/creds-pir/internal/pirerrors"
	"github.com/leakcheck/creds-pir/internal/shard"
)

// buildDatabase builds a shard whose rows are OPRF(key, credential) for
// a fixed set of known-leaked credentials, mirroring how a real server
// would seed the database offline.
func buildDatabase(t *testing.T, key *oprf.PrivateKey, credentials []string) []string {
	t.Helper()
	out := make([]string, len(credentials))
	for i, cred := range credentials {
		state, alpha, err := oprf.Blind([]byte(cred))
		require.NoError(t, err)
		beta, err := oprf.Evaluate(key, alpha)
		require.NoError(t, err)
		n, err := oprf.Unblind(state, beta)
		require.NoError(t, err)
		hash := oprf.Finalize([]byte(cred), n)
		out[i] = base64.StdEncoding.EncodeToString(hash)
	}
	return out
}

func TestEndToEndCompromisedLookup(t *testing.T) {
	key, err := oprf.KeyGen()
	require.NoError(t, err)

	credentials := []string{
		"alice@example.com:hunter2",
		"bob@example.com:correcthorse",
		"carol@example.com:p@ssw0rd",
		"dave@example.com:letmein",
	}
	records := buildDatabase(t, key, credentials)

	s, err := shard.New("shard-0", records, len(records), oprf.OutputSize*8, 10, 64)
	require.NoError(t, err)

	bp, err := NewBucketParams(s.Params)
	require.NoError(t, err)

	// Looking up a leaked credential should find it.
	indices := []int{0, 1, 2, 3}
	qps, err := Preprocess(bp, len(indices))
	require.NoError(t, err)
	state, msg, err := ClientPrepareQueries(bp, qps, indices, []byte(credentials[2]))
	require.NoError(t, err)

	resp, err := ServerCalculateResponse(s, key, msg)
	require.NoError(t, err)

	found, err := ClientProcessOutput(state, oprf.OutputSize*8, resp)
	require.NoError(t, err)
	require.True(t, found)
}

func TestEndToEndCleanCredentialNotFound(t *testing.T) {
	key, err := oprf.KeyGen()
	require.NoError(t, err)

	credentials := []string{
		"alice@example.com:hunter2",
		"bob@example.com:correcthorse",
	}
	records := buildDatabase(t, key, credentials)

	s, err := shard.New("shard-1", records, len(records), oprf.OutputSize*8, 10, 64)
	require.NoError(t, err)

	bp, err := NewBucketParams(s.Params)
	require.NoError(t, err)

	indices := []int{0, 1}
	qps, err := Preprocess(bp, len(indices))
	require.NoError(t, err)
	state, msg, err := ClientPrepareQueries(bp, qps, indices, []byte("never-leaked@example.com:safe"))
	require.NoError(t, err)

	resp, err := ServerCalculateResponse(s, key, msg)
	require.NoError(t, err)

	found, err := ClientProcessOutput(state, oprf.OutputSize*8, resp)
	require.NoError(t, err)
	require.False(t, found)
}

func TestClientPrepareQueriesRejectsLengthMismatch(t *testing.T) {
	key, err := oprf.KeyGen()
	require.NoError(t, err)

	records := buildDatabase(t, key, []string{"alice@example.com:hunter2", "bob@example.com:correcthorse"})
	s, err := shard.New("shard-2", records, len(records), oprf.OutputSize*8, 10, 64)
	require.NoError(t, err)

	bp, err := NewBucketParams(s.Params)
	require.NoError(t, err)

	qps, err := Preprocess(bp, 1)
	require.NoError(t, err)

	_, _, err = ClientPrepareQueries(bp, qps, []int{0, 1}, []byte("alice@example.com:hunter2"))
	require.Error(t, err)
	var qerr *pirerrors.ClientQueryError
	require.ErrorAs(t, err, &qerr)
}

func generateRandomRecords(t *testing.T, n, byteLen int) []string {
	t.Helper()
	out := make([]string, n)
	for i := range out {
		buf := make([]byte, byteLen)
		_, err := rand.Read(buf)
		require.NoError(t, err)
		out[i] = base64.StdEncoding.EncodeToString(buf)
	}
	return out
}
