package pirparams

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leakcheck/creds-pir/internal/lwe"
	"github.com/leakcheck/creds-pir/internal/pirdb"
)

func generateRecords(t *testing.T, n, byteLen int) []string {
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

func TestCommonParamsFromMatchesExpansion(t *testing.T) {
	records := generateRecords(t, 8, 32)
	db, err := pirdb.New(records, 8, 256, 10)
	require.NoError(t, err)

	bp, err := NewBaseParams(db, 16)
	require.NoError(t, err)

	cp, err := CommonParamsFrom(bp)
	require.NoError(t, err)

	want, err := lwe.ExpandUniform(bp.LHSSeed, bp.M, bp.Dim)
	require.NoError(t, err)
	require.Equal(t, want, cp.Matrix())
}

func TestMultRightMatchesRHS(t *testing.T) {
	records := generateRecords(t, 8, 32)
	db, err := pirdb.New(records, 8, 256, 10)
	require.NoError(t, err)

	bp, err := NewBaseParams(db, 16)
	require.NoError(t, err)

	s, err := lwe.RandomTernaryVector(bp.Dim)
	require.NoError(t, err)

	out, err := bp.MultRight(s)
	require.NoError(t, err)
	require.Equal(t, db.Width(), len(out))

	// Recompute s·(A·DB) independently as (s·A)·DB and compare exactly.
	a, err := lwe.ExpandUniform(bp.LHSSeed, bp.M, bp.Dim)
	require.NoError(t, err)
	sa := make([]uint32, bp.M)
	for j, col := range a {
		sa[j], err = lwe.VecInner(s, col)
		require.NoError(t, err)
	}
	for i := range out {
		want, err := db.VecMult(sa, i)
		require.NoError(t, err)
		require.Equal(t, want, out[i])
	}
}

func TestMultLeftLengthMatchesM(t *testing.T) {
	records := generateRecords(t, 8, 32)
	db, err := pirdb.New(records, 8, 256, 10)
	require.NoError(t, err)

	bp, err := NewBaseParams(db, 16)
	require.NoError(t, err)
	cp, err := CommonParamsFrom(bp)
	require.NoError(t, err)

	s, err := lwe.RandomTernaryVector(bp.Dim)
	require.NoError(t, err)

	out, err := cp.MultLeft(s)
	require.NoError(t, err)
	require.Equal(t, bp.M, len(out))
}
