package pirparams

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leakcheck/creds-pir/internal/pirdb"
	"github.com/leakcheck/creds-pir/internal/pirerrors"
)

func TestClientQueryE2E(t *testing.T) {
	records := generateRecords(t, 16, 32)
	db, err := pirdb.New(records, 16, 256, 10)
	require.NoError(t, err)

	bp, err := NewBaseParams(db, 450)
	require.NoError(t, err)
	cp, err := CommonParamsFrom(bp)
	require.NoError(t, err)

	for rowIndex, want := range records {
		qp, err := NewQueryParams(cp, bp)
		require.NoError(t, err)

		query, err := qp.PrepareQuery(rowIndex)
		require.NoError(t, err)

		respVec := make([]uint32, db.Width())
		for col := 0; col < db.Width(); col++ {
			v, err := db.VecMult(query.Vec, col)
			require.NoError(t, err)
			respVec[col] = v
		}
		resp := &Response{Vec: respVec}

		got, err := resp.ParseOutputAsBase64(qp, 256)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestAttemptParamsReuse(t *testing.T) {
	records := generateRecords(t, 4, 32)
	db, err := pirdb.New(records, 4, 256, 10)
	require.NoError(t, err)

	bp, err := NewBaseParams(db, 64)
	require.NoError(t, err)
	cp, err := CommonParamsFrom(bp)
	require.NoError(t, err)

	qp, err := NewQueryParams(cp, bp)
	require.NoError(t, err)

	_, err = qp.PrepareQuery(0)
	require.NoError(t, err)

	_, err = qp.PrepareQuery(1)
	require.ErrorIs(t, err, pirerrors.ErrQueryParamsReused)
}
