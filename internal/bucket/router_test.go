package bucket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDIsDeterministic(t *testing.T) {
	id1, err := ID([]byte("alice@example.com"), HexPrefixLen, 16)
	require.NoError(t, err)
	id2, err := ID([]byte("alice@example.com"), HexPrefixLen, 16)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.True(t, id1 >= 0 && id1 < 16)
}

func TestIDRangeAcrossManyKeywords(t *testing.T) {
	for i := 0; i < 200; i++ {
		id, err := ID([]byte{byte(i), byte(i >> 8)}, HexPrefixLen, 16)
		require.NoError(t, err)
		require.True(t, id >= 0 && id < 16)
	}
}

func TestIDRejectsNonPositiveBuckets(t *testing.T) {
	_, err := ID([]byte("x"), HexPrefixLen, 0)
	require.Error(t, err)
}
