package oprf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndToEndSameOutputForSameInput(t *testing.T) {
	key, err := KeyGen()
	require.NoError(t, err)

	input := []byte("alice@example.com:hunter2")

	state, alpha, err := Blind(input)
	require.NoError(t, err)

	beta, err := Evaluate(key, alpha)
	require.NoError(t, err)

	n, err := Unblind(state, beta)
	require.NoError(t, err)

	out1 := Finalize(input, n)
	require.Len(t, out1, OutputSize)

	// Re-run the whole client flow with a fresh blind: must land on the
	// same final output, since the OPRF output depends only on the key
	// and the input, not on the blind.
	state2, alpha2, err := Blind(input)
	require.NoError(t, err)
	beta2, err := Evaluate(key, alpha2)
	require.NoError(t, err)
	n2, err := Unblind(state2, beta2)
	require.NoError(t, err)
	out2 := Finalize(input, n2)

	require.Equal(t, out1, out2)
}

func TestDifferentInputsDifferentOutputs(t *testing.T) {
	key, err := KeyGen()
	require.NoError(t, err)

	run := func(input []byte) []byte {
		state, alpha, err := Blind(input)
		require.NoError(t, err)
		beta, err := Evaluate(key, alpha)
		require.NoError(t, err)
		n, err := Unblind(state, beta)
		require.NoError(t, err)
		return Finalize(input, n)
	}

	out1 := run([]byte("user-one"))
	out2 := run([]byte("user-two"))
	require.NotEqual(t, out1, out2)
}

func TestDifferentKeysDifferentOutputs(t *testing.T) {
	input := []byte("shared-input")

	key1, err := KeyGen()
	require.NoError(t, err)
	key2, err := KeyGen()
	require.NoError(t, err)

	run := func(key *PrivateKey) []byte {
		state, alpha, err := Blind(input)
		require.NoError(t, err)
		beta, err := Evaluate(key, alpha)
		require.NoError(t, err)
		n, err := Unblind(state, beta)
		require.NoError(t, err)
		return Finalize(input, n)
	}

	require.NotEqual(t, run(key1), run(key2))
}

func TestEvaluateRejectsGarbagePoint(t *testing.T) {
	key, err := KeyGen()
	require.NoError(t, err)

	_, err = Evaluate(key, []byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}
