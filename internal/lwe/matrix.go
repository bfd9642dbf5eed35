// Package lwe implements the matrix/vector algebra over the 32-bit
// wrapping integers that the FrodoPIR-style scheme is built on: seeded
// uniform matrix expansion, wrapping inner products, and ternary noise
// sampling.
package lwe

import (
	"crypto/rand"
	"encoding/binary"

	"golang.org/x/crypto/chacha20"

	"github.com/leakcheck/creds-pir/internal/pirerrors"
)

// SeedSize is the length, in bytes, of the public seed used to expand the
// deterministic "A" matrix.
const SeedSize = 32

// Matrix is a dense column-major matrix of uint32 limbs: Matrix[i] is
// column i, of length equal to the matrix height.
type Matrix [][]uint32

// Transpose returns m transposed. It assumes every column has the same
// length.
func Transpose(m Matrix) Matrix {
	if len(m) == 0 {
		return Matrix{}
	}
	height := len(m[0])
	width := len(m)
	out := make(Matrix, height)
	for i := range out {
		out[i] = make([]uint32, width)
	}
	for c, col := range m {
		for r, v := range col {
			out[r][c] = v
		}
	}
	return out
}

// ExpandUniform deterministically expands a 32-byte seed into a matrix of
// `cols` columns, each of length `rows`, using a ChaCha20 keystream as the
// CSPRNG. Values are produced column-major, in increasing index within a
// column, matching the reference StdRng-driven expansion.
func ExpandUniform(seed [SeedSize]byte, cols, rows int) (Matrix, error) {
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, err
	}

	total := cols * rows
	keystream := make([]byte, total*4)
	cipher.XORKeyStream(keystream, keystream)

	out := make(Matrix, cols)
	idx := 0
	for c := 0; c < cols; c++ {
		col := make([]uint32, rows)
		for r := 0; r < rows; r++ {
			col[r] = binary.LittleEndian.Uint32(keystream[idx*4 : idx*4+4])
			idx++
		}
		out[c] = col
	}
	return out, nil
}

// VecInner returns the wrapping inner product of row and col. It fails
// with pirerrors.ErrDimensionMismatch when the lengths differ.
func VecInner(row, col []uint32) (uint32, error) {
	if len(row) != len(col) {
		return 0, pirerrors.ErrDimensionMismatch
	}
	var acc uint32
	for i := range row {
		acc += row[i] * col[i]
	}
	return acc, nil
}

// RandomSeed draws a fresh 32-byte seed from the OS CSPRNG.
func RandomSeed() ([SeedSize]byte, error) {
	var seed [SeedSize]byte
	_, err := rand.Read(seed[:])
	return seed, err
}
