package lwe

import "fmt"

// RoundingFactor returns Δ = 2^32 / 2^plaintextBits, the spacing between
// successive plaintext values encoded into the high bits of a u32.
func RoundingFactor(plaintextBits int) (uint32, error) {
	if plaintextBits <= 0 || plaintextBits > 32 {
		return 0, fmt.Errorf("lwe: plaintext_bits %d out of range [1, 32]", plaintextBits)
	}
	return 1 << uint(32-plaintextBits), nil
}

// RoundingFloor returns Δ/2, used to round-to-nearest when decoding.
func RoundingFloor(plaintextBits int) (uint32, error) {
	factor, err := RoundingFactor(plaintextBits)
	if err != nil {
		return 0, err
	}
	return factor / 2, nil
}

// PlaintextSize returns 2^plaintextBits, one past the largest value a
// plaintext limb of this width can hold.
func PlaintextSize(plaintextBits int) (uint32, error) {
	if plaintextBits <= 0 || plaintextBits >= 32 {
		return 0, fmt.Errorf("lwe: plaintext_bits %d out of range [1, 31]", plaintextBits)
	}
	return 1 << uint(plaintextBits), nil
}

// Decode rounds a noisy accumulator value back down to its plaintext
// limb: q = x / Δ, r = x mod Δ, round q up iff r > floor (strictly),
// reduced mod 2^plaintextBits.
func Decode(x uint32, plaintextBits int) (uint32, error) {
	factor, err := RoundingFactor(plaintextBits)
	if err != nil {
		return 0, err
	}
	floor, err := RoundingFloor(plaintextBits)
	if err != nil {
		return 0, err
	}
	size, err := PlaintextSize(plaintextBits)
	if err != nil {
		return 0, err
	}
	q := x / factor
	r := x % factor
	if r > floor {
		q++
	}
	return q % size, nil
}
