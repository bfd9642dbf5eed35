// Package pirdb implements the PIR database representation: a
// column-major matrix of plaintext limbs derived from base64-encoded
// leak-hash records.
package pirdb

import (
	"encoding/base64"
	"fmt"

	"github.com/leakcheck/creds-pir/internal/bitpack"
	"github.com/leakcheck/creds-pir/internal/lwe"
	"github.com/leakcheck/creds-pir/internal/pirerrors"
)

// Database holds the PIR plaintext matrix, stored column-major so that
// Shard.Respond performs contiguous column accesses.
type Database struct {
	entries       lwe.Matrix // entries[col][row]
	m             int        // number of rows (records)
	eleSize       int        // bits per record
	plaintextBits int        // bits per limb
}

// MatrixWidth returns ceil(eleSize / plaintextBits), the number of u32
// limbs needed to hold one record.
func MatrixWidth(eleSize, plaintextBits int) int {
	w := eleSize / plaintextBits
	if eleSize%plaintextBits != 0 {
		w++
	}
	return w
}

// New builds a Database from an ordered sequence of base64-encoded
// records, each decoding to a byte string of bit-length eleSize.
func New(records []string, m, eleSize, plaintextBits int) (*Database, error) {
	if len(records) != m {
		return nil, fmt.Errorf("pirdb: expected %d records, got %d", m, len(records))
	}
	width := MatrixWidth(eleSize, plaintextBits)

	rows := make(lwe.Matrix, m)
	for i, record := range records {
		raw, err := base64.StdEncoding.DecodeString(record)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", pirerrors.ErrBadRecord, i, err)
		}
		bits := bitpack.BytesToBits(raw)

		row := make([]uint32, width)
		for j := 0; j < width; j++ {
			start := j * plaintextBits
			end := start + plaintextBits
			if end > len(bits) {
				end = len(bits)
			}
			if start > len(bits) {
				start = len(bits)
			}
			limb, err := bitpack.BitsToU32(bits[start:end])
			if err != nil {
				return nil, fmt.Errorf("%w: record %d, limb %d: %v", pirerrors.ErrBadRecord, i, j, err)
			}
			row[j] = limb
		}
		rows[i] = row
	}

	return &Database{
		entries:       lwe.Transpose(rows),
		m:             m,
		eleSize:       eleSize,
		plaintextBits: plaintextBits,
	}, nil
}

// VecMult computes the wrapping inner product of row with the colIdx-th
// column of the database.
func (d *Database) VecMult(row []uint32, colIdx int) (uint32, error) {
	return lwe.VecInner(row, d.entries[colIdx])
}

// Row returns the ith logical record as a limb row (not a column), built
// by reading one value from each of the w columns (a strided, non-contiguous
// access), so it must not be used inside inner loops — it exists for the
// keyword-index-mapping builder, which reads every row exactly once.
func (d *Database) Row(i int) []uint32 {
	row := make([]uint32, len(d.entries))
	for c, col := range d.entries {
		row[c] = col[i]
	}
	return row
}

// Entry returns the ith record re-encoded as a base64 string.
func (d *Database) Entry(i int) string {
	limbs := d.Row(i)
	raw := bitpack.BytesFromLimbs(limbs, d.plaintextBits, d.eleSize)
	return base64.StdEncoding.EncodeToString(raw)
}

// Width returns the matrix width (limbs per record).
func (d *Database) Width() int { return MatrixWidth(d.eleSize, d.plaintextBits) }

// Height returns m, the number of records.
func (d *Database) Height() int { return d.m }

// EleSize returns the bit-length of a record.
func (d *Database) EleSize() int { return d.eleSize }

// PlaintextBits returns the bits-per-limb parameter.
func (d *Database) PlaintextBits() int { return d.plaintextBits }
