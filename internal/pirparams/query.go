package pirparams

import (
	"encoding/base64"

	"github.com/leakcheck/creds-pir/internal/bitpack"
	"github.com/leakcheck/creds-pir/internal/lwe"
	"github.com/leakcheck/creds-pir/internal/pirerrors"
)

// QueryParams is the per-query secret state a client preprocesses ahead
// of time: a blinded LHS/RHS pair derived from a fresh ternary secret.
// It is one-shot — PrepareQuery consumes it exactly once.
type QueryParams struct {
	lhs           []uint32 // length m, from CommonParams.MultLeft
	rhs           []uint32 // length width, from BaseParams.MultRight
	plaintextBits int
	used          bool
}

// NewQueryParams samples a fresh ternary secret of length bp.Dim and
// derives the blinded LHS/RHS pair.
func NewQueryParams(cp *CommonParams, bp *BaseParams) (*QueryParams, error) {
	s, err := lwe.RandomTernaryVector(bp.Dim)
	if err != nil {
		return nil, err
	}
	lhs, err := cp.MultLeft(s)
	if err != nil {
		return nil, err
	}
	rhs, err := bp.MultRight(s)
	if err != nil {
		return nil, err
	}
	return &QueryParams{lhs: lhs, rhs: rhs, plaintextBits: bp.PlaintextBits}, nil
}

// Clone returns an independent copy of qp. The copy can be consumed by
// PrepareQuery without marking qp itself used, so preprocessed params can
// be handed out for one lookup while the caller retains the originals.
func (qp *QueryParams) Clone() *QueryParams {
	lhs := make([]uint32, len(qp.lhs))
	copy(lhs, qp.lhs)
	rhs := make([]uint32, len(qp.rhs))
	copy(rhs, qp.rhs)
	return &QueryParams{lhs: lhs, rhs: rhs, plaintextBits: qp.plaintextBits, used: qp.used}
}

// Query is the blinded vector a client sends to the server.
type Query struct {
	Vec []uint32
}

// PrepareQuery consumes qp and produces the query vector for rowIndex:
// the blinded LHS with a rounding-factor indicator checked-added at
// rowIndex. It fails if qp has already been used, or if the add would
// overflow rather than silently wrap.
func (qp *QueryParams) PrepareQuery(rowIndex int) (*Query, error) {
	if qp.used {
		return nil, pirerrors.ErrQueryParamsReused
	}
	if rowIndex < 0 || rowIndex >= len(qp.lhs) {
		return nil, pirerrors.ErrDimensionMismatch
	}
	factor, err := lwe.RoundingFactor(qp.plaintextBits)
	if err != nil {
		return nil, err
	}

	vec := make([]uint32, len(qp.lhs))
	copy(vec, qp.lhs)

	sum := uint64(vec[rowIndex]) + uint64(factor)
	if sum > uint64(^uint32(0)) {
		return nil, pirerrors.ErrOverflowAdd
	}
	vec[rowIndex] = uint32(sum)

	qp.used = true
	return &Query{Vec: vec}, nil
}

// Response is the server's answer: one accumulator value per database
// column, still blinded by the client's RHS contribution.
type Response struct {
	Vec []uint32
}

// ParseOutputAsRow unblinds resp against qp's RHS and decodes each
// column back down to a plaintext limb.
func (r *Response) ParseOutputAsRow(qp *QueryParams) ([]uint32, error) {
	if len(r.Vec) != len(qp.rhs) {
		return nil, pirerrors.ErrDimensionMismatch
	}
	row := make([]uint32, len(r.Vec))
	for i, resp := range r.Vec {
		unscaled := resp - qp.rhs[i] // wrapping sub
		decoded, err := lwe.Decode(unscaled, qp.plaintextBits)
		if err != nil {
			return nil, err
		}
		row[i] = decoded
	}
	return row, nil
}

// ParseOutputAsBytes unblinds and decodes resp, then repacks the limbs
// into the original record's byte representation.
func (r *Response) ParseOutputAsBytes(qp *QueryParams, eleSize int) ([]byte, error) {
	row, err := r.ParseOutputAsRow(qp)
	if err != nil {
		return nil, err
	}
	return bitpack.BytesFromLimbs(row, qp.plaintextBits, eleSize), nil
}

// ParseOutputAsBase64 is ParseOutputAsBytes, base64-encoded.
func (r *Response) ParseOutputAsBase64(qp *QueryParams, eleSize int) (string, error) {
	raw, err := r.ParseOutputAsBytes(qp, eleSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
