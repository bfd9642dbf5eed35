// Package pirparams implements the FrodoPIR public-parameter layer:
// BaseParams (the server-published seed + precomputed RHS matrix) and
// CommonParams (the client-side, seed-derived LHS matrix "A").
package pirparams

import (
	"github.com/leakcheck/creds-pir/internal/lwe"
	"github.com/leakcheck/creds-pir/internal/pirdb"
)

// BaseParams are the per-shard public parameters: a 32-byte seed for the
// LWE "A" matrix, plus the precomputed product A·DB (the RHS).
type BaseParams struct {
	Dim           int // LWE dimension
	M             int // number of DB rows
	EleSize       int
	PlaintextBits int
	LHSSeed       [lwe.SeedSize]byte
	RHS           lwe.Matrix // RHS[i] has length dim, one entry per DB width index i
}

// NewBaseParams samples a fresh public seed, expands the uniform "A"
// matrix, and computes RHS = A·DB.
func NewBaseParams(db *pirdb.Database, dim int) (*BaseParams, error) {
	seed, err := lwe.RandomSeed()
	if err != nil {
		return nil, err
	}
	rhs, err := generateRHS(db, seed, dim, db.Height())
	if err != nil {
		return nil, err
	}
	return &BaseParams{
		Dim:           dim,
		M:             db.Height(),
		EleSize:       db.EleSize(),
		PlaintextBits: db.PlaintextBits(),
		LHSSeed:       seed,
		RHS:           rhs,
	}, nil
}

// generateRHS computes RHS[i][k] = <A^T[k,:], DB[:,i]> for i in [0, width),
// k in [0, dim). A is expanded the same way CommonParams derives it (m
// columns, each of length dim); transposing it gives dim rows of length
// m, each dottable against a DB column (also length m).
func generateRHS(db *pirdb.Database, seed [lwe.SeedSize]byte, dim, m int) (lwe.Matrix, error) {
	a, err := lwe.ExpandUniform(seed, m, dim)
	if err != nil {
		return nil, err
	}
	aRows := lwe.Transpose(a) // aRows[k] is a row of length m, k in [0, dim)

	width := db.Width()
	rhs := make(lwe.Matrix, width)
	for i := 0; i < width; i++ {
		col := make([]uint32, dim)
		for k := 0; k < dim; k++ {
			v, err := db.VecMult(aRows[k], i)
			if err != nil {
				return nil, err
			}
			col[k] = v
		}
		rhs[i] = col
	}
	return rhs, nil
}

// FromWire reconstructs a BaseParams from the fields a server published
// over the wire (see shard.UnmarshalParamsSeed): no database access is
// required since RHS was precomputed server-side.
func FromWire(id string, seed [lwe.SeedSize]byte, m, eleSize, plaintextBits, dim int, rhs [][]uint32) *BaseParams {
	mat := make(lwe.Matrix, len(rhs))
	for i, col := range rhs {
		mat[i] = col
	}
	return &BaseParams{
		Dim:           dim,
		M:             m,
		EleSize:       eleSize,
		PlaintextBits: plaintextBits,
		LHSSeed:       seed,
		RHS:           mat,
	}
}

// MultRight computes c = s·(A·DB) using the precomputed RHS.
func (bp *BaseParams) MultRight(s []uint32) ([]uint32, error) {
	out := make([]uint32, len(bp.RHS))
	for i, col := range bp.RHS {
		v, err := lwe.VecInner(s, col)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// CommonParams holds the seed-derived uniform matrix "A", recomputed
// deterministically from a BaseParams' seed.
type CommonParams struct {
	a lwe.Matrix // m columns, each of length dim
}

// CommonParamsFrom recomputes "A" from bp's public seed.
func CommonParamsFrom(bp *BaseParams) (*CommonParams, error) {
	a, err := lwe.ExpandUniform(bp.LHSSeed, bp.M, bp.Dim)
	if err != nil {
		return nil, err
	}
	return &CommonParams{a: a}, nil
}

// Matrix returns the derived "A" matrix.
func (cp *CommonParams) Matrix() lwe.Matrix { return cp.a }

// MultLeft computes b = s·A + e, injecting one fresh ternary noise term
// per output coordinate. This is the only place noise is injected — see
// spec.md §9.
func (cp *CommonParams) MultLeft(s []uint32) ([]uint32, error) {
	out := make([]uint32, len(cp.a))
	for i, col := range cp.a {
		sa, err := lwe.VecInner(s, col)
		if err != nil {
			return nil, err
		}
		e, err := lwe.RandomTernary()
		if err != nil {
			return nil, err
		}
		out[i] = sa + e
	}
	return out, nil
}
