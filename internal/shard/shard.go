// Package shard bundles a PIR database with its public parameters and
// answers queries against it. A Shard is the unit the server loads,
// caches, and publishes parameters for.
package shard

import (
	"encoding/json"
	"fmt"

	"github.com/leakcheck/creds-pir/internal/pirdb"
	"github.com/leakcheck/creds-pir/internal/pirparams"
)

// Shard is a named PIR database plus its published BaseParams.
type Shard struct {
	ID     string
	DB     *pirdb.Database
	Params *pirparams.BaseParams
}

// New builds a Shard from an ordered list of base64-encoded records,
// generating fresh public parameters over it.
func New(id string, records []string, m, eleSize, plaintextBits, dim int) (*Shard, error) {
	db, err := pirdb.New(records, m, eleSize, plaintextBits)
	if err != nil {
		return nil, fmt.Errorf("shard %s: %w", id, err)
	}
	bp, err := pirparams.NewBaseParams(db, dim)
	if err != nil {
		return nil, fmt.Errorf("shard %s: %w", id, err)
	}
	return &Shard{ID: id, DB: db, Params: bp}, nil
}

// Respond evaluates query against every column of the database,
// returning the raw accumulator vector the client must unblind.
func (s *Shard) Respond(query *pirparams.Query) (*pirparams.Response, error) {
	width := s.DB.Width()
	out := make([]uint32, width)
	for col := 0; col < width; col++ {
		v, err := s.DB.VecMult(query.Vec, col)
		if err != nil {
			return nil, fmt.Errorf("shard %s: %w", s.ID, err)
		}
		out[col] = v
	}
	return &pirparams.Response{Vec: out}, nil
}

// Entries returns the shard's records as base64 strings, in row order.
// Used by the keyword-index-mapping builder, which needs to scan every
// row exactly once.
func (s *Shard) Entries() []string {
	out := make([]string, s.DB.Height())
	for i := range out {
		out[i] = s.DB.Entry(i)
	}
	return out
}

// wireFile is the on-disk/over-the-wire representation of a shard's
// public parameters, the part a server persists and a client fetches.
type wireFile struct {
	ID            string   `json:"id"`
	M             int      `json:"m"`
	EleSize       int      `json:"ele_size"`
	PlaintextBits int      `json:"plaintext_bits"`
	Dim           int      `json:"dim"`
	LHSSeed       string   `json:"lhs_seed"` // base64
	RHS           []string `json:"rhs"`      // one base64-packed u32 list per RHS column
}

// MarshalParams serializes the shard's BaseParams into the JSON
// envelope published to clients and written to the metadata cache.
func (s *Shard) MarshalParams() ([]byte, error) {
	rhs := make([]string, len(s.Params.RHS))
	for i, col := range s.Params.RHS {
		rhs[i] = encodeU32Slice(col)
	}
	wf := wireFile{
		ID:            s.ID,
		M:             s.Params.M,
		EleSize:       s.Params.EleSize,
		PlaintextBits: s.Params.PlaintextBits,
		Dim:           s.Params.Dim,
		LHSSeed:       encodeBytes(s.Params.LHSSeed[:]),
		RHS:           rhs,
	}
	return json.Marshal(wf)
}
