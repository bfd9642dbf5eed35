// Package protocol composes the PIR row-retrieval layer with the OPRF
// keyed-hash layer into the end-to-end compromised-credential lookup:
// the client fetches candidate row indices from a local keyword index,
// retrieves those rows privately via PIR, blinds its lookup value via
// OPRF, and compares the unblinded OPRF output against each retrieved
// row.
//
// Offline (once per bucket, and again whenever more preprocessed query
// slots are needed):
//
//	bucketParams, err := protocol.NewBucketParams(baseParams)
//	qps, err := protocol.Preprocess(bucketParams, n)
//
// Online (once per lookup):
//
//	state, msg, err := protocol.ClientPrepareQueries(bucketParams, qps, indices, credential)
//	resp, err := protocol.ServerCalculateResponse(shard, oprfKey, msg)
//	found, err := protocol.ClientProcessOutput(state, baseParams.EleSize, resp)
package protocol

import (
	"crypto/subtle"

	"github.com/leakcheck/creds-pir/internal/oprf"
	"github.com/leakcheck/creds-pir/internal/pirerrors"
	"github.com/leakcheck/creds-pir/internal/pirparams"
	"github.com/leakcheck/creds-pir/internal/shard"
)

// BucketParams bundles a shard's public parameters with the derived
// client-side CommonParams, so a client only has to fetch and recompute
// these once per bucket.
type BucketParams struct {
	Base   *pirparams.BaseParams
	Common *pirparams.CommonParams
}

// NewBucketParams derives CommonParams from bp's published seed.
func NewBucketParams(bp *pirparams.BaseParams) (*BucketParams, error) {
	cp, err := pirparams.CommonParamsFrom(bp)
	if err != nil {
		return nil, err
	}
	return &BucketParams{Base: bp, Common: cp}, nil
}

// ClientState is the per-lookup state a client retains between sending
// a ClientMessage and processing the server's response.
type ClientState struct {
	PIRState  []*pirparams.QueryParams
	OPRFState *oprf.ClientState
	Indices   []int
}

// ClientMessage is what the client sends to the server for one lookup.
type ClientMessage struct {
	PIRQueries [][]uint32
	OPRFQuery  []byte
}

// ServerResponse is the server's answer.
type ServerResponse struct {
	PIRResponses [][]uint32
	OPRFResponse []byte
}

// Preprocess produces n fresh, unused QueryParams for bp. This is the
// offline phase: it can run ahead of any particular lookup, and each
// result is good for exactly one later ClientPrepareQueries slot.
func Preprocess(bp *BucketParams, n int) ([]*pirparams.QueryParams, error) {
	qps := make([]*pirparams.QueryParams, n)
	for i := range qps {
		qp, err := pirparams.NewQueryParams(bp.Common, bp.Base)
		if err != nil {
			return nil, err
		}
		qps[i] = qp
	}
	return qps, nil
}

// ClientPrepareQueries consumes one preprocessed QueryParams per
// candidate row index and blinds credential for the OPRF step.
// credential is the raw bytes the client is looking up (e.g. a locally
// computed leak-hash input, never sent to the server in the clear).
//
// qps[i] is cloned before use, so the caller's slot is not itself marked
// used — only the clone retained in the returned ClientState is. Fails
// with a *pirerrors.ClientQueryError if len(qps) != len(indices).
func ClientPrepareQueries(bp *BucketParams, qps []*pirparams.QueryParams, indices []int, credential []byte) (*ClientState, *ClientMessage, error) {
	if len(qps) != len(indices) {
		return nil, nil, &pirerrors.ClientQueryError{NumParams: len(qps), NumIndices: len(indices)}
	}

	oprfState, alpha, err := oprf.Blind(credential)
	if err != nil {
		return nil, nil, err
	}

	pirState := make([]*pirparams.QueryParams, len(indices))
	queries := make([][]uint32, len(indices))
	for i, rowIndex := range indices {
		qp := qps[i].Clone()
		query, err := qp.PrepareQuery(rowIndex)
		if err != nil {
			return nil, nil, err
		}
		pirState[i] = qp
		queries[i] = query.Vec
	}

	state := &ClientState{PIRState: pirState, OPRFState: oprfState, Indices: indices}
	msg := &ClientMessage{PIRQueries: queries, OPRFQuery: alpha}
	return state, msg, nil
}

// ServerCalculateResponse answers every PIR query against s and
// evaluates the OPRF query under key.
func ServerCalculateResponse(s *shard.Shard, key *oprf.PrivateKey, msg *ClientMessage) (*ServerResponse, error) {
	pirResponses := make([][]uint32, len(msg.PIRQueries))
	for i, q := range msg.PIRQueries {
		resp, err := s.Respond(&pirparams.Query{Vec: q})
		if err != nil {
			return nil, err
		}
		pirResponses[i] = resp.Vec
	}

	beta, err := oprf.Evaluate(key, msg.OPRFQuery)
	if err != nil {
		return nil, err
	}

	return &ServerResponse{PIRResponses: pirResponses, OPRFResponse: beta}, nil
}

// ClientProcessOutput unblinds the OPRF response, finalizes it against
// the original credential, decodes each PIR response row, and reports
// whether any retrieved row matches the finalized OPRF output —
// constant-time across candidates, since which candidate matched (if
// any) is itself sensitive.
func ClientProcessOutput(state *ClientState, eleSize int, resp *ServerResponse) (bool, error) {
	n, err := oprf.Unblind(state.OPRFState, resp.OPRFResponse)
	if err != nil {
		return false, err
	}
	want := oprf.Finalize(state.OPRFState.Input, n)

	found := 0
	for i, pirResp := range resp.PIRResponses {
		row, err := (&pirparams.Response{Vec: pirResp}).ParseOutputAsBytes(state.PIRState[i], eleSize)
		if err != nil {
			return false, err
		}
		if subtle.ConstantTimeCompare(row, want) == 1 {
			found = 1
		}
	}
	return found == 1, nil
}
