// Package pirerrors holds the stable error identities shared across the
// PIR/OPRF core, so that callers can use errors.Is/errors.As instead of
// matching on strings.
package pirerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRecord is returned when a record fails base64 decoding or
	// produces a bit-chunk that does not fit plaintext_bits.
	ErrBadRecord = errors.New("pir: record failed to decode into the database matrix")

	// ErrDimensionMismatch is returned when vector lengths supplied to an
	// inner product disagree.
	ErrDimensionMismatch = errors.New("pir: vector lengths disagree")

	// ErrQueryParamsReused is returned when PrepareQuery is called twice
	// on the same QueryParams value.
	ErrQueryParamsReused = errors.New("pir: query params have already been used to prepare a query")

	// ErrOverflowAdd is returned when adding the query indicator to the
	// lhs vector would overflow a uint32.
	ErrOverflowAdd = errors.New("pir: indicator add would overflow the query slot")

	// ErrOprf names the OPRF-layer failure kind (bad key, bad blinded
	// element, finalize mismatch). The oprf package returns its own
	// errors and does not wrap this value.
	ErrOprf = errors.New("oprf: operation failed")

	// ErrKeywordIndexNotFound names the case of a keyword lookup with no
	// candidate row indices. LocalHashPrefixTable.Indices reports that
	// case as an empty slice rather than returning this error, and the
	// client treats it as "the credential appears safe", not as a failure.
	ErrKeywordIndexNotFound = errors.New("keyword: no candidate row indices found")
)

// ClientQueryError reports that the number of preprocessed query params
// did not match the number of row indices supplied to the client.
type ClientQueryError struct {
	NumParams  int
	NumIndices int
}

func (e *ClientQueryError) Error() string {
	return fmt.Sprintf("pir: %d preprocessed query params supplied for %d row indices", e.NumParams, e.NumIndices)
}

// SerdeError wraps a failure to serialize or deserialize a wire payload.
type SerdeError struct {
	Context string
	Err     error
}

func (e *SerdeError) Error() string {
	return fmt.Sprintf("serde: %s: %v", e.Context, e.Err)
}

func (e *SerdeError) Unwrap() error {
	return e.Err
}

// NewSerdeError builds a SerdeError, or nil if err is nil.
func NewSerdeError(context string, err error) error {
	if err == nil {
		return nil
	}
	return &SerdeError{Context: context, Err: err}
}
