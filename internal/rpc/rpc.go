// Package rpc implements the JSON-RPC 2.0 request/response envelopes the
// server and client exchange, along with the validation rules that
// reject malformed requests before they ever reach the PIR/OPRF core.
package rpc

import "fmt"

const JSONRPCVersion = "2.0"

const (
	MethodGetPublicParams = "get_public_params"
	MethodClientQuery     = "client_query"
	MethodLocalHPT        = "local_hpt"
)

// Standard JSON-RPC 2.0 error codes, plus the two this service actually
// returns.
const (
	CodeInvalidRequest = -32600
	CodeInvalidParams  = -32602
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message) }

func RequestValidationError(msg string) *Error { return &Error{Code: CodeInvalidRequest, Message: msg} }
func InternalError(msg string) *Error          { return &Error{Code: CodeInvalidParams, Message: msg} }
func ClientInputError(msg string) *Error       { return &Error{Code: CodeInvalidParams, Message: msg} }

// OfflineRequest asks the server for a bucket's public parameters (and
// optionally its local keyword index).
type OfflineRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []int  `json:"params"` // bucket ids
	ID      int    `json:"id"`
}

// Validate checks the envelope is well-formed; it does not check
// whether the requested buckets exist.
func (r *OfflineRequest) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return RequestValidationError(fmt.Sprintf("unsupported jsonrpc version %q", r.JSONRPC))
	}
	if r.Method != MethodGetPublicParams {
		return RequestValidationError(fmt.Sprintf("unexpected method %q", r.Method))
	}
	if len(r.Params) == 0 {
		return RequestValidationError("params must list at least one bucket id")
	}
	return nil
}

// OfflineResult is the payload of a successful OfflineResponse.
type OfflineResult struct {
	BucketParams string `json:"bucket_params"` // base64 BaseParams wire encoding
	LocalHPT     string `json:"local_hpt,omitempty"`
}

// OfflineResponse wraps either a result or an error, never both.
type OfflineResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	Result  *OfflineResult `json:"result,omitempty"`
	Error   *Error         `json:"error,omitempty"`
	ID      int            `json:"id"`
}

func NewOfflineResult(id int, bucketParams, localHPT string) *OfflineResponse {
	return &OfflineResponse{
		JSONRPC: JSONRPCVersion,
		Result:  &OfflineResult{BucketParams: bucketParams, LocalHPT: localHPT},
		ID:      id,
	}
}

func NewOfflineError(id int, err *Error) *OfflineResponse {
	return &OfflineResponse{JSONRPC: JSONRPCVersion, Error: err, ID: id}
}

// Validate checks invariants of a response before a client trusts it.
func (r *OfflineResponse) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return RequestValidationError(fmt.Sprintf("unsupported jsonrpc version %q", r.JSONRPC))
	}
	if r.Result == nil && r.Error == nil {
		return RequestValidationError("response carries neither result nor error")
	}
	if r.Result != nil && r.Error != nil {
		return RequestValidationError("response carries both result and error")
	}
	return nil
}

// ClientQueryParams is the payload of an online request: a bucket id
// and the opaque client message (PIR queries + OPRF query).
type ClientQueryParams struct {
	BucketID int    `json:"bucket_id"`
	Message  string `json:"message"` // base64 ClientMessage wire encoding
}

// OnlineRequest asks the server to evaluate a client's PIR/OPRF query
// against one bucket.
type OnlineRequest struct {
	JSONRPC string             `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  *ClientQueryParams `json:"params"`
	ID      int                `json:"id"`
}

// MaxBucketID mirrors the Rust reference's usize::MAX sentinel meaning
// "no bucket selected" — a request carrying it is malformed.
const MaxBucketID = ^uint(0) >> 1

func (r *OnlineRequest) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return RequestValidationError(fmt.Sprintf("unsupported jsonrpc version %q", r.JSONRPC))
	}
	if r.Method != MethodClientQuery {
		return RequestValidationError(fmt.Sprintf("unexpected method %q", r.Method))
	}
	if r.Params == nil {
		return RequestValidationError("params missing")
	}
	if r.Params.Message == "" {
		return RequestValidationError("params.message missing")
	}
	if uint(r.Params.BucketID) == MaxBucketID {
		return RequestValidationError("params.bucket_id is the sentinel max value")
	}
	return nil
}

// OnlineResult is the payload of a successful OnlineResponse.
type OnlineResult struct {
	Response string `json:"response"` // base64 ServerResponse wire encoding
}

// OnlineResponse wraps either a result or an error.
type OnlineResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  *OnlineResult `json:"result,omitempty"`
	Error   *Error        `json:"error,omitempty"`
	ID      int           `json:"id"`
}

func NewOnlineResult(id int, response string) *OnlineResponse {
	return &OnlineResponse{JSONRPC: JSONRPCVersion, Result: &OnlineResult{Response: response}, ID: id}
}

func NewOnlineError(id int, err *Error) *OnlineResponse {
	return &OnlineResponse{JSONRPC: JSONRPCVersion, Error: err, ID: id}
}

func (r *OnlineResponse) Validate() error {
	if r.Result == nil && r.Error == nil {
		return RequestValidationError("response carries neither result nor error")
	}
	if r.Result != nil && r.Error != nil {
		return RequestValidationError("response carries both result and error")
	}
	return nil
}
