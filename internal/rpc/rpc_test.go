package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOfflineRequestValidate(t *testing.T) {
	req := &OfflineRequest{JSONRPC: JSONRPCVersion, Method: MethodGetPublicParams, Params: []int{0, 1}, ID: 1}
	require.NoError(t, req.Validate())

	bad := &OfflineRequest{JSONRPC: "1.0", Method: MethodGetPublicParams, Params: []int{0}}
	require.Error(t, bad.Validate())

	bad2 := &OfflineRequest{JSONRPC: JSONRPCVersion, Method: "bogus", Params: []int{0}}
	require.Error(t, bad2.Validate())

	bad3 := &OfflineRequest{JSONRPC: JSONRPCVersion, Method: MethodGetPublicParams, Params: nil}
	require.Error(t, bad3.Validate())
}

func TestOnlineRequestValidate(t *testing.T) {
	req := &OnlineRequest{
		JSONRPC: JSONRPCVersion,
		Method:  MethodClientQuery,
		Params:  &ClientQueryParams{BucketID: 3, Message: "base64data"},
		ID:      2,
	}
	require.NoError(t, req.Validate())

	missingParams := &OnlineRequest{JSONRPC: JSONRPCVersion, Method: MethodClientQuery}
	require.Error(t, missingParams.Validate())

	emptyMessage := &OnlineRequest{
		JSONRPC: JSONRPCVersion, Method: MethodClientQuery,
		Params: &ClientQueryParams{BucketID: 0, Message: ""},
	}
	require.Error(t, emptyMessage.Validate())

	sentinel := &OnlineRequest{
		JSONRPC: JSONRPCVersion, Method: MethodClientQuery,
		Params: &ClientQueryParams{BucketID: int(MaxBucketID), Message: "x"},
	}
	require.Error(t, sentinel.Validate())
}

func TestResponseValidate(t *testing.T) {
	ok := NewOfflineResult(1, "base64params", "")
	require.NoError(t, ok.Validate())

	errResp := NewOfflineError(1, RequestValidationError("bad"))
	require.NoError(t, errResp.Validate())

	both := &OfflineResponse{JSONRPC: JSONRPCVersion, Result: &OfflineResult{}, Error: &Error{}}
	require.Error(t, both.Validate())

	neither := &OfflineResponse{JSONRPC: JSONRPCVersion}
	require.Error(t, neither.Validate())
}
