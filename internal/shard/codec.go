package shard

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"

	"github.com/leakcheck/creds-pir/internal/lwe"
)

func encodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBytes(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// encodeU32Slice packs a []uint32 as little-endian bytes, base64-encoded.
func encodeU32Slice(xs []uint32) string {
	buf := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(buf[i*4:], x)
	}
	return encodeBytes(buf)
}

func decodeU32Slice(s string) ([]uint32, error) {
	raw, err := decodeBytes(s)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

// UnmarshalParamsSeed parses the JSON envelope written by MarshalParams
// back into its individual BaseParams fields (shard id, seed, m, element
// size, plaintext bits, dimension, RHS columns). There are no DB rows in
// it — clients never receive the plaintext database itself.
func UnmarshalParamsSeed(raw []byte) (id string, seed [lwe.SeedSize]byte, m, eleSize, plaintextBits, dim int, rhs [][]uint32, err error) {
	var wf wireFile
	if err = json.Unmarshal(raw, &wf); err != nil {
		return
	}
	id = wf.ID
	m, eleSize, plaintextBits, dim = wf.M, wf.EleSize, wf.PlaintextBits, wf.Dim

	var seedBytes []byte
	seedBytes, err = decodeBytes(wf.LHSSeed)
	if err != nil {
		return
	}
	copy(seed[:], seedBytes)

	rhs = make([][]uint32, len(wf.RHS))
	for i, s := range wf.RHS {
		rhs[i], err = decodeU32Slice(s)
		if err != nil {
			return
		}
	}
	return
}
