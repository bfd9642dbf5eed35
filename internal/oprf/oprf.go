// Package oprf implements a voprf-mode Oblivious Pseudorandom Function
// over NIST P-256, following the same Blind/Evaluate/Unblind/Finalize
// shape as RFC 9497 OPRF implementations: the server holds a private
// key, the client holds an input, and the client learns only the PRF
// output — never the server's key, and the server never learns the
// client's input.
//
// Group arithmetic (scalar multiplication, point encoding/decoding) runs
// through filippo.io/nistec's P256Point rather than crypto/elliptic's
// generic, non-constant-time big.Int path.
package oprf

import (
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"filippo.io/nistec"
)

// OutputSize is the length in bytes of a finalized OPRF output
// (SHA-256 digest size).
const OutputSize = sha256.Size

// Domain separation tags, mirroring RFC 9497's naming.
const (
	hashToGroupDST = "HashToGroup-OPRFV1-\x00-P256-SHA256"
	finalizeDST    = "Finalize"
)

// curveParams supplies the P-256 field modulus, curve coefficient, and
// group order needed to locate hash-to-curve candidates and to reduce
// scalars. All point group arithmetic itself runs through
// nistec.P256Point, not big.Int curve math.
var curveParams = elliptic.P256().Params()

// ErrPointAtInfinity is returned when nistec rejects a scalar
// multiplication in Blind, Evaluate or Unblind. The identity element is
// not checked for: an identity point received from a peer, or produced
// by a zero scalar, is passed through without an error.
var ErrPointAtInfinity = errors.New("oprf: point at infinity")

// PrivateKey is the server's OPRF key, a scalar mod the P-256 group
// order.
type PrivateKey struct {
	D *big.Int
}

// KeyGen samples a fresh server private key.
func KeyGen() (*PrivateKey, error) {
	d, err := rand.Int(rand.Reader, curveParams.N)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{D: d}, nil
}

// KeyFromBytes reconstructs a private key from a big-endian scalar
// encoding, reducing mod the group order.
func KeyFromBytes(raw []byte) *PrivateKey {
	d := new(big.Int).SetBytes(raw)
	d.Mod(d, curveParams.N)
	return &PrivateKey{D: d}
}

// scalarBytes encodes s as a 32-byte big-endian value, the fixed width
// nistec's scalar-multiplication methods expect for P-256.
func scalarBytes(s *big.Int) []byte {
	var buf [32]byte
	s.FillBytes(buf[:])
	return buf[:]
}

// ClientState is the per-query state a client retains between Blind and
// Finalize.
type ClientState struct {
	Input []byte
	Blind *big.Int
}

// Blind hashes input to a curve point and blinds it by a fresh random
// scalar, returning the state to retain and the wire point to send to
// the server.
func Blind(input []byte) (*ClientState, []byte, error) {
	r, err := rand.Int(rand.Reader, curveParams.N)
	if err != nil {
		return nil, nil, err
	}
	if r.Sign() == 0 {
		return nil, nil, errors.New("oprf: zero blind sampled")
	}

	p, err := hashToCurve(input)
	if err != nil {
		return nil, nil, err
	}

	a, err := p.ScalarMult(p, scalarBytes(r))
	if err != nil {
		return nil, nil, ErrPointAtInfinity
	}

	return &ClientState{Input: input, Blind: r}, a.Bytes(), nil
}

// Evaluate applies the server's private key to the client's blinded
// point.
func Evaluate(key *PrivateKey, alpha []byte) ([]byte, error) {
	a, err := new(nistec.P256Point).SetBytes(alpha)
	if err != nil {
		return nil, fmt.Errorf("oprf: invalid point encoding: %w", err)
	}
	b, err := a.ScalarMult(a, scalarBytes(key.D))
	if err != nil {
		return nil, ErrPointAtInfinity
	}
	return b.Bytes(), nil
}

// Unblind removes the client's blinding factor from the server's
// response, and Finalize hashes it together with the original input to
// produce the PRF output.
func Unblind(state *ClientState, beta []byte) ([]byte, error) {
	b, err := new(nistec.P256Point).SetBytes(beta)
	if err != nil {
		return nil, fmt.Errorf("oprf: invalid point encoding: %w", err)
	}
	rInv := new(big.Int).ModInverse(state.Blind, curveParams.N)
	if rInv == nil {
		return nil, errors.New("oprf: blind has no inverse")
	}
	n, err := b.ScalarMult(b, scalarBytes(rInv))
	if err != nil {
		return nil, ErrPointAtInfinity
	}
	return n.Bytes(), nil
}

// Finalize derives the client's final PRF output from the original
// input and the unblinded point N.
func Finalize(input, n []byte) []byte {
	h := sha256.New()
	writeLenPrefixed(h, input)
	writeLenPrefixed(h, n)
	h.Write([]byte(finalizeDST))
	return h.Sum(nil)
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var lenBuf [8]byte
	l := len(b)
	for i := 0; i < 8; i++ {
		lenBuf[i] = byte(l >> (8 * i))
	}
	h.Write(lenBuf[:])
	h.Write(b)
}

// hashToCurve maps an arbitrary input to a point on P-256 by
// try-and-increment: hash input||DST||counter as an x-coordinate
// candidate until one lies on the curve, then lifts the affine
// coordinates into a nistec.P256Point for all further group arithmetic.
func hashToCurve(input []byte) (*nistec.P256Point, error) {
	for counter := 0; counter < 256; counter++ {
		h := sha256.New()
		h.Write(input)
		h.Write([]byte(hashToGroupDST))
		h.Write([]byte{byte(counter)})
		x := new(big.Int).SetBytes(h.Sum(nil))
		x.Mod(x, curveParams.P)

		ySq := yCandidate(x, curveParams)
		y := new(big.Int).ModSqrt(ySq, curveParams.P)
		if y == nil {
			continue
		}
		if !curveParams.IsOnCurve(x, y) {
			continue
		}
		return new(nistec.P256Point).SetBytes(elliptic.Marshal(elliptic.P256(), x, y))
	}
	return nil, fmt.Errorf("oprf: hash-to-curve did not converge after 256 tries")
}

// yCandidate computes y^2 = x^3 - 3x + b mod p, the P-256 curve equation.
func yCandidate(x *big.Int, params *elliptic.CurveParams) *big.Int {
	x3 := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	x3.Sub(x3, threeX)
	x3.Add(x3, params.B)
	x3.Mod(x3, params.P)
	return x3
}
