// Package crypto implements the pairing side of the toolkit on BLS12-381:
// group elements, per-index proof-of-knowledge generators, hash-to-curve
// message encoding, proof-of-knowledge and BLS signatures, aggregation and
// the verification backends.
//
// Public keys live in G1 and both proofs and signatures live in G2, so every
// verification is a two-term product of pairings e: G1 x G2 -> GT.
//
// Constant-time note: none of the operations here are hardened against side
// channels. Untrusted points are not subgroup checked unless the caller asks
// for it.
package crypto

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Uncompressed encoding sizes (ZCash flags, big-endian coordinates).
const (
	G1PointSize = bls12381.SizeOfG1AffineUncompressed // 96
	G2PointSize = bls12381.SizeOfG2AffineUncompressed // 192
)

// G1Point is an immutable point of the BLS12-381 G1 group. The zero value is
// the point at infinity.
type G1Point struct {
	p bls12381.G1Affine
}

// G2Point is an immutable point of the BLS12-381 G2 group. The zero value is
// the point at infinity.
type G2Point struct {
	p bls12381.G2Affine
}

// PublicKey is G1_generator * secret.
type PublicKey = G1Point

// Proof is a proof of knowledge: generator_for(i) * secret.
type Proof = G2Point

// Signature is Encode(message) * secret.
type Signature = G2Point

var (
	g1Gen bls12381.G1Affine
	g2Gen bls12381.G2Affine
)

func init() {
	_, _, g1Gen, g2Gen = bls12381.Generators()
}

// G1Generator returns the standard G1 generator.
func G1Generator() G1Point { return G1Point{p: g1Gen} }

// G2Generator returns the standard G2 generator.
func G2Generator() G2Point { return G2Point{p: g2Gen} }

// G1Infinity returns the G1 identity.
func G1Infinity() G1Point { return G1Point{} }

// G2Infinity returns the G2 identity.
func G2Infinity() G2Point { return G2Point{} }

// G1FromAffine wraps a gnark-crypto affine point.
func G1FromAffine(a bls12381.G1Affine) G1Point { return G1Point{p: a} }

// G2FromAffine wraps a gnark-crypto affine point.
func G2FromAffine(a bls12381.G2Affine) G2Point { return G2Point{p: a} }

// PublicKeyFromSecret returns G1_generator * sk.
func PublicKeyFromSecret(sk Scalar) PublicKey {
	return G1Generator().Mul(sk)
}

// ---------------------------------------------------------------------------
// G1
// ---------------------------------------------------------------------------

// Affine returns the underlying affine coordinates.
func (a G1Point) Affine() bls12381.G1Affine { return a.p }

// Add returns a + b.
func (a G1Point) Add(b G1Point) G1Point {
	var r G1Point
	r.p.Add(&a.p, &b.p)
	return r
}

// Sub returns a - b.
func (a G1Point) Sub(b G1Point) G1Point {
	var r G1Point
	r.p.Sub(&a.p, &b.p)
	return r
}

// Neg returns -a.
func (a G1Point) Neg() G1Point {
	var r G1Point
	r.p.Neg(&a.p)
	return r
}

// Mul returns a * s.
func (a G1Point) Mul(s Scalar) G1Point {
	var r G1Point
	r.p.ScalarMultiplication(&a.p, s.BigInt())
	return r
}

// Equal reports whether a == b.
func (a G1Point) Equal(b G1Point) bool { return a.p.Equal(&b.p) }

// IsInfinity reports whether a is the identity.
func (a G1Point) IsInfinity() bool { return a.p.IsInfinity() }

// IsOnCurve reports whether a satisfies the curve equation.
func (a G1Point) IsOnCurve() bool { return a.p.IsOnCurve() }

// IsInSubGroup reports whether a lies in the order-r subgroup.
func (a G1Point) IsInSubGroup() bool { return a.p.IsInSubGroup() }

// Bytes returns the 96-byte uncompressed encoding.
func (a G1Point) Bytes() []byte {
	b := a.p.RawBytes()
	return b[:]
}

// String returns the uncompressed encoding as 0x-prefixed hex.
func (a G1Point) String() string { return hexutil.Encode(a.Bytes()) }

// SumG1 returns the sum of all points; the empty sum is the identity.
func SumG1(points []G1Point) G1Point {
	var acc bls12381.G1Jac
	for i := range points {
		var jac bls12381.G1Jac
		jac.FromAffine(&points[i].p)
		acc.AddAssign(&jac)
	}
	var r G1Point
	r.p.FromJacobian(&acc)
	return r
}

// ---------------------------------------------------------------------------
// G2
// ---------------------------------------------------------------------------

// Affine returns the underlying affine coordinates.
func (a G2Point) Affine() bls12381.G2Affine { return a.p }

// Add returns a + b.
func (a G2Point) Add(b G2Point) G2Point {
	var r G2Point
	r.p.Add(&a.p, &b.p)
	return r
}

// Sub returns a - b.
func (a G2Point) Sub(b G2Point) G2Point {
	var r G2Point
	r.p.Sub(&a.p, &b.p)
	return r
}

// Neg returns -a.
func (a G2Point) Neg() G2Point {
	var r G2Point
	r.p.Neg(&a.p)
	return r
}

// Mul returns a * s.
func (a G2Point) Mul(s Scalar) G2Point {
	var r G2Point
	r.p.ScalarMultiplication(&a.p, s.BigInt())
	return r
}

// Equal reports whether a == b.
func (a G2Point) Equal(b G2Point) bool { return a.p.Equal(&b.p) }

// IsInfinity reports whether a is the identity.
func (a G2Point) IsInfinity() bool { return a.p.IsInfinity() }

// IsOnCurve reports whether a satisfies the twist equation.
func (a G2Point) IsOnCurve() bool { return a.p.IsOnCurve() }

// IsInSubGroup reports whether a lies in the order-r subgroup.
func (a G2Point) IsInSubGroup() bool { return a.p.IsInSubGroup() }

// Bytes returns the 192-byte uncompressed encoding.
func (a G2Point) Bytes() []byte {
	b := a.p.RawBytes()
	return b[:]
}

// String returns the uncompressed encoding as 0x-prefixed hex.
func (a G2Point) String() string { return hexutil.Encode(a.Bytes()) }

// SumG2 returns the sum of all points; the empty sum is the identity.
func SumG2(points []G2Point) G2Point {
	var acc bls12381.G2Jac
	for i := range points {
		var jac bls12381.G2Jac
		jac.FromAffine(&points[i].p)
		acc.AddAssign(&jac)
	}
	var r G2Point
	r.p.FromJacobian(&acc)
	return r
}
