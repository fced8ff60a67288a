//go:build blst

// BLS12-381 verification backend using the supranational/blst library.
//
// blst uses the same layout as the rest of this package (public keys in G1,
// signatures in G2) and the same RFC 9380 hash_to_G2, so its core verify
// checks the identical equation e(pk, H(m)) == e(G1, sig).
//
// Build with: go build -tags blst
// Test with:  go test -tags blst ./crypto/ -run Blst
package crypto

import (
	blst "github.com/supranational/blst/bindings/go"

	"github.com/eth2030/blspok/metrics"
)

// BlstBackendName is the registry name of the blst backend.
const BlstBackendName = "blst"

func init() {
	RegisterBackend(BlstBackendName, newBlstBackend)
}

// BlstBackend verifies signatures with blst.
type BlstBackend struct {
	dst []byte
}

func newBlstBackend(dst []byte) (Backend, error) {
	if len(dst) == 0 {
		return nil, ErrEmptyDST
	}
	if len(dst) > maxDSTLen {
		return nil, ErrDSTTooLong
	}
	return &BlstBackend{dst: append([]byte(nil), dst...)}, nil
}

// Name returns "blst".
func (b *BlstBackend) Name() string { return BlstBackendName }

// VerifySignature converts both points through their uncompressed encoding
// and runs blst's core verify with group checks enabled.
func (b *BlstBackend) VerifySignature(pk PublicKey, sig Signature, msg []byte) bool {
	p := new(blst.P1Affine).Deserialize(pk.Bytes())
	if p == nil {
		metrics.SigRejected.Inc()
		return false
	}
	s := new(blst.P2Affine).Deserialize(sig.Bytes())
	if s == nil {
		metrics.SigRejected.Inc()
		return false
	}
	if !s.Verify(true, p, true, msg, b.dst) {
		metrics.SigRejected.Inc()
		return false
	}
	metrics.SigVerified.Inc()
	return true
}

// blstSign signs with blst; tests use it to check that both libraries agree
// on the encoding of H(m).
func blstSign(sk Scalar, msg, dst []byte) Signature {
	b := sk.Bytes()
	key := new(blst.SecretKey).Deserialize(b[:])
	sig := new(blst.P2Affine).Sign(key, msg, dst)
	var out G2Point
	if err := out.p.Unmarshal(sig.Serialize()); err != nil {
		return G2Infinity()
	}
	return out
}
