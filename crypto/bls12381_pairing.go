package crypto

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/eth2030/blspok/metrics"
)

// ErrPairingLengthMismatch is returned when the G1 and G2 inputs of a
// multi-pairing differ in length.
var ErrPairingLengthMismatch = errors.New("crypto: pairing input lengths differ")

// PairingCheck computes prod_k e(ps[k], qs[k]) and reports whether the
// product is the identity of GT. The empty product is the identity.
func PairingCheck(ps []G1Point, qs []G2Point) (bool, error) {
	if len(ps) != len(qs) {
		return false, ErrPairingLengthMismatch
	}
	if len(ps) == 0 {
		return true, nil
	}
	metrics.PairingChecks.Inc()
	timer := metrics.NewTimer(metrics.PairingLatency)
	defer timer.Stop()

	P := make([]bls12381.G1Affine, len(ps))
	Q := make([]bls12381.G2Affine, len(qs))
	for i := range ps {
		P[i] = ps[i].p
		Q[i] = qs[i].p
	}
	return bls12381.PairingCheck(P, Q)
}

// dlogEqual reports whether (a, b) and (c, d) share a discrete log, i.e.
// e(a, -b) * e(c, d) == 1. It is the single equation behind both the
// proof-of-knowledge and the signature check: with a = pk, c = G1_generator
// it holds exactly when d = b * sk.
func dlogEqual(a G1Point, b G2Point, c G1Point, d G2Point) bool {
	ok, err := PairingCheck([]G1Point{a, c}, []G2Point{b.Neg(), d})
	return err == nil && ok
}
