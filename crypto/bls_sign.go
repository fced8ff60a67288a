package crypto

// BLS signatures with public keys in G1 and signatures in G2:
//
//	sign:   sig = sk * H(m)
//	verify: e(pk, -H(m)) * e(G1_generator, sig) == 1
//
// Signing is linear in sk, so signatures on one message add up to the
// signature of the summed key: sum_k Sign(sk_k, m) == Sign(sum_k sk_k, m).

import (
	"errors"

	"github.com/eth2030/blspok/metrics"
)

// ErrSignatureVerification is the error form of a failed signature check.
var ErrSignatureVerification = errors.New("crypto: signature verification failed")

// Sign returns sk * Encode(msg).
func Sign(sk Scalar, msg []byte, enc *MessageEncoder) (Signature, error) {
	h, err := enc.Encode(msg)
	if err != nil {
		return Signature{}, err
	}
	return h.Mul(sk), nil
}

// Verify reports whether sig is a signature on msg under pk.
func Verify(pk PublicKey, sig Signature, msg []byte, enc *MessageEncoder) bool {
	h, err := enc.Encode(msg)
	if err != nil {
		metrics.SigRejected.Inc()
		return false
	}
	ok := dlogEqual(pk, h, G1Generator(), sig)
	if ok {
		metrics.SigVerified.Inc()
	} else {
		metrics.SigRejected.Inc()
	}
	return ok
}

// VerifyErr is Verify returning ErrSignatureVerification instead of false.
func VerifyErr(pk PublicKey, sig Signature, msg []byte, enc *MessageEncoder) error {
	if !Verify(pk, sig, msg, enc) {
		return ErrSignatureVerification
	}
	return nil
}
