package crypto

// Additive aggregation of keys, proofs and signatures.
//
// Aggregates are plain group sums. Nothing here defends against rogue keys:
// a key chosen as a function of the others can make the sum collapse to a
// key its author controls. Registration is supposed to prevent that through
// the proof of knowledge, and with collinear generators it does not.

import "errors"

// Errors for aggregation.
var (
	ErrNoPublicKeys = errors.New("bls_agg: no public keys provided")
	ErrNoSignatures = errors.New("bls_agg: no signatures provided")
	ErrNoProofs     = errors.New("bls_agg: no proofs provided")
)

// AggregatePublicKeys returns sum_k pks[k].
func AggregatePublicKeys(pks []PublicKey) (PublicKey, error) {
	if len(pks) == 0 {
		return PublicKey{}, ErrNoPublicKeys
	}
	return SumG1(pks), nil
}

// AggregateSignatures returns sum_k sigs[k].
func AggregateSignatures(sigs []Signature) (Signature, error) {
	if len(sigs) == 0 {
		return Signature{}, ErrNoSignatures
	}
	return SumG2(sigs), nil
}

// AggregateProofs returns sum_k proofs[k].
func AggregateProofs(proofs []Proof) (Proof, error) {
	if len(proofs) == 0 {
		return Proof{}, ErrNoProofs
	}
	return SumG2(proofs), nil
}

// FastAggregateVerify checks an aggregate signature where every signer
// signed the same message, against the sum of their keys.
func FastAggregateVerify(pks []PublicKey, msg []byte, sig Signature, enc *MessageEncoder) bool {
	agg, err := AggregatePublicKeys(pks)
	if err != nil {
		return false
	}
	return Verify(agg, sig, msg, enc)
}
