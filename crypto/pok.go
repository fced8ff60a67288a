package crypto

import "github.com/eth2030/blspok/metrics"

// ProvePoK returns sk * generator_for(index): a proof that the holder of the
// public key G1_generator * sk knows sk, bound to index.
func ProvePoK(sk Scalar, index uint64, gens GeneratorSource) Proof {
	return gens.Generator(index).Mul(sk)
}

// VerifyPoK checks e(pk, -generator_for(index)) * e(G1_generator, proof) == 1,
// which holds exactly when pk and proof carry the same discrete log relative
// to G1_generator and generator_for(index).
func VerifyPoK(pk PublicKey, index uint64, proof Proof, gens GeneratorSource) bool {
	ok := dlogEqual(pk, gens.Generator(index), G1Generator(), proof)
	if ok {
		metrics.PoKVerified.Inc()
	} else {
		metrics.PoKRejected.Inc()
	}
	return ok
}
