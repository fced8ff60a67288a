// Package forge builds a registry entry whose public key cancels every
// existing key, together with a proof of knowledge that passes registration.
//
// With n honest entries (pk_k, proof_k) at indices 0..n-1 and an attacker
// secret s, the entry at index n is
//
//	key   = s*G1 - sum_k pk_k
//	proof = s*gen(n) - sum_k ((n+1)/(k+1)) * proof_k
//
// The aggregate of all n+1 keys is s*G1, so a signature made with s alone
// verifies as the aggregate signature of the whole set. The proof verifies
// only because gen(n) is a public multiple of every gen(k); under
// independent per-index generators the rescaled honest proofs do not land on
// gen(n) and the forged proof is rejected.
//
// The forge reads public keys, public proofs, public indices and s. It never
// learns an honest secret.
package forge

import (
	"errors"
	"fmt"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/metrics"
)

// ErrLengthMismatch is returned when the key and proof lists differ in
// length.
var ErrLengthMismatch = errors.New("forge: key and proof counts differ")

// Forgery is the result of a forge run.
type Forgery struct {
	// Index is the registry position of the forged entry.
	Index uint64
	// Key is the rogue public key registered at Index.
	Key crypto.PublicKey
	// Proof is the forged proof of knowledge for Key at Index.
	Proof crypto.Proof
	// AttackerKey is s*G1, which the aggregate of all keys collapses to.
	AttackerKey crypto.PublicKey
	// AggregateSignature is Sign(s, msg), valid for the aggregate key.
	AggregateSignature crypto.Signature
}

// Entry returns the forged key and proof.
func (f *Forgery) Entry() (crypto.PublicKey, crypto.Proof) {
	return f.Key, f.Proof
}

// RogueKey returns s*G1 - sum(keys).
func RogueKey(s crypto.Scalar, keys []crypto.PublicKey) crypto.PublicKey {
	return crypto.PublicKeyFromSecret(s).Sub(crypto.SumG1(keys))
}

// ForgeProof returns Prove(s, n) - sum_k IndexRatio(n, k) * proofs[k], where
// proofs[k] is the proof registered at index k.
func ForgeProof(s crypto.Scalar, n uint64, proofs []crypto.Proof, gens crypto.GeneratorSource) (crypto.Proof, error) {
	moved := make([]crypto.G2Point, len(proofs))
	for k, p := range proofs {
		ratio, err := crypto.IndexRatio(n, uint64(k))
		if err != nil {
			return crypto.Proof{}, fmt.Errorf("forge: rescale proof %d: %w", k, err)
		}
		moved[k] = p.Mul(ratio)
	}
	return crypto.ProvePoK(s, n, gens).Sub(crypto.SumG2(moved)), nil
}

// ForgeAggregateSignature signs msg with s. Under the rogue key it is the
// aggregate signature of the whole registry.
func ForgeAggregateSignature(s crypto.Scalar, msg []byte, enc *crypto.MessageEncoder) (crypto.Signature, error) {
	sig, err := crypto.Sign(s, msg, enc)
	if err != nil {
		return crypto.Signature{}, fmt.Errorf("forge: sign: %w", err)
	}
	return sig, nil
}

// ForgeEntrySignature returns aggSig - sum(honestSigs): the per-entry
// signature for the forged index such that the sum over every entry equals
// aggSig. All honest signatures must be on the same message as aggSig.
func ForgeEntrySignature(aggSig crypto.Signature, honestSigs []crypto.Signature) crypto.Signature {
	return aggSig.Sub(crypto.SumG2(honestSigs))
}

// Forge builds the rogue entry for index len(keys) from the registered keys
// and proofs, and the aggregate signature on msg.
func Forge(keys []crypto.PublicKey, proofs []crypto.Proof, s crypto.Scalar, msg []byte,
	gens crypto.GeneratorSource, enc *crypto.MessageEncoder) (*Forgery, error) {
	if len(keys) != len(proofs) {
		return nil, fmt.Errorf("%w: %d keys, %d proofs", ErrLengthMismatch, len(keys), len(proofs))
	}
	if s.IsZero() {
		return nil, fmt.Errorf("forge: attacker secret: %w", crypto.ErrZeroScalar)
	}
	n := uint64(len(keys))

	proof, err := ForgeProof(s, n, proofs, gens)
	if err != nil {
		return nil, err
	}
	sig, err := ForgeAggregateSignature(s, msg, enc)
	if err != nil {
		return nil, err
	}
	metrics.ForgedEntries.Inc()
	return &Forgery{
		Index:              n,
		Key:                RogueKey(s, keys),
		Proof:              proof,
		AttackerKey:        crypto.PublicKeyFromSecret(s),
		AggregateSignature: sig,
	}, nil
}
