package crypto

import "testing"

func TestPoK_RoundTrip(t *testing.T) {
	gens := mustCollinear(t, DefaultGeneratorSeed)
	for i, v := range []uint64{2, 3, 5, 100} {
		sk := NewScalar(v)
		pk := PublicKeyFromSecret(sk)
		proof := ProvePoK(sk, uint64(i), gens)
		if !VerifyPoK(pk, uint64(i), proof, gens) {
			t.Fatalf("proof for secret %d at index %d rejected", v, i)
		}
	}
}

func TestPoK_Rejects(t *testing.T) {
	gens := mustCollinear(t, DefaultGeneratorSeed)
	sk := NewScalar(7)
	pk := PublicKeyFromSecret(sk)
	proof := ProvePoK(sk, 2, gens)

	if VerifyPoK(PublicKeyFromSecret(NewScalar(8)), 2, proof, gens) {
		t.Fatal("proof accepted under a different key")
	}
	if VerifyPoK(pk, 3, proof, gens) {
		t.Fatal("proof for index 2 accepted at index 3")
	}
	if VerifyPoK(pk, 2, ProvePoK(NewScalar(8), 2, gens), gens) {
		t.Fatal("proof made with the wrong secret accepted")
	}
	other := mustCollinear(t, DefaultGeneratorSeed+1)
	if VerifyPoK(pk, 2, proof, other) {
		t.Fatal("proof accepted under a different generator seed")
	}
}

// A proof bound to index k can be rescaled into a valid proof for index n by
// anyone, because the generators differ by the public factor (n+1)/(k+1).
func TestPoK_RescaledProofVerifies(t *testing.T) {
	gens := mustCollinear(t, DefaultGeneratorSeed)
	sk := NewScalar(5)
	pk := PublicKeyFromSecret(sk)
	proof := ProvePoK(sk, 0, gens)

	ratio, err := IndexRatio(3, 0)
	if err != nil {
		t.Fatalf("IndexRatio: %v", err)
	}
	moved := proof.Mul(ratio)
	if !VerifyPoK(pk, 3, moved, gens) {
		t.Fatal("rescaled proof rejected at the new index")
	}
	if !moved.Equal(ProvePoK(sk, 3, gens)) {
		t.Fatal("rescaled proof differs from a fresh proof")
	}
}

func TestPoK_HashedGeneratorsBindIndex(t *testing.T) {
	gens, err := NewHashedGenerators(DSTIndexGenerator)
	if err != nil {
		t.Fatalf("NewHashedGenerators: %v", err)
	}
	sk := NewScalar(5)
	pk := PublicKeyFromSecret(sk)
	proof := ProvePoK(sk, 0, gens)
	if !VerifyPoK(pk, 0, proof, gens) {
		t.Fatal("honest proof rejected")
	}
	ratio, _ := IndexRatio(3, 0)
	if VerifyPoK(pk, 3, proof.Mul(ratio), gens) {
		t.Fatal("rescaled proof accepted under independent generators")
	}
}
