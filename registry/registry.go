// Package registry holds the ordered list of (public key, proof of knowledge)
// entries a participant set is built from. An entry's index is its position,
// and its proof must verify against the generator for that index.
package registry

import (
	"errors"
	"fmt"

	"github.com/eth2030/blspok/crypto"
)

var (
	// ErrPoKVerification is wrapped by every PoKError.
	ErrPoKVerification = errors.New("registry: proof of knowledge verification failed")

	// ErrAlreadyAppended is returned by a second Append.
	ErrAlreadyAppended = errors.New("registry: entry already appended")

	// ErrIndexOutOfRange is returned for an index past the last entry.
	ErrIndexOutOfRange = errors.New("registry: index out of range")
)

// PoKError reports the entry whose proof of knowledge failed.
type PoKError struct {
	Index uint64
}

func (e *PoKError) Error() string {
	return fmt.Sprintf("registry: proof of knowledge for entry %d failed", e.Index)
}

func (e *PoKError) Unwrap() error { return ErrPoKVerification }

// Entry is one registered participant.
type Entry struct {
	PublicKey crypto.PublicKey
	Proof     crypto.Proof
}

// Registry is an ordered, read-only list of entries. A single entry may be
// appended after construction.
type Registry struct {
	entries  []Entry
	appended bool
}

// New returns a registry over a copy of entries.
func New(entries []Entry) *Registry {
	return &Registry{entries: append([]Entry(nil), entries...)}
}

// Build registers secrets[i] at index i with an honest proof.
func Build(secrets []crypto.Scalar, gens crypto.GeneratorSource) *Registry {
	entries := make([]Entry, len(secrets))
	for i, sk := range secrets {
		entries[i] = Entry{
			PublicKey: crypto.PublicKeyFromSecret(sk),
			Proof:     crypto.ProvePoK(sk, uint64(i), gens),
		}
	}
	return &Registry{entries: entries}
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entry returns the entry at index.
func (r *Registry) Entry(index uint64) (Entry, error) {
	if index >= uint64(len(r.entries)) {
		return Entry{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(r.entries))
	}
	return r.entries[index], nil
}

// Entries returns a copy of all entries in index order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// PublicKeys returns the keys in index order.
func (r *Registry) PublicKeys() []crypto.PublicKey {
	keys := make([]crypto.PublicKey, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.PublicKey
	}
	return keys
}

// Proofs returns the proofs in index order.
func (r *Registry) Proofs() []crypto.Proof {
	proofs := make([]crypto.Proof, len(r.entries))
	for i, e := range r.entries {
		proofs[i] = e.Proof
	}
	return proofs
}

// Append adds e at index Len() and returns that index. It succeeds once per
// registry.
func (r *Registry) Append(e Entry) (uint64, error) {
	if r.appended {
		return 0, ErrAlreadyAppended
	}
	r.appended = true
	r.entries = append(r.entries, e)
	return uint64(len(r.entries) - 1), nil
}

// VerifyEntry checks the proof of the entry at index against gens.
func (r *Registry) VerifyEntry(index uint64, gens crypto.GeneratorSource) error {
	e, err := r.Entry(index)
	if err != nil {
		return err
	}
	if !crypto.VerifyPoK(e.PublicKey, index, e.Proof, gens) {
		return &PoKError{Index: index}
	}
	return nil
}

// VerifyAll checks every entry in index order and stops at the first
// failure.
func (r *Registry) VerifyAll(gens crypto.GeneratorSource) error {
	for i := range r.entries {
		if err := r.VerifyEntry(uint64(i), gens); err != nil {
			return err
		}
	}
	return nil
}

// AggregateKey returns the sum of every registered key.
func (r *Registry) AggregateKey() (crypto.PublicKey, error) {
	return crypto.AggregatePublicKeys(r.PublicKeys())
}
