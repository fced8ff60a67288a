// Signature verification backends.
//
// The protocol code signs and verifies with gnark-crypto directly. The final
// aggregate check of a run goes through a Backend so the same equation can be
// re-checked by an independent implementation:
//
//   - "go":   gnark-crypto, always available
//   - "blst": supranational/blst via CGO, registered when built with -tags blst
//
// Both hash messages with the encoder's tag, so a signature produced by one
// verifies under the other.

package crypto

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by LookupBackend for unregistered names.
var ErrUnknownBackend = errors.New("crypto: unknown verification backend")

// DefaultBackendName names the backend used when none is configured.
const DefaultBackendName = "go"

// Backend verifies BLS signatures under a fixed domain separation tag.
type Backend interface {
	// VerifySignature reports whether sig is a signature on msg under pk.
	VerifySignature(pk PublicKey, sig Signature, msg []byte) bool

	// Name returns the registered backend name.
	Name() string
}

// BackendFactory builds a Backend for a tag.
type BackendFactory func(dst []byte) (Backend, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]BackendFactory{
		DefaultBackendName: newGoBackend,
	}
)

// RegisterBackend makes a backend available under name, replacing any
// previous registration.
func RegisterBackend(name string, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// LookupBackend builds the backend registered under name for dst.
func LookupBackend(name string, dst []byte) (Backend, error) {
	backendsMu.RLock()
	factory, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, BackendNames())
	}
	return factory(dst)
}

// BackendNames lists the registered backends in sorted order.
func BackendNames() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoBackend verifies with gnark-crypto.
type GoBackend struct {
	enc *MessageEncoder
}

func newGoBackend(dst []byte) (Backend, error) {
	enc, err := NewMessageEncoder(dst)
	if err != nil {
		return nil, err
	}
	return &GoBackend{enc: enc}, nil
}

// Name returns "go".
func (b *GoBackend) Name() string { return DefaultBackendName }

// VerifySignature runs Verify with the backend's encoder.
func (b *GoBackend) VerifySignature(pk PublicKey, sig Signature, msg []byte) bool {
	return Verify(pk, sig, msg, b.enc)
}
