package crypto

// Per-index generators for the proof-of-knowledge scheme.
//
// CollinearGenerators is the derivation the protocol uses: one seeded base
// point scaled by (index+1). Every generator is therefore a known multiple
// of every other one, generator_for(n) = (n+1)/(k+1) * generator_for(k),
// and a proof issued for index k can be moved to index n by anyone. The
// forge package depends on exactly this relation.
//
// HashedGenerators derives each generator independently with hash-to-curve.
// It is not used by the protocol; it is the comparison point showing which
// property the forge needs.

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DefaultGeneratorSeed is the fixed seed of the base point.
const DefaultGeneratorSeed uint64 = 20399

// generatorSalt keys the HKDF that turns a seed into the base scalar.
var generatorSalt = []byte("BLSPOK_POK_GENERATOR_BASE_V1")

// baseScalarLen is wide enough that reducing it modulo r is unbiased to
// 2^-128.
const baseScalarLen = 48

// GeneratorSource returns the G2 generator a proof of knowledge for a given
// registry index is checked against. Implementations are pure functions of
// the index.
type GeneratorSource interface {
	Generator(index uint64) G2Point
}

// CollinearGenerators implements generator_for(i) = (i+1) * G2_0.
type CollinearGenerators struct {
	seed uint64
	base G2Point
}

// NewCollinearGenerators derives G2_0 from seed. The same seed yields the
// same generators in every process.
func NewCollinearGenerators(seed uint64) (*CollinearGenerators, error) {
	s, err := seedScalar(seed)
	if err != nil {
		return nil, err
	}
	return &CollinearGenerators{seed: seed, base: G2Generator().Mul(s)}, nil
}

// seedScalar expands seed with HKDF-SHA256 and reduces the output mod r.
func seedScalar(seed uint64) (Scalar, error) {
	var ikm [8]byte
	binary.BigEndian.PutUint64(ikm[:], seed)
	kdf := hkdf.New(sha256.New, ikm[:], generatorSalt, nil)
	buf := make([]byte, baseScalarLen)
	if _, err := io.ReadFull(kdf, buf); err != nil {
		return Scalar{}, fmt.Errorf("generator seed %d: %w", seed, err)
	}
	s := ScalarFromBytes(buf)
	if s.IsZero() {
		return Scalar{}, fmt.Errorf("generator seed %d: %w", seed, ErrZeroScalar)
	}
	return s, nil
}

// Seed returns the seed the base point was derived from.
func (g *CollinearGenerators) Seed() uint64 { return g.seed }

// BasePoint returns G2_0 = generator_for(0).
func (g *CollinearGenerators) BasePoint() G2Point { return g.base }

// Generator returns (index+1) * G2_0.
func (g *CollinearGenerators) Generator(index uint64) G2Point {
	return g.base.Mul(IndexScalar(index))
}

// IndexScalar returns index+1 as a field element. The addition happens in Fr
// so it cannot wrap to zero for any uint64 index.
func IndexScalar(index uint64) Scalar {
	return NewScalar(index).Add(NewScalar(1))
}

// IndexRatio returns (n+1) * (k+1)^-1, the public scalar that maps
// generator_for(k) onto generator_for(n) under CollinearGenerators.
func IndexRatio(n, k uint64) (Scalar, error) {
	inv, err := IndexScalar(k).Inverse()
	if err != nil {
		return Scalar{}, fmt.Errorf("index %d: %w", k, err)
	}
	return IndexScalar(n).Mul(inv), nil
}

// HashedGenerators implements generator_for(i) = HashToG2(be64(i)).
type HashedGenerators struct {
	enc *MessageEncoder
}

// NewHashedGenerators returns independent per-index generators under dst.
func NewHashedGenerators(dst []byte) (*HashedGenerators, error) {
	enc, err := NewMessageEncoder(dst)
	if err != nil {
		return nil, err
	}
	return &HashedGenerators{enc: enc}, nil
}

// Generator hashes the big-endian index to G2.
func (h *HashedGenerators) Generator(index uint64) G2Point {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], index)
	p, err := h.enc.Encode(msg[:])
	if err != nil {
		// The tag was validated by NewHashedGenerators; HashToG2 has no
		// other failure mode.
		return G2Infinity()
	}
	return p
}
