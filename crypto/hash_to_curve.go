// Hash-to-curve message encoding for BLS12-381 G2 per IETF RFC 9380.
//
// The encoding is the BLS12381G2_XMD:SHA-256_SSWU_RO_ suite:
//
//   1. expand_message_xmd: expand msg || DST to uniform bytes with SHA-256
//   2. hash_to_field: two Fp2 elements, 64 bytes each (128-bit security)
//   3. map_to_curve: simplified SWU on the 3-isogenous curve, then the isogeny
//   4. add the two points and clear the cofactor
//
// The arithmetic is delegated to gnark-crypto; this file only owns the
// domain separation tags.

package crypto

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
)

var (
	// ErrDSTTooLong is returned for tags longer than RFC 9380 permits.
	ErrDSTTooLong = errors.New("hash_to_curve: DST too long")

	// ErrEmptyDST is returned for a zero-length tag.
	ErrEmptyDST = errors.New("hash_to_curve: empty DST")
)

// maxDSTLen is the longest tag expand_message_xmd accepts without hashing
// the tag first.
const maxDSTLen = 255

// DefaultDST is the domain separation tag for message signatures.
var DefaultDST = []byte{1, 3, 3, 7}

// DSTIndexGenerator is the tag used by HashedGenerators to derive one
// independent G2 point per registry index.
var DSTIndexGenerator = []byte("BLSPOK_INDEX_GENERATOR_BLS12381G2_XMD:SHA-256_SSWU_RO_")

// MessageEncoder maps byte strings to G2 points under a fixed tag.
type MessageEncoder struct {
	dst []byte
}

// NewMessageEncoder returns an encoder for the given tag.
func NewMessageEncoder(dst []byte) (*MessageEncoder, error) {
	if len(dst) == 0 {
		return nil, ErrEmptyDST
	}
	if len(dst) > maxDSTLen {
		return nil, ErrDSTTooLong
	}
	return &MessageEncoder{dst: append([]byte(nil), dst...)}, nil
}

// DefaultMessageEncoder returns an encoder using DefaultDST.
func DefaultMessageEncoder() *MessageEncoder {
	return &MessageEncoder{dst: append([]byte(nil), DefaultDST...)}
}

// DST returns a copy of the encoder's tag.
func (e *MessageEncoder) DST() []byte {
	return append([]byte(nil), e.dst...)
}

// Encode hashes msg to a point of the G2 subgroup. Equal messages always
// encode to the same point.
func (e *MessageEncoder) Encode(msg []byte) (G2Point, error) {
	p, err := bls12381.HashToG2(msg, e.dst)
	if err != nil {
		return G2Point{}, fmt.Errorf("hash_to_curve: %w", err)
	}
	return G2Point{p: p}, nil
}
