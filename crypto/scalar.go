package crypto

// Scalar field (Fr) arithmetic for BLS12-381.
//
// Scalars are secret keys, blinding factors and the public index ratios used
// when moving a proof between per-index generators. All values are reduced
// modulo the subgroup order r.

import (
	"errors"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/holiman/uint256"
)

var (
	// ErrScalarInversion is returned when inverting the zero scalar.
	ErrScalarInversion = errors.New("crypto: inversion of zero scalar")

	// ErrZeroScalar is returned where a zero scalar would make a key or
	// generator degenerate.
	ErrZeroScalar = errors.New("crypto: zero scalar")

	// ErrInvalidScalar is returned when a scalar string cannot be parsed.
	ErrInvalidScalar = errors.New("crypto: invalid scalar encoding")
)

// ScalarSize is the big-endian byte length of a canonical Fr element.
const ScalarSize = fr.Bytes

// Scalar is an element of the BLS12-381 scalar field. The zero value is the
// scalar 0. Scalars are values; every operation returns a new Scalar.
type Scalar struct {
	e fr.Element
}

// NewScalar returns v as a field element.
func NewScalar(v uint64) Scalar {
	var s Scalar
	s.e.SetUint64(v)
	return s
}

// ScalarFromBig reduces v modulo r.
func ScalarFromBig(v *big.Int) Scalar {
	var s Scalar
	s.e.SetBigInt(v)
	return s
}

// ScalarFromBytes interprets b as a big-endian integer and reduces it
// modulo r. Inputs of any length are accepted.
func ScalarFromBytes(b []byte) Scalar {
	var s Scalar
	s.e.SetBytes(b)
	return s
}

// ParseScalar parses a decimal string or a 0x-prefixed hex string of at most
// 256 bits and reduces it modulo r.
func ParseScalar(str string) (Scalar, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Scalar{}, ErrInvalidScalar
	}
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		digits := str[2:]
		if digits == "" {
			return Scalar{}, ErrInvalidScalar
		}
		// uint256 follows the hexutil quantity rules, which reject
		// leading zeros.
		if digits = strings.TrimLeft(digits, "0"); digits == "" {
			digits = "0"
		}
		v, err = uint256.FromHex("0x" + digits)
	} else {
		v, err = uint256.FromDecimal(str)
	}
	if err != nil {
		return Scalar{}, errors.Join(ErrInvalidScalar, err)
	}
	b := v.Bytes32()
	return ScalarFromBytes(b[:]), nil
}

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar {
	var r Scalar
	r.e.Add(&s.e, &o.e)
	return r
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar {
	var r Scalar
	r.e.Sub(&s.e, &o.e)
	return r
}

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar {
	var r Scalar
	r.e.Mul(&s.e, &o.e)
	return r
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	var r Scalar
	r.e.Neg(&s.e)
	return r
}

// Inverse returns s^-1. Inverting zero is an error rather than the silent
// zero that fr.Element.Inverse produces.
func (s Scalar) Inverse() (Scalar, error) {
	if s.e.IsZero() {
		return Scalar{}, ErrScalarInversion
	}
	var r Scalar
	r.e.Inverse(&s.e)
	return r, nil
}

// IsZero reports whether s == 0.
func (s Scalar) IsZero() bool { return s.e.IsZero() }

// Equal reports whether s == o.
func (s Scalar) Equal(o Scalar) bool { return s.e.Equal(&o.e) }

// BigInt returns the canonical integer representative of s.
func (s Scalar) BigInt() *big.Int { return s.e.BigInt(new(big.Int)) }

// Bytes returns the 32-byte big-endian canonical encoding.
func (s Scalar) Bytes() [ScalarSize]byte { return s.e.Bytes() }

// String returns s in decimal.
func (s Scalar) String() string { return s.e.String() }
