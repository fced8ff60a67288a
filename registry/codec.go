package registry

// Binary layout:
//
//	count   uint64, big-endian
//	entries count x ( G1 uncompressed (96 bytes) || G2 uncompressed (192 bytes) )
//
// Points use the ZCash flag convention of gnark-crypto's raw encoding.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/ethereum/go-ethereum/common"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/metrics"
)

const (
	// HeaderSize is the length of the entry count prefix.
	HeaderSize = 8

	// EntrySize is the encoded length of one entry.
	EntrySize = crypto.G1PointSize + crypto.G2PointSize

	// MaxEntries bounds the count a decoder accepts.
	MaxEntries = 1 << 20
)

// ErrMalformedRegistry is wrapped by every DeserializationError.
var ErrMalformedRegistry = errors.New("registry: malformed encoding")

// Causes carried by DeserializationError.Err.
var (
	errTruncated     = errors.New("truncated")
	errTrailingData  = errors.New("trailing data")
	errTooManyEntries  = errors.New("entry count exceeds limit")
	errCompressed    = errors.New("point not in uncompressed form")
	errNotOnCurve    = errors.New("point not on curve")
	errNotInSubgroup = errors.New("point not in subgroup")
)

// DeserializationError reports where a registry blob failed to decode.
// Entry is -1 when the header itself is bad.
type DeserializationError struct {
	Offset int64
	Entry  int
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("registry: malformed header at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("registry: malformed entry %d at offset %d: %v", e.Entry, e.Offset, e.Err)
}

func (e *DeserializationError) Unwrap() []error {
	return []error{ErrMalformedRegistry, e.Err}
}

// LoadOptions controls point validation during decode.
type LoadOptions struct {
	// ValidateSubgroups rejects points outside the order-r subgroup.
	ValidateSubgroups bool
}

// Encode writes the binary form of r to w.
func (r *Registry) Encode(w io.Writer) error {
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(len(r.entries)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("registry: write header: %w", err)
	}
	enc := bls12381.NewEncoder(w, bls12381.RawEncoding())
	for i := range r.entries {
		pk := r.entries[i].PublicKey.Affine()
		proof := r.entries[i].Proof.Affine()
		if err := enc.Encode(&pk); err != nil {
			return fmt.Errorf("registry: write entry %d key: %w", i, err)
		}
		if err := enc.Encode(&proof); err != nil {
			return fmt.Errorf("registry: write entry %d proof: %w", i, err)
		}
	}
	return nil
}

// MarshalBinary returns the binary form of r.
func (r *Registry) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(r.entries)*EntrySize)
	if err := r.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fingerprint returns the Keccak-256 hash of the binary form.
func (r *Registry) Fingerprint() (common.Hash, error) {
	data, err := r.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}

// Decode parses a registry blob. It accepts no entries unless the whole
// blob is well formed.
func Decode(data []byte, opts LoadOptions) (*Registry, error) {
	if len(data) < HeaderSize {
		return nil, &DeserializationError{Offset: 0, Entry: -1, Err: errTruncated}
	}
	count := binary.BigEndian.Uint64(data[:HeaderSize])
	if count > MaxEntries {
		return nil, &DeserializationError{Offset: 0, Entry: -1,
			Err: fmt.Errorf("%w: %d > %d", errTooManyEntries, count, MaxEntries)}
	}
	body := data[HeaderSize:]
	if want := int(count) * EntrySize; len(body) < want {
		entry := len(body) / EntrySize
		return nil, &DeserializationError{
			Offset: int64(HeaderSize + entry*EntrySize),
			Entry:  entry,
			Err:    errTruncated,
		}
	} else if len(body) > want {
		return nil, &DeserializationError{
			Offset: int64(HeaderSize + want),
			Entry:  int(count),
			Err:    errTrailingData,
		}
	}

	entries := make([]Entry, count)
	for i := range entries {
		off := HeaderSize + i*EntrySize
		var (
			pk    bls12381.G1Affine
			proof bls12381.G2Affine
		)
		if err := decodePoint(data[off:off+crypto.G1PointSize], &pk, opts); err != nil {
			return nil, &DeserializationError{Offset: int64(off), Entry: i, Err: err}
		}
		off += crypto.G1PointSize
		if err := decodePoint(data[off:off+crypto.G2PointSize], &proof, opts); err != nil {
			return nil, &DeserializationError{Offset: int64(off), Entry: i, Err: err}
		}
		entries[i] = Entry{PublicKey: crypto.G1FromAffine(pk), Proof: crypto.G2FromAffine(proof)}
	}
	return &Registry{entries: entries}, nil
}

// decodePoint decodes one uncompressed point that must fill buf exactly.
// Points are always checked to lie on the curve; subgroup membership only
// when opts asks for it.
func decodePoint(buf []byte, into interface{}, opts LoadOptions) error {
	if buf[0]&0x80 != 0 {
		return errCompressed
	}
	dec := bls12381.NewDecoder(bytes.NewReader(buf), bls12381.NoSubgroupChecks())
	if err := dec.Decode(into); err != nil {
		return err
	}
	if dec.BytesRead() != int64(len(buf)) {
		return errCompressed
	}
	switch p := into.(type) {
	case *bls12381.G1Affine:
		if !p.IsOnCurve() {
			return errNotOnCurve
		}
		if opts.ValidateSubgroups && !p.IsInSubGroup() {
			return errNotInSubgroup
		}
	case *bls12381.G2Affine:
		if !p.IsOnCurve() {
			return errNotOnCurve
		}
		if opts.ValidateSubgroups && !p.IsInSubGroup() {
			return errNotInSubgroup
		}
	}
	return nil
}

// Load reads a registry blob from rd.
func Load(rd io.Reader, opts LoadOptions) (*Registry, error) {
	timer := metrics.NewTimer(metrics.RegistryLoadTime)
	defer timer.Stop()

	limit := int64(HeaderSize + MaxEntries*EntrySize + 1)
	data, err := io.ReadAll(io.LimitReader(rd, limit))
	if err != nil {
		return nil, fmt.Errorf("registry: read: %w", err)
	}
	reg, err := Decode(data, opts)
	if err != nil {
		return nil, err
	}
	metrics.RegistryEntries.Set(int64(reg.Len()))
	return reg, nil
}

// LoadFile reads the registry stored at path.
func LoadFile(path string, opts LoadOptions) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Save writes r to path, replacing any existing file atomically.
func (r *Registry) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("registry: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if err := r.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("registry: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("registry: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("registry: rename: %w", err)
	}
	return nil
}
