package registry

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"

	"github.com/eth2030/blspok/crypto"
	"github.com/eth2030/blspok/metrics"
)

func encoded(t *testing.T, reg *Registry) []byte {
	t.Helper()
	data, err := reg.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	return data
}

func TestCodec_RoundTrip(t *testing.T) {
	gens := testGens(t)
	reg := Build(secrets(2, 3, 5), gens)
	data := encoded(t, reg)

	if len(data) != HeaderSize+3*EntrySize {
		t.Fatalf("encoded length = %d, want %d", len(data), HeaderSize+3*EntrySize)
	}
	if n := binary.BigEndian.Uint64(data[:HeaderSize]); n != 3 {
		t.Fatalf("header count = %d, want 3", n)
	}

	for _, opts := range []LoadOptions{{}, {ValidateSubgroups: true}} {
		got, err := Decode(data, opts)
		if err != nil {
			t.Fatalf("Decode(%+v): %v", opts, err)
		}
		if got.Len() != 3 {
			t.Fatalf("decoded Len = %d, want 3", got.Len())
		}
		for i, want := range reg.Entries() {
			e, _ := got.Entry(uint64(i))
			if !e.PublicKey.Equal(want.PublicKey) || !e.Proof.Equal(want.Proof) {
				t.Fatalf("entry %d changed in round trip", i)
			}
		}
		if err := got.VerifyAll(gens); err != nil {
			t.Fatalf("decoded registry: %v", err)
		}
	}
}

func TestCodec_EmptyRegistry(t *testing.T) {
	data := encoded(t, New(nil))
	if !bytes.Equal(data, make([]byte, HeaderSize)) {
		t.Fatalf("empty encoding = %x", data)
	}
	reg, err := Decode(data, LoadOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d, want 0", reg.Len())
	}
}

func TestCodec_InfinityEntry(t *testing.T) {
	reg := New([]Entry{{PublicKey: crypto.G1Infinity(), Proof: crypto.G2Infinity()}})
	got, err := Decode(encoded(t, reg), LoadOptions{ValidateSubgroups: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	e, _ := got.Entry(0)
	if !e.PublicKey.IsInfinity() || !e.Proof.IsInfinity() {
		t.Fatal("identity entry did not survive the round trip")
	}
}

func TestDecode_Truncated(t *testing.T) {
	data := encoded(t, Build(secrets(2, 3, 5), testGens(t)))
	tests := []struct {
		name  string
		cut   int
		entry int
	}{
		{"empty", 0, -1},
		{"short header", 5, -1},
		{"header only", HeaderSize, 0},
		{"mid first entry", HeaderSize + 100, 0},
		{"mid last entry", len(data) - 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Decode(data[:tt.cut], LoadOptions{})
			if reg != nil {
				t.Fatal("truncated blob produced a registry")
			}
			var de *DeserializationError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DeserializationError", err)
			}
			if de.Entry != tt.entry {
				t.Fatalf("Entry = %d, want %d", de.Entry, tt.entry)
			}
			if !errors.Is(err, ErrMalformedRegistry) || !errors.Is(err, errTruncated) {
				t.Fatalf("error %v does not wrap ErrMalformedRegistry and errTruncated", err)
			}
		})
	}
}

func TestDecode_TrailingData(t *testing.T) {
	data := append(encoded(t, Build(secrets(2), testGens(t))), 0x00)
	_, err := Decode(data, LoadOptions{})
	var de *DeserializationError
	if !errors.As(err, &de) || !errors.Is(err, errTrailingData) {
		t.Fatalf("error = %v, want trailing-data DeserializationError", err)
	}
	if de.Offset != HeaderSize+EntrySize {
		t.Fatalf("Offset = %d, want %d", de.Offset, HeaderSize+EntrySize)
	}
}

func TestDecode_CountLimit(t *testing.T) {
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint64(hdr[:], MaxEntries+1)
	_, err := Decode(hdr[:], LoadOptions{})
	if !errors.Is(err, errTooManyEntries) {
		t.Fatalf("error = %v, want errTooManyEntries", err)
	}
}

func TestDecode_CompressedFlag(t *testing.T) {
	data := encoded(t, Build(secrets(2), testGens(t)))
	data[HeaderSize] |= 0x80
	_, err := Decode(data, LoadOptions{})
	if !errors.Is(err, errCompressed) {
		t.Fatalf("error = %v, want errCompressed", err)
	}
}

func TestDecode_OffCurve(t *testing.T) {
	data := encoded(t, Build(secrets(2), testGens(t)))
	// Last byte of the key's y coordinate.
	data[HeaderSize+crypto.G1PointSize-1] ^= 0x01
	_, err := Decode(data, LoadOptions{})
	var de *DeserializationError
	if !errors.As(err, &de) || de.Entry != 0 || de.Offset != HeaderSize {
		t.Fatalf("error = %v, want DeserializationError at entry 0 offset %d", err, HeaderSize)
	}
}

// nonSubgroupG1 returns a point on the G1 curve outside the order-r subgroup.
func nonSubgroupG1(t *testing.T) bls12381.G1Affine {
	t.Helper()
	var four fp.Element
	four.SetUint64(4)
	for x := uint64(1); x < 1000; x++ {
		var p bls12381.G1Affine
		p.X.SetUint64(x)
		var rhs fp.Element
		rhs.Square(&p.X).Mul(&rhs, &p.X).Add(&rhs, &four)
		if p.Y.Sqrt(&rhs) == nil {
			continue
		}
		if p.IsOnCurve() && !p.IsInSubGroup() {
			return p
		}
	}
	t.Fatal("no non-subgroup point found")
	return bls12381.G1Affine{}
}

func TestDecode_SubgroupOption(t *testing.T) {
	gens := testGens(t)
	bad := crypto.G1FromAffine(nonSubgroupG1(t))
	reg := New([]Entry{{PublicKey: bad, Proof: crypto.ProvePoK(crypto.NewScalar(2), 0, gens)}})
	data := encoded(t, reg)

	got, err := Decode(data, LoadOptions{})
	if err != nil {
		t.Fatalf("default decode rejected an on-curve point: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("Len = %d, want 1", got.Len())
	}

	_, err = Decode(data, LoadOptions{ValidateSubgroups: true})
	if !errors.Is(err, errNotInSubgroup) {
		t.Fatalf("validating decode error = %v, want errNotInSubgroup", err)
	}
}

func TestFingerprint(t *testing.T) {
	gens := testGens(t)
	a := Build(secrets(2, 3, 5), gens)
	b := Build(secrets(2, 3, 5), gens)
	c := Build(secrets(2, 3, 6), gens)

	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fb, _ := b.Fingerprint()
	fc, _ := c.Fingerprint()
	if fa != fb {
		t.Fatal("equal registries have different fingerprints")
	}
	if fa == fc {
		t.Fatal("different registries share a fingerprint")
	}
	if fa != crypto.Keccak256Hash(encoded(t, a)) {
		t.Fatal("fingerprint is not keccak256 of the encoding")
	}
}

func TestSaveLoadFile(t *testing.T) {
	gens := testGens(t)
	reg := Build(secrets(2, 3, 5), gens)
	path := filepath.Join(t.TempDir(), "public_keys.bin")

	if err := reg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	before := metrics.RegistryLoadTime.Count()
	got, err := LoadFile(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Len())
	}
	if err := got.VerifyAll(gens); err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if metrics.RegistryEntries.Value() != 3 {
		t.Fatalf("registry.entries = %d, want 3", metrics.RegistryEntries.Value())
	}
	if metrics.RegistryLoadTime.Count() != before+1 {
		t.Fatal("load time not recorded")
	}

	// Save over an existing file.
	if err := Build(secrets(7), gens).Save(path); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = LoadFile(path, LoadOptions{})
	if err != nil || got.Len() != 1 {
		t.Fatalf("reload = (%v, %v), want 1 entry", got, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("directory has %d files, want 1 (temp file left behind?)", len(entries))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.bin"), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want os.ErrNotExist", err)
	}
}
