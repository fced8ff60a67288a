package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestMessageEncoder_Deterministic(t *testing.T) {
	enc := DefaultMessageEncoder()
	a, err := enc.Encode([]byte("intldds"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := enc.Encode([]byte("intldds"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !a.Equal(b) {
		t.Fatal("equal messages encoded to different points")
	}
	if !a.IsOnCurve() || !a.IsInSubGroup() {
		t.Fatal("encoded point not in the G2 subgroup")
	}
	if a.IsInfinity() {
		t.Fatal("encoded point is the identity")
	}
}

func TestMessageEncoder_Separation(t *testing.T) {
	enc := DefaultMessageEncoder()
	a, _ := enc.Encode([]byte("intldds"))
	b, _ := enc.Encode([]byte("intldd"))
	if a.Equal(b) {
		t.Fatal("different messages encoded to the same point")
	}
	other, err := NewMessageEncoder([]byte("another tag"))
	if err != nil {
		t.Fatalf("NewMessageEncoder: %v", err)
	}
	c, _ := other.Encode([]byte("intldds"))
	if a.Equal(c) {
		t.Fatal("different tags encoded to the same point")
	}
	empty, err := enc.Encode(nil)
	if err != nil {
		t.Fatalf("Encode(empty): %v", err)
	}
	if empty.Equal(a) {
		t.Fatal("empty message collides with a non-empty one")
	}
}

func TestNewMessageEncoder_Errors(t *testing.T) {
	if _, err := NewMessageEncoder(nil); err != ErrEmptyDST {
		t.Fatalf("empty tag error = %v, want ErrEmptyDST", err)
	}
	long := []byte(strings.Repeat("x", maxDSTLen+1))
	if _, err := NewMessageEncoder(long); err != ErrDSTTooLong {
		t.Fatalf("long tag error = %v, want ErrDSTTooLong", err)
	}
	if _, err := NewMessageEncoder(long[:maxDSTLen]); err != nil {
		t.Fatalf("255-byte tag: %v", err)
	}
}

func TestMessageEncoder_DSTCopy(t *testing.T) {
	tag := []byte{9, 9}
	enc, err := NewMessageEncoder(tag)
	if err != nil {
		t.Fatalf("NewMessageEncoder: %v", err)
	}
	tag[0] = 0
	got := enc.DST()
	if !bytes.Equal(got, []byte{9, 9}) {
		t.Fatalf("DST = %x, caller mutation leaked in", got)
	}
	got[1] = 0
	if !bytes.Equal(enc.DST(), []byte{9, 9}) {
		t.Fatal("DST result aliases encoder state")
	}
	if !bytes.Equal(DefaultMessageEncoder().DST(), []byte{1, 3, 3, 7}) {
		t.Fatalf("default DST = %x, want 01030307", DefaultMessageEncoder().DST())
	}
}
