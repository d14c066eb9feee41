package merkle

import (
	"testing"

	"github.com/mmsapre/docmerkle/pkg/crypto"
)

func TestEncodeLeafRoundTripsLength(t *testing.T) {
	vh := Vhash("hello")
	payload := EncodeLeaf("$.a.b", vh)
	if len(payload) != 4+len("$.a.b")+crypto.HashSize {
		t.Fatalf("unexpected payload length %d", len(payload))
	}
}

func TestEncodeLeafDistinguishesPathBoundary(t *testing.T) {
	// "$.ab" + "" vs "$.a" + "b..." must not collide despite naive
	// concatenation; the length prefix guards against that.
	vh1 := Vhash("x")
	vh2 := Vhash("y")
	a := EncodeLeaf("$.ab", vh1)
	b := EncodeLeaf("$.a", vh2)
	if string(a) == string(b) {
		t.Error("distinct (path, hash) pairs encoded identically")
	}
}

func TestVhashPrefixesValue(t *testing.T) {
	got := Vhash("null")
	want := HashBytesForTest("V|null")
	if got != want {
		t.Errorf("Vhash mismatch: got %x, want %x", got, want)
	}
}

func TestHashEmptyTreeIsHashOfEmptyString(t *testing.T) {
	if got, want := HashEmptyTree(), HashBytesForTest(""); got != want {
		t.Errorf("got %x, want %x", got, want)
	}
}
