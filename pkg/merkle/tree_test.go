package merkle

import (
	"encoding/binary"
	"testing"

	"github.com/mmsapre/docmerkle/pkg/crypto"
)

func newLeafPayloads(n int) [][]byte {
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		var blob [8]byte
		binary.BigEndian.PutUint64(blob[:], uint64(i))
		out[i] = blob[:]
	}
	return out
}

func TestSize(t *testing.T) {
	leaves := newLeafPayloads(5)
	tree := NewTree(leaves)
	if got, want := tree.Size(), uint64(5); got != want {
		t.Errorf("got size %d, want %d", got, want)
	}
}

func TestRootMatchesHandComputed(t *testing.T) {
	leaves := newLeafPayloads(5)
	h := make([]crypto.Hash, 5)
	for i, l := range leaves {
		h[i] = HashLeaf(l)
	}
	h01 := HashNode(h[0], h[1])
	h23 := HashNode(h[2], h[3])
	h0123 := HashNode(h01, h23)
	want := HashNode(h0123, h[4])

	tree := NewTree(leaves)
	if got := tree.Root(); got != want {
		t.Errorf("root mismatch: got %x, want %x", got, want)
	}
}

func TestRootEmptyTree(t *testing.T) {
	tree := NewTree(nil)
	if got, want := tree.Root(), HashEmptyTree(); got != want {
		t.Errorf("empty tree root mismatch: got %x, want %x", got, want)
	}
}

func TestInclusionProofLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 100} {
		tree := NewTree(newLeafPayloads(n))
		for m := 0; m < n; m++ {
			proof, err := tree.InclusionProof(uint64(m))
			if err != nil {
				t.Fatalf("InclusionProof(%d) on tree %d failed: %v", m, n, err)
			}
			if n == 1 && len(proof.Path) != 0 {
				t.Errorf("tree of size 1 should have empty inclusion path, got %d", len(proof.Path))
			}
		}
	}
}

func TestInclusionValid(t *testing.T) {
	leaves := newLeafPayloads(100)
	roots := make([]crypto.Hash, 0, 100)
	for i := 1; i <= len(leaves); i++ {
		roots = append(roots, NewTree(leaves[:i]).Root())
	}
	for i := 0; i < len(leaves); i++ {
		for n := i + 1; n <= len(leaves); n++ {
			tree := NewTree(leaves[:n])
			proof, err := tree.InclusionProof(uint64(i))
			if err != nil {
				t.Fatalf("InclusionProof(%d) on tree %d failed: %v", i, n, err)
			}
			if !VerifyInclusion(leaves[i], proof, roots[n-1]) {
				t.Errorf("inclusion proof not valid, i=%d n=%d", i, n)
			}
		}
	}
}

func TestInclusionInvalidIndex(t *testing.T) {
	tree := NewTree(newLeafPayloads(5))
	if _, err := tree.InclusionProof(5); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestInclusionProofRejectsTamperedSibling(t *testing.T) {
	leaves := newLeafPayloads(8)
	tree := NewTree(leaves)
	root := tree.Root()
	proof, err := tree.InclusionProof(3)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyInclusion(leaves[3], proof, root) {
		t.Fatal("expected valid proof to verify")
	}
	proof.Path[0].Hash[0] ^= 0xff
	if VerifyInclusion(leaves[3], proof, root) {
		t.Error("tampered sibling hash should not verify")
	}
}

func TestConsistencyValid(t *testing.T) {
	leaves := newLeafPayloads(100)
	roots := make([]crypto.Hash, 0, 100)
	for i := 1; i <= len(leaves); i++ {
		roots = append(roots, NewTree(leaves[:i]).Root())
	}
	for m := 1; m < len(leaves); m++ {
		for n := m + 1; n <= len(leaves); n++ {
			tree := NewTree(leaves[:n])
			proof, err := tree.ConsistencyProof(uint64(m))
			if err != nil {
				t.Fatalf("ConsistencyProof(%d) on tree %d failed: %v", m, n, err)
			}
			if !VerifyConsistency(roots[m-1], roots[n-1], proof) {
				t.Errorf("consistency proof not valid, m=%d n=%d", m, n)
			}
		}
	}
}

func TestConsistencySameSizeRequiresEqualRoots(t *testing.T) {
	leaves := newLeafPayloads(10)
	tree := NewTree(leaves)
	proof, err := tree.ConsistencyProof(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(proof.Nodes) != 0 {
		t.Errorf("expected empty node list for m==n, got %d", len(proof.Nodes))
	}
	root := tree.Root()
	if !VerifyConsistency(root, root, proof) {
		t.Error("expected equal-size, equal-root consistency to verify")
	}
	other := HashBytesForTest("different")
	if VerifyConsistency(root, other, proof) {
		t.Error("expected equal-size, differing-root consistency to fail")
	}
}

func TestConsistencyInvalidArguments(t *testing.T) {
	tree := NewTree(newLeafPayloads(5))
	if _, err := tree.ConsistencyProof(0); err == nil {
		t.Error("expected error for oldSize 0")
	}
	if _, err := tree.ConsistencyProof(6); err == nil {
		t.Error("expected error for oldSize > tree size")
	}
}

func HashBytesForTest(s string) crypto.Hash {
	return crypto.HashBytes([]byte(s))
}
