package merkle

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/mmsapre/docmerkle/pkg/crypto"
)

// Tree is an immutable, ordered sequence of leaf payloads with RFC
// 6962-style Merkle hashing. Subtree hashes are memoized by (start, size)
// in a sync.Map so that repeated proof requests on the same tree are cheap
// and the cache can be shared safely across goroutines (spec.md §5 leaves
// the choice of confinement vs. thread-safety to the implementation; this
// one opts for thread-safety since a BuildResult may be handed to several
// callers at once).
type Tree struct {
	leaves [][]byte
	cache  sync.Map // subtreeKey -> crypto.Hash
}

type subtreeKey struct {
	start, size uint64
}

// NewTree builds a tree over the given (already RFC-leaf-encoded) payloads.
// The slice is copied so the tree is safe to use after the caller mutates
// its own slice.
func NewTree(leaves [][]byte) *Tree {
	cp := make([][]byte, len(leaves))
	copy(cp, leaves)
	return &Tree{leaves: cp}
}

// Size returns the number of leaves.
func (t *Tree) Size() uint64 {
	return uint64(len(t.leaves))
}

// Root returns MTH(D[0:n]).
func (t *Tree) Root() crypto.Hash {
	return t.mth(0, t.Size())
}

// largestPowerOfTwoLessThan returns the largest power of two strictly less
// than n. Requires n >= 2.
func largestPowerOfTwoLessThan(n uint64) uint64 {
	return uint64(1) << (bits.Len64(n-1) - 1)
}

func (t *Tree) mth(start, size uint64) crypto.Hash {
	if size == 0 {
		return HashEmptyTree()
	}
	key := subtreeKey{start, size}
	if v, ok := t.cache.Load(key); ok {
		return v.(crypto.Hash)
	}
	var result crypto.Hash
	if size == 1 {
		result = HashLeaf(t.leaves[start])
	} else {
		k := largestPowerOfTwoLessThan(size)
		left := t.mth(start, k)
		right := t.mth(start+k, size-k)
		result = HashNode(left, right)
	}
	t.cache.Store(key, result)
	return result
}

// ProofNode is one step of an audit path: the sibling subtree's hash, and
// whether that sibling sits to the right of the node on the path from the
// leaf being proved.
type ProofNode struct {
	Hash           crypto.Hash
	SiblingOnRight bool
}

// InclusionProof is an audit path from leaf LeafIndex to the root of a tree
// of LeafCount leaves.
type InclusionProof struct {
	LeafIndex uint64
	LeafCount uint64
	Path      []ProofNode
}

// InclusionProof builds the audit path for leaf m.
func (t *Tree) InclusionProof(m uint64) (*InclusionProof, error) {
	n := t.Size()
	if n == 0 || m >= n {
		return nil, fmt.Errorf("merkle: index %d out of range for tree of size %d", m, n)
	}
	path := []ProofNode{}
	t.buildInclusionPath(0, n, m, &path)
	return &InclusionProof{LeafIndex: m, LeafCount: n, Path: path}, nil
}

func (t *Tree) buildInclusionPath(start, size, m uint64, out *[]ProofNode) {
	if size == 1 {
		return
	}
	k := largestPowerOfTwoLessThan(size)
	if m < k {
		t.buildInclusionPath(start, k, m, out)
		*out = append(*out, ProofNode{Hash: t.mth(start+k, size-k), SiblingOnRight: true})
	} else {
		t.buildInclusionPath(start+k, size-k, m-k, out)
		*out = append(*out, ProofNode{Hash: t.mth(start, k), SiblingOnRight: false})
	}
}

// ConsistencyProof shows that a tree of OldSize leaves is a prefix of a
// tree of NewSize leaves.
type ConsistencyProof struct {
	OldSize uint64
	NewSize uint64
	Nodes   []crypto.Hash
}

// ConsistencyProof builds a proof that the first oldSize leaves of t form a
// tree consistent with t as a whole. Requires 1 <= oldSize <= t.Size().
func (t *Tree) ConsistencyProof(oldSize uint64) (*ConsistencyProof, error) {
	n := t.Size()
	m := oldSize
	if m == 0 || m > n {
		return nil, fmt.Errorf("merkle: consistency oldSize must be in [1, %d], got %d", n, m)
	}
	nodes := []crypto.Hash{}
	t.buildConsistencyProof(0, n, m, true, &nodes)
	return &ConsistencyProof{OldSize: m, NewSize: n, Nodes: nodes}, nil
}

func (t *Tree) buildConsistencyProof(start, n, m uint64, isTop bool, out *[]crypto.Hash) {
	if m == n {
		if !isTop {
			*out = append(*out, t.mth(start, n))
		}
		return
	}
	k := largestPowerOfTwoLessThan(n)
	if m <= k {
		t.buildConsistencyProof(start, k, m, false, out)
		*out = append(*out, t.mth(start+k, n-k))
	} else {
		t.buildConsistencyProof(start+k, n-k, m-k, false, out)
		*out = append(*out, t.mth(start, k))
	}
}
