package merkle

import "github.com/mmsapre/docmerkle/pkg/crypto"

// VerifyInclusion checks that leafPayload (the RFC leaf payload, i.e. the
// EncodeLeaf output, not the hashed leaf) is included at proof.LeafIndex in
// a tree of proof.LeafCount leaves with the given root.
func VerifyInclusion(leafPayload []byte, proof *InclusionProof, root crypto.Hash) bool {
	h := HashLeaf(leafPayload)
	for _, sib := range proof.Path {
		if sib.SiblingOnRight {
			h = HashNode(h, sib.Hash)
		} else {
			h = HashNode(sib.Hash, h)
		}
	}
	return h == root
}

// VerifyConsistency checks that oldRoot (a tree of proof.OldSize leaves) is
// a prefix of newRoot (a tree of proof.NewSize leaves).
//
// This mirrors buildConsistencyProof's recursion exactly (same start/size/m
// splits, same recurse-then-consume order), recomputing both the old and
// new subtree hash at every level instead of building the proof list, so
// there is no separate "two loop" traversal to keep in sync with the
// builder by hand.
func VerifyConsistency(oldRoot crypto.Hash, newRoot crypto.Hash, proof *ConsistencyProof) bool {
	m, n := proof.OldSize, proof.NewSize
	if m == n {
		return len(proof.Nodes) == 0 && oldRoot == newRoot
	}
	if m == 0 || m > n {
		return false
	}

	nodes := proof.Nodes
	i := 0
	next := func() (crypto.Hash, bool) {
		if i >= len(nodes) {
			return crypto.Hash{}, false
		}
		h := nodes[i]
		i++
		return h, true
	}

	var recompute func(start, size, want uint64) (fr, sr crypto.Hash, ok bool)
	recompute = func(start, size, want uint64) (crypto.Hash, crypto.Hash, bool) {
		if want == size {
			h, ok := next()
			return h, h, ok
		}
		k := largestPowerOfTwoLessThan(size)
		if want <= k {
			frL, srL, ok := recompute(start, k, want)
			if !ok {
				return crypto.Hash{}, crypto.Hash{}, false
			}
			right, ok := next()
			if !ok {
				return crypto.Hash{}, crypto.Hash{}, false
			}
			return frL, HashNode(srL, right), true
		}
		frR, srR, ok := recompute(start+k, size-k, want-k)
		if !ok {
			return crypto.Hash{}, crypto.Hash{}, false
		}
		left, ok := next()
		if !ok {
			return crypto.Hash{}, crypto.Hash{}, false
		}
		return HashNode(left, frR), HashNode(left, srR), true
	}

	fr, sr, ok := recompute(0, n, m)
	if !ok || i != len(nodes) {
		return false
	}
	return fr == oldRoot && sr == newRoot
}
