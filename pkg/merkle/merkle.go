// package merkle implements an RFC 6962-style Merkle hash tree over
// path-addressed document leaves. It provides the domain-separated leaf/node
// hash primitives, an immutable tree with memoized subtree hashing, and
// inclusion/consistency proof construction and verification.
package merkle

import (
	"encoding/binary"

	"github.com/mmsapre/docmerkle/pkg/crypto"
)

// Prefix is the RFC 6962 domain-separation tag prepended before hashing.
type Prefix byte

const (
	PrefixLeaf     Prefix = 0x00
	PrefixInterior Prefix = 0x01
)

// HashLeaf computes H(0x00 || x).
func HashLeaf(x []byte) crypto.Hash {
	buf := make([]byte, 0, 1+len(x))
	buf = append(buf, byte(PrefixLeaf))
	buf = append(buf, x...)
	return crypto.HashBytes(buf)
}

// HashNode computes H(0x01 || left || right).
func HashNode(left, right crypto.Hash) crypto.Hash {
	buf := make([]byte, 0, 1+2*crypto.HashSize)
	buf = append(buf, byte(PrefixInterior))
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return crypto.HashBytes(buf)
}

// HashEmptyTree returns the root hash of a tree with no leaves: SHA256("").
func HashEmptyTree() crypto.Hash {
	return crypto.HashBytes(nil)
}

// Vhash computes the value hash of a normalized leaf value: SHA256("V|"+s).
func Vhash(s string) crypto.Hash {
	buf := make([]byte, 0, 2+len(s))
	buf = append(buf, 'V', '|')
	buf = append(buf, s...)
	return crypto.HashBytes(buf)
}

// EncodeLeaf builds the RFC leaf payload for a canonical path and its value
// hash: a 4-byte big-endian length of the path's UTF-8 bytes, the path
// bytes, then the 32-byte value hash. Length-prefixing the path avoids
// ambiguity at the path/hash boundary.
func EncodeLeaf(path string, valueHash crypto.Hash) []byte {
	p := []byte(path)
	buf := make([]byte, 4+len(p)+crypto.HashSize)
	binary.BigEndian.PutUint32(buf[:4], uint32(len(p)))
	copy(buf[4:4+len(p)], p)
	copy(buf[4+len(p):], valueHash[:])
	return buf
}
