// package jsonmerkle canonicalizes a parsed JSON document into an
// order-insensitive, path-indexed leaf enumeration and builds a Merkle tree
// over it. Object members are sorted by field name; array elements are
// reordered by a structural fingerprint so that permuting either produces an
// identical root.
package jsonmerkle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/merkle"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// Node is a parsed JSON value. Exactly the fields matching Kind are
// meaningful; the rest are zero.
type Node struct {
	Kind     Kind
	Bool     bool
	Number   string // parser's original arbitrary-precision text
	Text     string
	Members  map[string]*Node
	Elements []*Node
}

// Parse decodes data into a Node tree, preserving numeric text via
// UseNumber so numerically-distinct values never collide under
// canonicalization.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("jsonmerkle: malformed input: %w", err)
	}
	return fromInterface(v), nil
}

func fromInterface(v interface{}) *Node {
	switch x := v.(type) {
	case nil:
		return &Node{Kind: KindNull}
	case bool:
		return &Node{Kind: KindBool, Bool: x}
	case json.Number:
		return &Node{Kind: KindNumber, Number: string(x)}
	case string:
		return &Node{Kind: KindString, Text: x}
	case map[string]interface{}:
		m := make(map[string]*Node, len(x))
		for k, cv := range x {
			m[k] = fromInterface(cv)
		}
		return &Node{Kind: KindObject, Members: m}
	case []interface{}:
		els := make([]*Node, len(x))
		for i, cv := range x {
			els[i] = fromInterface(cv)
		}
		return &Node{Kind: KindArray, Elements: els}
	default:
		return &Node{Kind: KindNull}
	}
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// fingerprint computes the structural fingerprint used to order array
// elements; it is never emitted as a Merkle leaf.
func fingerprint(n *Node) crypto.Hash {
	switch n.Kind {
	case KindNull:
		return crypto.HashBytes([]byte("N|V|null"))
	case KindBool:
		return crypto.HashBytes([]byte("N|V|" + boolText(n.Bool)))
	case KindNumber:
		return crypto.HashBytes([]byte("N|V|" + n.Number))
	case KindString:
		return crypto.HashBytes([]byte("N|V|" + n.Text))
	case KindObject:
		names := make([]string, 0, len(n.Members))
		for k := range n.Members {
			names = append(names, k)
		}
		sort.Strings(names)
		buf := []byte("N|O|")
		for _, f := range names {
			buf = appendLenPrefixed(buf, []byte(f))
			cfp := fingerprint(n.Members[f])
			buf = append(buf, cfp[:]...)
		}
		return crypto.HashBytes(buf)
	case KindArray:
		fps := make([]crypto.Hash, len(n.Elements))
		for i, el := range n.Elements {
			fps[i] = fingerprint(el)
		}
		sort.Slice(fps, func(i, j int) bool { return bytes.Compare(fps[i][:], fps[j][:]) < 0 })
		buf := []byte("N|A|")
		for _, fp := range fps {
			buf = append(buf, fp[:]...)
		}
		return crypto.HashBytes(buf)
	default:
		return crypto.Hash{}
	}
}

func appendLenPrefixed(buf, b []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, b...)
}

type leaf struct {
	path string
	hash crypto.Hash
}

func walk(n *Node, path string, out *[]leaf) {
	switch n.Kind {
	case KindNull:
		*out = append(*out, leaf{path, merkle.Vhash("null")})
	case KindBool:
		*out = append(*out, leaf{path, merkle.Vhash(boolText(n.Bool))})
	case KindNumber:
		*out = append(*out, leaf{path, merkle.Vhash(n.Number)})
	case KindString:
		*out = append(*out, leaf{path, merkle.Vhash(n.Text)})
	case KindObject:
		if len(n.Members) == 0 {
			*out = append(*out, leaf{path + ".__emptyObject", merkle.Vhash("{}")})
			return
		}
		names := make([]string, 0, len(n.Members))
		for k := range n.Members {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, f := range names {
			walk(n.Members[f], path+"."+f, out)
		}
	case KindArray:
		if len(n.Elements) == 0 {
			*out = append(*out, leaf{path + ".__emptyArray", merkle.Vhash("[]")})
			return
		}
		type ordered struct {
			idx int
			fp  crypto.Hash
		}
		ords := make([]ordered, len(n.Elements))
		for i, el := range n.Elements {
			ords[i] = ordered{i, fingerprint(el)}
		}
		sort.SliceStable(ords, func(i, j int) bool {
			return bytes.Compare(ords[i].fp[:], ords[j].fp[:]) < 0
		})
		for canonIdx, o := range ords {
			walk(n.Elements[o.idx], fmt.Sprintf("%s[#%d]", path, canonIdx), out)
		}
	}
}

// BuildResult is the outcome of canonicalizing and Merkle-committing a
// document: the root hash, the tree itself, and every canonical path's
// leaf value hash.
type BuildResult struct {
	Root       crypto.Hash
	Tree       *merkle.Tree
	PathHashes map[string]crypto.Hash

	leafIndex map[string]int
}

// Build parses data and canonicalizes it per the JSON canonicalization
// rules, returning the resulting Merkle commitment.
func Build(data []byte) (*BuildResult, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var leaves []leaf
	walk(root, "$", &leaves)
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].path < leaves[j].path })

	payloads := make([][]byte, len(leaves))
	pathHashes := make(map[string]crypto.Hash, len(leaves))
	leafIndex := make(map[string]int, len(leaves))
	for i, l := range leaves {
		payloads[i] = merkle.EncodeLeaf(l.path, l.hash)
		pathHashes[l.path] = l.hash
		leafIndex[l.path] = i
	}
	tree := merkle.NewTree(payloads)
	return &BuildResult{
		Root:       tree.Root(),
		Tree:       tree,
		PathHashes: pathHashes,
		leafIndex:  leafIndex,
	}, nil
}

// Prove parses and canonicalizes data, then returns an inclusion proof for
// the leaf at the given canonical path.
func Prove(data []byte, path string) (*merkle.InclusionProof, error) {
	br, err := Build(data)
	if err != nil {
		return nil, err
	}
	idx, ok := br.leafIndex[path]
	if !ok {
		return nil, fmt.Errorf("jsonmerkle: path not found: %s", path)
	}
	return br.Tree.InclusionProof(uint64(idx))
}

// Verify checks an inclusion proof for (path, normalizedValue) against
// root, independent of any BuildResult.
func Verify(path, normalizedValue string, proof *merkle.InclusionProof, root crypto.Hash) bool {
	vh := merkle.Vhash(normalizedValue)
	payload := merkle.EncodeLeaf(path, vh)
	return merkle.VerifyInclusion(payload, proof, root)
}
