// package xmlmerkle canonicalizes a namespace-aware XML document into an
// order-insensitive, path-indexed leaf enumeration and builds a Merkle tree
// over it. Attributes are sorted by qname; element and text siblings are
// reordered by a structural fingerprint so that reordering either produces
// an identical root. Comments and processing instructions are dropped;
// adjacent text tokens are coalesced before trimming.
package xmlmerkle

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/merkle"
)

// Attr is a namespace-resolved attribute.
type Attr struct {
	NamespaceURI string
	LocalName    string
	Value        string
}

// Child is either a text run or a child element; exactly one of Text/Elem
// is meaningful.
type Child struct {
	IsText bool
	Text   string
	Elem   *Element
}

// Element is a namespace-aware in-memory XML element.
type Element struct {
	NamespaceURI string
	LocalName    string
	Attrs        []Attr
	Children     []Child
}

// Document wraps a parsed root element.
type Document struct {
	Root *Element
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}

// Parse decodes data into a Document, ignoring comments and processing
// instructions and coalescing adjacent character data before it is later
// trimmed during canonicalization.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlmerkle: malformed input: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{NamespaceURI: t.Name.Space, LocalName: t.Name.Local}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				el.Attrs = append(el.Attrs, Attr{NamespaceURI: a.Name.Space, LocalName: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, Child{Elem: el})
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("xmlmerkle: malformed input: unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			text := string(t)
			if n := len(parent.Children); n > 0 && parent.Children[n-1].IsText {
				parent.Children[n-1].Text += text
			} else {
				parent.Children = append(parent.Children, Child{IsText: true, Text: text})
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("xmlmerkle: malformed input: no root element")
	}
	return &Document{Root: root}, nil
}

func qname(ns, local string) string {
	if ns == "" {
		return local
	}
	return ns + "|" + local
}

// fingerprint computes the structural fingerprint used to order sibling
// elements and text nodes; it is never emitted as a Merkle leaf.
func fingerprint(el *Element) crypto.Hash {
	buf := []byte("N|EL|" + qname(el.NamespaceURI, el.LocalName) + "|")

	attrs := make([]Attr, len(el.Attrs))
	copy(attrs, el.Attrs)
	sort.Slice(attrs, func(i, j int) bool {
		return qname(attrs[i].NamespaceURI, attrs[i].LocalName) < qname(attrs[j].NamespaceURI, attrs[j].LocalName)
	})
	for _, a := range attrs {
		buf = append(buf, []byte("@"+qname(a.NamespaceURI, a.LocalName)+"="+a.Value+"|")...)
	}

	childHashes := make([]crypto.Hash, 0, len(el.Children))
	for _, c := range el.Children {
		if c.IsText {
			trimmed := strings.TrimSpace(c.Text)
			if trimmed == "" {
				continue
			}
			childHashes = append(childHashes, crypto.HashBytes([]byte("N|TEXT|"+trimmed)))
		} else {
			childHashes = append(childHashes, fingerprint(c.Elem))
		}
	}
	sort.Slice(childHashes, func(i, j int) bool { return bytes.Compare(childHashes[i][:], childHashes[j][:]) < 0 })
	for _, ch := range childHashes {
		buf = append(buf, ch[:]...)
	}
	return crypto.HashBytes(buf)
}

type unit struct {
	isText bool
	text   string
	name   string
	fp     crypto.Hash
	elem   *Element
}

func typeOrder(u unit) int {
	if u.isText {
		return 0
	}
	return 1
}

type leaf struct {
	path string
	hash crypto.Hash
}

func walk(el *Element, path string, out *[]leaf) {
	attrs := make([]Attr, len(el.Attrs))
	copy(attrs, el.Attrs)
	sort.Slice(attrs, func(i, j int) bool {
		return qname(attrs[i].NamespaceURI, attrs[i].LocalName) < qname(attrs[j].NamespaceURI, attrs[j].LocalName)
	})
	for _, a := range attrs {
		qn := qname(a.NamespaceURI, a.LocalName)
		*out = append(*out, leaf{path + ".@" + qn, merkle.Vhash(a.Value)})
	}

	units := make([]unit, 0, len(el.Children))
	for _, c := range el.Children {
		if c.IsText {
			trimmed := strings.TrimSpace(c.Text)
			if trimmed == "" {
				continue
			}
			units = append(units, unit{isText: true, text: trimmed})
		} else {
			units = append(units, unit{
				name: qname(c.Elem.NamespaceURI, c.Elem.LocalName),
				fp:   fingerprint(c.Elem),
				elem: c.Elem,
			})
		}
	}

	if len(attrs) == 0 && len(units) == 0 {
		*out = append(*out, leaf{path + ".__emptyElement", merkle.Vhash("<empty>")})
		return
	}

	sort.SliceStable(units, func(i, j int) bool {
		if to1, to2 := typeOrder(units[i]), typeOrder(units[j]); to1 != to2 {
			return to1 < to2
		}
		if units[i].name != units[j].name {
			return units[i].name < units[j].name
		}
		return bytes.Compare(units[i].fp[:], units[j].fp[:]) < 0
	})

	textCounter := 0
	elemCounter := make(map[string]int)
	for _, u := range units {
		if u.isText {
			*out = append(*out, leaf{fmt.Sprintf("%s.#text[#%d]", path, textCounter), merkle.Vhash(u.text)})
			textCounter++
			continue
		}
		idx := elemCounter[u.name]
		elemCounter[u.name] = idx + 1
		walk(u.elem, fmt.Sprintf("%s/%s[#%d]", path, u.name, idx), out)
	}
}

// BuildResult is the outcome of canonicalizing and Merkle-committing an
// XML document.
type BuildResult struct {
	Root       crypto.Hash
	Tree       *merkle.Tree
	PathHashes map[string]crypto.Hash

	leafIndex map[string]int
}

// Build parses data and canonicalizes it per the XML canonicalization
// rules, returning the resulting Merkle commitment.
func Build(data []byte) (*BuildResult, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var leaves []leaf
	walk(doc.Root, "/"+qname(doc.Root.NamespaceURI, doc.Root.LocalName), &leaves)
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
		return nil, fmt.Errorf("xmlmerkle: path not found: %s", path)
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
