package extract

import (
	"fmt"
	"strings"

	"github.com/mmsapre/docmerkle/pkg/xmlmerkle"
)

// MiniEngine is a minimal XPathEngine restricted to the expression shapes
// the extraction configs actually issue: "string(/ns:Root/@attr)",
// "//ns:Tag/@attr", "//ns:Tag", "string(@attr)", and "string(ns:Child)".
// No general XPath engine appears anywhere in the retrieval pack this
// module was built from, so this evaluator stands in for one.
type MiniEngine struct{}

func resolveQName(namespaces map[string]string, name string) (nsURI, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return namespaces[name[:i]], name[i+1:]
	}
	return "", name
}

func stringWrapped(expr string) (string, bool) {
	if strings.HasPrefix(expr, "string(") && strings.HasSuffix(expr, ")") {
		return expr[len("string(") : len(expr)-1], true
	}
	return "", false
}

func findAttr(el *xmlmerkle.Element, nsURI, local string) (string, bool) {
	for _, a := range el.Attrs {
		if a.LocalName == local && a.NamespaceURI == nsURI {
			return a.Value, true
		}
	}
	return "", false
}

func directChildren(el *xmlmerkle.Element, nsURI, local string) []*xmlmerkle.Element {
	var out []*xmlmerkle.Element
	for _, c := range el.Children {
		if !c.IsText && c.Elem.NamespaceURI == nsURI && c.Elem.LocalName == local {
			out = append(out, c.Elem)
		}
	}
	return out
}

func descendants(el *xmlmerkle.Element, nsURI, local string, out *[]*xmlmerkle.Element) {
	if el.NamespaceURI == nsURI && el.LocalName == local {
		*out = append(*out, el)
	}
	for _, c := range el.Children {
		if !c.IsText {
			descendants(c.Elem, nsURI, local, out)
		}
	}
}

func stringValue(el *xmlmerkle.Element) string {
	var b strings.Builder
	var walk func(e *xmlmerkle.Element)
	walk = func(e *xmlmerkle.Element) {
		for _, c := range e.Children {
			if c.IsText {
				b.WriteString(c.Text)
			} else {
				walk(c.Elem)
			}
		}
	}
	walk(el)
	return strings.TrimSpace(b.String())
}

// EvaluateString handles "string(/ns:Root/@attr)".
func (MiniEngine) EvaluateString(doc *xmlmerkle.Document, expr string, namespaces map[string]string) (string, bool, error) {
	expr = strings.TrimSpace(expr)
	inner, ok := stringWrapped(expr)
	if !ok || !strings.HasPrefix(inner, "/") {
		return "", false, fmt.Errorf("extract: unsupported absolute string expression %q", expr)
	}
	rest := inner[1:]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", false, fmt.Errorf("extract: unsupported absolute string expression %q", expr)
	}
	rootRef, attrRef := rest[:slash], rest[slash+1:]
	if !strings.HasPrefix(attrRef, "@") {
		return "", false, fmt.Errorf("extract: unsupported absolute string expression %q", expr)
	}
	nsURI, local := resolveQName(namespaces, rootRef)
	if doc.Root.NamespaceURI != nsURI || doc.Root.LocalName != local {
		return "", false, nil
	}
	ansURI, alocal := resolveQName(namespaces, attrRef[1:])
	v, ok := findAttr(doc.Root, ansURI, alocal)
	return v, ok, nil
}

// EvaluateStrings handles "//ns:Tag/@attr" and, degenerately, "//ns:Tag"
// (returning each matched element's string-value).
func (MiniEngine) EvaluateStrings(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]string, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "//") {
		return nil, fmt.Errorf("extract: unsupported nodeset expression %q", expr)
	}
	rest := expr[2:]
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		tagRef, attrRef := rest[:slash], rest[slash+1:]
		if !strings.HasPrefix(attrRef, "@") {
			return nil, fmt.Errorf("extract: unsupported nodeset expression %q", expr)
		}
		nsURI, local := resolveQName(namespaces, tagRef)
		ansURI, alocal := resolveQName(namespaces, attrRef[1:])
		var els []*xmlmerkle.Element
		descendants(doc.Root, nsURI, local, &els)
		var out []string
		for _, el := range els {
			if v, ok := findAttr(el, ansURI, alocal); ok {
				out = append(out, v)
			}
		}
		return out, nil
	}

	nsURI, local := resolveQName(namespaces, rest)
	var els []*xmlmerkle.Element
	descendants(doc.Root, nsURI, local, &els)
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = stringValue(el)
	}
	return out, nil
}

// EvaluateElements handles "//ns:Tag".
func (MiniEngine) EvaluateElements(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]*xmlmerkle.Element, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "//") {
		return nil, fmt.Errorf("extract: unsupported nodeset expression %q", expr)
	}
	nsURI, local := resolveQName(namespaces, expr[2:])
	var els []*xmlmerkle.Element
	descendants(doc.Root, nsURI, local, &els)
	return els, nil
}

// EvaluateStringOnElement handles "string(@attr)" and "string(ns:Child)"
// relative to el.
func (MiniEngine) EvaluateStringOnElement(el *xmlmerkle.Element, expr string, namespaces map[string]string) (string, bool, error) {
	expr = strings.TrimSpace(expr)
	inner, ok := stringWrapped(expr)
	if !ok {
		return "", false, fmt.Errorf("extract: unsupported relative string expression %q", expr)
	}
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "@") {
		nsURI, local := resolveQName(namespaces, inner[1:])
		v, ok := findAttr(el, nsURI, local)
		return v, ok, nil
	}
	nsURI, local := resolveQName(namespaces, inner)
	children := directChildren(el, nsURI, local)
	if len(children) == 0 {
		return "", false, nil
	}
	return stringValue(children[0]), true, nil
}
