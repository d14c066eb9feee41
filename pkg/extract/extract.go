// package extract implements the optional, configuration-driven
// extraction facade: pulling an identifier, a list of types, and a
// key→value map out of the new document. JSON extraction uses plain
// dotted paths with no wildcards; XML extraction delegates to a host
// XPathEngine.
package extract

import (
	"fmt"
	"strings"

	"github.com/mmsapre/docmerkle/pkg/jsonmerkle"
	"github.com/mmsapre/docmerkle/pkg/xmlmerkle"
)

// Result is the outcome of applying an extraction config to a document.
// Unspecified fields yield nil/empty rather than an error.
type Result struct {
	ID    *string
	Types []string
	Key   map[string]string
}

// ---------------- JSON ----------------

// JSONConfig configures dot-path extraction against a parsed JSON
// document. Paths use dotted field names only; no wildcards or filters.
type JSONConfig struct {
	IDPath               string
	TypesArrayPath       string
	TypesValueField      string
	KeyMapEntryArrayPath string
	KeyMapKeyField       string
	KeyMapValueField     string
}

// ExtractJSON evaluates cfg's dotted paths against root.
func ExtractJSON(root *jsonmerkle.Node, cfg JSONConfig) Result {
	res := Result{Types: []string{}, Key: map[string]string{}}
	if root == nil {
		return res
	}

	if id, ok := readJSONStringAt(root, cfg.IDPath); ok && id != "" {
		res.ID = &id
	}

	if strings.TrimSpace(cfg.TypesArrayPath) != "" {
		if arr := readJSONAt(root, cfg.TypesArrayPath); arr != nil && arr.Kind == jsonmerkle.KindArray {
			for _, el := range arr.Elements {
				if cfg.TypesValueField != "" && el.Kind == jsonmerkle.KindObject {
					if v, ok := readJSONScalarText(el.Members[cfg.TypesValueField]); ok {
						res.Types = append(res.Types, v)
					}
				} else if v, ok := readJSONScalarText(el); ok {
					res.Types = append(res.Types, v)
				}
			}
		}
	}

	if strings.TrimSpace(cfg.KeyMapEntryArrayPath) != "" {
		if arr := readJSONAt(root, cfg.KeyMapEntryArrayPath); arr != nil && arr.Kind == jsonmerkle.KindArray {
			for _, el := range arr.Elements {
				if el.Kind != jsonmerkle.KindObject {
					continue
				}
				var k, v string
				if cfg.KeyMapKeyField != "" {
					k, _ = readJSONScalarText(el.Members[cfg.KeyMapKeyField])
				}
				if cfg.KeyMapValueField != "" {
					v, _ = readJSONScalarText(el.Members[cfg.KeyMapValueField])
				}
				if k != "" {
					res.Key[k] = v
				}
			}
		}
	}

	return res
}

func splitJSONPath(path string) []string {
	p := strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(p, "$."):
		p = p[2:]
	case strings.HasPrefix(p, "$"):
		p = p[1:]
	}
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

func readJSONAt(root *jsonmerkle.Node, path string) *jsonmerkle.Node {
	if root == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	cur := root
	for _, key := range splitJSONPath(path) {
		if key == "" {
			continue
		}
		if cur.Kind != jsonmerkle.KindObject {
			return nil
		}
		child, ok := cur.Members[key]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

func readJSONScalarText(n *jsonmerkle.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case jsonmerkle.KindBool:
		if n.Bool {
			return "true", true
		}
		return "false", true
	case jsonmerkle.KindNumber:
		return n.Number, true
	case jsonmerkle.KindString:
		return n.Text, true
	default:
		return "", false
	}
}

func readJSONStringAt(root *jsonmerkle.Node, path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	return readJSONScalarText(readJSONAt(root, path))
}

// ---------------- XML ----------------

// XMLKeyMapConfig configures key/value extraction from a set of entry
// elements via relative XPath expressions.
type XMLKeyMapConfig struct {
	EntryXPath string
	KeyExpr    string
	ValueExpr  string
}

// XMLConfig configures XPath-based extraction against a parsed XML
// document.
type XMLConfig struct {
	IDXPath    string
	TypesXPath string
	KeyMap     XMLKeyMapConfig
	Namespaces map[string]string
}

// XPathEngine is the seam ExtractXML evaluates its expressions through, so
// a real XPath engine can be substituted for the built-in MiniEngine
// without touching callers.
type XPathEngine interface {
	EvaluateString(doc *xmlmerkle.Document, expr string, namespaces map[string]string) (value string, ok bool, err error)
	EvaluateStrings(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]string, error)
	EvaluateElements(doc *xmlmerkle.Document, expr string, namespaces map[string]string) ([]*xmlmerkle.Element, error)
	EvaluateStringOnElement(el *xmlmerkle.Element, expr string, namespaces map[string]string) (value string, ok bool, err error)
}

// ExtractXML evaluates cfg's XPath expressions against doc using engine.
func ExtractXML(doc *xmlmerkle.Document, cfg XMLConfig, engine XPathEngine) (Result, error) {
	res := Result{Types: []string{}, Key: map[string]string{}}
	if doc == nil || doc.Root == nil {
		return res, nil
	}

	if strings.TrimSpace(cfg.IDXPath) != "" {
		id, ok, err := engine.EvaluateString(doc, cfg.IDXPath, cfg.Namespaces)
		if err != nil {
			return res, fmt.Errorf("extract: id xpath: %w", err)
		}
		if ok && id != "" {
			res.ID = &id
		}
	}

	if strings.TrimSpace(cfg.TypesXPath) != "" {
		types, err := engine.EvaluateStrings(doc, cfg.TypesXPath, cfg.Namespaces)
		if err != nil {
			return res, fmt.Errorf("extract: types xpath: %w", err)
		}
		res.Types = append(res.Types, types...)
	}

	if strings.TrimSpace(cfg.KeyMap.EntryXPath) != "" {
		entries, err := engine.EvaluateElements(doc, cfg.KeyMap.EntryXPath, cfg.Namespaces)
		if err != nil {
			return res, fmt.Errorf("extract: key map entries: %w", err)
		}
		for _, entry := range entries {
			var k, v string
			var kok, vok bool
			if cfg.KeyMap.KeyExpr != "" {
				k, kok, err = engine.EvaluateStringOnElement(entry, cfg.KeyMap.KeyExpr, cfg.Namespaces)
				if err != nil {
					return res, fmt.Errorf("extract: key map key: %w", err)
				}
			}
			if cfg.KeyMap.ValueExpr != "" {
				v, vok, err = engine.EvaluateStringOnElement(entry, cfg.KeyMap.ValueExpr, cfg.Namespaces)
				if err != nil {
					return res, fmt.Errorf("extract: key map value: %w", err)
				}
			}
			if kok && k != "" {
				if !vok {
					v = ""
				}
				res.Key[k] = v
			}
		}
	}

	return res, nil
}
