// package payload turns a diff.ChangeSet and its Merkle roots into a
// hex-friendly, serialization-ready record: the shape cmd/docsum-debug's
// build subcommand writes to disk with --output.
package payload

import (
	"sort"

	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/diff"
)

// ChangedEntry is diff.ChangedEntry with hashes rendered as hex text.
type ChangedEntry struct {
	Path    string
	OldHash string
	NewHash string
}

// Record is the full diff outcome for one document pair: roots, the raw
// change set, ancestor-collapsed paths, and the key/tag summaries.
type Record struct {
	Kind    string // "json" or "xml"
	RootOld string // empty when there was no baseline document
	RootNew string

	Added   []string
	Removed []string
	Changed []ChangedEntry

	CollapsedPaths []string

	KeySummary           map[string][]string
	TagSummaryElements   map[string][]string
	TagSummaryAttributes map[string][]string
}

func fromChangeSet(kind string, oldRoot *crypto.Hash, newRoot crypto.Hash, cs diff.ChangeSet) Record {
	rec := Record{
		Kind:    kind,
		RootNew: newRoot.Hex(),
		Added:   append([]string{}, cs.Added...),
		Removed: append([]string{}, cs.Removed...),
	}
	if oldRoot != nil {
		rec.RootOld = oldRoot.Hex()
	}
	sort.Strings(rec.Added)
	sort.Strings(rec.Removed)
	for _, c := range cs.Changed {
		rec.Changed = append(rec.Changed, ChangedEntry{
			Path:    c.Path,
			OldHash: c.OldHash.Hex(),
			NewHash: c.NewHash.Hex(),
		})
	}
	sort.Slice(rec.Changed, func(i, j int) bool { return rec.Changed[i].Path < rec.Changed[j].Path })
	return rec
}

// FromJSON builds a Record for a JSON document pair, using diff's JSON-shaped
// path normalization, ancestor closure and key summary.
func FromJSON(oldRoot *crypto.Hash, newRoot crypto.Hash, cs diff.ChangeSet, withAncestors bool) Record {
	rec := fromChangeSet("json", oldRoot, newRoot, cs)

	if withAncestors {
		rec.CollapsedPaths = diff.CollapsedWithAncestors(cs, diff.NormalizeJSONPath, "$", ".", "$", nil)
	} else {
		rec.CollapsedPaths = diff.CollapsedDirect(cs, diff.NormalizeJSONPath, "$")
	}

	ks := diff.SummarizeKeyChanges(cs)
	rec.KeySummary = ks.Keys

	return rec
}

// FromXML builds a Record for an XML document pair, injecting the document
// root element into the ancestor-collapsed set the way cmd/docsum-debug's XML
// path does, and populating the element/attribute tag summaries.
func FromXML(oldRoot *crypto.Hash, newRoot crypto.Hash, cs diff.ChangeSet, withAncestors bool, rootSegment string) Record {
	rec := fromChangeSet("xml", oldRoot, newRoot, cs)

	if withAncestors {
		ensureRoot := func(sample string) string { return rootSegment }
		rec.CollapsedPaths = diff.CollapsedWithAncestors(cs, diff.NormalizeXMLPath, "", "/", "/", ensureRoot)
	} else {
		rec.CollapsedPaths = diff.CollapsedDirect(cs, diff.NormalizeXMLPath, "/")
	}

	ts := diff.SummarizeTagChanges(cs)
	rec.TagSummaryElements = ts.Elements
	rec.TagSummaryAttributes = ts.Attributes

	return rec
}
