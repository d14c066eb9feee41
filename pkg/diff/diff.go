// package diff computes structured differences between two path→hash leaf
// maps produced by pkg/jsonmerkle or pkg/xmlmerkle, plus the higher-level
// path-collapsing and key/tag summaries built on top of a ChangeSet.
package diff

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mmsapre/docmerkle/pkg/crypto"
)

type ChangeType string

const (
	Added   ChangeType = "ADDED"
	Removed ChangeType = "REMOVED"
	Changed ChangeType = "CHANGED"
)

// ChangedEntry records a value leaf whose hash differs between the old and
// new documents.
type ChangedEntry struct {
	Path    string
	OldHash crypto.Hash
	NewHash crypto.Hash
}

// ChangeSet is the raw structural diff between two canonical leaf maps.
type ChangeSet struct {
	Added   []string
	Removed []string
	Changed []ChangedEntry
}

// Diff compares oldHashes and newHashes, iterating their key union in
// lexicographic order. oldHashes may be nil to signal an empty baseline, in
// which case every path in newHashes is reported as added. isValueLeaf
// filters which changed paths are reported (empty-container markers never
// are, per the JSON/XML canonicalizers).
func Diff(oldHashes, newHashes map[string]crypto.Hash, isValueLeaf func(string) bool) ChangeSet {
	var cs ChangeSet
	if oldHashes == nil {
		paths := make([]string, 0, len(newHashes))
		for p := range newHashes {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		cs.Added = paths
		return cs
	}

	all := make(map[string]struct{}, len(oldHashes)+len(newHashes))
	for p := range oldHashes {
		all[p] = struct{}{}
	}
	for p := range newHashes {
		all[p] = struct{}{}
	}
	paths := make([]string, 0, len(all))
	for p := range all {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		oh, oOk := oldHashes[p]
		nh, nOk := newHashes[p]
		switch {
		case !oOk && nOk:
			cs.Added = append(cs.Added, p)
		case oOk && !nOk:
			cs.Removed = append(cs.Removed, p)
		case oOk && nOk && oh != nh:
			if isValueLeaf(p) {
				cs.Changed = append(cs.Changed, ChangedEntry{Path: p, OldHash: oh, NewHash: nh})
			}
		}
	}
	return cs
}

// IsJSONValueLeaf reports whether a JSON canonical path carries user data
// rather than being an empty-container marker.
func IsJSONValueLeaf(path string) bool {
	return !strings.HasSuffix(path, ".__emptyObject") && !strings.HasSuffix(path, ".__emptyArray")
}

// IsXMLValueLeaf reports whether an XML canonical path is an attribute or
// text node, as opposed to an element structural marker.
func IsXMLValueLeaf(path string) bool {
	return strings.Contains(path, ".@") || strings.Contains(path, ".#text[")
}

var (
	indexPattern       = regexp.MustCompile(`\[#\d+\]`)
	textSegmentPattern = regexp.MustCompile(`\.#text(?:\[#\d+\])?`)
	emptyMarkerPattern = regexp.MustCompile(`\.__empty(?:Element|Array|Object)`)
	slashRunPattern    = regexp.MustCompile(`/{2,}`)
)

// NormalizeJSONPath strips canonical array indices for use in summaries; it
// never affects the Merkle root.
func NormalizeJSONPath(path string) string {
	return indexPattern.ReplaceAllString(path, "")
}

// NormalizeXMLPath strips canonical indices, drops text segments, rewrites
// attribute markers as path segments, strips empty-element markers, and
// collapses repeated separators.
func NormalizeXMLPath(path string) string {
	s := indexPattern.ReplaceAllString(path, "")
	s = textSegmentPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".@", "/@")
	s = emptyMarkerPattern.ReplaceAllString(s, "")
	s = slashRunPattern.ReplaceAllString(s, "/")
	return s
}

func collectDirect(cs ChangeSet, normalize func(string) string) []string {
	set := make(map[string]struct{})
	add := func(p string) {
		n := normalize(p)
		if n == "" {
			return
		}
		set[n] = struct{}{}
	}
	for _, p := range cs.Added {
		add(p)
	}
	for _, p := range cs.Removed {
		add(p)
	}
	for _, c := range cs.Changed {
		add(c.Path)
	}
	return sortedKeys(set)
}

// ancestorsOf splits a normalized path (of the form prefix+sep+seg+sep+seg…)
// into its non-empty ancestor prefixes, each still rooted at prefix.
func ancestorsOf(path, prefix, sep string) []string {
	if !strings.HasPrefix(path, prefix) {
		return []string{path}
	}
	rest := strings.TrimPrefix(path, prefix)
	var segs []string
	for _, s := range strings.Split(rest, sep) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	out := make([]string, 0, len(segs))
	cur := prefix
	for _, s := range segs {
		cur = cur + sep + s
		out = append(out, cur)
	}
	return out
}

// CollapsedDirect returns the direct, normalized paths that were added,
// removed, or changed, with no ancestor expansion.
func CollapsedDirect(cs ChangeSet, normalize func(string) string, rootMarker string) []string {
	direct := collectDirect(cs, normalize)
	out := make([]string, 0, len(direct))
	for _, p := range direct {
		if p != rootMarker {
			out = append(out, p)
		}
	}
	return out
}

// CollapsedWithAncestors returns every direct changed path plus its
// ancestor prefixes. ensureRoot, if non-nil, is handed a sample collapsed
// path and may return an additional path (e.g. the XML document root) that
// must be present whenever the set is non-empty.
func CollapsedWithAncestors(cs ChangeSet, normalize func(string) string, prefix, sep, rootMarker string, ensureRoot func(sample string) string) []string {
	direct := collectDirect(cs, normalize)
	set := make(map[string]struct{})
	for _, p := range direct {
		for _, anc := range ancestorsOf(p, prefix, sep) {
			set[anc] = struct{}{}
		}
	}
	if ensureRoot != nil && len(set) > 0 {
		if r := ensureRoot(direct[0]); r != "" {
			set[r] = struct{}{}
		}
	}
	delete(set, rootMarker)
	delete(set, "")
	return sortedKeys(set)
}

// XMLRootSegment returns the "/root-qname" prefix of a normalized XML
// path, or "" if the path is not rooted.
func XMLRootSegment(path string) string {
	if !strings.HasPrefix(path, "/") {
		return ""
	}
	if i := strings.Index(path[1:], "/"); i >= 0 {
		return path[:i+1]
	}
	return path
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeySummary maps a JSON key's last path segment to the set of change
// types it participated in.
type KeySummary struct {
	Keys map[string][]string
}

func lastSegment(path, sep string) string {
	parts := strings.Split(path, sep)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func markSorted(m map[string]map[ChangeType]struct{}, key string, t ChangeType) {
	if key == "" {
		return
	}
	if m[key] == nil {
		m[key] = make(map[ChangeType]struct{})
	}
	m[key][t] = struct{}{}
}

func flatten(m map[string]map[ChangeType]struct{}) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, types := range m {
		list := make([]string, 0, len(types))
		for t := range types {
			list = append(list, string(t))
		}
		sort.Strings(list)
		out[k] = list
	}
	return out
}

// SummarizeKeyChanges builds a JSON key-level summary: the last dot-segment
// of every normalized changed/added/removed path, marked with the change
// types it participated in.
func SummarizeKeyChanges(cs ChangeSet) KeySummary {
	m := make(map[string]map[ChangeType]struct{})
	for _, p := range cs.Added {
		key := lastSegment(NormalizeJSONPath(p), ".")
		if key != "$" {
			markSorted(m, key, Added)
		}
	}
	for _, p := range cs.Removed {
		key := lastSegment(NormalizeJSONPath(p), ".")
		if key != "$" {
			markSorted(m, key, Removed)
		}
	}
	for _, c := range cs.Changed {
		key := lastSegment(NormalizeJSONPath(c.Path), ".")
		if key != "$" {
			markSorted(m, key, Changed)
		}
	}
	return KeySummary{Keys: flatten(m)}
}

// TagSummary maps XML element/attribute names to the change types they
// participated in.
type TagSummary struct {
	Elements   map[string][]string
	Attributes map[string][]string
}

func emitTag(elements, attributes map[string]map[ChangeType]struct{}, normalizedPath string, t ChangeType) {
	if normalizedPath == "" {
		return
	}
	parts := strings.Split(normalizedPath, "/")
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "@") {
		markSorted(attributes, last, t)
		if len(parts) >= 2 {
			parent := parts[len(parts)-2]
			if !strings.HasPrefix(parent, "@") {
				markSorted(elements, parent, Changed)
			}
		}
		return
	}
	markSorted(elements, last, t)
}

// SummarizeTagChanges builds an XML element/attribute-level summary from a
// ChangeSet. Each normalized path and every ancestor prefix of it is
// attributed by its last segment, so the elements enclosing an added,
// removed or changed leaf are marked with that leaf's change type too.
func SummarizeTagChanges(cs ChangeSet) TagSummary {
	elements := make(map[string]map[ChangeType]struct{})
	attributes := make(map[string]map[ChangeType]struct{})
	emit := func(p string, t ChangeType) {
		for _, anc := range ancestorsOf(NormalizeXMLPath(p), "", "/") {
			emitTag(elements, attributes, anc, t)
		}
	}
	for _, p := range cs.Added {
		emit(p, Added)
	}
	for _, p := range cs.Removed {
		emit(p, Removed)
	}
	for _, c := range cs.Changed {
		emit(c.Path, Changed)
	}
	return TagSummary{Elements: flatten(elements), Attributes: flatten(attributes)}
}

// ChangeSummary is the higher-level "paths + key/tag summary (+ optional
// extraction)" view over a raw ChangeSet, mirroring the Java reference's
// buildChangeSummary.
type ChangeSummary struct {
	AddedPaths   []string
	RemovedPaths []string
	ChangedPaths []string

	AddedKeys   []string
	RemovedKeys []string
	ChangedKeys []string

	// Extracted is populated only when a caller supplies an extraction
	// config alongside the new document; nil otherwise.
	Extracted interface{}
}

// BuildJSONChangeSummary folds the raw ChangeSet into path groups (direct
// or ancestor-expanded, per ancestors) and a key-level ADDED/REMOVED/CHANGED
// breakdown.
func BuildJSONChangeSummary(cs ChangeSet, ancestors bool) ChangeSummary {
	var added, removed, changedPaths []string
	if ancestors {
		added = CollapsedWithAncestors(ChangeSet{Added: cs.Added}, NormalizeJSONPath, "$", ".", "$", nil)
		removed = CollapsedWithAncestors(ChangeSet{Removed: cs.Removed}, NormalizeJSONPath, "$", ".", "$", nil)
		changedPaths = CollapsedWithAncestors(ChangeSet{Changed: cs.Changed}, NormalizeJSONPath, "$", ".", "$", nil)
	} else {
		added = CollapsedDirect(ChangeSet{Added: cs.Added}, NormalizeJSONPath, "$")
		removed = CollapsedDirect(ChangeSet{Removed: cs.Removed}, NormalizeJSONPath, "$")
		changedPaths = CollapsedDirect(ChangeSet{Changed: cs.Changed}, NormalizeJSONPath, "$")
	}

	ks := SummarizeKeyChanges(cs)
	var changedKeys, addedKeys, removedKeys []string
	for key, types := range ks.Keys {
		for _, t := range types {
			switch ChangeType(t) {
			case Changed:
				changedKeys = append(changedKeys, key)
			case Added:
				addedKeys = append(addedKeys, key)
			case Removed:
				removedKeys = append(removedKeys, key)
			}
		}
	}
	sort.Strings(changedKeys)
	sort.Strings(addedKeys)
	sort.Strings(removedKeys)

	return ChangeSummary{
		AddedPaths:   added,
		RemovedPaths: removed,
		ChangedPaths: changedPaths,
		AddedKeys:    addedKeys,
		RemovedKeys:  removedKeys,
		ChangedKeys:  changedKeys,
	}
}

// BuildXMLChangeSummary is BuildJSONChangeSummary's XML counterpart,
// grouping by element tag instead of JSON key. Attribute tags from the tag
// summary are not included in the key lists.
func BuildXMLChangeSummary(cs ChangeSet, ancestors bool) ChangeSummary {
	var added, removed, changedPaths []string
	if ancestors {
		added = CollapsedWithAncestors(ChangeSet{Added: cs.Added}, NormalizeXMLPath, "", "/", "/", nil)
		removed = CollapsedWithAncestors(ChangeSet{Removed: cs.Removed}, NormalizeXMLPath, "", "/", "/", nil)
		changedPaths = CollapsedWithAncestors(ChangeSet{Changed: cs.Changed}, NormalizeXMLPath, "", "/", "/", nil)
	} else {
		added = CollapsedDirect(ChangeSet{Added: cs.Added}, NormalizeXMLPath, "/")
		removed = CollapsedDirect(ChangeSet{Removed: cs.Removed}, NormalizeXMLPath, "/")
		changedPaths = CollapsedDirect(ChangeSet{Changed: cs.Changed}, NormalizeXMLPath, "/")
	}

	ts := SummarizeTagChanges(cs)
	var changedTags, addedTags, removedTags []string
	for tag, types := range ts.Elements {
		for _, t := range types {
			switch ChangeType(t) {
			case Changed:
				changedTags = append(changedTags, tag)
			case Added:
				addedTags = append(addedTags, tag)
			case Removed:
				removedTags = append(removedTags, tag)
			}
		}
	}
	sort.Strings(changedTags)
	sort.Strings(addedTags)
	sort.Strings(removedTags)

	return ChangeSummary{
		AddedPaths:   added,
		RemovedPaths: removed,
		ChangedPaths: changedPaths,
		AddedKeys:    addedTags,
		RemovedKeys:  removedTags,
		ChangedKeys:  changedTags,
	}
}
