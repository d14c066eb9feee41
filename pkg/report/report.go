// package report implements the ASCII key=value writer/reader used to
// persist a pkg/payload.Record and inclusion proofs to disk: one key=value
// pair per line, list-valued keys space-separated, and the fields inside one
// list entry separated by ':' (with ',' between summary change types).
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/merkle"
	"github.com/mmsapre/docmerkle/pkg/payload"
)

// writer

type writer struct {
	w   io.Writer
	err error
}

func (wr *writer) line(key, value string) {
	if wr.err != nil {
		return
	}
	_, wr.err = fmt.Fprintf(wr.w, "%s=%s\n", key, value)
}

func (wr *writer) listLine(key string, values []string) {
	if len(values) == 0 {
		return
	}
	wr.line(key, strings.Join(values, " "))
}

// WriteRecord serializes rec in the report ascii format.
func WriteRecord(w io.Writer, rec payload.Record) error {
	wr := &writer{w: w}
	wr.line("kind", rec.Kind)
	if rec.RootOld != "" {
		wr.line("root_old", rec.RootOld)
	}
	wr.line("root_new", rec.RootNew)
	wr.listLine("added", rec.Added)
	wr.listLine("removed", rec.Removed)

	changed := make([]string, len(rec.Changed))
	for i, c := range rec.Changed {
		changed[i] = fmt.Sprintf("%s:%s:%s", escapeField(c.Path), c.OldHash, c.NewHash)
	}
	wr.listLine("changed", changed)

	wr.listLine("collapsed", rec.CollapsedPaths)
	wr.listLine("key_summary", flattenSummary(rec.KeySummary))
	wr.listLine("tag_elements", flattenSummary(rec.TagSummaryElements))
	wr.listLine("tag_attributes", flattenSummary(rec.TagSummaryAttributes))
	return wr.err
}

func flattenSummary(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k, types := range m {
		out = append(out, fmt.Sprintf("%s:%s", escapeField(k), strings.Join(types, ",")))
	}
	return out
}

func escapeField(s string) string {
	return strings.NewReplacer(" ", "%20", ":", "%3A").Replace(s)
}

func unescapeField(s string) string {
	return strings.NewReplacer("%20", " ", "%3A", ":").Replace(s)
}

// reader
//
// The format has no required key ordering, so parsing loads every key=value
// line into a map first rather than scanning field-by-field.

// ReadRecord parses a report ascii document back into a payload.Record.
func ReadRecord(r io.Reader) (payload.Record, error) {
	var rec payload.Record
	lines, err := splitLines(r)
	if err != nil {
		return rec, err
	}
	fields := map[string]string{}
	for _, l := range lines {
		if l == "" {
			continue
		}
		k, v, ok := strings.Cut(l, "=")
		if !ok {
			return rec, fmt.Errorf("report: invalid line %q", l)
		}
		fields[k] = v
	}

	rec.Kind = fields["kind"]
	rec.RootOld = fields["root_old"]
	rec.RootNew = fields["root_new"]
	rec.Added = splitList(fields["added"])
	rec.Removed = splitList(fields["removed"])

	for _, tok := range splitList(fields["changed"]) {
		parts := strings.SplitN(tok, ":", 3)
		if len(parts) != 3 {
			return rec, fmt.Errorf("report: invalid changed entry %q", tok)
		}
		rec.Changed = append(rec.Changed, payload.ChangedEntry{
			Path:    unescapeField(parts[0]),
			OldHash: parts[1],
			NewHash: parts[2],
		})
	}

	rec.CollapsedPaths = splitList(fields["collapsed"])
	rec.KeySummary = unflattenSummary(fields["key_summary"])
	rec.TagSummaryElements = unflattenSummary(fields["tag_elements"])
	rec.TagSummaryAttributes = unflattenSummary(fields["tag_attributes"])

	if rec.Kind == "" || rec.RootNew == "" {
		return rec, fmt.Errorf("report: missing required kind/root_new field")
	}
	return rec, nil
}

func splitLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, " ")
}

func unflattenSummary(s string) map[string][]string {
	out := map[string][]string{}
	for _, tok := range splitList(s) {
		key, types, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		out[unescapeField(key)] = strings.Split(types, ",")
	}
	return out
}

// ---------------- inclusion proof files (cmd/docsum-verify) ----------------

// ProofDocument is the on-disk shape of a single inclusion proof: enough to
// re-derive a leaf hash's membership in a committed root without access to
// the original document.
type ProofDocument struct {
	Root      crypto.Hash
	LeafIndex uint64
	LeafCount uint64
	Path      []merkle.ProofNode
}

// WriteProof serializes a ProofDocument.
func WriteProof(w io.Writer, doc ProofDocument) error {
	wr := &writer{w: w}
	wr.line("root", doc.Root.Hex())
	wr.line("leaf_index", strconv.FormatUint(doc.LeafIndex, 10))
	wr.line("leaf_count", strconv.FormatUint(doc.LeafCount, 10))

	nodes := make([]string, len(doc.Path))
	for i, n := range doc.Path {
		side := "L"
		if n.SiblingOnRight {
			side = "R"
		}
		nodes[i] = fmt.Sprintf("%s:%s", n.Hash.Hex(), side)
	}
	wr.listLine("path", nodes)
	return wr.err
}

// ReadProof parses a ProofDocument written by WriteProof.
func ReadProof(r io.Reader) (ProofDocument, error) {
	var doc ProofDocument
	lines, err := splitLines(r)
	if err != nil {
		return doc, err
	}
	fields := map[string]string{}
	for _, l := range lines {
		if l == "" {
			continue
		}
		k, v, ok := strings.Cut(l, "=")
		if !ok {
			return doc, fmt.Errorf("report: invalid line %q", l)
		}
		fields[k] = v
	}

	doc.Root, err = crypto.HashFromHex(fields["root"])
	if err != nil {
		return doc, fmt.Errorf("report: invalid root: %w", err)
	}
	doc.LeafIndex, err = strconv.ParseUint(fields["leaf_index"], 10, 64)
	if err != nil {
		return doc, fmt.Errorf("report: invalid leaf_index: %w", err)
	}
	doc.LeafCount, err = strconv.ParseUint(fields["leaf_count"], 10, 64)
	if err != nil {
		return doc, fmt.Errorf("report: invalid leaf_count: %w", err)
	}
	for _, tok := range splitList(fields["path"]) {
		hexPart, side, ok := strings.Cut(tok, ":")
		if !ok {
			return doc, fmt.Errorf("report: invalid path entry %q", tok)
		}
		h, err := crypto.HashFromHex(hexPart)
		if err != nil {
			return doc, fmt.Errorf("report: invalid path hash: %w", err)
		}
		doc.Path = append(doc.Path, merkle.ProofNode{Hash: h, SiblingOnRight: side == "R"})
	}
	return doc, nil
}
