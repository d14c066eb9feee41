package report

import (
	"bytes"
	"testing"

	"github.com/mmsapre/docmerkle/pkg/crypto"
	"github.com/mmsapre/docmerkle/pkg/diff"
	"github.com/mmsapre/docmerkle/pkg/jsonmerkle"
	"github.com/mmsapre/docmerkle/pkg/merkle"
	"github.com/mmsapre/docmerkle/pkg/payload"
)

func TestWriteReadRecordRoundTrip(t *testing.T) {
	oldRes, err := jsonmerkle.Build([]byte(`{"id":1,"tags":["x","y"]}`))
	if err != nil {
		t.Fatal(err)
	}
	newRes, err := jsonmerkle.Build([]byte(`{"id":2,"tags":["x","y"],"extra":true}`))
	if err != nil {
		t.Fatal(err)
	}
	cs := diff.Diff(oldRes.PathHashes, newRes.PathHashes, diff.IsJSONValueLeaf)
	oldRoot := oldRes.Root
	rec := payload.FromJSON(&oldRoot, newRes.Root, cs, true)

	var buf bytes.Buffer
	if err := WriteRecord(&buf, rec); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRecord(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.Kind != rec.Kind || got.RootOld != rec.RootOld || got.RootNew != rec.RootNew {
		t.Errorf("roots/kind mismatch: got %+v, want kind=%s old=%s new=%s", got, rec.Kind, rec.RootOld, rec.RootNew)
	}
	if len(got.Added) != len(rec.Added) {
		t.Errorf("added length mismatch: got %v, want %v", got.Added, rec.Added)
	}
	if len(got.Changed) != len(rec.Changed) {
		t.Fatalf("changed length mismatch: got %+v, want %+v", got.Changed, rec.Changed)
	}
	if got.Changed[0].Path != rec.Changed[0].Path || got.Changed[0].OldHash != rec.Changed[0].OldHash {
		t.Errorf("changed entry mismatch: got %+v, want %+v", got.Changed[0], rec.Changed[0])
	}
	if len(got.KeySummary) != len(rec.KeySummary) {
		t.Errorf("key summary mismatch: got %v, want %v", got.KeySummary, rec.KeySummary)
	}
}

func TestWriteReadRecordEmptyBaseline(t *testing.T) {
	newRes, err := jsonmerkle.Build([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	cs := diff.Diff(nil, newRes.PathHashes, diff.IsJSONValueLeaf)
	rec := payload.FromJSON(nil, newRes.Root, cs, false)

	var buf bytes.Buffer
	if err := WriteRecord(&buf, rec); err != nil {
		t.Fatal(err)
	}
	got, err := ReadRecord(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.RootOld != "" {
		t.Errorf("expected empty root_old, got %q", got.RootOld)
	}
}

func TestWriteReadProofRoundTrip(t *testing.T) {
	root := crypto.HashBytes([]byte("root"))
	doc := ProofDocument{
		Root:      root,
		LeafIndex: 3,
		LeafCount: 5,
		Path: []merkle.ProofNode{
			{Hash: crypto.HashBytes([]byte("a")), SiblingOnRight: true},
			{Hash: crypto.HashBytes([]byte("b")), SiblingOnRight: false},
		},
	}

	var buf bytes.Buffer
	if err := WriteProof(&buf, doc); err != nil {
		t.Fatal(err)
	}
	got, err := ReadProof(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root != doc.Root || got.LeafIndex != doc.LeafIndex || got.LeafCount != doc.LeafCount {
		t.Errorf("proof header mismatch: got %+v, want %+v", got, doc)
	}
	if len(got.Path) != 2 || got.Path[0].SiblingOnRight != true || got.Path[1].SiblingOnRight != false {
		t.Errorf("proof path mismatch: got %+v", got.Path)
	}
}

func TestReadRecordRejectsMissingFields(t *testing.T) {
	if _, err := ReadRecord(bytes.NewBufferString("added=$.a\n")); err == nil {
		t.Error("expected error for missing kind/root_new")
	}
}
