package payload

import (
	"testing"

	"github.com/mmsapre/docmerkle/pkg/diff"
	"github.com/mmsapre/docmerkle/pkg/jsonmerkle"
	"github.com/mmsapre/docmerkle/pkg/xmlmerkle"
)

func TestFromJSONRecordShape(t *testing.T) {
	oldRes, err := jsonmerkle.Build([]byte(`{"id":1,"tags":["x","y"]}`))
	if err != nil {
		t.Fatal(err)
	}
	newRes, err := jsonmerkle.Build([]byte(`{"id":2,"tags":["x","y"]}`))
	if err != nil {
		t.Fatal(err)
	}
	cs := diff.Diff(oldRes.PathHashes, newRes.PathHashes, diff.IsJSONValueLeaf)

	oldRoot := oldRes.Root
	rec := FromJSON(&oldRoot, newRes.Root, cs, true)

	if rec.Kind != "json" {
		t.Errorf("expected kind json, got %q", rec.Kind)
	}
	if rec.RootOld == "" || rec.RootOld == rec.RootNew {
		t.Errorf("expected distinct non-empty roots, got old=%q new=%q", rec.RootOld, rec.RootNew)
	}
	if len(rec.Changed) != 1 || rec.Changed[0].Path != "$.id" {
		t.Errorf("expected single change at $.id, got %+v", rec.Changed)
	}
	if len(rec.CollapsedPaths) == 0 {
		t.Errorf("expected non-empty collapsed ancestor set")
	}
	if _, ok := rec.KeySummary["id"]; !ok {
		t.Errorf("expected key summary to mention id, got %v", rec.KeySummary)
	}
}

func TestFromJSONEmptyBaselineHasNoOldRoot(t *testing.T) {
	newRes, err := jsonmerkle.Build([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	cs := diff.Diff(nil, newRes.PathHashes, diff.IsJSONValueLeaf)
	rec := FromJSON(nil, newRes.Root, cs, false)
	if rec.RootOld != "" {
		t.Errorf("expected empty RootOld for absent baseline, got %q", rec.RootOld)
	}
	if len(rec.Added) == 0 {
		t.Errorf("expected added paths for empty baseline")
	}
}

func TestFromXMLRecordShape(t *testing.T) {
	oldDoc := []byte(`<Order xmlns="urn:ex"><Item sku="A"/></Order>`)
	newDoc := []byte(`<Order xmlns="urn:ex"><Item sku="B"/></Order>`)

	oldRes, err := xmlmerkle.Build(oldDoc)
	if err != nil {
		t.Fatal(err)
	}
	newRes, err := xmlmerkle.Build(newDoc)
	if err != nil {
		t.Fatal(err)
	}
	cs := diff.Diff(oldRes.PathHashes, newRes.PathHashes, diff.IsXMLValueLeaf)

	var samplePath string
	for p := range newRes.PathHashes {
		samplePath = p
		break
	}

	oldRoot := oldRes.Root
	rec := FromXML(&oldRoot, newRes.Root, cs, true, diff.XMLRootSegment(samplePath))

	if rec.Kind != "xml" {
		t.Errorf("expected kind xml, got %q", rec.Kind)
	}
	if len(rec.TagSummaryAttributes) == 0 {
		t.Errorf("expected non-empty attribute tag summary, got %v", rec.TagSummaryAttributes)
	}
	found := false
	for _, p := range rec.CollapsedPaths {
		if p == "/urn:ex|Order" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected root segment in ancestor-collapsed set, got %v", rec.CollapsedPaths)
	}
}
