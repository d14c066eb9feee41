package jsonmerkle

import "testing"

func TestPermutationInvarianceObjectMembers(t *testing.T) {
	a := []byte(`{"id":1,"tags":["x","y"],"addr":{"pin":411045}}`)
	b := []byte(`{"addr":{"pin":411045},"tags":["x","y"],"id":1}`)
	ra, err := Build(a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := Build(b)
	if err != nil {
		t.Fatal(err)
	}
	if ra.Root != rb.Root {
		t.Errorf("member-order permutation changed root: %x != %x", ra.Root, rb.Root)
	}
}

func TestPermutationInvarianceArrayElements(t *testing.T) {
	a := []byte(`{"tags":["x","y","z"]}`)
	b := []byte(`{"tags":["z","x","y"]}`)
	ra, err := Build(a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := Build(b)
	if err != nil {
		t.Fatal(err)
	}
	if ra.Root != rb.Root {
		t.Errorf("array-order permutation changed root: %x != %x", ra.Root, rb.Root)
	}
}

func TestEmptyObjectAndArrayMarkers(t *testing.T) {
	res, err := Build([]byte(`{"o":{},"a":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.PathHashes["$.o.__emptyObject"]; !ok {
		t.Error("missing empty-object marker leaf")
	}
	if _, ok := res.PathHashes["$.a.__emptyArray"]; !ok {
		t.Error("missing empty-array marker leaf")
	}
}

func TestArrayDuplicateElementsRetainDistinctPositions(t *testing.T) {
	res, err := Build([]byte(`{"a":[1,1]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.PathHashes["$.a[#0]"]; !ok {
		t.Error("missing $.a[#0]")
	}
	if _, ok := res.PathHashes["$.a[#1]"]; !ok {
		t.Error("missing $.a[#1]")
	}
}

func TestScenarioReorderAndChangeInclusionProof(t *testing.T) {
	newDoc := []byte(`{"tags":["y","x"],"id":1,"addr":{"pin":411046},"extra":42}`)
	res, err := Build(newDoc)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := Prove(newDoc, "$.addr.pin")
	if err != nil {
		t.Fatal(err)
	}
	if !Verify("$.addr.pin", "411046", proof, res.Root) {
		t.Error("inclusion proof for $.addr.pin did not verify against root(New)")
	}
}

func TestProveUnknownPath(t *testing.T) {
	if _, err := Prove([]byte(`{"a":1}`), "$.b"); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestMalformedInput(t *testing.T) {
	if _, err := Build([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestNumericFidelityDistinguishesValues(t *testing.T) {
	a, err := Build([]byte(`{"n":1.0}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build([]byte(`{"n":1.00}`))
	if err != nil {
		t.Fatal(err)
	}
	if a.PathHashes["$.n"] == b.PathHashes["$.n"] {
		t.Error("distinct textual number forms should not collide under textual canonicalization")
	}
}
