// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// mustParseDoc decodes a JSON document literal for test fixtures.
func mustParseDoc(t *testing.T, text string) Document {
	t.Helper()

	doc, err := ParseDocument([]byte(text))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	return doc
}

func TestDiffTopLevelAddition(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{"properties":{"A":{}}}`)
	target := mustParseDoc(t, `{"properties":{"A":{},"B":{"type":"string"}}}`)

	diff := DiffDocuments(base, target)

	if len(diff.Remove) != 0 {
		t.Fatalf("unexpected removals: %+v", diff.Remove)
	}

	entry, ok := diff.Add["B"]
	if !ok || entry.IsNested() {
		t.Fatalf("expected property addition for B, got %+v", diff.Add)
	}

	want := map[string]any{"type": "string"}
	if !reflect.DeepEqual(entry.Schema, want) {
		t.Fatalf("added schema = %v, want %v", entry.Schema, want)
	}
}

func TestDiffTopLevelRemoval(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{"properties":{"A":{},"B":{}}}`)
	target := mustParseDoc(t, `{"properties":{"A":{}}}`)

	diff := DiffDocuments(base, target)

	if len(diff.Add) != 0 {
		t.Fatalf("unexpected additions: %+v", diff.Add)
	}

	entry, ok := diff.Remove["B"]
	if !ok || entry.IsNested() {
		t.Fatalf("expected leaf removal for B, got %+v", diff.Remove)
	}
}

func TestDiffNestedSection(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{}}}}}`)
	target := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{},"B":{}}}}}`)

	diff := DiffDocuments(base, target)

	addEntry, ok := diff.Add["Sec"]
	if !ok || !addEntry.IsNested() {
		t.Fatalf("expected nested addition for Sec, got %+v", diff.Add)
	}

	nested, ok := addEntry.Nested.Add["B"]
	if !ok || nested.IsNested() {
		t.Fatalf("expected property addition for Sec.B, got %+v", addEntry.Nested.Add)
	}

	removeEntry, ok := diff.Remove["Sec"]
	if !ok || !removeEntry.IsNested() {
		t.Fatalf("expected nested removal companion for Sec, got %+v", diff.Remove)
	}
}

func TestDiffIdenticalDocumentsIsEmpty(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{"type":"string"}}}}}`)
	target := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{"type":"integer"}}}}}`)

	// Type differences are deliberately invisible; only key presence counts.
	diff := DiffDocuments(base, target)
	if !diff.Empty() {
		t.Fatalf("expected empty diff, got %+v", diff)
	}
}

func TestDiffUnwrapsOneOfWrapper(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{
		"properties": {
			"Sec": {
				"oneOf": [
					{"type": "array", "items": {"type": "object", "properties": {"A": {}}}},
					{"type": "object", "properties": {"A": {}}}
				]
			}
		}
	}`)
	target := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{},"B":{"type":"string"}}}}}`)

	diff := DiffDocuments(base, target)

	addEntry, ok := diff.Add["Sec"]
	if !ok || !addEntry.IsNested() {
		t.Fatalf("wrapper was not unwrapped: %+v", diff.Add)
	}

	if _, ok := addEntry.Nested.Add["B"]; !ok {
		t.Fatalf("expected Sec.B addition, got %+v", addEntry.Nested.Add)
	}
}

func TestDiffUnwrapsLocalRef(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{
		"definitions": {"sec": {"type": "object", "properties": {"A": {}, "Old": {}}}},
		"properties": {"Sec": {"$ref": "#/definitions/sec"}}
	}`)
	target := mustParseDoc(t, `{"properties":{"Sec":{"type":"object","properties":{"A":{}}}}}`)

	diff := DiffDocuments(base, target)

	removeEntry, ok := diff.Remove["Sec"]
	if !ok || !removeEntry.IsNested() {
		t.Fatalf("ref was not unwrapped: %+v", diff.Remove)
	}

	if _, ok := removeEntry.Nested.Remove["Old"]; !ok {
		t.Fatalf("expected Sec.Old removal, got %+v", removeEntry.Nested.Remove)
	}
}

func TestDiffJSONRoundTrip(t *testing.T) {
	t.Parallel()

	base := mustParseDoc(t, `{"properties":{"Gone":{},"Sec":{"type":"object","properties":{"A":{},"Old":{}}}}}`)
	target := mustParseDoc(t, `{"properties":{"New":{"type":"string"},"Sec":{"type":"object","properties":{"A":{},"B":{}}}}}`)

	diff := DiffDocuments(base, target)

	data, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal diff: %v", err)
	}

	for _, kind := range []string{`"kind":"property"`, `"kind":"nested"`, `"kind":"leaf"`} {
		if !strings.Contains(string(data), kind) {
			t.Fatalf("encoded diff misses %s: %s", kind, data)
		}
	}

	var decoded Diff
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal diff: %v", err)
	}

	if !reflect.DeepEqual(&decoded, diff) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", &decoded, diff)
	}
}

func TestRemoveEntryUnknownKindFails(t *testing.T) {
	t.Parallel()

	var entry RemoveEntry
	err := json.Unmarshal([]byte(`{"kind":"mystery"}`), &entry)
	if err == nil {
		t.Fatal("expected decode error for unknown kind")
	}
}
