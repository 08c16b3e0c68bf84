// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestValidateDocumentAccepts(t *testing.T) {
	t.Parallel()

	release := &MinedRelease{}
	release.Add("Match", "Name", InferredFragment{Schema: map[string]any{"type": "string"}})
	release.Add("Network", "Address", InferredFragment{
		Schema: map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/ip_prefix"}},
	})

	doc := Assemble(release, AssembleOptions{Name: "network", Version: "v257"})
	if err := ValidateDocument(doc); err != nil {
		t.Fatalf("assembled document must validate: %v", err)
	}
}

func TestValidateDocumentRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  Document
	}{
		{"missing $schema", mustParseDoc(t, `{"definitions":{},"properties":{}}`)},
		{
			"wrong draft",
			mustParseDoc(t, `{"$schema":"https://json-schema.org/draft/2020-12/schema","definitions":{},"properties":{}}`),
		},
		{
			"missing definitions",
			mustParseDoc(t, `{"$schema":"http://json-schema.org/draft-07/schema#","properties":{}}`),
		},
		{
			"missing properties",
			mustParseDoc(t, `{"$schema":"http://json-schema.org/draft-07/schema#","definitions":{}}`),
		},
		{
			"dangling ref",
			mustParseDoc(t, `{
				"$schema": "http://json-schema.org/draft-07/schema#",
				"definitions": {},
				"properties": {"A": {"$ref": "#/definitions/nope"}}
			}`),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDocument(tc.doc)
			if !errors.Is(err, ErrValidateSchema) {
				t.Fatalf("err = %v, want ErrValidateSchema", err)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	release := &MinedRelease{}
	release.Add("Match", "Name", InferredFragment{Schema: map[string]any{"type": "string"}})
	doc := Assemble(release, AssembleOptions{Name: "network", Version: "v257"})

	path := filepath.Join(t.TempDir(), "schema.json")
	if _, err := WriteDocument(doc, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := ValidateFile(path); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := ValidateFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file must fail")
	}
}
