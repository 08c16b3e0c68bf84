// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeReleaseDir lays out one release directory with a single curated
// network document.
func writeReleaseDir(t *testing.T, doc Document) string {
	t.Helper()

	dir := t.TempDir()
	if _, err := WriteDocument(doc, filepath.Join(dir, CuratedFileName("network"))); err != nil {
		t.Fatalf("write release: %v", err)
	}

	return dir
}

func TestCompareReleaseDirs(t *testing.T) {
	t.Parallel()

	prev := writeReleaseDir(t, mustParseDoc(t, `{
		"properties": {
			"Network": {"type": "object", "properties": {
				"Old": {"type": "string"},
				"Kept": {"type": "string"},
				"Fading": {"type": "string"}
			}}
		}
	}`))
	curr := writeReleaseDir(t, mustParseDoc(t, `{
		"properties": {
			"Network": {"type": "object", "properties": {
				"Kept": {"type": "string"},
				"Fading": {"type": "string", "deprecated": true},
				"Fresh": {"type": "string"}
			}}
		}
	}`))

	changes, err := CompareReleaseDirs(prev, curr)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("families = %+v", changes)
	}

	family := changes[0]
	if family.Family != "systemd.network" {
		t.Fatalf("family = %q", family.Family)
	}

	if !reflect.DeepEqual(family.Added, []string{"Network.Fresh"}) {
		t.Fatalf("added = %v", family.Added)
	}

	if !reflect.DeepEqual(family.Removed, []string{"Network.Old"}) {
		t.Fatalf("removed = %v", family.Removed)
	}

	if !reflect.DeepEqual(family.Deprecated, []string{"Network.Fading"}) {
		t.Fatalf("deprecated = %v", family.Deprecated)
	}
}

func TestCompareReleaseDirsMissingFamilySide(t *testing.T) {
	t.Parallel()

	prev := t.TempDir()
	curr := writeReleaseDir(t, mustParseDoc(t, `{
		"properties": {
			"Network": {"type": "object", "properties": {"DHCP": {"type": "boolean"}}}
		}
	}`))

	changes, err := CompareReleaseDirs(prev, curr)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("families = %+v", changes)
	}

	if !reflect.DeepEqual(changes[0].Added, []string{"Network.DHCP"}) {
		t.Fatalf("added = %v", changes[0].Added)
	}
}

func TestFlattenDirectivesUnwrapsWrappers(t *testing.T) {
	t.Parallel()

	doc := mustParseDoc(t, `{
		"properties": {
			"Address": {
				"oneOf": [
					{"type": "array", "items": {"type": "object", "properties": {"Address": {}}}},
					{"type": "object", "properties": {"Address": {}}}
				]
			}
		}
	}`)

	flattened := flattenDirectives(doc)
	if _, ok := flattened["Address.Address"]; !ok {
		t.Fatalf("flattened = %v", flattened)
	}
}

func TestIsDeprecatedInsideAllOf(t *testing.T) {
	t.Parallel()

	directive := map[string]any{
		"allOf": []any{map[string]any{"$ref": "#/definitions/seconds", "deprecated": true}},
	}
	if !isDeprecated(directive) {
		t.Fatal("deprecated flag inside allOf was not seen")
	}

	if isDeprecated(map[string]any{"type": "string"}) {
		t.Fatal("plain directive must not be deprecated")
	}
}

func TestRenderChangelog(t *testing.T) {
	t.Parallel()

	changes := []FamilyChanges{
		{Family: "systemd.network", Added: []string{"Network.Fresh"}, Deprecated: []string{"Network.Fading"}},
		{Family: "systemd.netdev"},
	}

	text := RenderChangelog(changes, "v256", "v257")

	for _, fragment := range []string{
		"## Changes from v256 to v257",
		"### systemd.network",
		"#### Added",
		"* `Network.Fresh`",
		"#### Deprecated",
		"* `Network.Fading`",
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("changelog misses %q:\n%s", fragment, text)
		}
	}

	if strings.Contains(text, "systemd.netdev") {
		t.Fatalf("unchanged family must be omitted:\n%s", text)
	}
}

func TestRenderChangelogNoChanges(t *testing.T) {
	t.Parallel()

	text := RenderChangelog(nil, "v256", "v257")
	if !strings.Contains(text, "No changes.") {
		t.Fatalf("changelog = %q", text)
	}
}

func TestLoadOptionalDocument(t *testing.T) {
	t.Parallel()

	doc, err := loadOptionalDocument(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || doc != nil {
		t.Fatalf("missing file: doc=%v err=%v", doc, err)
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := loadOptionalDocument(path); err == nil {
		t.Fatal("malformed document must fail")
	}
}
