// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// FamilyChanges lists directive-level changes of one configuration file
// family between two releases. Entries are flattened "Section.Key" names in
// sorted order.
type FamilyChanges struct {
	Family     string
	Added      []string
	Removed    []string
	Deprecated []string
}

// Empty reports whether the family saw no changes.
func (changes FamilyChanges) Empty() bool {
	return len(changes.Added) == 0 && len(changes.Removed) == 0 && len(changes.Deprecated) == 0
}

// CompareReleaseDirs compares the curated documents of two release
// directories family by family. A family missing on one side contributes all
// of its directives as added or removed; a family missing on both sides is
// skipped.
func CompareReleaseDirs(prevDir, currDir string) ([]FamilyChanges, error) {
	out := make([]FamilyChanges, 0, len(generateTargets))
	for _, target := range generateTargets {
		prev, err := loadOptionalDocument(filepath.Join(prevDir, CuratedFileName(target.Name)))
		if err != nil {
			return nil, err
		}

		curr, err := loadOptionalDocument(filepath.Join(currDir, CuratedFileName(target.Name)))
		if err != nil {
			return nil, err
		}

		if prev == nil && curr == nil {
			continue
		}

		out = append(out, compareFamilies("systemd."+target.Name, prev, curr))
	}

	return out, nil
}

// compareFamilies diffs the flattened directive sets of one family.
func compareFamilies(family string, prev, curr Document) FamilyChanges {
	prevOpts := flattenDirectives(prev)
	currOpts := flattenDirectives(curr)

	changes := FamilyChanges{Family: family}

	all := make(map[string]struct{}, len(prevOpts)+len(currOpts))
	for key := range prevOpts {
		all[key] = struct{}{}
	}
	for key := range currOpts {
		all[key] = struct{}{}
	}

	for _, key := range sortedKeys(all) {
		_, inPrev := prevOpts[key]
		_, inCurr := currOpts[key]

		switch {
		case !inPrev:
			changes.Added = append(changes.Added, key)
		case !inCurr:
			changes.Removed = append(changes.Removed, key)
		case isDeprecated(currOpts[key]) && !isDeprecated(prevOpts[key]):
			changes.Deprecated = append(changes.Deprecated, key)
		}
	}

	return changes
}

// flattenDirectives maps "Section.Key" to directive schema for one document,
// unwrapping section combinator wrappers the same way the differ does.
func flattenDirectives(doc Document) map[string]map[string]any {
	out := make(map[string]map[string]any)
	if doc == nil {
		return out
	}

	definitions := doc.Definitions()
	for section, raw := range doc.Properties() {
		node, ok := resolveObjectNode(asObject(raw), definitions)
		if !ok {
			continue
		}

		for key, value := range asObject(node["properties"]) {
			out[section+"."+key] = asObject(value)
		}
	}

	return out
}

// isDeprecated reports whether a directive schema carries a true deprecated
// flag, directly or inside its allOf wrapper.
func isDeprecated(directive map[string]any) bool {
	if directive == nil {
		return false
	}

	if value, ok := directive["deprecated"].(bool); ok {
		return value
	}

	if wrapped := asSlice(directive["allOf"]); len(wrapped) > 0 {
		if inner := asObject(wrapped[0]); inner != nil {
			if value, ok := inner["deprecated"].(bool); ok {
				return value
			}
		}
	}

	return false
}

// RenderChangelog renders release changes as a CommonMark fragment. Families
// without changes are omitted; a release without any change at all renders a
// single "no changes" line.
func RenderChangelog(changes []FamilyChanges, prevVersion, currVersion string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "## Changes from %s to %s\n", prevVersion, currVersion)

	changed := false
	for _, family := range changes {
		if family.Empty() {
			continue
		}

		changed = true
		fmt.Fprintf(&out, "\n### %s\n", family.Family)
		writeChangeList(&out, "Added", family.Added)
		writeChangeList(&out, "Removed", family.Removed)
		writeChangeList(&out, "Deprecated", family.Deprecated)
	}

	if !changed {
		out.WriteString("\nNo changes.\n")
	}

	return out.String()
}

// writeChangeList renders one change category as a bullet list.
func writeChangeList(out *strings.Builder, label string, keys []string) {
	if len(keys) == 0 {
		return
	}

	fmt.Fprintf(out, "\n#### %s\n\n", label)
	for _, key := range keys {
		fmt.Fprintf(out, "* `%s`\n", key)
	}
}

// loadOptionalDocument loads a document, treating a missing file as nil.
func loadOptionalDocument(path string) (Document, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	return doc, nil
}
