// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"fmt"
	"io"
)

// ApplyDiff re-applies a structural delta onto a hand-curated document and
// returns a new document; the input is never mutated. Removals run before
// additions at every level (the two operate on disjoint keys, the order
// only keeps the audit log readable). Added properties are inserted exactly
// as the target release defined them; properties that survive keep their
// curated definition byte for byte. A missing or malformed addition/removal
// target is skipped silently, since the curated file may have already
// incorporated the change by hand, but a curated document without a
// top-level properties map fails loudly with ErrCuratedShape.
func ApplyDiff(curated Document, diff *Diff, log io.Writer) (Document, error) {
	result, _ := deepCopyValue(map[string]any(curated)).(map[string]any)
	doc := Document(result)

	props := doc.Properties()
	if props == nil {
		return nil, ErrCuratedShape
	}

	if diff.Empty() {
		return doc, nil
	}

	definitions := doc.Definitions()
	applyRemovals(props, diff.Remove, definitions, "", log)
	applyAdditions(props, diff.Add, definitions, "", log)
	return doc, nil
}

// applyRemovals deletes leaf keys and descends through nested entries.
func applyRemovals(props map[string]any, removes map[string]RemoveEntry, definitions map[string]any, path string, log io.Writer) {
	for _, key := range sortedKeys(removes) {
		entry := removes[key]
		if !entry.IsNested() {
			if _, ok := props[key]; ok {
				fmt.Fprintf(log, "- Removing %s\n", joinSchemaPath(path, key))
				delete(props, key)
			}

			continue
		}

		subProps, ok := unwrapChildProperties(props, key, definitions)
		if !ok {
			continue
		}

		applyRemovals(subProps, entry.Nested.Remove, definitions, joinSchemaPath(path, key), log)
	}
}

// applyAdditions inserts verbatim property definitions and descends through
// nested entries.
func applyAdditions(props map[string]any, adds map[string]AddEntry, definitions map[string]any, path string, log io.Writer) {
	for _, key := range sortedKeys(adds) {
		entry := adds[key]
		if !entry.IsNested() {
			fmt.Fprintf(log, "+ Adding %s\n", joinSchemaPath(path, key))
			props[key] = deepCopyValue(entry.Schema)
			continue
		}

		subProps, ok := unwrapChildProperties(props, key, definitions)
		if !ok {
			continue
		}

		applyAdditions(subProps, entry.Nested.Add, definitions, joinSchemaPath(path, key), log)
	}
}

// unwrapChildProperties resolves props[key] to its properties map using the
// shared combinator unwrap. The second result is false when the key is
// missing or does not resolve to an object-like node.
func unwrapChildProperties(props map[string]any, key string, definitions map[string]any) (map[string]any, bool) {
	node := asObject(props[key])
	if node == nil {
		return nil, false
	}

	resolved, ok := resolveObjectNode(node, definitions)
	if !ok {
		return nil, false
	}

	subProps := asObject(resolved["properties"])
	if subProps == nil {
		return nil, false
	}

	return subProps, true
}

// joinSchemaPath joins audit-log path segments with a dot.
func joinSchemaPath(base, segment string) string {
	if base == "" {
		return segment
	}

	return base + "." + segment
}
