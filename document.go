// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// maxUnwrapDepth bounds combinator and $ref unwrapping. Production schemas
// are tree shaped; the bound only guards against accidental ref cycles.
const maxUnwrapDepth = 16

// Document is a JSON Schema document kept in its raw map form. All schema
// surgery in this package operates on this representation so that curated
// hand-written keys survive round trips untouched.
type Document map[string]any

// LoadDocument reads and decodes one schema document from disk.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadSchemaFile, path, err)
	}

	return ParseDocument(data)
}

// ParseDocument decodes one schema document from JSON bytes.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	return doc, nil
}

// EncodeDocument renders the document as two-space indented JSON without a
// trailing newline, matching the on-disk artifact format.
func EncodeDocument(doc Document) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeSchema, err)
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// WriteDocument writes the document to path, skipping the write when the
// file already holds byte-identical content. It reports whether a write
// happened.
func WriteDocument(doc Document, path string) (bool, error) {
	data, err := EncodeDocument(doc)
	if err != nil {
		return false, err
	}

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("%w %q: %w", ErrWriteSchemaFile, path, err)
	}

	return true, nil
}

// Definitions returns the document's definitions map, or nil.
func (doc Document) Definitions() map[string]any {
	return asObject(doc["definitions"])
}

// Properties returns the document's top-level properties map, or nil.
func (doc Document) Properties() map[string]any {
	return asObject(doc["properties"])
}

// resolveObjectNode unwraps a schema node down to an object-like node that
// carries a properties map. It follows local $ref targets through
// definitions, scans oneOf and allOf variants, and looks through the
// array-of-object idiom (a variant whose items carry properties). The second
// result reports whether such a node was found; the differ, the applier and
// the INI converter all share this exact unwrap.
func resolveObjectNode(node map[string]any, definitions map[string]any) (map[string]any, bool) {
	return resolveObjectNodeDepth(node, definitions, 0)
}

// resolveObjectNodeDepth is resolveObjectNode with an explicit depth guard.
func resolveObjectNodeDepth(node map[string]any, definitions map[string]any, depth int) (map[string]any, bool) {
	if node == nil || depth > maxUnwrapDepth {
		return nil, false
	}

	if asObject(node["properties"]) != nil {
		return node, true
	}

	if ref := asString(node["$ref"]); ref != "" {
		if target := localDefinition(ref, definitions); target != nil {
			return resolveObjectNodeDepth(target, definitions, depth+1)
		}

		return nil, false
	}

	for _, keyword := range []string{"oneOf", "allOf"} {
		for _, raw := range asSlice(node[keyword]) {
			variant := asObject(raw)
			if variant == nil {
				continue
			}

			if asObject(variant["properties"]) != nil {
				return variant, true
			}

			if items := asObject(variant["items"]); items != nil {
				if asObject(items["properties"]) != nil {
					return items, true
				}
			}

			if resolved, ok := resolveObjectNodeDepth(variant, definitions, depth+1); ok {
				return resolved, true
			}
		}
	}

	return nil, false
}

// localDefinition resolves a "#/definitions/<name>" pointer against the
// definitions map. Non-local or unknown references return nil.
func localDefinition(ref string, definitions map[string]any) map[string]any {
	const prefix = "#/definitions/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return nil
	}

	return asObject(definitions[ref[len(prefix):]])
}

// deepCopyValue clones a decoded JSON value so applier output never aliases
// its inputs.
func deepCopyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = deepCopyValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, deepCopyValue(item))
		}

		return out
	default:
		return typed
	}
}

// deepCopyObject clones one schema object map.
func deepCopyObject(object map[string]any) map[string]any {
	copied, _ := deepCopyValue(object).(map[string]any)
	return copied
}

// asObject narrows a decoded JSON value to an object map.
func asObject(value any) map[string]any {
	object, _ := value.(map[string]any)
	return object
}

// asSlice narrows a decoded JSON value to a slice.
func asSlice(value any) []any {
	slice, _ := value.([]any)
	return slice
}

// asString narrows a decoded JSON value to a string.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// sortedKeys returns map keys in deterministic sorted order.
func sortedKeys[V any](values map[string]V) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}
