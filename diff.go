// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"encoding/json"
	"fmt"
)

// AddEntry is one tagged addition instruction. Exactly one of Schema and
// Nested is set: Schema carries a full property definition lifted verbatim
// from the target document, Nested descends into a key present on both
// sides. The explicit tag replaces shape-sniffing on the entry value, which
// cannot distinguish an empty or ref-only property from a nested diff.
type AddEntry struct {
	Schema map[string]any
	Nested *Diff
}

// IsNested reports whether the entry descends instead of inserting.
func (entry AddEntry) IsNested() bool {
	return entry.Nested != nil
}

// MarshalJSON encodes the entry with an explicit kind discriminator.
func (entry AddEntry) MarshalJSON() ([]byte, error) {
	if entry.Nested != nil {
		return json.Marshal(map[string]any{"kind": "nested", "diff": entry.Nested})
	}

	return json.Marshal(map[string]any{"kind": "property", "schema": entry.Schema})
}

// UnmarshalJSON decodes a kind-tagged addition entry.
func (entry *AddEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind   string         `json:"kind"`
		Schema map[string]any `json:"schema"`
		Diff   *Diff          `json:"diff"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDiff, err)
	}

	switch raw.Kind {
	case "nested":
		*entry = AddEntry{Nested: raw.Diff}
	case "property":
		if raw.Schema == nil {
			raw.Schema = map[string]any{}
		}

		*entry = AddEntry{Schema: raw.Schema}
	default:
		return fmt.Errorf("%w: unknown add kind %q", ErrDecodeDiff, raw.Kind)
	}

	return nil
}

// RemoveEntry is one tagged removal instruction: a leaf removal deletes the
// key outright, a nested removal descends into a surviving key.
type RemoveEntry struct {
	Nested *Diff
}

// IsNested reports whether the entry descends instead of deleting.
func (entry RemoveEntry) IsNested() bool {
	return entry.Nested != nil
}

// MarshalJSON encodes the entry with an explicit kind discriminator.
func (entry RemoveEntry) MarshalJSON() ([]byte, error) {
	if entry.Nested != nil {
		return json.Marshal(map[string]any{"kind": "nested", "diff": entry.Nested})
	}

	return json.Marshal(map[string]any{"kind": "leaf"})
}

// UnmarshalJSON decodes a kind-tagged removal entry.
func (entry *RemoveEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string `json:"kind"`
		Diff *Diff  `json:"diff"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeDiff, err)
	}

	switch raw.Kind {
	case "nested":
		*entry = RemoveEntry{Nested: raw.Diff}
	case "leaf":
		*entry = RemoveEntry{}
	default:
		return fmt.Errorf("%w: unknown remove kind %q", ErrDecodeDiff, raw.Kind)
	}

	return nil
}

// Diff is a structural add/remove delta over properties trees. Only the
// presence and absence of keys is recorded; type, description, enum and
// every other definitional detail is deliberately ignored because curated
// definitions are trusted absolutely.
type Diff struct {
	Add    map[string]AddEntry    `json:"add"`
	Remove map[string]RemoveEntry `json:"remove"`
}

// newDiff allocates an empty delta.
func newDiff() *Diff {
	return &Diff{
		Add:    make(map[string]AddEntry),
		Remove: make(map[string]RemoveEntry),
	}
}

// Empty reports whether the delta carries no instruction at any level.
func (diff *Diff) Empty() bool {
	return diff == nil || (len(diff.Add) == 0 && len(diff.Remove) == 0)
}

// DiffDocuments computes the structural delta between two machine-generated
// documents for a base and target release. Both sides are unwrapped through
// oneOf/allOf/$ref combinators at every level before their properties maps
// are compared, so a bare section object and its array-or-object wrapper
// produce identical deltas.
func DiffDocuments(base, target Document) *Diff {
	return diffProperties(base.Properties(), target.Properties(), base.Definitions(), target.Definitions())
}

// diffProperties compares two properties maps at one level.
func diffProperties(baseProps, targetProps, baseDefs, targetDefs map[string]any) *Diff {
	diff := newDiff()

	for _, key := range sortedKeys(baseProps) {
		if _, ok := targetProps[key]; !ok {
			diff.Remove[key] = RemoveEntry{}
			continue
		}

		baseNode, baseOK := resolveObjectNode(asObject(baseProps[key]), baseDefs)
		targetNode, targetOK := resolveObjectNode(asObject(targetProps[key]), targetDefs)
		if !baseOK || !targetOK {
			continue
		}

		sub := diffProperties(
			asObject(baseNode["properties"]), asObject(targetNode["properties"]),
			baseDefs, targetDefs,
		)
		if sub.Empty() {
			continue
		}

		// Both maps record the nested delta together so the applier always
		// finds a removal companion when it sees a nested addition.
		diff.Add[key] = AddEntry{Nested: sub}
		diff.Remove[key] = RemoveEntry{Nested: sub}
	}

	for _, key := range sortedKeys(targetProps) {
		if _, ok := baseProps[key]; ok {
			continue
		}

		schema := asObject(deepCopyValue(asObject(targetProps[key])))
		if schema == nil {
			schema = map[string]any{}
		}

		diff.Add[key] = AddEntry{Schema: schema}
	}

	return diff
}
