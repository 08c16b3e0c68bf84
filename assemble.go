// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// MinedDirective is one inferred directive in first-seen order.
type MinedDirective struct {
	Key      string
	Fragment InferredFragment
}

// MinedSection is one section's directives in first-seen order.
type MinedSection struct {
	Name       string
	Directives []MinedDirective
}

// MinedRelease is the full mining result for one man page / parser table
// pair, ordered as encountered so required lists stay stable.
type MinedRelease struct {
	Sections []MinedSection
}

// Add appends a directive, creating its section on first use. A repeated
// (section, key) pair overwrites the earlier fragment; last declaration
// wins, matching parser-table semantics.
func (release *MinedRelease) Add(section, key string, fragment InferredFragment) {
	for i := range release.Sections {
		if release.Sections[i].Name != section {
			continue
		}

		for j := range release.Sections[i].Directives {
			if release.Sections[i].Directives[j].Key == key {
				release.Sections[i].Directives[j].Fragment = fragment
				return
			}
		}

		release.Sections[i].Directives = append(release.Sections[i].Directives, MinedDirective{Key: key, Fragment: fragment})
		return
	}

	release.Sections = append(release.Sections, MinedSection{
		Name:       section,
		Directives: []MinedDirective{{Key: key, Fragment: fragment}},
	})
}

// Has reports whether the (section, key) pair was already mined.
func (release *MinedRelease) Has(section, key string) bool {
	for i := range release.Sections {
		if release.Sections[i].Name != section {
			continue
		}

		for j := range release.Sections[i].Directives {
			if release.Sections[i].Directives[j].Key == key {
				return true
			}
		}
	}

	return false
}

// HasSection reports whether the section was already mined.
func (release *MinedRelease) HasSection(section string) bool {
	for i := range release.Sections {
		if release.Sections[i].Name == section {
			return true
		}
	}

	return false
}

// Empty reports whether nothing was mined for the release.
func (release *MinedRelease) Empty() bool {
	return len(release.Sections) == 0
}

// AssembleOptions configures document assembly for one release target.
type AssembleOptions struct {
	// Name is the configuration file family, for example "network".
	Name string
	// Version is the release identifier, for example "v257".
	Version string
}

// Assemble folds mined sections into one Draft-07 schema document.
// Singleton sections become plain object schemas; everything else accepts
// either a single object or an array of objects. The shared primitive
// dictionary is always emitted so $ref targets stay stable across releases.
func Assemble(release *MinedRelease, opts AssembleOptions) Document {
	properties := make(map[string]any, len(release.Sections))

	for _, section := range release.Sections {
		sectionProperties := make(map[string]any, len(section.Directives))
		required := make([]any, 0)

		for _, directive := range section.Directives {
			sectionProperties[directive.Key] = directive.Fragment.Schema
			if directive.Fragment.Mandatory {
				required = append(required, directive.Key)
			}
		}

		sectionSchema := map[string]any{
			"type":                 "object",
			"description":          fmt.Sprintf("[%s] section configuration", section.Name),
			"properties":           sectionProperties,
			"additionalProperties": false,
		}

		if len(required) > 0 {
			sectionSchema["required"] = required
		}

		if _, singleton := singletonSections[section.Name]; singleton {
			properties[section.Name] = sectionSchema
		} else {
			properties[section.Name] = map[string]any{
				"oneOf": []any{
					map[string]any{"type": "array", "items": sectionSchema},
					sectionSchema,
				},
				"description": fmt.Sprintf("[%s] configuration (Can be repeated)", section.Name),
			}
		}
	}

	return Document{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"$id":                  fmt.Sprintf("https://systemd.io/schemas/%s/%s.json", opts.Version, opts.Name),
		"title":                fmt.Sprintf("Systemd %s Configuration (%s)", opts.Name, opts.Version),
		"type":                 "object",
		"additionalProperties": false,
		"definitions":          sharedDefinitions(),
		"properties":           properties,
	}
}

// MiningSummary aggregates per-release mining statistics for the console
// report.
type MiningSummary struct {
	Sections  int
	Keys      int
	Mandatory int
	// TypeCounts is a histogram keyed by resolved type label.
	TypeCounts map[string]int
}

// Summarize computes the mining summary for one release.
func Summarize(release *MinedRelease) MiningSummary {
	summary := MiningSummary{TypeCounts: make(map[string]int)}
	summary.Sections = len(release.Sections)

	for _, section := range release.Sections {
		summary.Keys += len(section.Directives)
		for _, directive := range section.Directives {
			if directive.Fragment.Mandatory {
				summary.Mandatory++
			}

			summary.TypeCounts[resolveTypeLabel(directive.Fragment.Schema)]++
		}
	}

	return summary
}

// WriteSummary prints one release summary block with the type histogram
// sorted by descending count, then label.
func WriteSummary(out io.Writer, name string, summary MiningSummary) {
	fmt.Fprintf(out, "\n--- Summary for %s ---\n", name)
	fmt.Fprintf(out, "Sections: %d\n", summary.Sections)
	fmt.Fprintf(out, "Total Items: %d\n", summary.Keys)
	fmt.Fprintf(out, "Mandatory Items: %d\n", summary.Mandatory)
	fmt.Fprintln(out, "Type Breakdown:")

	labels := sortedKeys(summary.TypeCounts)
	sort.SliceStable(labels, func(i, j int) bool {
		if summary.TypeCounts[labels[i]] != summary.TypeCounts[labels[j]] {
			return summary.TypeCounts[labels[i]] > summary.TypeCounts[labels[j]]
		}

		return labels[i] < labels[j]
	})

	for _, label := range labels {
		fmt.Fprintf(out, "  - %-25s: %d\n", label, summary.TypeCounts[label])
	}

	fmt.Fprintln(out, "---------------------------------")
}

// resolveTypeLabel classifies one fragment for the histogram.
func resolveTypeLabel(schema map[string]any) string {
	if schema == nil {
		return "Unknown/Generic"
	}

	if wrapped := asSlice(schema["allOf"]); len(wrapped) > 0 {
		if inner := asObject(wrapped[0]); inner != nil {
			return resolveTypeLabel(inner)
		}
	}

	if ref := asString(schema["$ref"]); ref != "" {
		parts := strings.Split(ref, "/")
		return "Ref: " + parts[len(parts)-1]
	}

	switch asString(schema["type"]) {
	case "array":
		return "Array of " + resolveTypeLabel(asObject(schema["items"]))
	case "string":
		if _, ok := schema["enum"]; ok {
			return "String (Enum)"
		}

		if hasAny(schema, "pattern", "format") {
			return "String (Pattern/Format)"
		}

		return "String (Freeform)"
	case "integer":
		if hasAny(schema, "minimum", "maximum") {
			return "Integer (Range)"
		}

		return "Integer"
	case "boolean":
		return "Boolean"
	case "":
		return "Unknown/Generic"
	default:
		value := asString(schema["type"])
		return strings.ToUpper(value[:1]) + value[1:]
	}
}

// hasAny reports whether the map carries any of the given keys.
func hasAny(object map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := object[key]; ok {
			return true
		}
	}

	return false
}
