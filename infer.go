// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import "strings"

// enumTableParsers names the two parser functions whose accepted values come
// from a C string table in the source tree rather than prose.
var enumTableParsers = map[string]struct{}{
	"config_parse_enum": {},
	"config_parse_list": {},
}

// InferInput is everything the inferencer may consult for one directive.
type InferInput struct {
	// Section and Key identify the directive.
	Section string
	Key     string
	// ParserFunc and Argument come from the parser table.
	ParserFunc string
	Argument   string
	// Description and VersionAdded come from the man page.
	Description  string
	VersionAdded string
	// RepoDir is the checked-out source tree for enum table scans; empty
	// disables the scan.
	RepoDir string
}

// InferredFragment is one directive's resolved schema fragment. Mandatory is
// carried outside the schema map so it can be promoted into the section's
// required list without ever appearing as a schema keyword.
type InferredFragment struct {
	Schema    map[string]any
	Mandatory bool
}

// InferFragment resolves one directive into a JSON Schema fragment. Rules
// fire in a fixed order: parser-function lookup, enum extraction from prose,
// key-name and description heuristics, integer-range extraction, C enum
// table override, default extraction, mandatory detection, list wrapping and
// finally description cleanup. Every clause successfully mined into
// structure is removed from the prose so no fact is stated twice.
func InferFragment(input InferInput) InferredFragment {
	desc := input.Description
	var fragment map[string]any
	var refName string

	if mapped, ok := parserTypes[input.ParserFunc]; ok {
		if mapped.Ref != "" {
			refName = mapped.Ref
			fragment = map[string]any{"$ref": "#/definitions/" + mapped.Ref}
		} else {
			fragment = deepCopyObject(mapped.Fragment)
		}
	}

	_, isListParser := listParsers[input.ParserFunc]
	_, isForcedList := forceListItems[sectionKey{input.Section, input.Key}]

	if fragment == nil || asString(fragment["type"]) == "string" {
		if values, cleaned := extractEnum(desc); values != nil {
			fragment = map[string]any{"type": "string", "enum": toAnySlice(values)}
			desc = cleaned
		} else {
			guessed := guessRefByKeyName(input.Key)
			if guessed == "" {
				guessed = inferRefFromDescription(desc)
			}

			switch {
			case guessed == "boolean":
				fragment = map[string]any{"type": "boolean"}
			case guessed == "string":
				fragment = map[string]any{"type": "string"}
			case guessed != "":
				refName = guessed
				fragment = map[string]any{"$ref": "#/definitions/" + guessed}
			case fragment == nil:
				fragment = map[string]any{"type": "string"}
			}
		}
	}

	switch asString(fragment["type"]) {
	case "", "string", "integer":
		if minimum, maximum, cleaned, ok := extractRange(desc); ok {
			fragment["type"] = "integer"
			fragment["minimum"] = minimum
			fragment["maximum"] = maximum
			desc = cleaned
		}
	}

	if _, ok := enumTableParsers[input.ParserFunc]; ok && input.RepoDir != "" {
		if values := findEnumValues(input.RepoDir, input.Argument); len(values) > 0 {
			fragment = map[string]any{"type": "string", "enum": toAnySlice(values)}
		}
	}

	resolvedType := asString(fragment["type"])
	if resolvedType == "" {
		resolvedType = "string"
	}

	if value, cleaned := extractDefault(desc, resolvedType); value != nil {
		fragment["default"] = value
		desc = cleaned
	}

	mandatory := isMandatory(desc)

	if isListParser || isForcedList {
		fragment = map[string]any{"type": "array", "items": fragment}
	}

	if asString(fragment["type"]) == "boolean" {
		desc = cleanRedundantLead(desc, "boolean", "")
	} else if refName != "" {
		desc = cleanRedundantLead(desc, "", refName)
	}

	desc = cleanWhitespace(desc)

	if desc != "" {
		if _, hasRef := fragment["$ref"]; hasRef {
			fragment = map[string]any{"allOf": []any{fragment}, "description": desc}
		} else {
			fragment["description"] = desc
		}
	}

	if version := strings.TrimSpace(input.VersionAdded); version != "" {
		fragment["version_added"] = version
	}

	return InferredFragment{Schema: fragment, Mandatory: mandatory}
}

// guessRefByKeyName consults the ordered key-name suffix table.
func guessRefByKeyName(key string) string {
	for _, heuristic := range keyNameHeuristics {
		if strings.HasSuffix(key, heuristic.Suffix) {
			return heuristic.Ref
		}
	}

	return ""
}

// toAnySlice widens a string slice for JSON-shaped schema maps.
func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}

	return out
}
