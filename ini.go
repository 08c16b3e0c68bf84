// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Comment capture keys used in converted JSON documents. Underscore-prefixed
// keys are metadata, never configuration directives.
const (
	sectionCommentsKey  = "_comments"
	propertyCommentsKey = "_property_comments"
)

var (
	iniSectionPattern  = regexp.MustCompile(`^\[([^\]]+)\]`)
	iniKeyValuePattern = regexp.MustCompile(`^([^=]+)=(.*)$`)
)

// iniSection is one parsed [Section] block with key order preserved.
type iniSection struct {
	Name        string
	Comments    []string
	Order       []string
	Values      map[string][]string
	KeyComments map[string][]string
}

// addValue appends one value for a key, tracking first-seen key order.
func (section *iniSection) addValue(key, value string) {
	if _, ok := section.Values[key]; !ok {
		section.Order = append(section.Order, key)
	}

	section.Values[key] = append(section.Values[key], value)
}

// logicalLine is one unit of the systemd INI reader: either a comment or a
// joined configuration line.
type logicalLine struct {
	comment bool
	text    string
}

// logicalLines implements systemd's line joining: a trailing backslash
// continues the line on the next one, with the backslash replaced by a
// space. Comment and empty lines inside a continuation are swallowed;
// comments outside one are captured for attachment to the next section or
// directive.
func logicalLines(reader io.Reader) ([]logicalLine, error) {
	var out []logicalLine
	var buffer []string

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		stripped := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, ";") {
			if len(buffer) == 0 {
				out = append(out, logicalLine{comment: true, text: stripped})
			}

			continue
		}

		if stripped == "" {
			continue
		}

		if strings.HasSuffix(stripped, "\\") {
			buffer = append(buffer, strings.TrimSpace(strings.TrimSuffix(stripped, "\\")))
			continue
		}

		buffer = append(buffer, stripped)
		out = append(out, logicalLine{text: strings.Join(buffer, " ")})
		buffer = buffer[:0]
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeINI, err)
	}

	if len(buffer) > 0 {
		out = append(out, logicalLine{text: strings.Join(buffer, " ")})
	}

	return out, nil
}

// parseINI reads systemd-style INI into ordered section blocks. Directive
// lines before any section header and lines matching neither shape are
// ignored; comments are attached to the section or directive that follows
// them, trailing comments to the last section.
func parseINI(reader io.Reader) ([]*iniSection, error) {
	lines, err := logicalLines(reader)
	if err != nil {
		return nil, err
	}

	var sections []*iniSection
	var current *iniSection
	var pending []string

	for _, line := range lines {
		if line.comment {
			pending = append(pending, line.text)
			continue
		}

		if match := iniSectionPattern.FindStringSubmatch(line.text); match != nil {
			current = &iniSection{
				Name:        match[1],
				Comments:    pending,
				Values:      make(map[string][]string),
				KeyComments: make(map[string][]string),
			}
			pending = nil
			sections = append(sections, current)
			continue
		}

		match := iniKeyValuePattern.FindStringSubmatch(line.text)
		if match == nil || current == nil {
			continue
		}

		key := strings.TrimSpace(match[1])
		current.addValue(key, strings.TrimSpace(match[2]))
		if len(pending) > 0 {
			current.KeyComments[key] = append(current.KeyComments[key], pending...)
			pending = nil
		}
	}

	if len(pending) > 0 && len(sections) > 0 {
		last := sections[len(sections)-1]
		last.Comments = append(last.Comments, pending...)
	}

	return sections, nil
}

// INIToJSON converts a systemd INI document into a JSON document shaped by
// the schema: values are coerced to the directive's effective type, sections
// the schema declares as plain objects are merged into one, everything else
// becomes an array of section objects. Captured comments are carried in
// underscore-prefixed metadata keys.
func INIToJSON(reader io.Reader, schema Document) (Document, error) {
	sections, err := parseINI(reader)
	if err != nil {
		return nil, err
	}

	singletons := make(map[string]struct{})
	for name, raw := range schema.Properties() {
		if node := asObject(raw); node != nil && asString(node["type"]) == "object" {
			singletons[name] = struct{}{}
		}
	}

	grouped := make(map[string][]*iniSection)
	for _, section := range sections {
		grouped[section.Name] = append(grouped[section.Name], section)
	}

	out := make(Document, len(grouped))
	for name, group := range grouped {
		converted := make([]map[string]any, 0, len(group))
		for _, section := range group {
			converted = append(converted, convertSection(section, schema))
		}

		if _, singleton := singletons[name]; singleton {
			out[name] = mergeSectionObjects(converted)
		} else {
			values := make([]any, 0, len(converted))
			for _, object := range converted {
				values = append(values, object)
			}

			out[name] = values
		}
	}

	return out, nil
}

// convertSection coerces one parsed section block into a JSON object.
func convertSection(section *iniSection, schema Document) map[string]any {
	object := make(map[string]any, len(section.Order)+2)

	if len(section.Comments) > 0 {
		object[sectionCommentsKey] = toAnySlice(section.Comments)
	}

	if len(section.KeyComments) > 0 {
		comments := make(map[string]any, len(section.KeyComments))
		for key, values := range section.KeyComments {
			comments[key] = toAnySlice(values)
		}

		object[propertyCommentsKey] = comments
	}

	for _, key := range section.Order {
		typeDef := effectiveDirectiveType(schema, section.Name, key)

		itemDef := typeDef
		isArray := false
		if typeDef != nil && asString(typeDef["type"]) == "array" {
			isArray = true
			itemDef = asObject(typeDef["items"])
		}

		values := make([]any, 0, len(section.Values[key]))
		for _, raw := range section.Values[key] {
			values = append(values, coerceINIValue(raw, itemDef))
		}

		if len(values) > 1 || isArray {
			object[key] = values
		} else {
			object[key] = values[0]
		}
	}

	return object
}

// mergeSectionObjects folds repeated blocks of a singleton section into one
// object. A key declared in several blocks accumulates its values as a list.
func mergeSectionObjects(objects []map[string]any) map[string]any {
	merged := make(map[string]any)
	var comments []any
	propertyComments := make(map[string]any)

	for _, object := range objects {
		comments = append(comments, asSlice(object[sectionCommentsKey])...)
		for key, values := range asObject(object[propertyCommentsKey]) {
			propertyComments[key] = append(asSlice(propertyComments[key]), asSlice(values)...)
		}

		for key, value := range object {
			if strings.HasPrefix(key, "_") {
				continue
			}

			existing, ok := merged[key]
			if !ok {
				merged[key] = value
				continue
			}

			list, isList := existing.([]any)
			if !isList {
				list = []any{existing}
			}

			merged[key] = append(list, value)
		}
	}

	if len(comments) > 0 {
		merged[sectionCommentsKey] = comments
	}

	if len(propertyComments) > 0 {
		merged[propertyCommentsKey] = propertyComments
	}

	return merged
}

// effectiveDirectiveType resolves one directive to its concrete type schema,
// unwrapping the section's combinator wrapper and the directive's
// allOf/$ref indirection. Unknown sections or directives yield nil and the
// value stays a string.
func effectiveDirectiveType(schema Document, sectionName, key string) map[string]any {
	definitions := schema.Definitions()
	sectionNode, ok := resolveObjectNode(asObject(schema.Properties()[sectionName]), definitions)
	if !ok {
		return nil
	}

	directive := asObject(asObject(sectionNode["properties"])[key])
	return effectiveType(directive, definitions, 0)
}

// effectiveType follows allOf wrappers and local refs to the concrete type.
func effectiveType(node map[string]any, definitions map[string]any, depth int) map[string]any {
	if node == nil || depth > maxUnwrapDepth {
		return nil
	}

	if wrapped := asSlice(node["allOf"]); len(wrapped) > 0 {
		return effectiveType(asObject(wrapped[0]), definitions, depth+1)
	}

	if ref := asString(node["$ref"]); ref != "" {
		return effectiveType(localDefinition(ref, definitions), definitions, depth+1)
	}

	return node
}

// coerceINIValue converts one raw INI value to the schema's type. Values
// that do not parse keep their string form, matching systemd's lenient
// reading.
func coerceINIValue(raw string, typeDef map[string]any) any {
	if typeDef == nil {
		return raw
	}

	switch asString(typeDef["type"]) {
	case "boolean":
		switch strings.ToLower(raw) {
		case "1", "yes", "true", "on":
			return true
		case "0", "no", "false", "off":
			return false
		}

		return raw
	case "integer":
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return value
		}

		return raw
	default:
		return raw
	}
}

// iniSectionOrder is the conventional section ordering for written files;
// unlisted sections follow alphabetically.
var iniSectionOrder = []string{"Match", "Link", "Network", "Address", "Route", "DHCPServer", "DHCPv4", "DHCPv6"}

// JSONToINI renders a converted JSON document back to systemd INI. Singleton
// objects emit one block, arrays emit one block per element, list values
// repeat the key line, booleans become yes/no. Comment metadata keys are not
// written back.
func JSONToINI(doc Document, out io.Writer) error {
	names := sortedKeys(doc)
	sort.SliceStable(names, func(i, j int) bool {
		left, right := iniSectionRank(names[i]), iniSectionRank(names[j])
		if left != right {
			return left < right
		}

		return names[i] < names[j]
	})

	first := true
	for _, name := range names {
		switch content := doc[name].(type) {
		case map[string]any:
			if err := writeINISection(out, name, content, &first); err != nil {
				return err
			}
		case []any:
			for _, item := range content {
				object := asObject(item)
				if object == nil {
					return fmt.Errorf("%w: section %q element is not an object", ErrEncodeINI, name)
				}

				if err := writeINISection(out, name, object, &first); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: section %q is neither object nor array", ErrEncodeINI, name)
		}
	}

	return nil
}

// iniSectionRank maps a section name to its conventional position.
func iniSectionRank(name string) int {
	for i, candidate := range iniSectionOrder {
		if candidate == name {
			return i
		}
	}

	return len(iniSectionOrder)
}

// writeINISection writes one [Section] block.
func writeINISection(out io.Writer, name string, object map[string]any, first *bool) error {
	if !*first {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("%w: %w", ErrEncodeINI, err)
		}
	}
	*first = false

	if _, err := fmt.Fprintf(out, "[%s]\n", name); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeINI, err)
	}

	for _, key := range sortedKeys(object) {
		if strings.HasPrefix(key, "_") {
			continue
		}

		values, ok := object[key].([]any)
		if !ok {
			values = []any{object[key]}
		}

		for _, value := range values {
			if _, err := fmt.Fprintf(out, "%s=%s\n", key, formatINIValue(value)); err != nil {
				return fmt.Errorf("%w: %w", ErrEncodeINI, err)
			}
		}
	}

	return nil
}

// formatINIValue renders one JSON value as an INI value string.
func formatINIValue(value any) string {
	switch typed := value.(type) {
	case bool:
		return yesNo(typed)
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
