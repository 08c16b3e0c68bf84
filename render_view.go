// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"errors"
	"slices"
	"strings"
)

// referenceView is the root view model passed to the reference template.
type referenceView struct {
	Title        string
	SourceSchema string
	SchemaID     string
	Sections     []sectionView
}

// sectionView represents one configuration section chapter.
type sectionView struct {
	Name        string
	Description string
	Repeatable  bool
	Directives  []directiveView
}

// directiveView represents one directive entry inside a section.
type directiveView struct {
	Heading      string
	Name         string
	TypeLabel    string
	Required     bool
	Default      string
	Enum         string
	VersionAdded string
	Description  string
}

// buildReferenceView prepares data for reference template rendering.
func buildReferenceView(doc Document, opt RenderOptions) (referenceView, error) {
	props := doc.Properties()
	if len(props) == 0 {
		return referenceView{}, errors.New("schema has no sections to render")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = asString(doc["title"])
	}

	if title == "" {
		title = "configuration reference"
	}

	sourcePath := strings.TrimSpace(opt.SourcePath)
	if sourcePath == "" {
		sourcePath = "(memory)"
	}

	wrapWidth := opt.WrapWidth
	if wrapWidth <= 0 {
		wrapWidth = defaultWrapWidth
	}

	definitions := doc.Definitions()
	view := referenceView{
		Title:        sanitizeText(title),
		SourceSchema: escapeInline(sourcePath),
		SchemaID:     escapeInline(orNone(asString(doc["$id"]))),
		Sections:     make([]sectionView, 0, len(props)),
	}

	for _, name := range sortedKeys(props) {
		wrapper := asObject(props[name])
		if wrapper == nil {
			continue
		}

		node, ok := resolveObjectNode(wrapper, definitions)
		if !ok {
			continue
		}

		section := sectionView{
			Name:        escapeInline(name),
			Description: formatDescription(asString(wrapper["description"]), wrapWidth),
			Repeatable:  len(asSlice(wrapper["oneOf"])) > 0,
		}

		directives := asObject(node["properties"])
		required := requiredNames(node)
		order := directiveOrder(required, directives)
		section.Directives = make([]directiveView, 0, len(order))

		for _, key := range order {
			directive := asObject(directives[key])
			section.Directives = append(section.Directives, buildDirectiveView(name, key, directive, required, wrapWidth))
		}

		view.Sections = append(view.Sections, section)
	}

	if len(view.Sections) == 0 {
		return referenceView{}, errors.New("schema has no renderable sections")
	}

	return view, nil
}

// buildDirectiveView renders one directive schema into its view entry. Value
// facts (type, default, enum) are read through the allOf wrapper when the
// directive carries sibling metadata next to a $ref.
func buildDirectiveView(section, key string, directive map[string]any, required []string, wrapWidth int) directiveView {
	view := directiveView{
		Heading:  escapeInline(section + "." + key),
		Name:     escapeInline(key),
		Required: slices.Contains(required, key),
	}

	if directive == nil {
		view.TypeLabel = "Unknown/Generic"
		return view
	}

	view.TypeLabel = resolveTypeLabel(directive)
	view.Description = formatDescription(asString(directive["description"]), wrapWidth)
	view.VersionAdded = escapeInline(asString(directive["version_added"]))

	facts := directiveFacts(directive)
	if value, ok := facts["default"]; ok {
		view.Default = "`" + escapeInline(mustJSONInline(value)) + "`"
	}

	if values := asSlice(facts["enum"]); len(values) > 0 {
		view.Enum = jsonList(values)
	}

	return view
}

// directiveFacts returns the schema object holding value facts, looking
// through a single allOf wrapper level.
func directiveFacts(directive map[string]any) map[string]any {
	if wrapped := asSlice(directive["allOf"]); len(wrapped) > 0 {
		if inner := asObject(wrapped[0]); inner != nil {
			return inner
		}
	}

	if items := asObject(directive["items"]); items != nil {
		if _, ok := directive["enum"]; !ok {
			if _, hasEnum := items["enum"]; hasEnum {
				return items
			}
		}
	}

	return directive
}

// requiredNames extracts the required directive list from a section node.
func requiredNames(node map[string]any) []string {
	raw := asSlice(node["required"])
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		if name := asString(value); name != "" {
			out = append(out, name)
		}
	}

	return out
}

// directiveOrder returns required directives first in declaration order,
// then the rest sorted.
func directiveOrder(required []string, directives map[string]any) []string {
	if len(directives) == 0 {
		return nil
	}

	out := make([]string, 0, len(directives))
	seen := make(map[string]struct{}, len(directives))

	for _, name := range required {
		if _, ok := directives[name]; !ok {
			continue
		}

		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, name := range sortedKeys(directives) {
		if _, exists := seen[name]; exists {
			continue
		}

		out = append(out, name)
	}

	return out
}
