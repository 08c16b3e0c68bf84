// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// xincludeNamespace is the XInclude namespace used by systemd man pages for
// "introduced in version N" pointers.
const xincludeNamespace = "http://www.w3.org/2001/XInclude"

// globalSection is the pseudo-section collecting the first definition of
// every key across all sections, used as a documentation fallback when a
// parser-table key has no entry under its own section.
const globalSection = "Global"

// DocEntry is one mined documentation record for a directive.
type DocEntry struct {
	// Description is the cleaned plain-text prose for the directive.
	Description string
	// VersionAdded is the systemd version that introduced the directive,
	// without the leading "v", or empty when unknown.
	VersionAdded string
}

// DocIndex maps section name to directive key to documentation entry.
type DocIndex map[string]map[string]DocEntry

// lookup returns the entry for a section/key pair, falling back to the
// Global pseudo-section.
func (docs DocIndex) lookup(section, key string) DocEntry {
	if entry, ok := docs[section][key]; ok {
		return entry
	}

	return docs[globalSection][key]
}

// set stores an entry and mirrors the first definition into Global.
func (docs DocIndex) set(section, key string, entry DocEntry) {
	if docs[section] == nil {
		docs[section] = make(map[string]DocEntry)
	}

	docs[section][key] = entry

	if docs[globalSection] == nil {
		docs[globalSection] = make(map[string]DocEntry)
	}

	if _, ok := docs[globalSection][key]; !ok {
		docs[globalSection][key] = entry
	}
}

// xmlElement is one parsed XML element preserving interleaved text and
// child ordering, which plain struct decoding loses.
type xmlElement struct {
	name     xml.Name
	attrs    []xml.Attr
	children []xmlChild
}

// xmlChild is either character data or a nested element.
type xmlChild struct {
	text string
	elem *xmlElement
}

// sectionTitlePattern extracts the bracketed section name from a subsection
// title such as "[Network] Section Options".
var sectionTitlePattern = regexp.MustCompile(`\[([a-zA-Z0-9]+)\]`)

// termKeyPattern extracts one directive name from a term such as "Name=".
var termKeyPattern = regexp.MustCompile(`([A-Za-z0-9]+)=`)

// versionPointerPattern matches version-info xpointer values such as "v211".
var versionPointerPattern = regexp.MustCompile(`^v(\d+)$`)

// MineManPage parses one DocBook man page into a documentation index. A
// missing file yields an empty index; a malformed document is reported on
// warn and also degrades to an empty index, so the caller's release loop
// never stops on documentation problems.
func MineManPage(path string, warn io.Writer) DocIndex {
	docs := make(DocIndex)

	file, err := os.Open(path)
	if err != nil {
		return docs
	}
	defer func() {
		_ = file.Close()
	}()

	root, err := parseXMLTree(file)
	if err != nil {
		fmt.Fprintf(warn, "XML parse warning for %s: %v\n", path, err)
		return docs
	}

	for _, refsect := range findElements(root, "refsect1") {
		section := globalSection
		if title := firstElement(refsect, "title"); title != nil {
			if match := sectionTitlePattern.FindStringSubmatch(textContent(title)); match != nil {
				section = match[1]
			}
		}

		for _, entry := range findElements(refsect, "varlistentry") {
			term := firstElement(entry, "term")
			item := firstElement(entry, "listitem")
			if term == nil || item == nil {
				continue
			}

			record := DocEntry{
				Description:  listItemDescription(item),
				VersionAdded: listItemVersion(item),
			}

			rawTerm := foldASCII(strings.TrimSpace(semanticText(term)))
			for _, part := range strings.Split(rawTerm, ",") {
				match := termKeyPattern.FindStringSubmatch(part)
				if match == nil {
					continue
				}

				docs.set(section, match[1], record)
			}
		}
	}

	return docs
}

// listItemDescription joins all paragraph text of one definition entry.
func listItemDescription(item *xmlElement) string {
	parts := make([]string, 0, 4)
	for _, para := range findElements(item, "para") {
		parts = append(parts, foldASCII(semanticText(para)))
	}

	return cleanWhitespace(strings.Join(parts, " "))
}

// listItemVersion extracts the "introduced in version N" marker from an
// XInclude version pointer inside one definition entry.
func listItemVersion(item *xmlElement) string {
	for _, include := range findElements(item, "include") {
		if include.name.Space != xincludeNamespace {
			continue
		}

		for _, attr := range include.attrs {
			if attr.Name.Local != "xpointer" {
				continue
			}

			if match := versionPointerPattern.FindStringSubmatch(attr.Value); match != nil {
				return match[1]
			}
		}
	}

	return ""
}

// quotedInlineTags lists DocBook inline markup whose content carries a value
// literal; the text is re-quoted so enum and default mining keep the cue.
var quotedInlineTags = map[string]struct{}{
	"literal":  {},
	"constant": {},
	"option":   {},
	"filename": {},
}

// semanticText flattens one element to plain text, re-quoting value-literal
// inline markup and preserving the original text/child interleaving.
func semanticText(elem *xmlElement) string {
	var out strings.Builder
	for _, child := range elem.children {
		if child.elem == nil {
			out.WriteString(child.text)
			continue
		}

		text := semanticText(child.elem)
		if _, quoted := quotedInlineTags[child.elem.name.Local]; quoted &&
			!strings.HasPrefix(text, "'") && !strings.HasPrefix(text, `"`) {
			out.WriteString("'" + text + "'")
			continue
		}

		out.WriteString(text)
	}

	return out.String()
}

// textContent flattens one element to plain text without markup handling.
func textContent(elem *xmlElement) string {
	var out strings.Builder
	for _, child := range elem.children {
		if child.elem == nil {
			out.WriteString(child.text)
			continue
		}

		out.WriteString(textContent(child.elem))
	}

	return out.String()
}

// findElements returns all descendant elements with the given local name in
// document order.
func findElements(elem *xmlElement, local string) []*xmlElement {
	out := make([]*xmlElement, 0, 8)
	var walk func(node *xmlElement)
	walk = func(node *xmlElement) {
		for _, child := range node.children {
			if child.elem == nil {
				continue
			}

			if child.elem.name.Local == local {
				out = append(out, child.elem)
			}

			walk(child.elem)
		}
	}

	walk(elem)
	return out
}

// firstElement returns the first descendant with the given local name.
func firstElement(elem *xmlElement, local string) *xmlElement {
	found := findElements(elem, local)
	if len(found) == 0 {
		return nil
	}

	return found[0]
}

// parseXMLTree decodes an XML document into an order-preserving element
// tree. Decoding is lenient: DocBook entity references that the tokenizer
// cannot resolve are kept as literal text instead of failing the document.
func parseXMLTree(reader io.Reader) (*xmlElement, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	root := &xmlElement{}
	stack := []*xmlElement{root}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeManPage, err)
		}

		switch typed := token.(type) {
		case xml.StartElement:
			elem := &xmlElement{name: typed.Name, attrs: typed.Copy().Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, xmlChild{elem: elem})
			stack = append(stack, elem)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, xmlChild{text: string(typed)})
		}
	}

	if len(root.children) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDecodeManPage)
	}

	return root, nil
}
