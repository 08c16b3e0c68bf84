// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import "strings"

// RetitleDocument replaces the trailing parenthesized version token of the
// document title with the target release, leaving the rest of the title
// untouched.
func RetitleDocument(doc Document, targetVersion string) {
	title := asString(doc["title"])
	if title == "" {
		return
	}

	base := strings.TrimSpace(strings.SplitN(title, "(", 2)[0])
	doc["title"] = base + " (" + targetVersion + ")"
}

// SetDocumentID assigns the caller-supplied canonical $id URL.
func SetDocumentID(doc Document, idURL string) {
	doc["$id"] = idURL
}

// RewriteDocLinks walks the document and rewrites every "documentation"
// hyperlink whose path encodes the old numeric release token with the new
// one. Version tokens carry a leading "v" ("v257"); the URL segment does
// not.
func RewriteDocLinks(doc Document, oldVersion, newVersion string) {
	oldToken := numericVersion(oldVersion)
	newToken := numericVersion(newVersion)
	if oldToken == "" || newToken == "" || oldToken == newToken {
		return
	}

	rewriteDocLinkValues(map[string]any(doc), oldToken, newToken)
}

// rewriteDocLinkValues recursively rewrites documentation values in place.
func rewriteDocLinkValues(value any, oldToken, newToken string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			if key == "documentation" {
				if url, ok := item.(string); ok {
					typed[key] = rewriteManPathVersion(url, oldToken, newToken)
					continue
				}
			}

			rewriteDocLinkValues(item, oldToken, newToken)
		}
	case []any:
		for _, item := range typed {
			rewriteDocLinkValues(item, oldToken, newToken)
		}
	}
}

// rewriteManPathVersion swaps the version segment of a man-page URL, a
// narrow string-template operation over the known "/man/<version>/" shape.
func rewriteManPathVersion(url, oldToken, newToken string) string {
	return strings.ReplaceAll(url, "/man/"+oldToken+"/", "/man/"+newToken+"/")
}

// numericVersion strips the leading "v" from a release token.
func numericVersion(version string) string {
	return strings.TrimPrefix(strings.TrimSpace(version), "v")
}
