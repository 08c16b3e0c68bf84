// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// orNone renders empty metadata values as explicit (none) marker.
func orNone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(none)"
	}

	return value
}

// mustJSONInline marshals values as single-line JSON text for markdown snippets.
func mustJSONInline(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return string(data)
}

// sanitizeText trims and squashes repeated whitespace in plain text fields.
func sanitizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	return strings.Join(strings.Fields(text), " ")
}

// formatDescription wraps one plain description paragraph for markdown.
// Mined prose is always a single paragraph, so no structured-markdown
// handling is needed here.
func formatDescription(text string, wrapWidth int) string {
	return strings.Join(wrapParagraph(sanitizeText(text), wrapWidth), "\n")
}

// wrapParagraph wraps one plain paragraph to max rune width.
func wrapParagraph(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	out := make([]string, 0, 2)
	current := words[0]
	currentLen := utf8.RuneCountInString(current)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= width {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}

		out = append(out, current)
		current = word
		currentLen = wordLen
	}

	out = append(out, current)
	return out
}

// normalizeMarkdownOutput collapses extra blank lines in rendered output.
func normalizeMarkdownOutput(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	blankCount := 0
	for _, rawLine := range lines {
		line := strings.TrimRight(rawLine, " \t")
		if strings.TrimSpace(line) == "" {
			if blankCount == 0 {
				out = append(out, "")
			}

			blankCount++
			continue
		}

		blankCount = 0
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// escapeInline escapes backticks in inline code markdown segments.
func escapeInline(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

// ensureTrailingNewline guarantees exactly one trailing newline in output.
func ensureTrailingNewline(value string) string {
	value = strings.TrimRight(value, "\n")
	return value + "\n"
}

// yesNo renders bool as "yes" or "no".
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

// jsonList renders JSON values list into comma-separated inline code tokens.
func jsonList(values []any) string {
	parts := make([]string, 0, len(values))
	for _, item := range values {
		parts = append(parts, fmt.Sprintf("`%s`", escapeInline(mustJSONInline(item))))
	}

	return strings.Join(parts, ", ")
}
