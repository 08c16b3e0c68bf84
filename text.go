// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiReplacer rewrites typographic punctuation the NFKD fold cannot map.
var asciiReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "“", `"`, "”", `"`, "‟", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "--",
	"…", "...", " ", " ",
)

// asciiFolder strips combining marks after NFKD decomposition.
var asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var (
	spaceBeforeDotPattern = regexp.MustCompile(`\s+\.`)
	whitespaceRunPattern  = regexp.MustCompile(`\s+`)
)

// foldASCII converts text to plain ASCII: smart quotes, dashes, ellipsis and
// no-break spaces are rewritten, then accented characters are decomposed and
// any remaining non-ASCII runes dropped.
func foldASCII(text string) string {
	if text == "" {
		return ""
	}

	text = asciiReplacer.Replace(text)
	if folded, _, err := transform.String(asciiFolder, text); err == nil {
		text = folded
	}

	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if r < 128 {
			out.WriteRune(r)
		}
	}

	return out.String()
}

// cleanWhitespace folds text to ASCII and collapses whitespace runs,
// including runs that precede a period.
func cleanWhitespace(text string) string {
	if text == "" {
		return ""
	}

	text = foldASCII(text)
	text = spaceBeforeDotPattern.ReplaceAllString(text, ".")
	return strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(text, " "))
}
