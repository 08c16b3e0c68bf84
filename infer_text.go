// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// enumIntroPattern detects the clause that introduces an accepted-values
// enumeration ("Takes one of ...", "Accepted values are ...").
var enumIntroPattern = regexp.MustCompile(`(?i)(?:Takes|Accepts|Values?|Defaults?|Supported)\s+(?:a|an|the)?\s*(?:\w+\s+){0,3}?(?:one of|:|are|following)(.*?)(\.|$)`)

var (
	enumQuotedPattern     = regexp.MustCompile(`['"]([^'"]+)['"]`)
	enumConjunctionFiller = regexp.MustCompile(`\s+(?:or|and)\s+`)
	enumIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9\-\._]+$`)
)

// extractEnum mines an accepted-values list out of description prose. The
// extraction is all-or-nothing: if any bare candidate fails the identifier
// character class the whole clause is rejected. On success the matched
// clause is removed from the returned description.
func extractEnum(text string) ([]string, string) {
	if text == "" {
		return nil, ""
	}

	match := enumIntroPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, text
	}

	content := match[1]
	values := make([]string, 0, 8)
	for _, quoted := range enumQuotedPattern.FindAllStringSubmatch(content, -1) {
		values = append(values, quoted[1])
	}

	if len(values) == 0 {
		flattened := enumConjunctionFiller.ReplaceAllString(content, ",")
		for _, candidate := range strings.FieldsFunc(flattened, func(r rune) bool { return r == ',' || r == '|' }) {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" {
				continue
			}

			if !enumIdentifierPattern.MatchString(candidate) {
				values = nil
				break
			}

			values = append(values, candidate)
		}
	}

	if len(values) == 0 {
		return nil, text
	}

	unique := make(map[string]struct{}, len(values))
	for _, value := range values {
		unique[value] = struct{}{}
	}

	out := make([]string, 0, len(unique))
	for value := range unique {
		out = append(out, value)
	}

	sort.Strings(out)
	cleaned := cleanWhitespace(strings.Replace(text, match[0], "", 1))
	return out, cleaned
}

var (
	rangeTakesDotsPattern  = regexp.MustCompile(`(?i)(?:Takes|Accepts|Must\s+be)\s+(?:a|an|the)?\s*(?:integer|number|value)?\s*(?:in\s+the\s+)?range\s+(?:of\s+)?(-?\d+)(?:\.\.\.|\.\.|…)(-?\d+)\.?`)
	rangeBetweenPattern    = regexp.MustCompile(`(?i)(?:Takes|Accepts|Must\s+be)\s+(?:a|an|the)?\s*(?:integer|number|value)\s*between\s+(-?\d+)\s+and\s+(-?\d+)\.?`)
	rangeStandalonePattern = regexp.MustCompile(`(?i)(?:^|\.\s+)Range\s+(?:of\s+)?(-?\d+)(?:\.\.\.|\.\.|…)(-?\d+)\.?`)
)

// extractRange mines an inclusive integer range out of description prose
// ("range 0...65535", "between X and Y"). On success the matched clause is
// removed from the returned description.
func extractRange(text string) (minimum, maximum int, cleaned string, ok bool) {
	if text == "" {
		return 0, 0, "", false
	}

	for _, pattern := range []*regexp.Regexp{rangeTakesDotsPattern, rangeBetweenPattern} {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		minimum, maximum, ok = parseRangeBounds(match[1], match[2])
		if !ok {
			continue
		}

		return minimum, maximum, cleanWhitespace(strings.Replace(text, match[0], "", 1)), true
	}

	if match := rangeStandalonePattern.FindStringSubmatch(text); match != nil {
		minimum, maximum, ok = parseRangeBounds(match[1], match[2])
		if ok {
			return minimum, maximum, cleanWhitespace(strings.Replace(text, match[0], ".", 1)), true
		}
	}

	return 0, 0, text, false
}

// parseRangeBounds converts both matched bound tokens to integers.
func parseRangeBounds(low, high string) (int, int, bool) {
	minimum, err := strconv.Atoi(low)
	if err != nil {
		return 0, 0, false
	}

	maximum, err := strconv.Atoi(high)
	if err != nil {
		return 0, 0, false
	}

	return minimum, maximum, true
}

// defaultValuePatterns capture the literal after "Defaults to" style clauses.
var defaultValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Defaults?\s+to\s+(?:the\s+)?['"]?([^\s"',]+)['"]?\.?`),
	regexp.MustCompile(`(?i)The\s+default\s+is\s+(?:the\s+)?['"]?([^\s"',]+)['"]?\.?`),
	regexp.MustCompile(`(?i)Default:\s+['"]?([^\s"',]+)['"]?\.?`),
}

// nonLiteralDefaults lists default tokens that describe absence, not a value.
var nonLiteralDefaults = map[string]struct{}{
	"unset": {}, "empty": {}, "none": {}, "n/a": {}, "ignored": {},
}

// extractDefault mines a "Defaults to X" literal from description prose and
// coerces it to the fragment's resolved type. A nil value means no usable
// default was found; obviously non-literal defaults are rejected. On success
// the matched clause is removed from the returned description so the same
// fact is never carried in both structure and prose.
func extractDefault(text, schemaType string) (any, string) {
	if text == "" {
		return nil, ""
	}

	var literal, matched string
	for _, pattern := range defaultValuePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		candidate := strings.TrimSpace(strings.TrimRight(match[1], "."))
		if _, bad := nonLiteralDefaults[strings.ToLower(candidate)]; !bad {
			literal = candidate
			matched = match[0]
		}

		break
	}

	if literal == "" {
		return nil, text
	}

	value := coerceDefault(literal, schemaType)
	if value == nil {
		return nil, text
	}

	return value, cleanWhitespace(strings.Replace(text, matched, "", 1))
}

// coerceDefault converts the mined default literal to the resolved type.
func coerceDefault(literal, schemaType string) any {
	switch schemaType {
	case "boolean":
		switch strings.ToLower(literal) {
		case "yes", "true", "on", "enabled", "1":
			return true
		case "no", "false", "off", "disabled", "0":
			return false
		}

		return nil
	case "integer":
		if value, err := strconv.Atoi(literal); err == nil && literal == strconv.Itoa(value) && value >= 0 {
			return value
		}

		return nil
	default:
		return literal
	}
}

// mandatoryPatterns detect prose that promotes a directive into the section's
// required list.
var mandatoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:is|are)\s+(?:mandatory|compulsory)\b`),
	regexp.MustCompile(`(?i)\bmust\s+be\s+specified\b`),
	regexp.MustCompile(`(?i)\bthis\s+option\s+is\s+required\b`),
	regexp.MustCompile(`(?i)\bsetting\s+is\s+required\b`),
}

// isMandatory reports whether the description marks the directive required.
func isMandatory(text string) bool {
	if text == "" {
		return false
	}

	for _, pattern := range mandatoryPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	return false
}

var booleanLeadPattern = regexp.MustCompile(`(?i)^Takes a boolean\s*(?:argument|value)?\.?`)

// refLeadTerms maps a definitions reference name to the leading clause its
// prose duplicates once the type is structural.
var refLeadTerms = map[string]string{
	"ipv4_address": `IPv4 address`,
	"ipv6_address": `IPv6 address`,
	"ip_address":   `IP address`,
	"mac_address":  `(?:MAC|hardware) address`,
	"filename":     `(?:file system )?path`,
	"seconds":      `time (?:span|duration|interval)`,
	"bytes":        `(?:size|value) in bytes`,
}

// cleanRedundantLead strips the leading type clause that the structured
// fragment already expresses, so the same fact is never mined twice.
func cleanRedundantLead(text, schemaType, refName string) string {
	if text == "" {
		return ""
	}

	switch {
	case schemaType == "boolean":
		text = booleanLeadPattern.ReplaceAllString(text, "")
	case refName != "":
		if term, ok := refLeadTerms[refName]; ok {
			pattern := regexp.MustCompile(`(?i)^Takes a\s+` + term + `\.?`)
			text = pattern.ReplaceAllString(text, "")
		}
	}

	return cleanWhitespace(text)
}

// descriptionRefRule maps a description pattern to a definitions reference.
type descriptionRefRule struct {
	Pattern *regexp.Regexp
	Ref     string
}

var descriptionBooleanPattern = regexp.MustCompile(`(?i)Takes a boolean`)

var descriptionRefRules = []descriptionRefRule{
	{regexp.MustCompile(`(?i)Takes an IPv4 address`), "ipv4_address"},
	{regexp.MustCompile(`(?i)Takes an IPv6 address`), "ipv6_address"},
	{regexp.MustCompile(`(?i)Takes an IP address`), "ip_address"},
	{regexp.MustCompile(`(?i)Takes a MAC address`), "mac_address"},
	{regexp.MustCompile(`(?i)Takes a path`), "filename"},
	{regexp.MustCompile(`(?i)in seconds`), "seconds"},
	{regexp.MustCompile(`(?i)in bytes`), "bytes"},
	{regexp.MustCompile(`(?i)suffixes K, M, G`), "bytes"},
}

// inferRefFromDescription guesses a type reference from description prose.
// It returns "boolean" for boolean prose, a definitions name for reference
// types, or "" when nothing matches.
func inferRefFromDescription(text string) string {
	if text == "" {
		return ""
	}

	if descriptionBooleanPattern.MatchString(text) {
		return "boolean"
	}

	for _, rule := range descriptionRefRules {
		if rule.Pattern.MatchString(text) {
			return rule.Ref
		}
	}

	return ""
}
