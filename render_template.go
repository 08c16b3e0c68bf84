// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"
)

// templateFS stores the built-in reference template embedded into the package.
//
//go:embed templates/*.md.gotmpl
var templateFS embed.FS

// referenceTemplatePath is the embedded built-in reference template.
const referenceTemplatePath = "templates/reference.md.gotmpl"

// resolveReferenceTemplate resolves either custom or built-in template text
// into a parsed template.
func resolveReferenceTemplate(opt RenderOptions) (*template.Template, error) {
	templateText := strings.TrimSpace(opt.TemplateText)
	if templateText != "" {
		parsed, err := template.New("custom").Funcs(templateFuncs()).Parse(templateText)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
		}

		return parsed, nil
	}

	data, err := templateFS.ReadFile(referenceTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	parsed, err := template.New("reference").Funcs(templateFuncs()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	return parsed, nil
}

// templateFuncs provides utility functions available inside markdown templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"yesNo":         yesNo,
		"headingAnchor": markdownHeadingAnchor,
	}
}

// markdownHeadingAnchor converts heading text into a markdown anchor slug.
func markdownHeadingAnchor(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(trimmed))

	lastDash := false
	for _, r := range trimmed {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			out.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r), r == '-', r == '_':
			if lastDash || out.Len() == 0 {
				continue
			}

			out.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(out.String(), "-")
}
