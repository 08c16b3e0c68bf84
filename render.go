// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"fmt"
	"strings"
)

const (
	// defaultWrapWidth wraps directive description paragraphs at this width.
	defaultWrapWidth = 80
)

// RenderOptions controls reference rendering.
type RenderOptions struct {
	// Title overrides the document title; empty uses the schema title.
	Title string
	// SourcePath is shown in the metadata block; empty shows "(memory)".
	SourcePath string
	// WrapWidth wraps description paragraphs; zero or negative uses the
	// default width.
	WrapWidth int
	// TemplateText overrides the built-in reference template.
	TemplateText string
}

// RenderReferenceFile reads a curated schema from file and renders its
// CommonMark directive reference.
func RenderReferenceFile(path string, opt RenderOptions) (string, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(opt.SourcePath) == "" {
		opt.SourcePath = path
	}

	return RenderReference(doc, opt)
}

// RenderReference converts one curated schema document into a deterministic
// CommonMark directive reference: one chapter per section, one entry per
// directive with its type, default, accepted values and the release that
// introduced it.
func RenderReference(doc Document, opt RenderOptions) (string, error) {
	view, err := buildReferenceView(doc, opt)
	if err != nil {
		return "", err
	}

	markdownTemplate, err := resolveReferenceTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := markdownTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteTemplate, err)
	}

	return ensureTrailingNewline(normalizeMarkdownOutput(out.String())), nil
}
