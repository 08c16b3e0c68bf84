// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// draft7MetaSchema is the $schema URL every produced document must declare.
const draft7MetaSchema = "http://json-schema.org/draft-07/schema#"

// ValidateDocument checks that a produced document is a well-formed Draft-07
// schema: the expected structural envelope is present and the whole document
// compiles, which verifies every local $ref resolves and every keyword is
// syntactically valid.
func ValidateDocument(doc Document) error {
	if asString(doc["$schema"]) != draft7MetaSchema {
		return fmt.Errorf("%w: missing or unexpected $schema declaration", ErrValidateSchema)
	}

	if doc.Definitions() == nil {
		return fmt.Errorf("%w: missing definitions block", ErrValidateSchema)
	}

	if doc.Properties() == nil {
		return fmt.Errorf("%w: missing top-level properties", ErrValidateSchema)
	}

	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("schema.json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrValidateSchema, err)
	}

	if _, err := compiler.Compile("schema.json"); err != nil {
		return fmt.Errorf("%w: %w", ErrValidateSchema, err)
	}

	return nil
}

// ValidateFile loads and validates one schema document from disk.
func ValidateFile(path string) error {
	doc, err := LoadDocument(path)
	if err != nil {
		return err
	}

	if err := ValidateDocument(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
