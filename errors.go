// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import "errors"

var (
	// ErrReadSchemaFile is returned when a schema file cannot be loaded.
	ErrReadSchemaFile = errors.New("read schema file")
	// ErrDecodeSchema is returned when schema JSON decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrEncodeSchema is returned when schema JSON encoding fails.
	ErrEncodeSchema = errors.New("encode schema")
	// ErrWriteSchemaFile is returned when a schema file cannot be written.
	ErrWriteSchemaFile = errors.New("write schema file")
	// ErrCuratedShape is returned when a curated document has no top-level properties map.
	ErrCuratedShape = errors.New("curated document has no properties")
	// ErrDecodeManPage is returned when a DocBook man page cannot be tokenized.
	ErrDecodeManPage = errors.New("decode man page")
	// ErrCheckout is returned when the upstream source checkout fails.
	ErrCheckout = errors.New("checkout upstream source")
	// ErrDecodeDiff is returned when a serialized structural diff cannot be decoded.
	ErrDecodeDiff = errors.New("decode structural diff")
	// ErrValidateSchema is returned when a produced document fails meta-schema validation.
	ErrValidateSchema = errors.New("validate schema")
	// ErrExecuteTemplate is returned when reference template execution fails.
	ErrExecuteTemplate = errors.New("execute reference template")
	// ErrParseTemplate is returned when reference template parsing fails.
	ErrParseTemplate = errors.New("parse reference template")
	// ErrReadConfig is returned when pipeline configuration loading fails.
	ErrReadConfig = errors.New("read pipeline config")
	// ErrDecodeConfig is returned when pipeline configuration decoding fails.
	ErrDecodeConfig = errors.New("decode pipeline config")
	// ErrUnknownVersion is returned when a requested release is not in the configured list.
	ErrUnknownVersion = errors.New("unknown release version")
	// ErrDecodeINI is returned when an INI document cannot be interpreted.
	ErrDecodeINI = errors.New("decode ini document")
	// ErrEncodeINI is returned when a JSON document cannot be rendered as INI.
	ErrEncodeINI = errors.New("encode ini document")
)
