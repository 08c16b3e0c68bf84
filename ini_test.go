// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"reflect"
	"strings"
	"testing"
)

// iniTestSchema declares Network as a singleton section and Address as a
// repeatable one, with enough typed directives to exercise coercion.
func iniTestSchema(t *testing.T) Document {
	t.Helper()

	return mustParseDoc(t, `{
		"definitions": {
			"ip_prefix": {"type": "string"}
		},
		"properties": {
			"Network": {
				"type": "object",
				"properties": {
					"DHCP": {"type": "boolean"},
					"MTUBytes": {"type": "integer"},
					"DNS": {"type": "array", "items": {"type": "string"}},
					"Description": {"type": "string"}
				}
			},
			"Address": {
				"oneOf": [
					{"type": "array", "items": {"type": "object", "properties": {
						"Address": {"allOf": [{"$ref": "#/definitions/ip_prefix"}]}
					}}},
					{"type": "object", "properties": {
						"Address": {"allOf": [{"$ref": "#/definitions/ip_prefix"}]}
					}}
				]
			}
		}
	}`)
}

func TestINIToJSONTypedSingleton(t *testing.T) {
	t.Parallel()

	input := `[Network]
DHCP=yes
MTUBytes=1500
DNS=10.0.0.1
Description=uplink
`

	doc, err := INIToJSON(strings.NewReader(input), iniTestSchema(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := map[string]any{
		"DHCP":        true,
		"MTUBytes":    int64(1500),
		"DNS":         []any{"10.0.0.1"},
		"Description": "uplink",
	}
	if !reflect.DeepEqual(doc["Network"], want) {
		t.Fatalf("Network = %v, want %v", doc["Network"], want)
	}
}

func TestINIToJSONRepeatableSections(t *testing.T) {
	t.Parallel()

	input := `[Address]
Address=10.0.0.2/24

[Address]
Address=fd00::2/64
`

	doc, err := INIToJSON(strings.NewReader(input), iniTestSchema(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	want := []any{
		map[string]any{"Address": "10.0.0.2/24"},
		map[string]any{"Address": "fd00::2/64"},
	}
	if !reflect.DeepEqual(doc["Address"], want) {
		t.Fatalf("Address = %v, want %v", doc["Address"], want)
	}
}

func TestINIToJSONMergesSingletonBlocks(t *testing.T) {
	t.Parallel()

	input := `[Network]
DNS=10.0.0.1

[Network]
DHCP=no
DNS=10.0.0.2
`

	doc, err := INIToJSON(strings.NewReader(input), iniTestSchema(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	network := asObject(doc["Network"])
	if network["DHCP"] != false {
		t.Fatalf("DHCP = %v, want false", network["DHCP"])
	}

	want := []any{[]any{"10.0.0.1"}, []any{"10.0.0.2"}}
	if !reflect.DeepEqual(network["DNS"], want) {
		t.Fatalf("DNS = %v, want %v", network["DNS"], want)
	}
}

func TestINIToJSONCapturesComments(t *testing.T) {
	t.Parallel()

	input := `# uplink profile
[Network]
; switch after migration
DHCP=yes
`

	doc, err := INIToJSON(strings.NewReader(input), iniTestSchema(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	network := asObject(doc["Network"])
	if !reflect.DeepEqual(network[sectionCommentsKey], []any{"# uplink profile"}) {
		t.Fatalf("section comments = %v", network[sectionCommentsKey])
	}

	keyComments := asObject(network[propertyCommentsKey])
	if !reflect.DeepEqual(keyComments["DHCP"], []any{"; switch after migration"}) {
		t.Fatalf("key comments = %v", keyComments)
	}
}

func TestINIToJSONLenientValues(t *testing.T) {
	t.Parallel()

	// Unparseable typed values keep their string form.
	input := `[Network]
DHCP=ipv4
MTUBytes=jumbo
`

	doc, err := INIToJSON(strings.NewReader(input), iniTestSchema(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	network := asObject(doc["Network"])
	if network["DHCP"] != "ipv4" || network["MTUBytes"] != "jumbo" {
		t.Fatalf("Network = %v", network)
	}
}

func TestLogicalLinesContinuation(t *testing.T) {
	t.Parallel()

	input := `[Service]
ExecStart=/bin/echo \
# swallowed inside the continuation
  hello \
  world
# kept
`

	lines, err := logicalLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := []logicalLine{
		{text: "[Service]"},
		{text: "ExecStart=/bin/echo hello world"},
		{comment: true, text: "# kept"},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %+v, want %+v", lines, want)
	}
}

func TestParseINIAttachesTrailingComments(t *testing.T) {
	t.Parallel()

	input := `[Match]
Name=eth0
# trailing remark
`

	sections, err := parseINI(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(sections) != 1 {
		t.Fatalf("sections = %+v", sections)
	}

	if !reflect.DeepEqual(sections[0].Comments, []string{"# trailing remark"}) {
		t.Fatalf("comments = %v", sections[0].Comments)
	}
}

func TestJSONToINIOrderingAndFormatting(t *testing.T) {
	t.Parallel()

	doc := Document{
		"Bridge": []any{map[string]any{"VLANFiltering": true}},
		"Network": map[string]any{
			"DHCP":      false,
			"DNS":       []any{"10.0.0.1", "10.0.0.2"},
			"_comments": []any{"# not written back"},
		},
		"Match": map[string]any{"Name": "eth0"},
	}

	var out strings.Builder
	if err := JSONToINI(doc, &out); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `[Match]
Name=eth0

[Network]
DHCP=no
DNS=10.0.0.1
DNS=10.0.0.2

[Bridge]
VLANFiltering=yes
`
	if out.String() != want {
		t.Fatalf("output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestJSONToINIRejectsScalars(t *testing.T) {
	t.Parallel()

	err := JSONToINI(Document{"Network": "broken"}, &strings.Builder{})
	if err == nil {
		t.Fatal("scalar section must fail")
	}
}

func TestINIRoundTrip(t *testing.T) {
	t.Parallel()

	input := `[Match]
Name=eth0

[Network]
DHCP=yes
DNS=10.0.0.1
DNS=10.0.0.2
`

	schema := mustParseDoc(t, `{
		"properties": {
			"Match": {"type": "object", "properties": {"Name": {"type": "string"}}},
			"Network": {"type": "object", "properties": {
				"DHCP": {"type": "boolean"},
				"DNS": {"type": "array", "items": {"type": "string"}}
			}}
		}
	}`)

	doc, err := INIToJSON(strings.NewReader(input), schema)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	var out strings.Builder
	if err := JSONToINI(doc, &out); err != nil {
		t.Fatalf("render: %v", err)
	}

	if out.String() != input {
		t.Fatalf("round trip mismatch:\n%s\nwant:\n%s", out.String(), input)
	}
}
