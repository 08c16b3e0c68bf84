// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

// singletonSections lists sections that may appear at most once per file.
// They are emitted as plain object schemas; everything else is wrapped in a
// oneOf accepting either a single object or an array of objects.
var singletonSections = map[string]struct{}{
	"Match":   {},
	"Network": {},
	"Link":    {},
	"NetDev":  {},
	"System":  {},
	"General": {},
}

// listParsers names parser functions whose values accumulate into lists.
var listParsers = map[string]struct{}{
	"config_parse_strv":           {},
	"config_parse_list":           {},
	"config_parse_dns_servers":    {},
	"config_parse_ntp_servers":    {},
	"config_parse_search_domains": {},
	"config_parse_syscall_filter": {},
}

// sectionKey addresses one directive within a section.
type sectionKey struct {
	Section string
	Key     string
}

// forceListItems marks directives that repeat in practice even though their
// parser function is scalar.
var forceListItems = map[sectionKey]struct{}{
	{"Network", "Address"}:     {},
	{"Network", "Gateway"}:     {},
	{"Network", "DNS"}:         {},
	{"Network", "NTP"}:         {},
	{"Network", "Domains"}:     {},
	{"Network", "BindCarrier"}: {},
	{"Network", "Bridge"}:      {},
}

// sharedDefinitions is the fixed primitive-type dictionary emitted into the
// definitions block of every generated document, referenced or not, so that
// $ref targets stay stable across releases.
func sharedDefinitions() map[string]any {
	return map[string]any{
		"mac_address": map[string]any{
			"type":        "string",
			"description": "MAC Address (Hex separated by colons or hyphens)",
			"pattern":     "^([0-9a-fA-F]{2}[:-]){5}([0-9a-fA-F]{2})$",
			"title":       "MAC Address",
		},
		"ipv4_address": map[string]any{
			"type":        "string",
			"description": "IPv4 Address",
			"format":      "ipv4",
			"title":       "IPv4 Address",
		},
		"ipv6_address": map[string]any{
			"type":        "string",
			"description": "IPv6 Address",
			"format":      "ipv6",
			"title":       "IPv6 Address",
		},
		"ip_address": map[string]any{
			"description": "IPv4 or IPv6 Address",
			"oneOf": []any{
				map[string]any{"$ref": "#/definitions/ipv4_address"},
				map[string]any{"$ref": "#/definitions/ipv6_address"},
			},
			"title": "IP Address",
		},
		"ipv4_prefix": map[string]any{
			"type":        "string",
			"description": "IPv4 Address with Prefix Length (CIDR), e.g., 192.168.1.1/24",
			"pattern":     "^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\\/(3[0-2]|[1-2]?[0-9]|[0-9])$",
			"title":       "IPv4 Prefix",
		},
		"ipv6_prefix": map[string]any{
			"type":        "string",
			"description": "IPv6 Address with Prefix Length (CIDR), e.g., 2001:db8::1/64",
			"pattern":     "^([0-9a-fA-F]{1,4}:){1,7}:?([0-9a-fA-F]{1,4}:?)*\\/(12[0-8]|1[0-1][0-9]|[1-9]?[0-9]|[0-9])$",
			"title":       "IPv6 Prefix",
		},
		"ip_prefix": map[string]any{
			"description": "IPv4 or IPv6 Prefix (CIDR)",
			"oneOf": []any{
				map[string]any{"$ref": "#/definitions/ipv4_prefix"},
				map[string]any{"$ref": "#/definitions/ipv6_prefix"},
			},
			"title": "IP Prefix",
		},
		"filename": map[string]any{
			"type":        "string",
			"description": "Filesystem path",
			"format":      "uri-reference",
			"title":       "Filename",
		},
		"seconds": map[string]any{
			"type":        "string",
			"pattern":     "^[0-9]+(\\.[0-9]+)?(us|ms|s|min|h|d|w|M|y)?$",
			"description": "Time duration (e.g. 5s, 1min, 500ms)",
			"title":       "Seconds",
		},
		"bytes": map[string]any{
			"description": "Size in bytes (Integer or String with suffix B, K, M, G, T, P, E)",
			"oneOf": []any{
				map[string]any{"type": "integer", "minimum": 0},
				map[string]any{"type": "string", "pattern": "^[0-9]+(\\s*[KMGTPE]i?B?)?$"},
			},
			"title": "Bytes",
		},
	}
}

// parserTypeMap maps gperf parser function names to schema fragment shapes.
// A Ref entry points into the shared definitions dictionary; otherwise
// Fragment is copied verbatim as the starting schema.
type parserType struct {
	Ref      string
	Fragment map[string]any
}

// parserTypes is the direct parser-function lookup, the first inference rule.
var parserTypes = map[string]parserType{
	"config_parse_bool":     {Fragment: map[string]any{"type": "boolean"}},
	"config_parse_tristate": {Fragment: map[string]any{"type": "boolean"}},
	"config_parse_unsigned": {Fragment: map[string]any{"type": "integer", "minimum": 0}},
	"config_parse_int":      {Fragment: map[string]any{"type": "integer"}},
	"config_parse_ip_port":  {Fragment: map[string]any{"type": "integer", "minimum": 0, "maximum": 65535}},
	"config_parse_mtu":      {Fragment: map[string]any{"type": "integer", "minimum": 68}},
	"config_parse_mode":     {Fragment: map[string]any{"type": "string", "pattern": "^[0-7]{3,4}$"}},

	"config_parse_iec_size":   {Ref: "bytes"},
	"config_parse_si_size":    {Ref: "bytes"},
	"config_parse_bytes_size": {Ref: "bytes"},

	"config_parse_mac_addr":         {Ref: "mac_address"},
	"config_parse_hwaddr":           {Ref: "mac_address"},
	"config_parse_ipv4_addr":        {Ref: "ipv4_address"},
	"config_parse_ipv6_addr":        {Ref: "ipv6_address"},
	"config_parse_in_addr_non_null": {Ref: "ip_address"},
	"config_parse_in_addr_data":     {Ref: "ip_address"},
	"config_parse_in_addr_prefix":   {Ref: "ip_prefix"},
	"config_parse_sec":              {Ref: "seconds"},

	"config_parse_dns_servers": {Ref: "ip_address"},
	"config_parse_ntp_servers": {Ref: "ip_address"},
}

// keyNameHeuristic maps a key-name suffix to a definitions reference. The
// slice is ordered: more specific suffixes must come before suffixes they
// contain (MACAddress before Address).
type keyNameHeuristic struct {
	Suffix string
	Ref    string
}

// keyNameHeuristics is the key-name fallback used when the parser function
// and the description yield no specific type. Ref "string" means a plain
// string, not a definitions pointer.
var keyNameHeuristics = []keyNameHeuristic{
	{Suffix: "MACAddress", Ref: "mac_address"},
	{Suffix: "Address", Ref: "ip_address"},
	{Suffix: "Gateway", Ref: "ip_address"},
	{Suffix: "DNS", Ref: "ip_address"},
	{Suffix: "NTP", Ref: "ip_address"},
	{Suffix: "Destination", Ref: "ip_prefix"},
	{Suffix: "Description", Ref: "string"},
}
