// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleParserTable = `%{
#include "networkd-network.h"
%}
struct ConfigPerfItem;
%null_strings
%%
Match.Name,                  config_parse_match_ifnames,         0,             offsetof(Network, match.ifname)
Network.DHCP,                config_parse_dhcp,                  0,             offsetof(Network, dhcp)
Network.Address,             config_parse_address,               0,             0
Bond.Mode,                   config_parse_bond_mode,             0,             bond_mode
/* backwards compatibility: do not add new entries to this section */
Network.DHCPv4,              config_parse_dhcp,                  0,             offsetof(Network, dhcp)
`

func TestMineParserTableEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "src", "network")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path := filepath.Join(nested, "networkd-network-gperf.gperf")
	if err := os.WriteFile(path, []byte(sampleParserTable), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	entries, err := MineParserTable(dir, []string{"networkd-network-gperf.gperf"})
	if err != nil {
		t.Fatalf("mine: %v", err)
	}

	want := []ParserEntry{
		{Section: "Match", Key: "Name", ParserFunc: "config_parse_match_ifnames", Argument: "offsetof"},
		{Section: "Network", Key: "DHCP", ParserFunc: "config_parse_dhcp", Argument: "offsetof"},
		{Section: "Network", Key: "Address", ParserFunc: "config_parse_address", Argument: "0"},
		{Section: "Bond", Key: "Mode", ParserFunc: "config_parse_bond_mode", Argument: "bond_mode"},
		{Section: "Network", Key: "DHCPv4", ParserFunc: "config_parse_dhcp", Argument: "offsetof"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
}

func TestMineParserTableMissingFile(t *testing.T) {
	t.Parallel()

	entries, err := MineParserTable(t.TempDir(), []string{"absent.gperf"})
	if err != nil {
		t.Fatalf("missing table must not fail: %v", err)
	}

	if entries != nil {
		t.Fatalf("expected nil entries, got %+v", entries)
	}
}

func TestFindFileByNamePicksFirstCandidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "netdev-gperf.gperf"), nil, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	path := findFileByName(dir, []string{"netdev-gperf.gperf", "networkd-netdev-gperf.gperf"})
	if filepath.Base(path) != "netdev-gperf.gperf" {
		t.Fatalf("path = %q", path)
	}
}
