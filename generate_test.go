// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeSourceTree lays out a minimal systemd checkout with one parser table
// and one man page for the network family.
func writeSourceTree(t *testing.T) string {
	t.Helper()

	repoDir := t.TempDir()
	sourceDir := filepath.Join(repoDir, "src", "network")
	manDir := filepath.Join(repoDir, "man")
	for _, dir := range []string{sourceDir, manDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	gperf := `%%
Match.Name,     config_parse_match_ifnames, 0, 0
Network.DHCP,   config_parse_string,        0, 0
Network.Address, config_parse_in_addr_prefix, 0, 0
`
	if err := os.WriteFile(filepath.Join(sourceDir, "networkd-network-gperf.gperf"), []byte(gperf), 0o600); err != nil {
		t.Fatalf("write gperf: %v", err)
	}

	manPage := `<?xml version="1.0"?>
<refentry xmlns:xi="http://www.w3.org/2001/XInclude">
  <refsect1>
    <title>[Network] Section Options</title>
    <variablelist>
      <varlistentry>
        <term><varname>DHCP=</varname></term>
        <listitem>
          <para>Enables DHCP support.</para>
          <xi:include href="version-info.xml" xpointer="v211"/>
        </listitem>
      </varlistentry>
      <varlistentry>
        <term><varname>Gateway=</varname></term>
        <listitem>
          <para>Documented but absent from the parser table.</para>
        </listitem>
      </varlistentry>
    </variablelist>
  </refsect1>
</refentry>
`
	if err := os.WriteFile(filepath.Join(manDir, "systemd.network.xml"), []byte(manPage), 0o600); err != nil {
		t.Fatalf("write man page: %v", err)
	}

	return repoDir
}

func TestGenerateReleaseFromCheckout(t *testing.T) {
	t.Parallel()

	repoDir := writeSourceTree(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	var console strings.Builder
	results, err := GenerateRelease(context.Background(), GenerateOptions{
		Version:   "v257",
		OutputDir: outputDir,
		RepoDir:   repoDir,
	}, &console)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Only the network family has a parser table in the fixture tree.
	if len(results) != 1 || results[0].Name != "network" || !results[0].Written {
		t.Fatalf("results = %+v", results)
	}

	doc, err := LoadDocument(filepath.Join(outputDir, GeneratedFileName("network", "v257")))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}

	network, ok := resolveObjectNode(asObject(doc.Properties()["Network"]), doc.Definitions())
	if !ok {
		t.Fatalf("Network section missing: %v", doc.Properties())
	}

	directives := asObject(network["properties"])
	dhcp := asObject(directives["DHCP"])
	if asString(dhcp["description"]) != "Enables DHCP support." || asString(dhcp["version_added"]) != "211" {
		t.Fatalf("DHCP = %v", dhcp)
	}

	// Documentation-only keys of known sections are appended as strings.
	gateway := asObject(directives["Gateway"])
	if gateway == nil {
		t.Fatalf("documentation-only directive missing: %v", sortedKeys(directives))
	}

	if !strings.Contains(console.String(), "No parser table found for netdev, skipping") {
		t.Fatalf("console:\n%s", console.String())
	}

	if err := ValidateDocument(doc); err != nil {
		t.Fatalf("generated document must validate: %v", err)
	}
}

func TestGenerateReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	repoDir := writeSourceTree(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	opts := GenerateOptions{Version: "v257", OutputDir: outputDir, RepoDir: repoDir}
	if _, err := GenerateRelease(context.Background(), opts, &strings.Builder{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var console strings.Builder
	results, err := GenerateRelease(context.Background(), opts, &console)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if results[0].Written {
		t.Fatal("unchanged document must not be rewritten")
	}

	if !strings.Contains(console.String(), "(unchanged)") {
		t.Fatalf("console:\n%s", console.String())
	}
}

func TestGeneratedAndCuratedFileNames(t *testing.T) {
	t.Parallel()

	if got := GeneratedFileName("network", "v257"); got != "systemd.network.v257.schema.json" {
		t.Fatalf("generated name = %q", got)
	}

	if got := CuratedFileName("networkd.conf"); got != "systemd.networkd.conf.schema.json" {
		t.Fatalf("curated name = %q", got)
	}
}
