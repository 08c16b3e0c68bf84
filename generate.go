// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// GenerateTarget describes one configuration file family: where its parser
// table and man page live inside the systemd source tree.
type GenerateTarget struct {
	// Name is the family name used in titles and output filenames.
	Name string
	// GperfNames are candidate parser-table base names; the table moved and
	// was renamed across releases.
	GperfNames []string
	// ManPage is the DocBook man page path relative to the tree root.
	ManPage string
}

// generateTargets covers every networkd configuration file family.
var generateTargets = []GenerateTarget{
	{Name: "network", GperfNames: []string{"networkd-network-gperf.gperf"}, ManPage: "man/systemd.network.xml"},
	{Name: "netdev", GperfNames: []string{"netdev-gperf.gperf", "networkd-netdev-gperf.gperf"}, ManPage: "man/systemd.netdev.xml"},
	{Name: "link", GperfNames: []string{"link-config-gperf.gperf"}, ManPage: "man/systemd.link.xml"},
	{Name: "networkd.conf", GperfNames: []string{"networkd-gperf.gperf"}, ManPage: "man/networkd.conf.xml"},
}

// GenerateOptions configures one release generation run.
type GenerateOptions struct {
	// Version is the release tag, for example "v257".
	Version string
	// OutputDir receives the generated schema documents.
	OutputDir string
	// RepoDir is an existing checkout of the release. When empty the release
	// is cloned into a temporary directory and removed afterwards.
	RepoDir string
	// UpstreamURL overrides the source repository for fresh checkouts.
	UpstreamURL string
}

// GenerateResult reports one produced document.
type GenerateResult struct {
	Name    string
	Path    string
	Written bool
	Summary MiningSummary
}

// GenerateRelease mines one systemd release and writes one machine-generated
// schema document per configuration file family. Families whose parser table
// is absent in the release are skipped. Writes are idempotent: a document
// whose content matches the file already on disk is left untouched.
func GenerateRelease(ctx context.Context, opts GenerateOptions, out io.Writer) ([]GenerateResult, error) {
	repoDir := opts.RepoDir
	if repoDir == "" {
		tempDir, err := os.MkdirTemp("", "networkd-schema-src-")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCheckout, err)
		}
		defer func() {
			_ = os.RemoveAll(tempDir)
		}()

		if err := CheckoutRelease(ctx, CheckoutOptions{URL: opts.UpstreamURL, Tag: opts.Version, Dir: tempDir}); err != nil {
			return nil, err
		}

		repoDir = tempDir
	}

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrWriteSchemaFile, opts.OutputDir, err)
	}

	results := make([]GenerateResult, 0, len(generateTargets))
	for _, target := range generateTargets {
		fmt.Fprintf(out, "\nProcessing %s...\n", target.Name)

		release, err := mineRelease(repoDir, target, out)
		if err != nil {
			return nil, fmt.Errorf("mine %s: %w", target.Name, err)
		}

		if release.Empty() {
			fmt.Fprintf(out, "No parser table found for %s, skipping\n", target.Name)
			continue
		}

		summary := Summarize(release)
		WriteSummary(out, target.Name, summary)

		doc := Assemble(release, AssembleOptions{Name: target.Name, Version: opts.Version})
		path := filepath.Join(opts.OutputDir, GeneratedFileName(target.Name, opts.Version))
		wrote, err := WriteDocument(doc, path)
		if err != nil {
			return nil, err
		}

		if wrote {
			fmt.Fprintf(out, " -> Created %s\n", path)
		} else {
			fmt.Fprintf(out, " -> Skipping %s (unchanged)\n", path)
		}

		results = append(results, GenerateResult{Name: target.Name, Path: path, Written: wrote, Summary: summary})
	}

	return results, nil
}

// mineRelease combines the man page and the parser table of one family into
// an ordered mined release. Directives declared in the parser table come
// first; documentation-only keys of sections the table already knows are
// appended afterwards as plain strings, so prose-documented directives that
// never reached the table still surface in the schema.
func mineRelease(repoDir string, target GenerateTarget, warn io.Writer) (*MinedRelease, error) {
	docs := MineManPage(filepath.Join(repoDir, target.ManPage), warn)

	entries, err := MineParserTable(repoDir, target.GperfNames)
	if err != nil {
		return nil, err
	}

	release := &MinedRelease{}
	for _, entry := range entries {
		doc := docs.lookup(entry.Section, entry.Key)
		release.Add(entry.Section, entry.Key, InferFragment(InferInput{
			Section:      entry.Section,
			Key:          entry.Key,
			ParserFunc:   entry.ParserFunc,
			Argument:     entry.Argument,
			Description:  doc.Description,
			VersionAdded: doc.VersionAdded,
			RepoDir:      repoDir,
		}))
	}

	for _, section := range sortedKeys(docs) {
		if section == globalSection || !release.HasSection(section) {
			continue
		}

		for _, key := range sortedKeys(docs[section]) {
			if release.Has(section, key) {
				continue
			}

			doc := docs[section][key]
			release.Add(section, key, InferFragment(InferInput{
				Section:      section,
				Key:          key,
				ParserFunc:   "config_parse_string",
				Argument:     "0",
				Description:  doc.Description,
				VersionAdded: doc.VersionAdded,
				RepoDir:      repoDir,
			}))
		}
	}

	return release, nil
}

// GeneratedFileName is the machine-generated artifact name for one family
// and release, for example "systemd.network.v257.schema.json".
func GeneratedFileName(name, version string) string {
	return fmt.Sprintf("systemd.%s.%s.schema.json", name, version)
}

// CuratedFileName is the curated-lineage artifact name for one family, for
// example "systemd.network.schema.json". The release lives in the directory
// name and the $id, not the file name.
func CuratedFileName(name string) string {
	return fmt.Sprintf("systemd.%s.schema.json", name)
}
