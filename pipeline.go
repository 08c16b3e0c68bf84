// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PipelineOptions configures one batch run.
type PipelineOptions struct {
	// Config is the layered pipeline configuration.
	Config PipelineConfig
	// Version restricts the run to one release; empty builds them all.
	Version string
	// Force regenerates machine-generated snapshots even when all artifacts
	// for a release already exist on disk.
	Force bool
}

// RunPipeline executes the full batch: generate machine snapshots for every
// selected release, emit or derive the curated lineage, then validate what
// was built. A failing release is reported by name and does not stop its
// siblings; the returned error aggregates every failed release.
func RunPipeline(ctx context.Context, opts PipelineOptions, out io.Writer) error {
	versions := opts.Config.Versions
	if opts.Version != "" {
		if !opts.Config.HasVersion(opts.Version) {
			return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownVersion, opts.Version, strings.Join(opts.Config.Versions, ", "))
		}

		versions = []string{opts.Version}
	}

	var failed []string
	for _, version := range versions {
		if err := buildRelease(ctx, opts, version, out); err != nil {
			fmt.Fprintf(out, "Release %s failed: %v\n", version, err)
			failed = append(failed, version)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d release(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}

	fmt.Fprintln(out, "\nBuild Complete!")
	return nil
}

// buildRelease runs the generate, derive and validate stages for one release.
func buildRelease(ctx context.Context, opts PipelineOptions, version string, out io.Writer) error {
	config := opts.Config

	generatedDir := filepath.Join(config.GeneratedDir, version)
	if opts.Force || !generatedFilesExist(generatedDir, version) {
		fmt.Fprintf(out, "Generating raw schemas for %s...\n", version)
		if _, err := GenerateRelease(ctx, GenerateOptions{
			Version:     version,
			OutputDir:   generatedDir,
			UpstreamURL: config.UpstreamURL,
		}, out); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Raw schemas for %s already exist.\n", version)
	}

	fmt.Fprintf(out, "Deriving curated schemas for %s...\n", version)
	outDir := filepath.Join(config.SchemasDir, version)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("%w %q: %w", ErrWriteSchemaFile, outDir, err)
	}

	var outputs []string
	for _, target := range generateTargets {
		outPath := filepath.Join(outDir, CuratedFileName(target.Name))
		idURL := fmt.Sprintf("%s/%s/%s", config.IDBase, version, CuratedFileName(target.Name))

		if version == config.BaseVersion {
			if err := emitCuratedBase(config, target.Name, version, outPath, idURL); err != nil {
				return err
			}
		} else {
			if _, err := DeriveCurated(DeriveOptions{
				CuratedBasePath:     curatedBasePath(config, target.Name),
				GeneratedBasePath:   filepath.Join(config.GeneratedDir, config.BaseVersion, GeneratedFileName(target.Name, config.BaseVersion)),
				GeneratedTargetPath: filepath.Join(generatedDir, GeneratedFileName(target.Name, version)),
				OutputPath:          outPath,
				BaseVersion:         config.BaseVersion,
				TargetVersion:       version,
				IDURL:               idURL,
			}, out); err != nil {
				return err
			}
		}

		outputs = append(outputs, outPath)
	}

	fmt.Fprintf(out, "Validating schemas for %s...\n", version)
	var errs []error
	for _, path := range outputs {
		if err := ValidateFile(path); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// emitCuratedBase republishes the hand-curated base document under its
// canonical $id. The base release is never derived, only re-addressed.
func emitCuratedBase(config PipelineConfig, name, version, outPath, idURL string) error {
	doc, err := LoadDocument(curatedBasePath(config, name))
	if err != nil {
		return err
	}

	SetDocumentID(doc, idURL)
	_, err = WriteDocument(doc, outPath)
	return err
}

// curatedBasePath locates the hand-curated document for one family.
func curatedBasePath(config PipelineConfig, name string) string {
	return filepath.Join(config.CuratedDir, config.BaseVersion, GeneratedFileName(name, config.BaseVersion))
}

// generatedFilesExist reports whether every family's machine snapshot for
// the release is already on disk.
func generatedFilesExist(dir, version string) bool {
	for _, target := range generateTargets {
		if _, err := os.Stat(filepath.Join(dir, GeneratedFileName(target.Name, version))); err != nil {
			return false
		}
	}

	return true
}
