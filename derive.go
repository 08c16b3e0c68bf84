// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"fmt"
	"io"
)

// DeriveOptions configures one curated-lineage derivation step.
type DeriveOptions struct {
	// CuratedBasePath is the hand-curated document for the base release.
	CuratedBasePath string
	// GeneratedBasePath and GeneratedTargetPath are the machine-generated
	// snapshots whose structural delta is propagated.
	GeneratedBasePath   string
	GeneratedTargetPath string
	// OutputPath receives the derived curated document.
	OutputPath string
	// BaseVersion and TargetVersion are release tags such as "v257"; they
	// drive the title and documentation-link rewrites.
	BaseVersion   string
	TargetVersion string
	// IDURL is the canonical $id for the derived document.
	IDURL string
}

// DeriveCurated propagates the curated base document to a target release:
// it computes the structural delta between the two machine-generated
// snapshots, re-applies that delta onto the curated base, then updates the
// title, $id and man-page documentation links to the target release. The
// write is idempotent; the returned bool reports whether the file changed.
func DeriveCurated(opts DeriveOptions, log io.Writer) (bool, error) {
	fmt.Fprintln(log, "Loading schemas...")

	curated, err := LoadDocument(opts.CuratedBasePath)
	if err != nil {
		return false, err
	}

	generatedBase, err := LoadDocument(opts.GeneratedBasePath)
	if err != nil {
		return false, err
	}

	generatedTarget, err := LoadDocument(opts.GeneratedTargetPath)
	if err != nil {
		return false, err
	}

	diff := DiffDocuments(generatedBase, generatedTarget)

	fmt.Fprintln(log, "Applying diff to Curated Base...")
	derived, err := ApplyDiff(curated, diff, log)
	if err != nil {
		return false, err
	}

	RetitleDocument(derived, opts.TargetVersion)
	SetDocumentID(derived, opts.IDURL)
	RewriteDocLinks(derived, opts.BaseVersion, opts.TargetVersion)

	fmt.Fprintf(log, "Saving to %s\n", opts.OutputPath)
	return WriteDocument(derived, opts.OutputPath)
}
