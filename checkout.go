// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"context"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// defaultUpstreamURL is the systemd source repository.
const defaultUpstreamURL = "https://github.com/systemd/systemd.git"

// CheckoutOptions configures one shallow release checkout.
type CheckoutOptions struct {
	// URL overrides the upstream repository URL.
	URL string
	// Tag is the release tag to fetch, for example "v257".
	Tag string
	// Dir is the target directory for the working tree.
	Dir string
}

// CheckoutRelease clones exactly one release tag of the upstream tree into
// opts.Dir, depth one, no other tags or branches. Failure here is fatal for
// the release being processed but callers keep iterating sibling releases.
func CheckoutRelease(ctx context.Context, opts CheckoutOptions) error {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		url = defaultUpstreamURL
	}

	_, err := git.PlainCloneContext(ctx, opts.Dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewTagReferenceName(opts.Tag),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	if err != nil {
		return fmt.Errorf("%w: tag %q: %w", ErrCheckout, opts.Tag, err)
	}

	return nil
}
