// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

/*
Package networkdschema derives versioned JSON Schema documents for systemd's
networkd configuration files and keeps a hand-curated schema lineage in sync
across releases.

For every systemd release the generator mines the DocBook man pages and the
gperf parser tables into a typed Draft-07 schema (the "generated" schema,
disposable and rebuilt on demand). The hand-curated schema for the base
release is then propagated to every other release by computing a structural
diff between two generated snapshots and re-applying only the property
additions and removals, never touching curated descriptions or types.

Generate schemas for one release:

	results, err := networkdschema.GenerateRelease(ctx, networkdschema.GenerateOptions{
		Version:   "v257",
		OutputDir: "src/original/v257",
	}, os.Stdout)
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Println(result.Path, result.Written)
	}

Diff two generated documents and apply the delta to a curated one:

	delta := networkdschema.DiffDocuments(generatedBase, generatedTarget)
	derived, err := networkdschema.ApplyDiff(curatedBase, delta, os.Stdout)
	if err != nil {
		return err
	}

Render a curated schema as a CommonMark directive reference:

	doc, err := networkdschema.LoadDocument("schemas/v257/systemd.network.schema.json")
	if err != nil {
		return err
	}

	md, err := networkdschema.RenderReference(doc, networkdschema.RenderOptions{
		Title: "systemd.network directives",
	})
	if err != nil {
		return err
	}

	fmt.Println(md)
*/
package networkdschema
