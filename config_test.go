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

func TestLoadPipelineConfigDefaults(t *testing.T) {
	t.Parallel()

	config, err := LoadPipelineConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(config, DefaultPipelineConfig()) {
		t.Fatalf("config = %+v", config)
	}

	if !config.HasVersion(config.BaseVersion) {
		t.Fatal("default base version must be in the default version list")
	}
}

func TestLoadPipelineConfigOverlay(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `versions: ["v258", "v257"]
base_version: v258
schemas_dir: out/schemas
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	config, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(config.Versions, []string{"v258", "v257"}) {
		t.Fatalf("versions = %v", config.Versions)
	}

	if config.BaseVersion != "v258" || config.SchemasDir != "out/schemas" {
		t.Fatalf("config = %+v", config)
	}

	// Untouched fields keep their defaults.
	defaults := DefaultPipelineConfig()
	if config.UpstreamURL != defaults.UpstreamURL || config.CuratedDir != defaults.CuratedDir {
		t.Fatalf("defaults were not layered: %+v", config)
	}
}

func TestLoadPipelineConfigRejectsForeignBase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte("base_version: v999\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadPipelineConfig(path); err == nil {
		t.Fatal("base version outside the list must fail")
	}
}

func TestLoadPipelineConfigErrors(t *testing.T) {
	t.Parallel()

	if _, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file must fail")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("versions: [\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadPipelineConfig(path); err == nil {
		t.Fatal("malformed YAML must fail")
	}
}
