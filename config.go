// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig is the YAML-configurable shape of a batch run. Zero-valued
// fields fall back to the defaults, so a config file only has to state what
// it changes.
type PipelineConfig struct {
	// Versions lists every release the pipeline builds, newest first.
	Versions []string `yaml:"versions"`
	// BaseVersion is the release whose curated documents are hand-maintained;
	// every other release is derived from it.
	BaseVersion string `yaml:"base_version"`
	// UpstreamURL is the systemd source repository.
	UpstreamURL string `yaml:"upstream_url"`
	// IDBase is the canonical $id URL prefix for published documents.
	IDBase string `yaml:"id_base"`
	// CuratedDir holds the hand-curated base documents under
	// <CuratedDir>/<BaseVersion>/.
	CuratedDir string `yaml:"curated_dir"`
	// GeneratedDir holds machine-generated snapshots under
	// <GeneratedDir>/<version>/.
	GeneratedDir string `yaml:"generated_dir"`
	// SchemasDir holds the published curated lineage under
	// <SchemasDir>/<version>/.
	SchemasDir string `yaml:"schemas_dir"`
}

// DefaultPipelineConfig is the batch shape used when no config file is given:
// the supported release range, the current curated base and the conventional
// repository layout.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Versions: []string{
			"v259", "v258", "v257", "v256", "v255", "v254", "v253", "v252",
			"v251", "v250", "v249", "v248", "v247", "v246", "v245", "v244",
			"v243", "v242", "v241", "v240", "v239", "v238", "v237",
		},
		BaseVersion:  "v257",
		UpstreamURL:  defaultUpstreamURL,
		IDBase:       "https://raw.githubusercontent.com/networkd-schema/networkd-schema/main/schemas",
		CuratedDir:   "curated",
		GeneratedDir: "src/original",
		SchemasDir:   "schemas",
	}
}

// LoadPipelineConfig reads a YAML pipeline configuration, layering it over
// the defaults. An empty path returns the defaults unchanged.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	config := DefaultPipelineConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("%w %q: %w", ErrReadConfig, path, err)
	}

	var overlay PipelineConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return PipelineConfig{}, fmt.Errorf("%w %q: %w", ErrDecodeConfig, path, err)
	}

	if len(overlay.Versions) > 0 {
		config.Versions = overlay.Versions
	}

	if overlay.BaseVersion != "" {
		config.BaseVersion = overlay.BaseVersion
	}

	if overlay.UpstreamURL != "" {
		config.UpstreamURL = overlay.UpstreamURL
	}

	if overlay.IDBase != "" {
		config.IDBase = overlay.IDBase
	}

	if overlay.CuratedDir != "" {
		config.CuratedDir = overlay.CuratedDir
	}

	if overlay.GeneratedDir != "" {
		config.GeneratedDir = overlay.GeneratedDir
	}

	if overlay.SchemasDir != "" {
		config.SchemasDir = overlay.SchemasDir
	}

	if err := config.check(); err != nil {
		return PipelineConfig{}, err
	}

	return config, nil
}

// check verifies the layered configuration is internally consistent.
func (config PipelineConfig) check() error {
	if !config.HasVersion(config.BaseVersion) {
		return fmt.Errorf("%w: base version %q not in version list", ErrDecodeConfig, config.BaseVersion)
	}

	return nil
}

// HasVersion reports whether the release is in the configured list.
func (config PipelineConfig) HasVersion(version string) bool {
	for _, candidate := range config.Versions {
		if candidate == version {
			return true
		}
	}

	return false
}
