// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// enumSearchDirs lists checkout subtrees that may define string tables for
// C enums referenced by parser-table arguments.
var enumSearchDirs = []string{
	"src/network",
	"src/basic",
	"src/shared",
	"src/fundamental",
}

var enumStringPattern = regexp.MustCompile(`"([^"]+)"`)

// findEnumValues scans the checked-out source tree for a static string table
// named "<enumName>_table" and returns its literal values in declaration
// order. An empty result means no table was found.
func findEnumValues(rootDir, enumName string) []string {
	if strings.TrimSpace(enumName) == "" {
		return nil
	}

	tablePattern := regexp.MustCompile(
		`(?s)static\s+const\s+char\*\s+const\s+` + regexp.QuoteMeta(enumName) + `_table\[\]\s*=\s*\{([^;]+)\};`,
	)

	var values []string
	for _, relDir := range enumSearchDirs {
		dir := filepath.Join(rootDir, relDir)
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || values != nil {
				return nil
			}

			if !entry.Type().IsRegular() {
				return nil
			}

			ext := filepath.Ext(entry.Name())
			if ext != ".c" && ext != ".h" {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return nil
			}

			match := tablePattern.FindSubmatch(data)
			if match == nil {
				return nil
			}

			for _, literal := range enumStringPattern.FindAllSubmatch(match[1], -1) {
				if value := string(literal[1]); value != "" {
					values = append(values, value)
				}
			}

			return filepath.SkipAll
		})

		if values != nil {
			return values
		}
	}

	return nil
}
