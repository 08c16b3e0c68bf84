// SPDX-License-Identifier: MIT
// Copyright (c) 2026 networkd-schema authors
// Source: github.com/networkd-schema/networkd-schema

package networkdschema

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// ParserEntry is one directive declaration mined from a gperf parser table.
type ParserEntry struct {
	// Section is the INI section the directive belongs to.
	Section string
	// Key is the directive name within the section.
	Key string
	// ParserFunc is the C parser function bound to the directive.
	ParserFunc string
	// Argument is the parser argument column, used for enum table lookups.
	Argument string
}

// parserLinePattern matches one gperf record of the shape
// "Section.Key, parser_function, flags, argument". Anything else on a line
// (comments, preprocessor directives, struct glue) is ignored.
var parserLinePattern = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]+)\.([A-Z][a-zA-Z0-9-]+)\s*,\s*([a-zA-Z0-9_]+)\s*,\s*[^,]+\s*,\s*([a-zA-Z0-9_]+)`)

// MineParserTable locates one of the candidate gperf files under rootDir and
// mines its directive declarations in file order. A missing table yields an
// empty result, not an error; the release simply has nothing to generate.
func MineParserTable(rootDir string, candidateNames []string) ([]ParserEntry, error) {
	path := findFileByName(rootDir, candidateNames)
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	entries := make([]ParserEntry, 0, 256)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := parserLinePattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}

		entries = append(entries, ParserEntry{
			Section:    match[1],
			Key:        match[2],
			ParserFunc: match[3],
			Argument:   match[4],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// findFileByName walks rootDir for the first file matching one of the
// candidate base names.
func findFileByName(rootDir string, candidateNames []string) string {
	wanted := make(map[string]struct{}, len(candidateNames))
	for _, name := range candidateNames {
		wanted[name] = struct{}{}
	}

	var found string
	_ = filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if entry.Type().IsRegular() {
			if _, ok := wanted[entry.Name()]; ok {
				found = path
				return filepath.SkipAll
			}
		}

		return nil
	})

	return found
}
