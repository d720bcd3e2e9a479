// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package peanuts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// ParseFile reads and parses a configuration source file, choosing the
// front end by extension: .json/.jsonc, .yaml/.yml, anything else the
// peanut text format.
func ParseFile(path string) (*configtree.Map, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return ParseJSON(source)
	case ".yaml", ".yml":
		return ParseYAML(source)
	default:
		return ParseText(string(source))
	}
}
