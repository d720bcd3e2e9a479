// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package peanuts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

// ParseError reports malformed configuration source.
type ParseError struct {
	// Line is the 1-based source line, or 0 when the error is not
	// tied to a line (malformed JSON/YAML input).
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

// ParseText parses peanut text source into a configuration tree.
//
// The format is line-oriented: blank lines and lines starting with #
// are ignored, "[name]" opens a section, and "key: value" assigns
// into the current section (or the root, before any section header).
// Values are inferred: quoted strings stay strings, unquoted values
// try boolean, null, integer, then float before falling back to
// string, and an unquoted value containing commas becomes a list of
// inferred elements. A repeated key replaces the earlier value in
// place; a repeated section reopens the existing one.
func ParseText(source string) (*configtree.Map, error) {
	root := configtree.NewMap()
	current := root

	for i, raw := range strings.Split(source, "\n") {
		lineNumber := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, &ParseError{Line: lineNumber, Msg: fmt.Sprintf("unterminated section header %q", line)}
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return nil, &ParseError{Line: lineNumber, Msg: "empty section name"}
			}
			if existing, ok := root.Get(name); ok {
				section, isMap := existing.(*configtree.Map)
				if !isMap {
					return nil, &ParseError{Line: lineNumber, Msg: fmt.Sprintf("section %q collides with a value key", name)}
				}
				current = section
				continue
			}
			section := configtree.NewMap()
			root.Set(name, section)
			current = section
			continue
		}

		colon := strings.Index(line, ":")
		if colon <= 0 {
			return nil, &ParseError{Line: lineNumber, Msg: fmt.Sprintf("expected \"key: value\", got %q", line)}
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		current.Set(key, inferValue(value))
	}

	return root, nil
}

// inferValue converts raw text into a typed value. Quoting always
// wins, so "true" (quoted) stays a string while true becomes a Bool.
func inferValue(raw string) configtree.Value {
	if unquoted, ok := unquote(raw); ok {
		return configtree.String(unquoted)
	}

	// An unquoted comma-separated value is a list of inferred elements.
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		list := make(configtree.List, len(parts))
		for i, part := range parts {
			list[i] = inferValue(strings.TrimSpace(part))
		}
		return list
	}

	switch raw {
	case "true":
		return configtree.Bool(true)
	case "false":
		return configtree.Bool(false)
	}
	if strings.EqualFold(raw, "null") {
		return configtree.Null{}
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return configtree.Int(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return configtree.Float(f)
	}

	return configtree.String(raw)
}

// unquote strips a matched pair of double or single quotes.
func unquote(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	first, last := raw[0], raw[len(raw)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}
