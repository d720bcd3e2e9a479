// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package configtree

import "strings"

// Optimize removes redundant structure from a value tree and returns
// the optimized tree. The second result is false when the entire value
// was removed:
//
//   - strings are trimmed of surrounding whitespace; a string that
//     trims to "" is dropped,
//   - map entries whose value is dropped are removed, and a map left
//     empty is itself dropped,
//   - list elements follow the same rule,
//   - Null, Bool, Int, and Float pass through unchanged and are never
//     dropped.
//
// The input is not mutated; containers that survive are rebuilt.
// Optimize is idempotent: applying it to its own output returns an
// equal tree.
//
// Dropping empty values makes a key-present-with-empty-value
// configuration indistinguishable from a key-absent one. Callers that
// need empty values preserved compile with optimization disabled.
func Optimize(v Value) (Value, bool) {
	switch val := v.(type) {
	case Null, Bool, Int, Float:
		return v, true

	case String:
		trimmed := strings.TrimSpace(string(val))
		if trimmed == "" {
			return nil, false
		}
		return String(trimmed), true

	case List:
		result := make(List, 0, len(val))
		for _, item := range val {
			if optimized, kept := Optimize(item); kept {
				result = append(result, optimized)
			}
		}
		if len(result) == 0 {
			return nil, false
		}
		return result, true

	case *Map:
		result := &Map{}
		for i, key := range val.keys {
			if optimized, kept := Optimize(val.values[i]); kept {
				result.Set(key, optimized)
			}
		}
		if result.Len() == 0 {
			return nil, false
		}
		return result, true
	}
	return nil, false
}
