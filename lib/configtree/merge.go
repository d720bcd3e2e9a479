// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package configtree

import "strings"

// Merge deep-merges overlay onto base and returns the merged map.
// Neither input is mutated. Keys keep base's insertion order; keys
// only present in overlay are appended in overlay order. When both
// sides hold a map under the same key the maps merge recursively;
// any other collision is won by overlay. This is the CSS-like cascade
// used by hierarchical configuration loading: later (more specific)
// files overlay earlier ones.
func Merge(base, overlay *Map) *Map {
	result := &Map{}
	for i, key := range base.keys {
		result.Set(key, base.values[i])
	}
	for i, key := range overlay.keys {
		value := overlay.values[i]
		if existing, ok := result.Get(key); ok {
			existingMap, ok1 := existing.(*Map)
			overlayMap, ok2 := value.(*Map)
			if ok1 && ok2 {
				result.Set(key, Merge(existingMap, overlayMap))
				continue
			}
		}
		result.Set(key, value)
	}
	return result
}

// Lookup resolves a dotted key path ("server.port") against a map,
// descending through nested maps. Returns the value and true when
// every path segment resolves.
func Lookup(root *Map, keyPath string) (Value, bool) {
	current := root
	segments := strings.Split(keyPath, ".")
	for i, segment := range segments {
		value, ok := current.Get(segment)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(*Map)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}
