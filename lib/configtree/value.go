// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package configtree

import (
	"encoding/json"
	"fmt"
)

// Value is a configuration value. Concrete types:
//
//   - Null   (explicit null)
//   - Bool
//   - Int    (64-bit signed integer)
//   - Float  (IEEE 754 double)
//   - String
//   - List   (ordered sequence of Values)
//   - *Map   (insertion-ordered mapping of unique string keys to Values)
//
// Int and Float are distinct so that integer values survive
// compile/load round-trips without drifting through a float
// representation. The set is closed: only types in this package
// implement Value, so switches over the concrete type can be
// exhaustive.
type Value interface {
	configValue() // sealed marker
}

// Null is an explicit null value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is a 64-bit signed integer value.
type Int int64

// Float is a 64-bit floating point value.
type Float float64

// String is a UTF-8 string value.
type String string

// List is an ordered sequence of values.
type List []Value

// Map is an insertion-ordered mapping of string keys to values. Keys
// are unique; Set replaces the value of an existing key in place
// without changing its position. The zero value is an empty map ready
// for use.
type Map struct {
	keys   []string
	values []Value
	index  map[string]int
}

func (Null) configValue()   {}
func (Bool) configValue()   {}
func (Int) configValue()    {}
func (Float) configValue()  {}
func (String) configValue() {}
func (List) configValue()   {}
func (*Map) configValue()   {}

// Entry is a key/value pair for building maps.
type Entry struct {
	Key   string
	Value Value
}

// NewMap creates a Map from entries in order. A repeated key replaces
// the earlier value while keeping the earlier position, matching Set.
func NewMap(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is
// shared with the map and must not be modified.
func (m *Map) Keys() []string {
	return m.keys
}

// Get returns the value for key and whether the key is present.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// At returns the key and value at position i in insertion order.
func (m *Map) At(i int) (string, Value) {
	return m.keys[i], m.values[i]
}

// Set inserts key with value, or replaces the existing value if key is
// already present. Insertion order of existing keys is preserved.
func (m *Map) Set(key string, value Value) {
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Equal reports deep equality of two values. Maps are equal only when
// they hold the same keys in the same order with equal values; Int and
// Float never compare equal to each other even for the same numeric
// value.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, key := range av.keys {
			if bv.keys[i] != key || !Equal(av.values[i], bv.values[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ToAny converts a value to plain Go types (nil, bool, int64, float64,
// string, []any, map[string]any). Map insertion order is lost; use
// this only for interop surfaces that do not feed the canonical
// encoder.
func ToAny(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case List:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = ToAny(item)
		}
		return result
	case *Map:
		result := make(map[string]any, val.Len())
		for i, key := range val.keys {
			result[key] = ToAny(val.values[i])
		}
		return result
	}
	return nil
}

// MarshalJSON renders the map as a JSON object with keys in insertion
// order.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, key := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valueJSON, err := json.Marshal(m.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshaling value of %q: %w", key, err)
		}
		buf = append(buf, valueJSON...)
	}
	return append(buf, '}'), nil
}

// MarshalJSON renders an explicit null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
