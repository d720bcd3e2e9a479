// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package peanuts

import (
	"errors"
	"testing"

	"github.com/peanut-foundation/peanut/lib/configtree"
)

func TestParseYAMLPreservesKeyOrder(t *testing.T) {
	source := []byte(`
zebra: 1
apple:
  nested: true
  flag: off-like-string
mango:
  - 1
  - 2.5
  - three
  - null
`)

	tree, err := ParseYAML(source)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	keys := tree.Keys()
	if len(keys) != 3 || keys[0] != "zebra" || keys[1] != "apple" || keys[2] != "mango" {
		t.Errorf("key order = %v, want [zebra apple mango]", keys)
	}

	mango, _ := tree.Get("mango")
	want := configtree.List{
		configtree.Int(1),
		configtree.Float(2.5),
		configtree.String("three"),
		configtree.Null{},
	}
	if !configtree.Equal(mango, want) {
		t.Errorf("mango = %v, want %v", configtree.ToAny(mango), configtree.ToAny(want))
	}
}

func TestParseYAMLScalarTags(t *testing.T) {
	source := []byte(`
yes_bool: true
quoted_bool: "true"
count: 42
hex: 0x1f
ratio: 0.5
nothing: ~
text: plain words
`)

	tree, err := ParseYAML(source)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	tests := []struct {
		key  string
		want configtree.Value
	}{
		{"yes_bool", configtree.Bool(true)},
		{"quoted_bool", configtree.String("true")},
		{"count", configtree.Int(42)},
		{"hex", configtree.Int(31)},
		{"ratio", configtree.Float(0.5)},
		{"nothing", configtree.Null{}},
		{"text", configtree.String("plain words")},
	}
	for _, tt := range tests {
		got, ok := tree.Get(tt.key)
		if !ok {
			t.Errorf("key %q missing", tt.key)
			continue
		}
		if !configtree.Equal(got, tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
		}
	}
}

func TestParseYAMLAnchorsResolve(t *testing.T) {
	source := []byte(`
base: &shared
  retries: 3
copy: *shared
`)

	tree, err := ParseYAML(source)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	base, _ := tree.Get("base")
	copied, _ := tree.Get("copy")
	if !configtree.Equal(base, copied) {
		t.Errorf("alias did not resolve: base=%v copy=%v",
			configtree.ToAny(base), configtree.ToAny(copied))
	}
}

func TestParseYAMLEmptyDocument(t *testing.T) {
	tree, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("empty document produced %d keys", tree.Len())
	}
}

func TestParseYAMLRejects(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"sequence root", "- one\n- two\n"},
		{"scalar root", "just text\n"},
		{"malformed", "a: [1, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.source))
			var parseError *ParseError
			if !errors.As(err, &parseError) {
				t.Fatalf("got %v, want *ParseError", err)
			}
		})
	}
}
