// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"testing"
)

type record struct {
	Name  string `cbor:"name"`
	Size  uint32 `cbor:"size"`
	Flags []bool `cbor:"flags,omitempty"`
}

func TestMarshalDeterministic(t *testing.T) {
	r := record{Name: "demo", Size: 42, Flags: []bool{true, false}}

	first, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same record produced different bytes")
	}
}

func TestRoundTrip(t *testing.T) {
	in := record{Name: "demo", Size: 42}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out record
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip changed record: %+v -> %+v", in, out)
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"key": "value"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("decoded to %T, want map[string]any", out)
	}
	if m["key"] != "value" {
		t.Errorf("m = %v", m)
	}
}
