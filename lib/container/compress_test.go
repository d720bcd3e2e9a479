// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

var allMethods = []Method{MethodNone, MethodGzip, MethodBrotli, MethodZstd, MethodLZ4}

func TestCompressRoundTrip(t *testing.T) {
	random := make([]byte, 4096)
	rand.Read(random)

	inputs := map[string][]byte{
		"empty":          {},
		"tiny":           []byte("x"),
		"text":           bytes.Repeat([]byte("section: value\n"), 200),
		"incompressible": random,
	}

	for _, method := range allMethods {
		for name, input := range inputs {
			t.Run(method.String()+"/"+name, func(t *testing.T) {
				compressed, err := Compress(input, method)
				if err != nil {
					t.Fatalf("Compress failed: %v", err)
				}
				decompressed, err := Decompress(compressed, method, len(input))
				if err != nil {
					t.Fatalf("Decompress failed: %v", err)
				}
				if !bytes.Equal(decompressed, input) {
					t.Error("round trip changed data")
				}
			})
		}
	}
}

func TestCompressReducesText(t *testing.T) {
	text := bytes.Repeat([]byte("app:\n  name: demo\n  debug: true\n"), 100)
	for _, method := range []Method{MethodGzip, MethodBrotli, MethodZstd, MethodLZ4} {
		compressed, err := Compress(text, method)
		if err != nil {
			t.Fatalf("%s: Compress failed: %v", method, err)
		}
		if len(compressed) >= len(text) {
			t.Errorf("%s did not shrink repetitive text: %d -> %d", method, len(text), len(compressed))
		}
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	data := []byte("some payload data")
	for _, method := range allMethods {
		compressed, err := Compress(data, method)
		if err != nil {
			t.Fatalf("%s: Compress failed: %v", method, err)
		}
		if _, err := Decompress(compressed, method, len(data)+1); err == nil {
			t.Errorf("%s: Decompress accepted wrong declared size", method)
		}
	}
}

func TestMethodNames(t *testing.T) {
	for _, method := range allMethods {
		parsed, err := ParseMethod(method.String())
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", method.String(), err)
		}
		if parsed != method {
			t.Errorf("ParseMethod(%q) = %v, want %v", method.String(), parsed, method)
		}
	}
}

func TestUnknownSelectorVersusUnsupportedByte(t *testing.T) {
	// A bad selector string is a caller mistake...
	if _, err := ParseMethod("deflate"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("ParseMethod error = %v, want ErrUnknownMethod", err)
	}
	if _, err := Compress(nil, Method(200)); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Compress error = %v, want ErrUnknownMethod", err)
	}

	// ...while a bad method byte in a stored file is a compatibility
	// problem. The two must stay distinguishable.
	_, err := Decompress(nil, Method(200), 0)
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("Decompress error = %v, want ErrUnsupportedMethod", err)
	}
	if errors.Is(err, ErrUnknownMethod) {
		t.Error("ErrUnsupportedMethod must not match ErrUnknownMethod")
	}
}
