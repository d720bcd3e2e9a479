// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package compiler orchestrates the compile pipeline: optimize the
// configuration tree, encode it canonically, compress, and write the
// container (plus the optional shell manifest). Load runs the
// pipeline in reverse.
package compiler

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/peanut-foundation/peanut/lib/canonical"
	"github.com/peanut-foundation/peanut/lib/clock"
	"github.com/peanut-foundation/peanut/lib/configtree"
	"github.com/peanut-foundation/peanut/lib/container"
	"github.com/peanut-foundation/peanut/lib/peanuts"
)

// ErrEmptyConfig is returned when a configuration optimizes to
// nothing: every value was an empty string or empty container, so
// there is nothing meaningful to compile. No output file is written.
var ErrEmptyConfig = errors.New("configuration is empty after optimization")

// Options controls a single compilation.
type Options struct {
	// OutputPath is where the container is written. CompileFile
	// derives it from the source path (extension replaced with .pnt)
	// when empty; Compile requires it.
	OutputPath string

	// Optimize runs the tree optimizer before encoding. Disabling it
	// preserves empty strings and containers in the output.
	Optimize bool

	// Method selects payload compression.
	Method container.Method

	// Checksum records a payload digest in the header. Without it the
	// checksum field is zero-filled and loaders skip verification.
	Checksum bool

	// Shell writes a CBOR manifest describing the container next to
	// it.
	Shell bool

	// Clock supplies the container timestamp. Nil means wall clock.
	Clock clock.Clock
}

// DefaultOptions returns the options used when no project
// configuration is in play: optimized, gzip-compressed, checksummed,
// no shell manifest.
func DefaultOptions() Options {
	return Options{
		Optimize: true,
		Method:   container.MethodGzip,
		Checksum: true,
	}
}

// Result describes a finished compilation.
type Result struct {
	// OutputPath is the container file written.
	OutputPath string

	// ShellPath is the shell manifest written, or "" when Options.Shell
	// was off.
	ShellPath string

	// Method is the compression method applied.
	Method container.Method

	// OriginalSize is the canonical payload length before compression.
	OriginalSize uint32

	// CompressedSize is the stored payload length.
	CompressedSize uint32

	// Checksum is the recorded payload digest, or "" when checksums
	// were disabled.
	Checksum string

	// CreatedAt is the timestamp recorded in the header.
	CreatedAt time.Time
}

// Ratio returns compressed size over original size, or 0 when the
// original was empty.
func (r *Result) Ratio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.CompressedSize) / float64(r.OriginalSize)
}

// Compile optimizes, encodes, compresses, and writes tree as a
// container at opts.OutputPath. The input tree is never mutated. On
// any error nothing is written: a pre-existing file at the output
// path survives a failed compile untouched.
func Compile(tree *configtree.Map, opts Options) (*Result, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("compile: output path is required")
	}

	value := configtree.Value(tree)
	if opts.Optimize {
		optimized, kept := configtree.Optimize(tree)
		if !kept {
			return nil, fmt.Errorf("compile %s: %w", opts.OutputPath, ErrEmptyConfig)
		}
		value = optimized
	}

	encoded, err := canonical.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", opts.OutputPath, err)
	}
	if len(encoded) > math.MaxUint32 {
		return nil, fmt.Errorf("compile %s: canonical payload is %d bytes, exceeds u32 framing",
			opts.OutputPath, len(encoded))
	}

	payload, err := container.Compress(encoded, opts.Method)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", opts.OutputPath, err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	createdAt := clk.Now()

	header := container.Header{
		Method:    opts.Method,
		CreatedAt: createdAt.Unix(),
	}
	if err := container.Write(opts.OutputPath, header, encoded, payload, opts.Checksum); err != nil {
		return nil, fmt.Errorf("compile %s: %w", opts.OutputPath, err)
	}

	result := &Result{
		OutputPath:     opts.OutputPath,
		Method:         opts.Method,
		OriginalSize:   uint32(len(encoded)),
		CompressedSize: uint32(len(payload)),
		CreatedAt:      createdAt,
	}
	if opts.Checksum {
		result.Checksum = container.Digest(payload)
	}

	if opts.Shell {
		shellPath, err := writeShell(result)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", opts.OutputPath, err)
		}
		result.ShellPath = shellPath
	}

	return result, nil
}

// CompileFile parses the source file (text, JSON, or YAML by
// extension) and compiles it. When opts.OutputPath is empty the
// output lands next to the source with the extension replaced by
// .pnt.
func CompileFile(sourcePath string, opts Options) (*Result, error) {
	tree, err := peanuts.ParseFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", sourcePath, err)
	}

	if opts.OutputPath == "" {
		opts.OutputPath = OutputPath(sourcePath)
	}
	return Compile(tree, opts)
}

// OutputPath returns the default container path for a source file:
// the source path with its extension replaced by .pnt.
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + container.Extension
}

// Load reads a container, verifies it, decompresses the payload, and
// decodes the canonical tree. The root of a compiled configuration is
// always a map.
func Load(path string) (*configtree.Map, error) {
	header, payload, err := container.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	encoded, err := container.Decompress(payload, header.Method, int(header.OriginalSize))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	value, err := canonical.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	tree, ok := value.(*configtree.Map)
	if !ok {
		return nil, fmt.Errorf("load %s: root is %T, want a map", path, value)
	}
	return tree, nil
}
