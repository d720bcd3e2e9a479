// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/peanut-foundation/peanut/lib/compiler"
	"github.com/peanut-foundation/peanut/lib/config"
	"github.com/peanut-foundation/peanut/lib/container"
)

func runCompile(args []string) error {
	flags := pflag.NewFlagSet("compile", pflag.ContinueOnError)
	output := flags.StringP("output", "o", "", "output path (default: source with .pnt extension)")
	compression := flags.StringP("compression", "c", "", "compression method: none, gzip, brotli, zstd, lz4")
	noOptimize := flags.Bool("no-optimize", false, "skip the tree optimizer (preserves empty values)")
	noChecksum := flags.Bool("no-checksum", false, "omit the payload checksum")
	shell := flags.Bool("shell", false, "write a CBOR shell manifest next to the container")
	configPath := flags.String("config", "", "project config file (default: peanut.yaml beside the source)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageErrorf("compile: %v", err)
	}
	if flags.NArg() != 1 {
		return usageErrorf("compile: exactly one source file required")
	}
	sourcePath := flags.Arg(0)

	// Project config supplies the defaults; explicit flags override.
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.LoadDir(filepath.Dir(sourcePath))
	}
	if err != nil {
		return err
	}

	method, err := cfg.Method()
	if err != nil {
		return err
	}
	if *compression != "" {
		method, err = container.ParseMethod(*compression)
		if err != nil {
			return err
		}
	}

	opts := compiler.Options{
		OutputPath: *output,
		Optimize:   cfg.Compile.Optimize && !*noOptimize,
		Method:     method,
		Checksum:   cfg.Compile.Checksum && !*noChecksum,
		Shell:      cfg.Compile.Shell || *shell,
	}
	if opts.OutputPath == "" && cfg.Output.Dir != "" {
		opts.OutputPath = filepath.Join(cfg.Output.Dir,
			filepath.Base(compiler.OutputPath(sourcePath)))
	}

	result, err := compiler.CompileFile(sourcePath, opts)
	if err != nil {
		return err
	}

	fmt.Printf("compiled %s -> %s\n", sourcePath, result.OutputPath)
	fmt.Printf("  method:     %s\n", result.Method)
	fmt.Printf("  original:   %d bytes\n", result.OriginalSize)
	fmt.Printf("  stored:     %d bytes (ratio %.2f)\n", result.CompressedSize, result.Ratio())
	if result.Checksum != "" {
		fmt.Printf("  checksum:   %s\n", result.Checksum)
	}
	if result.ShellPath != "" {
		fmt.Printf("  shell:      %s\n", result.ShellPath)
	}
	return nil
}
