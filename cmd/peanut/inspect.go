// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/peanut-foundation/peanut/lib/compiler"
	"github.com/peanut-foundation/peanut/lib/configtree"
	"github.com/peanut-foundation/peanut/lib/container"
)

func runLoad(args []string) error {
	flags := pflag.NewFlagSet("load", pflag.ContinueOnError)
	key := flags.StringP("key", "k", "", "print only the value at this dotted key path")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageErrorf("load: %v", err)
	}
	if flags.NArg() != 1 {
		return usageErrorf("load: exactly one container file required")
	}

	tree, err := compiler.Load(flags.Arg(0))
	if err != nil {
		return err
	}

	var value configtree.Value = tree
	if *key != "" {
		found, ok := configtree.Lookup(tree, *key)
		if !ok {
			return fmt.Errorf("key %q not found", *key)
		}
		value = found
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func runInfo(args []string) error {
	flags := pflag.NewFlagSet("info", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageErrorf("info: %v", err)
	}
	if flags.NArg() != 1 {
		return usageErrorf("info: exactly one container file required")
	}
	path := flags.Arg(0)

	header, err := container.ReadHeader(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  format version: %d\n", header.FormatVersion)
	fmt.Printf("  method:         %s\n", header.Method)
	fmt.Printf("  original:       %d bytes\n", header.OriginalSize)
	fmt.Printf("  stored:         %d bytes\n", header.CompressedSize)
	fmt.Printf("  created:        %s\n", time.Unix(header.CreatedAt, 0).UTC().Format(time.RFC3339))
	if header.Checksum != "" {
		fmt.Printf("  checksum:       %s\n", header.Checksum)
	} else {
		fmt.Printf("  checksum:       (none)\n")
	}
	return nil
}

func runCheck(args []string) error {
	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageErrorf("check: %v", err)
	}
	if flags.NArg() != 1 {
		return usageErrorf("check: exactly one container file required")
	}
	path := flags.Arg(0)

	// Full validation: header, payload length, checksum, and a
	// complete decode of the canonical tree.
	if _, err := compiler.Load(path); err != nil {
		return err
	}

	fmt.Printf("%s: ok\n", path)
	return nil
}
