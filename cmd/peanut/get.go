// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/peanut-foundation/peanut/lib/config"
	"github.com/peanut-foundation/peanut/lib/configtree"
	"github.com/peanut-foundation/peanut/lib/hierarchy"
)

// runGet loads the hierarchical configuration effective in a
// directory: every config file from the walk root down, deep-merged
// so deeper directories win. The hierarchy section of peanut.yaml in
// the target directory controls the file stem and auto-compilation.
func runGet(args []string) error {
	flags := pflag.NewFlagSet("get", pflag.ContinueOnError)
	key := flags.StringP("key", "k", "", "print only the value at this dotted key path")
	root := flags.String("root", "", "directory bounding the upward walk (default: filesystem root)")
	configPath := flags.String("config", "", "project config file (default: peanut.yaml in the directory)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usageErrorf("get: %v", err)
	}
	if flags.NArg() > 1 {
		return usageErrorf("get: at most one directory argument")
	}
	dir := "."
	if flags.NArg() == 1 {
		dir = flags.Arg(0)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.LoadDir(dir)
	}
	if err != nil {
		return err
	}
	method, err := cfg.Method()
	if err != nil {
		return err
	}

	loader := hierarchy.New(hierarchy.Options{
		BaseName:    cfg.Hierarchy.BaseName,
		Root:        *root,
		AutoCompile: cfg.Hierarchy.AutoCompile,
		Method:      method,
		Logger:      slog.Default(),
	})

	tree, err := loader.Load(dir)
	if err != nil {
		return err
	}

	var value configtree.Value = tree
	if *key != "" {
		found, ok := configtree.Lookup(tree, *key)
		if !ok {
			return fmt.Errorf("key %q not found in the configuration for %s", *key, dir)
		}
		value = found
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
