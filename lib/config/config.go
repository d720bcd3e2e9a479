// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/peanut-foundation/peanut/lib/container"
)

// ProjectFileName is the conventional name of the project settings
// file, looked up in the directory being compiled.
const ProjectFileName = "peanut.yaml"

// Config is the project configuration for the peanut compiler.
//
// The file is the single source of truth. Environment variables do
// not override config values; the only expansion performed is ${VAR}
// and ${VAR:-default} in paths for portability.
type Config struct {
	// Compile configures the compilation pipeline.
	Compile CompileConfig `yaml:"compile"`

	// Output configures where compiled artifacts are written.
	Output OutputConfig `yaml:"output"`

	// Hierarchy configures directory-hierarchy config loading.
	Hierarchy HierarchyConfig `yaml:"hierarchy"`
}

// CompileConfig configures the compilation pipeline.
type CompileConfig struct {
	// Compression selects the payload compression method by name:
	// none, gzip, brotli, zstd, or lz4.
	// Default: gzip
	Compression string `yaml:"compression"`

	// Optimize enables the tree optimizer (trim strings, drop empty
	// values and containers).
	// Default: true
	Optimize bool `yaml:"optimize"`

	// Checksum enables recording a payload checksum in the container
	// header.
	// Default: true
	Checksum bool `yaml:"checksum"`

	// Shell enables writing the CBOR shell manifest alongside the
	// compiled container.
	// Default: false
	Shell bool `yaml:"shell"`
}

// OutputConfig configures where compiled artifacts are written.
type OutputConfig struct {
	// Dir is the directory compiled containers are written to. Empty
	// means alongside the source file.
	Dir string `yaml:"dir"`
}

// HierarchyConfig configures directory-hierarchy config loading.
type HierarchyConfig struct {
	// BaseName is the file stem looked up per directory (the loader
	// tries BaseName + ".pnt" then BaseName + ".peanuts").
	// Default: peanut
	BaseName string `yaml:"base_name"`

	// AutoCompile recompiles stale text sources found during
	// hierarchy loading.
	// Default: true
	AutoCompile bool `yaml:"auto_compile"`
}

// Default returns the default configuration. These defaults are the
// base that LoadFile merges the file into, so every field has a
// usable value even when the file omits it.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			Compression: container.MethodGzip.String(),
			Optimize:    true,
			Checksum:    true,
			Shell:       false,
		},
		Output: OutputConfig{
			Dir: "",
		},
		Hierarchy: HierarchyConfig{
			BaseName:    "peanut",
			AutoCompile: true,
		},
	}
}

// Load loads configuration from the PEANUT_CONFIG environment
// variable. There are no fallbacks: if PEANUT_CONFIG is not set, this
// fails. Use LoadFile or LoadDir for explicit paths.
func Load() (*Config, error) {
	configPath := os.Getenv("PEANUT_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PEANUT_CONFIG environment variable not set; " +
			"set it to the path of your peanut.yaml file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads the project file from dir if present, or returns the
// defaults when the directory carries no peanut.yaml.
func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, ProjectFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return LoadFile(path)
}

// Method returns the configured compression method.
func (c *Config) Method() (container.Method, error) {
	return container.ParseMethod(c.Compile.Compression)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := container.ParseMethod(c.Compile.Compression); err != nil {
		errs = append(errs, fmt.Errorf("compile.compression: %w", err))
	}

	if c.Hierarchy.BaseName == "" {
		errs = append(errs, fmt.Errorf("hierarchy.base_name is required"))
	}
	if filepath.Base(c.Hierarchy.BaseName) != c.Hierarchy.BaseName {
		errs = append(errs, fmt.Errorf("hierarchy.base_name must not contain path separators"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Output.Dir = expandVars(c.Output.Dir, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
