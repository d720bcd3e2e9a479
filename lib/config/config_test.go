// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peanut-foundation/peanut/lib/container"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compile.Compression != "gzip" {
		t.Errorf("expected compression=gzip, got %s", cfg.Compile.Compression)
	}
	if method, err := cfg.Method(); err != nil || method != container.MethodGzip {
		t.Errorf("default method = %v, %v, want gzip", method, err)
	}
	if !cfg.Compile.Optimize {
		t.Error("expected optimize=true")
	}
	if !cfg.Compile.Checksum {
		t.Error("expected checksum=true")
	}
	if cfg.Compile.Shell {
		t.Error("expected shell=false")
	}
	if cfg.Hierarchy.BaseName != "peanut" {
		t.Errorf("expected base_name=peanut, got %s", cfg.Hierarchy.BaseName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_RequiresPeanutConfig(t *testing.T) {
	origConfig := os.Getenv("PEANUT_CONFIG")
	defer os.Setenv("PEANUT_CONFIG", origConfig)

	os.Unsetenv("PEANUT_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when PEANUT_CONFIG not set, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "peanut.yaml")

	configContent := `
compile:
  compression: zstd
  optimize: false
output:
  dir: /test/out
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Compile.Compression != "zstd" {
		t.Errorf("expected compression=zstd, got %s", cfg.Compile.Compression)
	}
	if cfg.Compile.Optimize {
		t.Error("expected optimize=false from file")
	}
	// Fields the file omits keep their defaults.
	if !cfg.Compile.Checksum {
		t.Error("expected checksum default to survive partial file")
	}
	if cfg.Output.Dir != "/test/out" {
		t.Errorf("expected dir=/test/out, got %s", cfg.Output.Dir)
	}

	method, err := cfg.Method()
	if err != nil {
		t.Fatalf("Method() failed: %v", err)
	}
	if method != container.MethodZstd {
		t.Errorf("expected MethodZstd, got %v", method)
	}
}

func TestLoadFile_RejectsBadCompression(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "peanut.yaml")

	configContent := `
compile:
  compression: shrink-ray
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for unknown compression method, got nil")
	}
}

func TestLoadDir_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}
	if cfg.Compile.Compression != Default().Compile.Compression {
		t.Errorf("expected defaults, got compression=%s", cfg.Compile.Compression)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("PEANUT_TEST_OUT", "/expanded/out")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "peanut.yaml")
	configContent := `
output:
  dir: ${PEANUT_TEST_OUT}/build
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Output.Dir != "/expanded/out/build" {
		t.Errorf("expected /expanded/out/build, got %s", cfg.Output.Dir)
	}
}
