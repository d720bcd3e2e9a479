// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peanut-foundation/peanut/lib/codec"
	"github.com/peanut-foundation/peanut/lib/container"
)

// ShellExtension is the file extension of shell manifests.
const ShellExtension = ".shell"

// Shell is the machine-readable manifest written alongside a compiled
// container. It duplicates the container header in a form tooling can
// read without parsing the binary format, so deployment pipelines can
// inspect what was compiled, when, and with what settings.
type Shell struct {
	FormatVersion  uint32 `cbor:"format_version"`
	Container      string `cbor:"container"`
	Method         string `cbor:"method"`
	OriginalSize   uint32 `cbor:"original_size"`
	CompressedSize uint32 `cbor:"compressed_size"`
	Checksum       string `cbor:"checksum,omitempty"`
	CreatedAt      int64  `cbor:"created_at"`
}

// ShellPath returns the shell manifest path for a container path: the
// .pnt extension replaced by .shell.
func ShellPath(containerPath string) string {
	return strings.TrimSuffix(containerPath, filepath.Ext(containerPath)) + ShellExtension
}

// writeShell writes the manifest for a finished compilation, using
// the same temp-then-rename discipline as the container itself.
func writeShell(result *Result) (string, error) {
	shell := Shell{
		FormatVersion:  container.FormatVersion,
		Container:      filepath.Base(result.OutputPath),
		Method:         result.Method.String(),
		OriginalSize:   result.OriginalSize,
		CompressedSize: result.CompressedSize,
		Checksum:       result.Checksum,
		CreatedAt:      result.CreatedAt.Unix(),
	}

	data, err := codec.Marshal(shell)
	if err != nil {
		return "", fmt.Errorf("encoding shell manifest: %w", err)
	}

	path := ShellPath(result.OutputPath)
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".peanut-shell-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp shell file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("writing shell manifest: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp shell file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("renaming shell manifest to %s: %w", path, err)
	}

	success = true
	return path, nil
}

// ReadShell reads and decodes a shell manifest.
func ReadShell(path string) (*Shell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var shell Shell
	if err := codec.Unmarshal(data, &shell); err != nil {
		return nil, fmt.Errorf("decoding shell manifest %s: %w", path, err)
	}
	return &shell, nil
}
