// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Write writes a container to path: the fixed header followed by
// payload, in a single sequential pass through a temporary file in the
// destination directory, atomically renamed into place on success. A
// rename failure (for example across devices) fails the write; there
// is no copy-over-original fallback, so a concurrent reader never
// observes a partial container.
//
// payload is the stored (compressed) form; original is the same data
// before compression, and may be the same slice when no compression
// was applied. Every size field and the checksum are derived from
// these buffers, overriding whatever the caller set in header — the
// header can never desynchronize from the actual bytes. The checksum
// is computed only when withChecksum is true; otherwise the field is
// written zero-filled and loaders skip verification.
func Write(path string, header Header, original, payload []byte, withChecksum bool) error {
	if len(original) > math.MaxUint32 {
		return fmt.Errorf("original payload is %d bytes, exceeds u32 framing", len(original))
	}
	if len(payload) > math.MaxUint32 {
		return fmt.Errorf("payload is %d bytes, exceeds u32 framing", len(payload))
	}

	header.FormatVersion = FormatVersion
	header.OriginalSize = uint32(len(original))
	header.CompressedSize = uint32(len(payload))
	if withChecksum {
		header.Checksum = Digest(payload)
	} else {
		header.Checksum = ""
	}

	headerBytes, err := marshalHeader(header)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".peanut-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp container file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up the temp file on any error path.
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(headerBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing container header: %w", err)
	}
	if _, err := tmpFile.Write(payload); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing container payload: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp container: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming container to %s: %w", path, err)
	}

	success = true
	return nil
}
