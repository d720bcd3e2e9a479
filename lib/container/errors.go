// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import "errors"

// Error kinds surfaced by this package. The compiler and loader wrap
// these with context but always preserve the sentinel, so callers can
// tell "file is corrupt" from "file is incomplete" with errors.Is.
var (
	// ErrInvalidFormat: the file is not a peanut container (magic
	// mismatch) or its header is structurally malformed (non-hex
	// checksum, non-zero reserved bytes).
	ErrInvalidFormat = errors.New("not a peanut container")

	// ErrUnsupportedVersion: the header declares a format version this
	// implementation cannot read. Reading must fail closed rather than
	// attempt a best-effort parse.
	ErrUnsupportedVersion = errors.New("unsupported container format version")

	// ErrUnknownMethod: the caller selected a compression method this
	// implementation does not provide. This is a caller mistake at
	// compile time, distinct from ErrUnsupportedMethod.
	ErrUnknownMethod = errors.New("unknown compression method")

	// ErrUnsupportedMethod: a stored container declares a compression
	// method byte this implementation cannot decode. This is a
	// file-compatibility problem at load time.
	ErrUnsupportedMethod = errors.New("unsupported compression method in container")

	// ErrTruncated: the file ends before the header, or before the
	// payload length the header declares.
	ErrTruncated = errors.New("truncated container file")

	// ErrChecksumMismatch: the digest recomputed over the stored
	// payload does not match the header checksum.
	ErrChecksumMismatch = errors.New("container checksum mismatch")
)
