// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package container implements the peanut binary container format: a
// fixed 121-byte little-endian header (magic, format version,
// compression method, sizes, creation timestamp, payload checksum,
// reserved bytes) followed by the stored payload.
//
// The package owns the three format-level concerns the compiler and
// loader compose: the compression method set (none, gzip, brotli,
// zstd, lz4), the BLAKE3-256 integrity digest over the stored payload,
// and the read/write protocol. Writes go through a temporary file and
// an atomic rename, so a concurrent reader observes either the old
// complete container or the new one, never a partial file.
package container
