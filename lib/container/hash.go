// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ChecksumSize is the header checksum width: a 256-bit BLAKE3 digest
// rendered as 64 lowercase hex characters.
const ChecksumSize = 64

// Digest computes the BLAKE3-256 digest of data, hex-encoded. The
// digest is always computed over the payload bytes exactly as stored —
// after compression — so storage-layer corruption is detectable
// without decompressing first.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest of data and compares it to expected.
// The comparison covers every byte of both digests regardless of where
// they first differ, so a prefix match is never silently accepted.
func Verify(data []byte, expected string) bool {
	actual := Digest(data)
	if len(actual) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
