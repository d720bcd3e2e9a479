// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical implements the deterministic binary encoding of a
// configuration tree used as the container payload. Identical trees
// always encode to identical bytes, and map keys are written in
// insertion order — not sorted — so the encoding reflects exactly what
// the optimizer produced from source order. Checksum stability depends
// on both properties.
//
// The wire format is a tag byte followed by little-endian fixed-width
// framing: null (0x00), bool (0x01 + 1 byte), int (0x02 + i64), float
// (0x03 + IEEE 754 bits), string (0x04 + u32 length + UTF-8 bytes),
// list (0x05 + u32 count + elements), map (0x06 + u32 count + length-
// prefixed key + value per entry).
package canonical
