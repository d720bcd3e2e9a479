// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package peanuts parses configuration source text into the
// configtree model. Three front ends feed the same tree:
//
//   - the peanut text format (.peanuts, .pea): [section] headers,
//     key: value pairs with type inference, # comments,
//   - JSON with comments and trailing commas (.json, .jsonc),
//   - YAML (.yaml, .yml).
//
// All front ends preserve source order: the tree's map keys appear in
// the order they were written, which the canonical encoding and the
// container checksum depend on.
package peanuts
