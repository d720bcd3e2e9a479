// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package configtree defines the in-memory configuration model shared
// by the parser, the optimizer, the canonical encoder, and the
// compiler: a closed tagged variant of Null, Bool, Int, Float, String,
// List, and insertion-ordered Map values, rooted at a Map of sections.
//
// Values are treated as immutable once handed to the compile pipeline.
// Transforms (Optimize, Merge) return new trees rather than mutating
// their inputs.
package configtree
