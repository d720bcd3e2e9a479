// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads project-level compiler settings from
// peanut.yaml.
package config
