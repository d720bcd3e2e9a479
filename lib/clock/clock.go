// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the current-time source for testability.
// Production code injects Real(); tests inject a Fake with
// deterministic control, so container timestamps and staleness
// decisions can be asserted exactly.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time. Code that stamps times accepts a
// Clock (or holds one in a struct field) instead of calling time.Now
// directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the system time.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Fake is a Clock under test control. It starts at the given time and
// only moves when Advance or Set is called. Safe for concurrent use.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the fake time to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
