// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Package hierarchy loads configuration cascaded across a directory
// tree. Each directory from the root down to the requested one may
// carry a config file; the trees are deep-merged root to leaf, so
// deeper directories override what their parents set, CSS-style.
package hierarchy

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/peanut-foundation/peanut/lib/clock"
	"github.com/peanut-foundation/peanut/lib/compiler"
	"github.com/peanut-foundation/peanut/lib/configtree"
	"github.com/peanut-foundation/peanut/lib/container"
	"github.com/peanut-foundation/peanut/lib/peanuts"
)

// TextExtension is the file extension of text config sources looked
// up per directory.
const TextExtension = ".peanuts"

// Options configures a Loader.
type Options struct {
	// BaseName is the file stem looked up in each directory: the
	// loader considers BaseName+".pnt" and BaseName+".peanuts".
	// Default: peanut.
	BaseName string

	// Root bounds the upward walk: directories above Root are never
	// consulted. Empty means walk to the filesystem root.
	Root string

	// AutoCompile recompiles a text source to its binary sibling when
	// the binary is missing or older than the text.
	AutoCompile bool

	// Method is the compression used by auto-compilation.
	// Default: gzip (the compile default; leaving it at the zero
	// value does not produce uncompressed containers).
	Method container.Method

	// Logger receives auto-compile and cache activity. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Clock supplies timestamps for auto-compiled containers. Nil
	// means wall clock.
	Clock clock.Clock
}

// Loader loads cascaded configuration with a per-directory cache.
// Safe for concurrent use.
type Loader struct {
	baseName    string
	root        string
	autoCompile bool
	method      container.Method
	logger      *slog.Logger
	clock       clock.Clock

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// cacheEntry remembers a directory's parsed tree along with the file
// identity it came from, so a touched source invalidates it.
type cacheEntry struct {
	tree    *configtree.Map // nil when the directory has no config
	source  string
	modTime int64
	size    int64
}

// New returns a Loader.
func New(opts Options) *Loader {
	if opts.BaseName == "" {
		opts.BaseName = "peanut"
	}
	if opts.Method == container.MethodNone {
		opts.Method = compiler.DefaultOptions().Method
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	return &Loader{
		baseName:    opts.BaseName,
		root:        opts.Root,
		autoCompile: opts.AutoCompile,
		method:      opts.Method,
		logger:      opts.Logger,
		clock:       opts.Clock,
		cache:       make(map[string]cacheEntry),
	}
}

// Load returns the effective configuration for dir: every config file
// from the walk root down to dir, deep-merged so deeper directories
// win. A dir with no config anywhere on its path yields an empty
// tree.
func (l *Loader) Load(dir string) (*configtree.Map, error) {
	chain, err := l.chain(dir)
	if err != nil {
		return nil, err
	}

	merged := configtree.NewMap()
	for _, d := range chain {
		tree, err := l.loadDir(d)
		if err != nil {
			return nil, err
		}
		if tree != nil {
			merged = configtree.Merge(merged, tree)
		}
	}
	return merged, nil
}

// Get loads the effective configuration for dir and resolves a dotted
// key path in it.
func (l *Loader) Get(dir, keyPath string) (configtree.Value, bool, error) {
	tree, err := l.Load(dir)
	if err != nil {
		return nil, false, err
	}
	value, ok := configtree.Lookup(tree, keyPath)
	return value, ok, nil
}

// Invalidate drops the cache. The next Load re-reads every directory.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]cacheEntry)
}

// chain returns the directories from the walk root down to dir,
// shallowest first.
func (l *Loader) chain(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	var stop string
	if l.root != "" {
		stop, err = filepath.Abs(l.root)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", l.root, err)
		}
	}

	var chain []string
	for d := abs; ; d = filepath.Dir(d) {
		chain = append(chain, d)
		if d == stop || d == filepath.Dir(d) {
			break
		}
	}

	// Reverse: merge order is root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// loadDir returns dir's own config tree, or nil when the directory
// has none. Results are cached against the source file's identity.
func (l *Loader) loadDir(dir string) (*configtree.Map, error) {
	source, info := l.pickSource(dir)
	if source == "" {
		return nil, nil
	}

	l.mu.RLock()
	entry, ok := l.cache[dir]
	l.mu.RUnlock()
	if ok && entry.source == source && entry.modTime == info.ModTime().UnixNano() && entry.size == info.Size() {
		return entry.tree, nil
	}

	tree, err := l.readSource(dir, source)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[dir] = cacheEntry{
		tree:    tree,
		source:  source,
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
	}
	l.mu.Unlock()
	return tree, nil
}

// pickSource chooses which file represents dir's config: the binary
// when it exists and is at least as new as the text source, the text
// otherwise.
func (l *Loader) pickSource(dir string) (string, os.FileInfo) {
	binaryPath := filepath.Join(dir, l.baseName+container.Extension)
	textPath := filepath.Join(dir, l.baseName+TextExtension)

	binaryInfo, binaryErr := os.Stat(binaryPath)
	textInfo, textErr := os.Stat(textPath)

	switch {
	case binaryErr == nil && textErr == nil:
		if binaryInfo.ModTime().Before(textInfo.ModTime()) {
			return textPath, textInfo
		}
		return binaryPath, binaryInfo
	case binaryErr == nil:
		return binaryPath, binaryInfo
	case textErr == nil:
		return textPath, textInfo
	default:
		return "", nil
	}
}

// readSource parses one directory's config file. A text source is
// recompiled to its binary sibling when auto-compilation is on.
func (l *Loader) readSource(dir, source string) (*configtree.Map, error) {
	if filepath.Ext(source) == container.Extension {
		tree, err := compiler.Load(source)
		if err != nil {
			return nil, err
		}
		return tree, nil
	}

	tree, err := peanuts.ParseFile(source)
	if err != nil {
		return nil, err
	}

	if l.autoCompile {
		opts := compiler.Options{
			OutputPath: filepath.Join(dir, l.baseName+container.Extension),
			Optimize:   true,
			Method:     l.method,
			Checksum:   true,
			Clock:      l.clock,
		}
		result, err := compiler.Compile(tree, opts)
		if err != nil {
			// The text tree is already in hand; a failed recompile
			// only costs the next load a reparse.
			l.logger.Warn("auto-compile failed",
				"source", source,
				"error", err)
		} else {
			l.logger.Info("auto-compiled stale config",
				"source", source,
				"output", result.OutputPath,
				"stored_bytes", result.CompressedSize)
		}
	}
	return tree, nil
}
