// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peanut-foundation/peanut/lib/compiler"
	"github.com/peanut-foundation/peanut/lib/configtree"
	"github.com/peanut-foundation/peanut/lib/container"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeText(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "peanut.peanuts")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadCascadesRootToLeaf(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(child, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	writeText(t, root, "env: production\nregion: eu-west\n")
	writeText(t, child, "region: us-east\nreplicas: 3\n")

	loader := New(Options{Root: root, Logger: quietLogger()})

	tree, err := loader.Load(child)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Inherited from the root.
	if v, _ := tree.Get("env"); v != configtree.String("production") {
		t.Errorf("env = %v, want production", v)
	}
	// Overridden by the deeper directory.
	if v, _ := tree.Get("region"); v != configtree.String("us-east") {
		t.Errorf("region = %v, want us-east", v)
	}
	// Only in the deeper directory.
	if v, _ := tree.Get("replicas"); v != configtree.Int(3) {
		t.Errorf("replicas = %v, want 3", v)
	}
}

func TestLoadMergesNestedSections(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "app")
	if err := os.MkdirAll(child, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	writeText(t, root, "[server]\nhost: localhost\nport: 8080\n")
	writeText(t, child, "[server]\nport: 9090\n")

	loader := New(Options{Root: root, Logger: quietLogger()})
	tree, err := loader.Load(child)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := configtree.Lookup(tree, "server.host"); v != configtree.String("localhost") {
		t.Errorf("server.host = %v, want localhost", v)
	}
	if v, _ := configtree.Lookup(tree, "server.port"); v != configtree.Int(9090) {
		t.Errorf("server.port = %v, want 9090", v)
	}
}

func TestGetResolvesDottedPath(t *testing.T) {
	root := t.TempDir()
	writeText(t, root, "[database]\nurl: postgres://localhost\n")

	loader := New(Options{Root: root, Logger: quietLogger()})

	value, ok, err := loader.Get(root, "database.url")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != configtree.String("postgres://localhost") {
		t.Errorf("database.url = %v, %v", value, ok)
	}

	if _, ok, _ := loader.Get(root, "database.missing"); ok {
		t.Error("missing path reported present")
	}
}

func TestLoadEmptyWhenNoConfig(t *testing.T) {
	root := t.TempDir()
	loader := New(Options{Root: root, Logger: quietLogger()})

	tree, err := loader.Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("expected empty tree, got %d keys", tree.Len())
	}
}

func TestFreshBinaryPreferredOverText(t *testing.T) {
	root := t.TempDir()
	textPath := writeText(t, root, "source: text\n")

	binary := configtree.NewMap(
		configtree.Entry{Key: "source", Value: configtree.String("binary")},
	)
	opts := compiler.DefaultOptions()
	opts.OutputPath = filepath.Join(root, "peanut.pnt")
	if _, err := compiler.Compile(binary, opts); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// Binary strictly newer than the text source.
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(textPath, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	loader := New(Options{Root: root, Logger: quietLogger()})
	tree, err := loader.Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := tree.Get("source"); v != configtree.String("binary") {
		t.Errorf("source = %v, want binary", v)
	}
}

func TestStaleBinaryFallsBackToText(t *testing.T) {
	root := t.TempDir()
	writeText(t, root, "source: text\n")

	stale := configtree.NewMap(
		configtree.Entry{Key: "source", Value: configtree.String("binary")},
	)
	opts := compiler.DefaultOptions()
	opts.OutputPath = filepath.Join(root, "peanut.pnt")
	if _, err := compiler.Compile(stale, opts); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(opts.OutputPath, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	loader := New(Options{Root: root, Logger: quietLogger()})
	tree, err := loader.Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := tree.Get("source"); v != configtree.String("text") {
		t.Errorf("source = %v, want text", v)
	}
}

func TestAutoCompileRefreshesBinary(t *testing.T) {
	root := t.TempDir()
	writeText(t, root, "refreshed: true\n")

	loader := New(Options{
		Root:        root,
		AutoCompile: true,
		Method:      container.MethodGzip,
		Logger:      quietLogger(),
	})
	if _, err := loader.Load(root); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	binaryPath := filepath.Join(root, "peanut.pnt")
	tree, err := compiler.Load(binaryPath)
	if err != nil {
		t.Fatalf("auto-compiled binary unreadable: %v", err)
	}
	if v, _ := tree.Get("refreshed"); v != configtree.Bool(true) {
		t.Errorf("refreshed = %v, want true", v)
	}

	header, err := container.ReadHeader(binaryPath)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if header.Method != container.MethodGzip {
		t.Errorf("auto-compile method = %v, want gzip", header.Method)
	}
}

func TestAutoCompileDefaultsToCompressedMethod(t *testing.T) {
	root := t.TempDir()
	writeText(t, root, "compressed: true\n")

	loader := New(Options{
		Root:        root,
		AutoCompile: true,
		Logger:      quietLogger(),
	})
	if _, err := loader.Load(root); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	header, err := container.ReadHeader(filepath.Join(root, "peanut.pnt"))
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if header.Method == container.MethodNone {
		t.Error("auto-compiled container written uncompressed")
	}
	if header.Method != container.MethodGzip {
		t.Errorf("auto-compile method = %v, want gzip", header.Method)
	}
}

func TestCacheInvalidatesOnSourceChange(t *testing.T) {
	root := t.TempDir()
	path := writeText(t, root, "value: 1\n")

	loader := New(Options{Root: root, Logger: quietLogger()})
	tree, err := loader.Load(root)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if v, _ := tree.Get("value"); v != configtree.Int(1) {
		t.Fatalf("value = %v, want 1", v)
	}

	if err := os.WriteFile(path, []byte("value: 2\n"), 0644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	// Force a distinct mtime even on coarse-grained filesystems.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	tree, err = loader.Load(root)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if v, _ := tree.Get("value"); v != configtree.Int(2) {
		t.Errorf("value = %v, want 2 after source change", v)
	}
}

func TestInvalidate(t *testing.T) {
	root := t.TempDir()
	writeText(t, root, "value: 1\n")

	loader := New(Options{Root: root, Logger: quietLogger()})
	if _, err := loader.Load(root); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loader.Invalidate()

	tree, err := loader.Load(root)
	if err != nil {
		t.Fatalf("Load after Invalidate failed: %v", err)
	}
	if v, _ := tree.Get("value"); v != configtree.Int(1) {
		t.Errorf("value = %v, want 1", v)
	}
}
