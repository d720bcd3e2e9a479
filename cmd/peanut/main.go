// Copyright 2026 The Peanut Authors
// SPDX-License-Identifier: Apache-2.0

// Command peanut compiles text configuration into binary containers
// and inspects the result.
//
// Usage:
//
//	peanut compile <source> [flags]
//	peanut load <container> [flags]
//	peanut get [directory] [flags]
//	peanut info <container>
//	peanut check <container>
//
// Exit codes: 0 success, 1 failure, 2 usage error, 3 input file not
// found.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/peanut-foundation/peanut/lib/version"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	for _, argument := range args {
		if argument == "--version" {
			fmt.Printf("peanut %s\n", version.Info())
			return exitOK
		}
	}

	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	setupLogging(args)

	var err error
	switch args[0] {
	case "compile":
		err = runCompile(args[1:])
	case "load":
		err = runLoad(args[1:])
	case "get":
		err = runGet(args[1:])
	case "info":
		err = runInfo(args[1:])
	case "check":
		err = runCheck(args[1:])
	case "help", "--help", "-h":
		printUsage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", args[0])
		printUsage()
		return exitUsage
	}

	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, fs.ErrNotExist) {
			return exitNotFound
		}
		return exitFailure
	}
	return exitOK
}

// usageError marks errors caused by bad invocation rather than bad
// input data.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// setupLogging routes slog to stderr; --verbose lowers the level to
// debug. The flag is read here, before subcommand flag parsing, so
// every subcommand gets it for free.
func setupLogging(args []string) {
	level := slog.LevelWarn
	for _, argument := range args {
		if argument == "--verbose" || argument == "-v" {
			level = slog.LevelDebug
		}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func printUsage() {
	fmt.Fprint(os.Stderr, `peanut - configuration compiler

Usage:
  peanut compile <source> [flags]   compile a source file to a .pnt container
  peanut load <container> [flags]   load a container and print the tree as JSON
  peanut get [directory] [flags]    load the directory hierarchy's merged config
  peanut info <container>           print container header metadata
  peanut check <container>          validate a container, including its checksum

Flags common to all commands:
  -v, --verbose    enable debug logging
      --version    print version and exit

Run 'peanut <command> --help' for command flags.
`)
}
