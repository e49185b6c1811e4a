// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Command rift-annex manages large binary files stored out of tree in
// a content-addressed annex. Working copies hold 32-character digest
// pointers; the blobs themselves live in a local directory, behind an
// HTTP endpoint, or in an S3 bucket.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(os.Args[1:])
}
