// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package tempdir manages scratch directories whose creation is
// deferred until something actually needs them. The directory importer
// uses this so that a source tree with no pointer files never touches
// the filesystem at all.
package tempdir

import (
	"fmt"
	"os"
)

// Dir is a lazily created temporary directory. The zero value (plus a
// prefix via New) is usable; Path stays empty until Create is called.
// The owner must call Delete when done.
type Dir struct {
	// Path is the created directory, or "" before Create.
	Path string

	prefix string
}

// New returns an uncreated Dir whose directory, once created, will
// carry the given name prefix.
func New(prefix string) *Dir {
	return &Dir{prefix: prefix}
}

// Create makes the temporary directory. Calling Create on an already
// created Dir is a no-op.
func (d *Dir) Create() error {
	if d.Path != "" {
		return nil
	}
	path, err := os.MkdirTemp("", d.prefix)
	if err != nil {
		return fmt.Errorf("creating temporary directory: %w", err)
	}
	d.Path = path
	return nil
}

// Created reports whether the directory exists.
func (d *Dir) Created() bool {
	return d.Path != ""
}

// Delete recursively removes the directory if it was created.
func (d *Dir) Delete() error {
	if d.Path == "" {
		return nil
	}
	if err := os.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("deleting temporary directory %s: %w", d.Path, err)
	}
	d.Path = ""
	return nil
}
