// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local is a directory-backed annex location. Objects are plain files
// named by their storage key in a flat namespace.
type Local struct {
	// Dir is the annex directory. Created on first write.
	Dir string
}

// NewLocal creates a Local backend for a resolved local location.
func NewLocal(loc Location) *Local {
	return &Local{Dir: loc.Path}
}

func (l *Local) objectPath(key string) string {
	return filepath.Join(l.Dir, key)
}

// Fetch reads the object file.
func (l *Local) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s from annex: %w", key, err)
	}
	return data, nil
}

// Stat returns the object file's size.
func (l *Local) Stat(ctx context.Context, key string) (int64, error) {
	info, err := os.Stat(l.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return 0, fmt.Errorf("stat %s in annex: %w", key, err)
	}
	return info.Size(), nil
}

// Put writes the object atomically: temp file in the same directory,
// then rename. Annexed files are group-writable (0664) so a shared
// annex directory can be maintained by more than one account.
func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(l.Dir, 0o775); err != nil {
		return fmt.Errorf("creating annex directory %s: %w", l.Dir, err)
	}

	tmpFile, err := os.CreateTemp(l.Dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", key, err)
	}
	if err := os.Chmod(tmpPath, 0o664); err != nil {
		return fmt.Errorf("setting mode on %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, l.objectPath(key)); err != nil {
		return fmt.Errorf("renaming %s into annex: %w", key, err)
	}

	success = true
	return nil
}

// List enumerates the annex directory. Sizes come from filesystem
// stat. A missing directory is an empty annex, not an error.
func (l *Local) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing annex directory %s: %w", l.Dir, err)
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s in annex: %w", dirEntry.Name(), err)
		}
		entries = append(entries, Entry{Key: dirEntry.Name(), Size: info.Size()})
	}
	return entries, nil
}

// Delete removes the object file.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := os.Remove(l.objectPath(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("deleting %s from annex: %w", key, err)
	}
	return nil
}

var _ Backend = (*Local)(nil)
