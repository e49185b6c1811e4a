// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cea-hpc/rift/lib/pointer"
	"github.com/cea-hpc/rift/lib/tempdir"
)

// ImportDir materializes a fully-resolved copy of dirPath in a scratch
// directory: pointer files are replaced by their annexed content,
// plain files are copied verbatim, subdirectories are skipped. The
// caller owns the returned Dir and must Delete it when done.
//
// The scratch directory is created lazily, on the first pointer file
// encountered — a directory with no pointers yields an uncreated Dir
// (Created() false) and no filesystem work at all, unless forceScratch
// requests creation up front. A missing dirPath is treated as empty.
//
// A pointer whose blob cannot be retrieved is logged and skipped so
// one damaged entry does not sink the whole import.
func (a *Annex) ImportDir(ctx context.Context, dirPath string, forceScratch bool) (*tempdir.Dir, error) {
	scratch := tempdir.New("rift-sources-")
	if forceScratch {
		if err := scratch.Create(); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return scratch, nil
		}
		scratch.Delete()
		return nil, fmt.Errorf("reading %s: %w", dirPath, err)
	}

	// Plain files seen before the first pointer are held back; if no
	// pointer ever shows up they are never copied anywhere.
	var deferred []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		srcPath := filepath.Join(dirPath, entry.Name())

		if !pointer.IsPointer(srcPath) {
			if !scratch.Created() {
				deferred = append(deferred, srcPath)
				continue
			}
			if err := copyFile(srcPath, filepath.Join(scratch.Path, entry.Name())); err != nil {
				scratch.Delete()
				return nil, err
			}
			continue
		}

		if !scratch.Created() {
			if err := scratch.Create(); err != nil {
				return nil, err
			}
			for _, plain := range deferred {
				if err := copyFile(plain, filepath.Join(scratch.Path, filepath.Base(plain))); err != nil {
					scratch.Delete()
					return nil, err
				}
			}
			deferred = nil
		}

		destPath := filepath.Join(scratch.Path, entry.Name())
		if err := a.GetByPointer(ctx, srcPath, destPath); err != nil {
			a.logger.Error("skipping unretrievable annexed file", "file", entry.Name(), "error", err)
		}
	}

	return scratch, nil
}
