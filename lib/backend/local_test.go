// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPutFetch(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	ctx := context.Background()

	content := []byte("binary payload")
	if err := local.Put(ctx, "abc123", content); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := local.Fetch(ctx, "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Fetch = %q, want %q", got, content)
	}

	// Annexed files are group-writable.
	info, err := os.Stat(filepath.Join(local.Dir, "abc123"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o664 {
		t.Errorf("object mode = %o, want 664", mode)
	}
}

func TestLocalPutCreatesDirectory(t *testing.T) {
	local := &Local{Dir: filepath.Join(t.TempDir(), "nested", "annex")}
	if err := local.Put(context.Background(), "abc123", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestLocalFetchNotFound(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	_, err := local.Fetch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch error = %v, want ErrNotFound", err)
	}
}

func TestLocalStat(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	ctx := context.Background()

	if err := local.Put(ctx, "abc123", []byte("12345")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	size, err := local.Stat(ctx, "abc123")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if size != 5 {
		t.Errorf("Stat = %d, want 5", size)
	}

	if _, err := local.Stat(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat error = %v, want ErrNotFound", err)
	}
}

func TestLocalList(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	ctx := context.Background()

	if err := local.Put(ctx, "aaa", []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := local.Put(ctx, "bbb", []byte("22")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Subdirectories are not objects.
	if err := os.Mkdir(filepath.Join(local.Dir, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	entries, err := local.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}

	sizes := map[string]int64{}
	for _, entry := range entries {
		sizes[entry.Key] = entry.Size
	}
	if sizes["aaa"] != 1 || sizes["bbb"] != 2 {
		t.Errorf("sizes = %v, want aaa:1 bbb:2", sizes)
	}
}

func TestLocalListMissingDirectory(t *testing.T) {
	local := &Local{Dir: filepath.Join(t.TempDir(), "never-created")}
	entries, err := local.List(context.Background())
	if err != nil {
		t.Fatalf("List on a missing directory should be an empty annex, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List = %v, want empty", entries)
	}
}

func TestLocalDelete(t *testing.T) {
	local := &Local{Dir: t.TempDir()}
	ctx := context.Background()

	if err := local.Put(ctx, "abc123", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := local.Delete(ctx, "abc123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := local.Fetch(ctx, "abc123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch after delete = %v, want ErrNotFound", err)
	}
	if err := local.Delete(ctx, "abc123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete of missing object = %v, want ErrNotFound", err)
	}
}

func TestLocalPutOverwrite(t *testing.T) {
	// Content addressing makes identical re-puts idempotent; the
	// backend itself simply overwrites.
	local := &Local{Dir: t.TempDir()}
	ctx := context.Background()

	if err := local.Put(ctx, "abc123", []byte("same")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := local.Put(ctx, "abc123", []byte("same")); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := local.Fetch(ctx, "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(got) != "same" {
		t.Errorf("Fetch = %q, want %q", got, "same")
	}
}
