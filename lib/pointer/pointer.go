// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package pointer implements the on-disk stand-in for annexed binary
// files: a text file of exactly the digest's hex length containing
// only the digest, plus the naming rule for the metadata sidecar that
// lives next to each blob.
//
// Recognition is a heuristic, not a cryptographic marker: a genuine
// text file that happens to be 32 bytes of hex is indistinguishable
// from a pointer. The protocol accepts this ambiguity; adding a magic
// prefix would invalidate every annex already on disk.
package pointer

import (
	"fmt"
	"os"
	"strings"

	"github.com/cea-hpc/rift/lib/digest"
)

// MetadataSuffix is appended to a digest to name its metadata sidecar.
const MetadataSuffix = ".info"

// IsPointer reports whether the file at path looks like a pointer: its
// size equals the digest hex length and every byte is a hex digit.
// Cheap by design — one stat plus at most one small read.
func IsPointer(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != digest.HexLength {
		return false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return digest.IsHex(string(content))
}

// FromFile reads the digest out of a pointer file. Callers must check
// IsPointer first; FromFile only validates the content shape.
func FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pointer %s: %w", path, err)
	}
	id := strings.TrimSpace(string(content))
	if err := digest.ValidateDigest(id); err != nil {
		return "", fmt.Errorf("%s is not a pointer file: %w", path, err)
	}
	return id, nil
}

// Write replaces the file at path with a pointer containing exactly
// the digest bytes, no trailing newline.
func Write(path, id string) error {
	if err := digest.ValidateDigest(id); err != nil {
		return fmt.Errorf("writing pointer %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(id), 0o644); err != nil {
		return fmt.Errorf("writing pointer %s: %w", path, err)
	}
	return nil
}

// MetadataKey returns the storage key of the metadata sidecar for a
// digest.
func MetadataKey(id string) string {
	return id + MetadataSuffix
}

// IsMetadataKey reports whether a storage key names a metadata sidecar.
func IsMetadataKey(key string) bool {
	return strings.HasSuffix(key, MetadataSuffix)
}
