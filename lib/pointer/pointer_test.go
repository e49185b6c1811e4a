// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package pointer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cea-hpc/rift/lib/digest"
)

const sampleDigest = "d41d8cd98f00b204e9800998ecf8427e"

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candidate")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestIsPointer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"valid-lower", sampleDigest, true},
		{"valid-upper", strings.ToUpper(sampleDigest), true},
		{"too-short", sampleDigest[:31], false},
		{"too-long", sampleDigest + "a", false},
		{"trailing-newline", sampleDigest[:31] + "\n", false},
		{"non-hex", "g41d8cd98f00b204e9800998ecf8427e", false},
		{"empty", "", false},
		{"right-size-text", "this text is exactly 32 bytes ok", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := write(t, test.content)
			if got := IsPointer(path); got != test.want {
				t.Errorf("IsPointer(%q) = %v, want %v", test.content, got, test.want)
			}
		})
	}
}

func TestIsPointerMissingFile(t *testing.T) {
	if IsPointer(filepath.Join(t.TempDir(), "absent")) {
		t.Error("IsPointer should be false for a missing file")
	}
}

func TestIsPointerDirectory(t *testing.T) {
	if IsPointer(t.TempDir()) {
		t.Error("IsPointer should be false for a directory")
	}
}

func TestWriteAndFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := Write(path, sampleDigest); err != nil {
		t.Fatalf("Write: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != sampleDigest {
		t.Errorf("pointer content = %q, want exactly the digest with no trailing newline", content)
	}
	if int64(len(content)) != digest.HexLength {
		t.Errorf("pointer size = %d, want %d", len(content), digest.HexLength)
	}
	if !IsPointer(path) {
		t.Error("written pointer is not recognized by IsPointer")
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if got != sampleDigest {
		t.Errorf("FromFile = %s, want %s", got, sampleDigest)
	}
}

func TestWriteRejectsInvalidDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := Write(path, "nothex"); err == nil {
		t.Error("Write should reject a malformed digest")
	}
}

func TestFromFileRejectsNonPointer(t *testing.T) {
	path := write(t, "not a pointer at all")
	if _, err := FromFile(path); err == nil {
		t.Error("FromFile should fail on non-pointer content")
	}
}

func TestMetadataKey(t *testing.T) {
	key := MetadataKey(sampleDigest)
	if key != sampleDigest+".info" {
		t.Errorf("MetadataKey = %s, want %s.info", key, sampleDigest)
	}
	if !IsMetadataKey(key) {
		t.Error("IsMetadataKey should recognize a sidecar key")
	}
	if IsMetadataKey(sampleDigest) {
		t.Error("IsMetadataKey should not match a bare digest")
	}
}
