// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestHashFile(t *testing.T) {
	content := []byte("ABC")
	path := writeTemp(t, "blob", content)

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	sum := md5.Sum(content)
	want := hex.EncodeToString(sum[:])
	if got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if len(got) != HexLength {
		t.Errorf("digest length = %d, want %d", len(got), HexLength)
	}
}

func TestHashFileDeterministic(t *testing.T) {
	path := writeTemp(t, "blob", []byte("determinism check"))

	first, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	second, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if first != second {
		t.Errorf("digests differ across calls: %s vs %s", first, second)
	}
}

func TestHashFileLarge(t *testing.T) {
	// Streaming must produce the same result as hashing in one shot.
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := writeTemp(t, "large", content)

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	sum := md5.Sum(content)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("HashFile(large) = %s, want %s", got, want)
	}
}

func TestHashFileNonexistent(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("HashFile should fail for a nonexistent file")
	}
}

func TestIsHex(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0123456789abcdef", true},
		{"ABCDEF", true},
		{"deadbeef", true},
		{"", false},
		{"xyz", false},
		{"abc def", false},
		{"abcg", false},
	}
	for _, test := range tests {
		if got := IsHex(test.input); got != test.want {
			t.Errorf("IsHex(%q) = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestValidateDigest(t *testing.T) {
	valid := "d41d8cd98f00b204e9800998ecf8427e"
	if err := ValidateDigest(valid); err != nil {
		t.Errorf("ValidateDigest(%q): %v", valid, err)
	}
	if err := ValidateDigest("abc"); err == nil {
		t.Error("ValidateDigest should reject short strings")
	}
	if err := ValidateDigest("g41d8cd98f00b204e9800998ecf8427e"); err == nil {
		t.Error("ValidateDigest should reject non-hex characters")
	}
}

func TestIsBinary(t *testing.T) {
	printable := bytes.Repeat([]byte("a"), 1000)

	fewBinary := append(bytes.Repeat([]byte("a"), 995), bytes.Repeat([]byte{0}, 5)...)
	manyBinary := append(bytes.Repeat([]byte("a"), 950), bytes.Repeat([]byte{0}, 50)...)

	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"printable", printable, false},
		{"nulls", bytes.Repeat([]byte{0}, 1000), true},
		{"below-threshold", fewBinary, false},
		{"above-threshold", manyBinary, true},
		{"text-with-newlines", []byte("line one\nline two\r\n\ttabbed\n"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTemp(t, "sample", test.content)
			got, err := IsBinary(path)
			if err != nil {
				t.Fatalf("IsBinary: %v", err)
			}
			if got != test.want {
				t.Errorf("IsBinary = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsBinarySampleWindow(t *testing.T) {
	// Binary content past the sample window is not seen — a documented
	// limitation of head-only classification.
	content := append(bytes.Repeat([]byte("a"), 1024), bytes.Repeat([]byte{0}, 1024)...)
	path := writeTemp(t, "tail-binary", content)

	got, err := IsBinarySample(path, 1024)
	if err != nil {
		t.Fatalf("IsBinarySample: %v", err)
	}
	if got {
		t.Error("classifier should not see binary bytes past the sample window")
	}
}
