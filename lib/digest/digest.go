// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HexLength is the length of a hex-encoded content digest. It is a
// protocol constant: pointer files are recognized by having exactly
// this size, so changing the digest algorithm breaks every annex
// already on disk.
const HexLength = 32

// DefaultSampleSize is how many leading bytes of a file the binary
// classifier inspects.
const DefaultSampleSize = 64 * 1024

// HashFile computes the content digest of the file at path. The file
// is streamed through the hash function (via io.Copy) to keep memory
// usage constant regardless of file size. The digest is MD5 — an
// integrity key for content addressing, not a security boundary.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// IsHex reports whether every byte of s is an ASCII hex digit.
func IsHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidateDigest checks that s has the canonical digest shape: exactly
// HexLength hex digits.
func ValidateDigest(s string) error {
	if len(s) != HexLength {
		return fmt.Errorf("digest is %d characters, want %d", len(s), HexLength)
	}
	if !IsHex(s) {
		return fmt.Errorf("digest contains non-hex characters")
	}
	return nil
}

// IsBinary reports whether the file at path holds binary content,
// sampling the first DefaultSampleSize bytes.
func IsBinary(path string) (bool, error) {
	return IsBinarySample(path, DefaultSampleSize)
}

// IsBinarySample classifies the file at path by reading up to
// sampleSize leading bytes and measuring the fraction of bytes outside
// the printable-ASCII-plus-{tab, LF, CR} set. An empty sample is text.
// A fraction below 1% is still text: near-text files with a few stray
// control characters should not be annexed. Anything else is binary.
//
// Only the head of the file is inspected, so binary content appearing
// past the sample window is missed.
func IsBinarySample(path string, sampleSize int) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s for classification: %w", path, err)
	}
	defer file.Close()

	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(file, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	sample = sample[:n]

	if len(sample) == 0 {
		return false, nil
	}

	nonText := 0
	for _, c := range sample {
		if !isTextByte(c) {
			nonText++
		}
	}

	return float64(nonText)/float64(len(sample)) >= 0.01, nil
}

// isTextByte reports whether c belongs to the text alphabet: printable
// ASCII plus tab, line feed, and carriage return.
func isTextByte(c byte) bool {
	return (c >= 32 && c < 127) || c == '\t' || c == '\n' || c == '\r'
}
