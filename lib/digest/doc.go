// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes content digests for annex storage keys and
// classifies files as binary or text.
//
// The digest doubles as the storage key and as the full content of
// pointer files, so its hex length is fixed protocol-wide. The binary
// classifier is a heuristic over the first bytes of a file; it trades
// exactness for never reading more than one sample window.
package digest
