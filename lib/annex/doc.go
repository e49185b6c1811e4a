// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package annex implements the store engine: pushing binary files into
// a content-addressed blob store, resolving pointer files back into
// real content, listing and deleting annexed objects, exporting
// backups, and materializing fully-resolved working copies of source
// directories.
//
// Resolution order for Get is fixed: restore cache, then the read
// location, then the push location as a fallback. All operations are
// single-threaded blocking calls; concurrent pushes of identical
// content are safe by content addressing, while races on a metadata
// sidecar are last-writer-wins (the engine targets single-actor batch
// workflows, not concurrent storage).
package annex
