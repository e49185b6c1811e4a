// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"context"
	"sort"
	"time"

	"github.com/cea-hpc/rift/lib/pointer"
)

// ListEntry describes one annexed blob for inventory output.
type ListEntry struct {
	// Digest is the blob's storage key.
	Digest string
	// Size is the stored blob size as reported by the backend listing.
	Size int64
	// InsertionTime is the earliest recorded push date, zero when the
	// sidecar is missing or carries no parseable date.
	InsertionTime time.Time
	// Filenames maps each recorded filename to its push entry.
	Filenames map[string]FileEntry
}

// List enumerates the annexed blobs at the read location, pairing each
// with its sidecar metadata. Sidecar entries themselves are filtered
// out of the result. A blob whose sidecar is missing or unreadable is
// still listed, with empty filenames — inventory must not hide content
// over a damaged sidecar. Entries come back sorted by digest.
func (a *Annex) List(ctx context.Context) ([]ListEntry, error) {
	objects, err := a.read.List(ctx)
	if err != nil {
		return nil, err
	}

	var entries []ListEntry
	for _, object := range objects {
		if pointer.IsMetadataKey(object.Key) {
			continue
		}

		meta := a.readMetadata(ctx, object.Key)
		entries = append(entries, ListEntry{
			Digest:        object.Key,
			Size:          object.Size,
			InsertionTime: meta.InsertionTime(),
			Filenames:     meta.Filenames,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Digest < entries[j].Digest
	})
	return entries, nil
}

// readMetadata loads a sidecar from the read location, degrading to
// empty metadata when it is missing or unreadable.
func (a *Annex) readMetadata(ctx context.Context, id string) Metadata {
	data, err := a.read.Fetch(ctx, pointer.MetadataKey(id))
	if err != nil {
		a.logger.Debug("no readable metadata", "digest", id, "error", err)
		return Metadata{Filenames: make(map[string]FileEntry)}
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		a.logger.Debug("unparseable metadata", "digest", id, "error", err)
		return Metadata{Filenames: make(map[string]FileEntry)}
	}
	return meta
}
