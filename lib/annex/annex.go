// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cea-hpc/rift/lib/backend"
	"github.com/cea-hpc/rift/lib/config"
	"github.com/cea-hpc/rift/lib/credential"
	"github.com/cea-hpc/rift/lib/digest"
	"github.com/cea-hpc/rift/lib/pointer"
)

// Annex is the store engine. It binds a read location, an optional
// push location, and an optional restore cache resolved once from the
// configuration.
type Annex struct {
	read    backend.Backend
	readLoc backend.Location

	push    backend.Backend
	pushLoc backend.Location
	hasPush bool

	cacheDir string
	logger   *slog.Logger
}

// New builds an Annex from a validated configuration. Location shape
// errors (bad schemes, contradictory S3 settings, a missing credential
// file setting for an S3 push) abort here: a half-resolved annex must
// never start serving.
func New(cfg *config.Config, logger *slog.Logger) (*Annex, error) {
	if logger == nil {
		logger = slog.Default()
	}

	readLoc, err := backend.Resolve(cfg.Annex, cfg.AnnexIsS3)
	if err != nil {
		return nil, err
	}
	pushLoc, hasPush, err := backend.ResolvePush(cfg.AnnexPush, readLoc)
	if err != nil {
		return nil, err
	}

	// The read path is anonymous even against S3; only pushes carry
	// credentials. The source is cached so one process authenticates
	// at most once, and lazily consumed so read-only runs never touch
	// the credential file.
	var pushCreds credential.Source
	if cfg.S3CredentialFile != "" {
		pushCreds = credential.Cached(credential.File{Path: cfg.S3CredentialFile})
	}

	a := &Annex{
		read:     newBackend(readLoc, nil),
		readLoc:  readLoc,
		pushLoc:  pushLoc,
		hasPush:  hasPush,
		cacheDir: cfg.AnnexRestoreCache,
		logger:   logger,
	}

	if hasPush {
		if pushLoc.Kind == backend.KindS3 && pushCreds == nil {
			return nil, fmt.Errorf("pushing to an s3 annex requires s3_credential_file")
		}
		a.push = newBackend(pushLoc, pushCreds)
	}
	return a, nil
}

// newBackend instantiates the backend variant for a resolved location.
func newBackend(loc backend.Location, creds credential.Source) backend.Backend {
	switch loc.Kind {
	case backend.KindHTTP:
		return backend.NewHTTP(loc)
	case backend.KindS3:
		return backend.NewS3(loc, creds)
	default:
		return backend.NewLocal(loc)
	}
}

// Get retrieves the blob for a digest into destPath. Tiers are tried
// in order: restore cache, read location, push location. A miss at one
// tier falls through to the next; only when every tier misses does Get
// fail with backend.ErrNotFound.
func (a *Annex) Get(ctx context.Context, id, destPath string) error {
	if err := digest.ValidateDigest(id); err != nil {
		return err
	}

	if a.cacheDir != "" {
		cachePath := filepath.Join(a.cacheDir, id)
		if fileExists(cachePath) {
			a.logger.Debug("restoring from cache", "digest", id, "dest", destPath)
			return copyFile(cachePath, destPath)
		}
	}

	data, err := a.read.Fetch(ctx, id)
	switch {
	case err == nil:
		return a.deliver(id, data, destPath)
	case errors.Is(err, backend.ErrNotFound):
		a.logger.Info("object not found at read location", "digest", id)
	default:
		// A transport failure on the read tier is not conclusive; the
		// push location may still serve the object. Log and continue.
		a.logger.Error("fetch from read location failed", "digest", id, "error", err)
	}

	if a.hasPush {
		data, err := a.push.Fetch(ctx, id)
		switch {
		case err == nil:
			return a.deliver(id, data, destPath)
		case errors.Is(err, backend.ErrNotFound):
			a.logger.Info("object not found at push location", "digest", id)
		default:
			// The push tier is the last resort: an error here other
			// than "missing" (an auth refusal, an outage) must not be
			// reported as a mere absence.
			return fmt.Errorf("fetching %s from push location: %w", id, err)
		}
	}

	return fmt.Errorf("%s not present in the annex: %w", id, backend.ErrNotFound)
}

// deliver lands fetched bytes at destPath. With a restore cache
// configured the cache copy is written first and the destination is
// copied from it, so cache and destination always agree; a cache write
// failure degrades to a direct write rather than failing the get.
func (a *Annex) deliver(id string, data []byte, destPath string) error {
	a.logger.Debug("extracting", "digest", id, "dest", destPath)

	if a.cacheDir != "" {
		if err := a.populateCache(id, data); err != nil {
			a.logger.Error("populating restore cache failed", "digest", id, "error", err)
		} else {
			return copyFile(filepath.Join(a.cacheDir, id), destPath)
		}
	}

	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", destPath, err)
	}
	return nil
}

// populateCache writes a blob into the restore cache atomically.
func (a *Annex) populateCache(id string, data []byte) error {
	if err := os.MkdirAll(a.cacheDir, 0o775); err != nil {
		return fmt.Errorf("creating restore cache %s: %w", a.cacheDir, err)
	}
	return writeFileAtomic(filepath.Join(a.cacheDir, id), data, 0o644)
}

// GetByPointer resolves a pointer file and retrieves its blob into
// destPath.
func (a *Annex) GetByPointer(ctx context.Context, pointerPath, destPath string) error {
	id, err := pointer.FromFile(pointerPath)
	if err != nil {
		return err
	}
	return a.Get(ctx, id, destPath)
}

// Push imports a file into the annex: hash it, upload the metadata
// sidecar and then the blob (unless both are already present for this
// filename), and replace the file in place with its pointer.
func (a *Annex) Push(ctx context.Context, filePath string) error {
	if !a.hasPush {
		return fmt.Errorf("no writable push location configured")
	}

	id, err := digest.HashFile(filePath)
	if err != nil {
		return err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filePath, err)
	}
	filename := filepath.Base(filePath)

	meta, err := a.pushMetadata(ctx, id)
	if err != nil {
		return err
	}

	if a.alreadyAnnexed(ctx, id, filename, info.Size(), meta) {
		a.logger.Debug("already in annex, skipping upload", "file", filename, "digest", id)
	} else {
		meta.Record(filename, time.Now())
		sidecar, err := meta.Marshal()
		if err != nil {
			return err
		}

		// Sidecar first: a listing must never observe a blob without
		// its recorded filenames.
		if err := a.push.Put(ctx, pointer.MetadataKey(id), sidecar); err != nil {
			return fmt.Errorf("uploading metadata for %s: %w", id, err)
		}

		blob, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filePath, err)
		}
		a.logger.Debug("importing into annex", "file", filePath, "digest", id)
		if err := a.push.Put(ctx, id, blob); err != nil {
			return fmt.Errorf("uploading %s: %w", id, err)
		}
	}

	// The pointer swap happens whether or not the upload was skipped:
	// deduplication must still leave a pointer behind.
	return pointer.Write(filePath, id)
}

// pushMetadata loads the existing sidecar from the push location. A
// missing sidecar means a fresh blob and yields empty metadata; any
// other failure (an auth refusal in particular) aborts the push.
func (a *Annex) pushMetadata(ctx context.Context, id string) (Metadata, error) {
	data, err := a.push.Fetch(ctx, pointer.MetadataKey(id))
	switch {
	case errors.Is(err, backend.ErrNotFound):
		return Metadata{Filenames: make(map[string]FileEntry)}, nil
	case err != nil:
		return Metadata{}, fmt.Errorf("fetching metadata for %s: %w", id, err)
	}

	meta, err := ParseMetadata(data)
	if err != nil {
		// A corrupt sidecar is repaired by the upcoming rewrite.
		a.logger.Error("discarding unreadable metadata", "digest", id, "error", err)
		return Metadata{Filenames: make(map[string]FileEntry)}, nil
	}
	return meta, nil
}

// alreadyAnnexed reports whether the blob is already stored with the
// expected size and this filename already recorded, in which case the
// upload can be skipped entirely.
func (a *Annex) alreadyAnnexed(ctx context.Context, id, filename string, size int64, meta Metadata) bool {
	if _, ok := meta.Filenames[filename]; !ok {
		return false
	}
	stored, err := a.push.Stat(ctx, id)
	return err == nil && stored == size
}

// Delete removes a blob and its sidecar from a local annex. Remote
// annexes refuse with backend.ErrUnsupported: removal of replicated
// content is an administrative operation, not an engine one.
func (a *Annex) Delete(ctx context.Context, id string) error {
	if a.readLoc.Kind != backend.KindLocal {
		return fmt.Errorf("deleting from a remote annex: %w", backend.ErrUnsupported)
	}
	if err := digest.ValidateDigest(id); err != nil {
		return err
	}

	a.logger.Debug("deleting from annex", "digest", id)
	if err := a.read.Delete(ctx, pointer.MetadataKey(id)); err != nil && !errors.Is(err, backend.ErrNotFound) {
		return err
	}
	return a.read.Delete(ctx, id)
}
