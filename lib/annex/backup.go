// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/cea-hpc/rift/lib/pointer"
)

// Compression selects the backup archive codec.
type Compression string

const (
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLz4  Compression = "lz4"
)

// ParseCompression maps a user-supplied codec name to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case CompressionGzip, CompressionZstd, CompressionLz4:
		return Compression(name), nil
	default:
		return "", fmt.Errorf("unknown compression %q (expected gzip, zstd, or lz4)", name)
	}
}

// Extension returns the archive filename suffix for the codec.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".tar.zst"
	case CompressionLz4:
		return ".tar.lz4"
	default:
		return ".tar.gz"
	}
}

// newCompressor wraps the output stream in the selected codec.
func (c Compression) newCompressor(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLz4:
		return lz4.NewWriter(w), nil
	default:
		return gzip.NewWriter(w), nil
	}
}

// Backup exports the blobs and sidecars referenced by pointer files
// into a compressed tar archive and returns the archive path. Non-
// pointer entries in files are ignored; a blob referenced by several
// pointers is archived once. With outputPath empty the archive lands
// in a fresh temporary file.
//
// A blob that cannot be fetched is logged and skipped — a backup run
// over a partially reachable annex still saves everything it can.
// progress, when non-nil, is called after each pointer file with the
// number processed so far and the total.
func (a *Annex) Backup(ctx context.Context, files []string, outputPath string,
	compression Compression, progress func(done, total int)) (string, error) {

	var pointers []string
	for _, f := range files {
		if pointer.IsPointer(f) {
			pointers = append(pointers, f)
		}
	}

	if outputPath == "" {
		tmp, err := os.CreateTemp("", "rift-annex-backup-*"+compression.Extension())
		if err != nil {
			return "", fmt.Errorf("creating backup file: %w", err)
		}
		outputPath = tmp.Name()
		tmp.Close()
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating backup file %s: %w", outputPath, err)
	}

	compressor, err := compression.newCompressor(out)
	if err != nil {
		out.Close()
		return "", fmt.Errorf("initializing %s compression: %w", compression, err)
	}
	tw := tar.NewWriter(compressor)

	archived := make(map[string]bool)
	total := len(pointers)
	for done, src := range pointers {
		if err := a.backupOne(ctx, tw, src, archived); err != nil {
			a.closeBackup(tw, compressor, out)
			return "", err
		}
		if progress != nil {
			progress(done+1, total)
		}
	}

	if err := a.closeBackup(tw, compressor, out); err != nil {
		return "", err
	}
	return outputPath, nil
}

// backupOne archives the blob and sidecar behind one pointer file.
// Fetch failures are logged and skipped; only archive write failures
// abort the backup.
func (a *Annex) backupOne(ctx context.Context, tw *tar.Writer, src string, archived map[string]bool) error {
	id, err := pointer.FromFile(src)
	if err != nil {
		a.logger.Error("skipping unreadable pointer file", "file", src, "error", err)
		return nil
	}
	if archived[id] {
		return nil
	}
	archived[id] = true

	for _, key := range []string{id, pointer.MetadataKey(id)} {
		data, err := a.read.Fetch(ctx, key)
		if err != nil {
			a.logger.Error("skipping unfetchable object", "key", key, "error", err)
			continue
		}

		header := &tar.Header{
			Name:    key,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing archive header for %s: %w", key, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("archiving %s: %w", key, err)
		}
	}
	return nil
}

// closeBackup flushes and closes the archive layers in order. The
// first failure wins; later layers are still closed.
func (a *Annex) closeBackup(tw *tar.Writer, compressor io.WriteCloser, out *os.File) error {
	err := tw.Close()
	if cerr := compressor.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("finishing compression: %w", cerr)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing backup file: %w", cerr)
	}
	return err
}
