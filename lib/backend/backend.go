// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend resolves annex location strings into one of three
// storage topologies — local filesystem, read-only HTTP endpoint, or
// S3-compatible object store — and exposes them behind a single
// capability interface so the store engine stays backend-agnostic.
//
// The variant set is closed and selected once at resolution time.
// Operations a topology cannot serve return ErrUnsupported rather than
// failing obscurely: plain HTTP endpoints cannot write or list, and no
// remote topology supports deletion.
package backend

import (
	"context"
	"errors"
)

// Entry describes one object in a listing.
type Entry struct {
	// Key is the object's storage key relative to the location (the
	// digest, or a metadata sidecar name).
	Key string

	// Size is the object's size in bytes, as reported by the backend
	// itself (filesystem stat or object listing), never by metadata.
	Size int64
}

// Backend is the uniform capability interface over a resolved storage
// location. Implementations map their native "missing object" signal
// to ErrNotFound and report capabilities they lack as ErrUnsupported.
type Backend interface {
	// Fetch returns the object's bytes.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// Stat returns the object's size without retrieving it.
	Stat(ctx context.Context, key string) (int64, error)

	// Put stores data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// List enumerates every object at the location.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// ErrNotFound indicates the object is absent at this location. Callers
// use it to fall through to the next resolution tier.
var ErrNotFound = errors.New("object not found")

// ErrUnsupported indicates the resolved topology cannot perform the
// requested operation (e.g. deleting from a remote annex). It is a
// clean refusal, not a transport failure.
var ErrUnsupported = errors.New("operation not supported by this annex location")
