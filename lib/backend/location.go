// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies a resolved storage topology.
type Kind int

const (
	// KindLocal is a directory on the local filesystem.
	KindLocal Kind = iota
	// KindHTTP is a read-only http(s) endpoint serving objects by key.
	KindHTTP
	// KindS3 is an S3-compatible object store reached over http(s).
	KindS3
)

// String returns the human-readable topology name.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindHTTP:
		return "http"
	case KindS3:
		return "s3"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Location is a resolved annex location. Resolution happens once at
// startup; the result is immutable.
type Location struct {
	Kind Kind

	// Path is the filesystem directory (KindLocal only).
	Path string

	// BaseURL is the full endpoint URL (KindHTTP only).
	BaseURL string

	// Endpoint is the object store host[:port] (KindS3 only).
	Endpoint string
	// Secure is whether the endpoint uses https (KindS3 only).
	Secure bool
	// Bucket is the first path segment of the S3 URL (KindS3 only).
	Bucket string
	// Prefix is the remaining path, possibly empty (KindS3 only).
	Prefix string
}

// Resolve parses a location string into a Location. The string is
// either a filesystem path (bare or file://) or an http(s) URL; with
// isS3 set, the URL decomposes into endpoint, bucket, and prefix.
// Contradictory settings (an unknown scheme, or isS3 with a non-remote
// location) are configuration errors and must abort startup.
func Resolve(raw string, isS3 bool) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("annex location is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parsing annex location %q: %w", raw, err)
	}

	switch parsed.Scheme {
	case "http", "https":
		if isS3 {
			return resolveS3(parsed)
		}
		return Location{Kind: KindHTTP, BaseURL: strings.TrimRight(raw, "/")}, nil

	case "", "file":
		if isS3 {
			return Location{}, fmt.Errorf(
				"invalid pairing of annex settings: annex_is_s3 requires an http(s) annex url, got %q", raw)
		}
		return Location{Kind: KindLocal, Path: parsed.Path}, nil

	default:
		return Location{}, fmt.Errorf(
			"invalid annex location %q: expected a file:// path or http(s):// url", raw)
	}
}

// ResolvePush parses the push location. An http(s) push location is
// always S3 — there is no writable plain-HTTP topology. When raw is
// empty the push location defaults to the primary if the primary is
// itself writable (local or S3); a plain HTTP primary has no implicit
// push target and ok is false.
func ResolvePush(raw string, primary Location) (loc Location, ok bool, err error) {
	if raw == "" {
		switch primary.Kind {
		case KindLocal, KindS3:
			return primary, true, nil
		default:
			return Location{}, false, nil
		}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Location{}, false, fmt.Errorf("parsing annex_push location %q: %w", raw, err)
	}

	switch parsed.Scheme {
	case "http", "https":
		loc, err := resolveS3(parsed)
		if err != nil {
			return Location{}, false, err
		}
		return loc, true, nil

	case "", "file":
		return Location{Kind: KindLocal, Path: parsed.Path}, true, nil

	default:
		return Location{}, false, fmt.Errorf(
			"invalid annex_push location %q: expected a file:// path or http(s):// url", raw)
	}
}

// resolveS3 decomposes an http(s) URL into endpoint, bucket, and
// prefix: the first path segment is the bucket, the rest the prefix.
func resolveS3(parsed *url.URL) (Location, error) {
	parts := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	if parts[0] == "" {
		return Location{}, fmt.Errorf("s3 annex url %q has no bucket in its path", parsed.String())
	}
	return Location{
		Kind:     KindS3,
		Endpoint: parsed.Host,
		Secure:   parsed.Scheme == "https",
		Bucket:   parts[0],
		Prefix:   strings.Join(parts[1:], "/"),
	}, nil
}
