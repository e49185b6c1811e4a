// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"sync"
)

// Credentials are temporary S3 credentials issued by an external
// authentication flow. The annex only consumes them; acquiring them
// (IdP exchange, token refresh) happens outside this repository.
type Credentials struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// Source produces credentials for the annex push path. Implementations
// must treat failure as fatal for the calling write operation — a
// Source never returns empty credentials with a nil error.
type Source interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Static is a Source with fixed credentials, mainly for tests and for
// environments that inject credentials directly.
type Static struct {
	Value Credentials
}

// Credentials returns the fixed credentials.
func (s Static) Credentials(ctx context.Context) (Credentials, error) {
	return s.Value, nil
}

// Cached wraps a Source so the underlying lookup runs at most once per
// process; both the credentials and any error are memoized. Push
// operations share one authenticated identity for the process
// lifetime.
func Cached(source Source) Source {
	return &cached{source: source}
}

type cached struct {
	source Source
	once   sync.Once
	value  Credentials
	err    error
}

func (c *cached) Credentials(ctx context.Context) (Credentials, error) {
	c.once.Do(func() {
		c.value, c.err = c.source.Credentials(ctx)
	})
	return c.value, c.err
}
