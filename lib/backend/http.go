// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTP is a read-only http(s) annex location: objects are fetched by
// GET on baseURL/key. There is no write, list, or delete capability —
// a plain HTTP endpoint offers none of those uniformly.
type HTTP struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates an HTTP backend for a resolved remote location.
func NewHTTP(loc Location) *HTTP {
	return &HTTP{
		baseURL: loc.BaseURL,
		client:  http.DefaultClient,
	}
}

// Fetch retrieves the object with a GET request. A 404 maps to
// ErrNotFound so the engine can fall through to the next tier; any
// other non-2xx status is a transport-level failure.
func (h *HTTP) Fetch(ctx context.Context, key string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", key, err)
	}

	response, err := h.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetching %s from annex: %w", key, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s from annex: unexpected status %s", key, response.Status)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s from annex: %w", key, err)
	}
	return data, nil
}

// Stat issues a HEAD request for the object's size.
func (h *HTTP) Stat(ctx context.Context, key string) (int64, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, h.baseURL+"/"+key, nil)
	if err != nil {
		return 0, fmt.Errorf("building request for %s: %w", key, err)
	}

	response, err := h.client.Do(request)
	if err != nil {
		return 0, fmt.Errorf("stat %s in annex: %w", key, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return 0, fmt.Errorf("stat %s in annex: unexpected status %s", key, response.Status)
	}
	if response.ContentLength < 0 {
		return 0, fmt.Errorf("stat %s in annex: no content length reported", key)
	}
	return response.ContentLength, nil
}

// Put is not available over plain HTTP.
func (h *HTTP) Put(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("push to a plain http annex: %w", ErrUnsupported)
}

// List is not available over plain HTTP.
func (h *HTTP) List(ctx context.Context) ([]Entry, error) {
	return nil, fmt.Errorf("listing a plain http annex: %w", ErrUnsupported)
}

// Delete is not available over plain HTTP.
func (h *HTTP) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("deleting from a plain http annex: %w", ErrUnsupported)
}

var _ Backend = (*HTTP)(nil)
