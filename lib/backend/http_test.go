// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newHTTPBackend(t *testing.T, handler http.Handler) *HTTP {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	loc, err := Resolve(server.URL, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return NewHTTP(loc)
}

func TestHTTPFetch(t *testing.T) {
	content := []byte("remote blob")
	backend := newHTTPBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/abc123" {
			w.Write(content)
			return
		}
		http.NotFound(w, r)
	}))

	got, err := backend.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Fetch = %q, want %q", got, content)
	}
}

func TestHTTPFetchNotFound(t *testing.T) {
	backend := newHTTPBackend(t, http.NotFoundHandler())
	_, err := backend.Fetch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch error = %v, want ErrNotFound", err)
	}
}

func TestHTTPFetchServerError(t *testing.T) {
	backend := newHTTPBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := backend.Fetch(context.Background(), "abc123")
	if err == nil {
		t.Fatal("Fetch should fail on a 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a 500 must not be mistaken for a missing object")
	}
}

func TestHTTPStat(t *testing.T) {
	backend := newHTTPBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/abc123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", "42")
	}))

	size, err := backend.Stat(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if size != 42 {
		t.Errorf("Stat = %d, want 42", size)
	}

	if _, err := backend.Stat(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat error = %v, want ErrNotFound", err)
	}
}

func TestHTTPUnsupportedOperations(t *testing.T) {
	backend := newHTTPBackend(t, http.NotFoundHandler())
	ctx := context.Background()

	if err := backend.Put(ctx, "abc", []byte("x")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Put error = %v, want ErrUnsupported", err)
	}
	if _, err := backend.List(ctx); !errors.Is(err, ErrUnsupported) {
		t.Errorf("List error = %v, want ErrUnsupported", err)
	}
	if err := backend.Delete(ctx, "abc"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Delete error = %v, want ErrUnsupported", err)
	}
}
