// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cea-hpc/rift/lib/credential"
)

// S3 is an S3-compatible annex location. The read path is anonymous;
// the push path carries temporary credentials from a
// credential.Source.
//
// The client is constructed lazily on first use and memoized for the
// process lifetime. Construction failure (typically a credential
// problem) is memoized too and surfaces on every subsequent call —
// there is no nil-client fallback.
type S3 struct {
	endpoint string
	secure   bool
	bucket   string
	prefix   string
	creds    credential.Source

	clientOnce sync.Once
	client     *minio.Client
	clientErr  error
}

// NewS3 creates an S3 backend for a resolved S3 location. A nil
// credential source yields an anonymous (read-only in practice)
// client.
func NewS3(loc Location, creds credential.Source) *S3 {
	return &S3{
		endpoint: loc.Endpoint,
		secure:   loc.Secure,
		bucket:   loc.Bucket,
		prefix:   loc.Prefix,
		creds:    creds,
	}
}

// getClient builds the minio client on first call. Credentials are
// fetched from the source here, so authentication happens only when a
// backend operation actually occurs.
func (s *S3) getClient(ctx context.Context) (*minio.Client, error) {
	s.clientOnce.Do(func() {
		options := &minio.Options{Secure: s.secure}

		if s.creds != nil {
			value, err := s.creds.Credentials(ctx)
			if err != nil {
				s.clientErr = fmt.Errorf("authenticating s3 push client: %w", err)
				return
			}
			options.Creds = miniocreds.NewStaticV4(
				value.AccessKeyID, value.SecretAccessKey, value.SessionToken)
		}

		s.client, s.clientErr = minio.New(s.endpoint, options)
		if s.clientErr != nil {
			s.clientErr = fmt.Errorf("creating s3 client for %s: %w", s.endpoint, s.clientErr)
		}
	})
	return s.client, s.clientErr
}

// objectKey joins the configured prefix with the storage key.
func (s *S3) objectKey(key string) string {
	return path.Join(s.prefix, key)
}

// Fetch retrieves an object's bytes. A NoSuchKey response maps to
// ErrNotFound; anything else is a store error the caller must not
// mistake for "missing".
func (s *S3) Fetch(ctx context.Context, key string) ([]byte, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	object, err := client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching %s from s3: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s from s3: %w", key, err)
	}
	return data, nil
}

// Stat returns the object's size from a StatObject call.
func (s *S3) Stat(ctx context.Context, key string) (int64, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return 0, err
	}

	info, err := client.StatObject(ctx, s.bucket, s.objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return 0, fmt.Errorf("stat %s in s3: %w", key, err)
	}
	return info.Size, nil
}

// Put uploads an object under the configured prefix.
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, s.bucket, s.objectKey(key),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("uploading %s to s3: %w", key, err)
	}
	return nil
}

// List enumerates objects under the prefix. Keys are returned relative
// to the prefix (the bare digest or sidecar name); sizes come from the
// object listing itself.
func (s *S3) List(ctx context.Context) ([]Entry, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	options := minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}

	var entries []Entry
	for object := range client.ListObjects(ctx, s.bucket, options) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing s3 annex: %w", object.Err)
		}
		entries = append(entries, Entry{
			Key:  path.Base(object.Key),
			Size: object.Size,
		})
	}
	return entries, nil
}

// Delete is not supported: removal of remotely replicated content is
// outside the annex engine's authority.
func (s *S3) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("deleting from an s3 annex: %w", ErrUnsupported)
}

// isNoSuchKey reports whether an S3 error means the object is absent.
func isNoSuchKey(err error) bool {
	response := minio.ToErrorResponse(err)
	return response.Code == "NoSuchKey" || response.StatusCode == 404
}

var _ Backend = (*S3)(nil)
