// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential supplies temporary S3 credentials to the annex
// push path.
//
// The annex treats authentication as an external collaborator: some
// other process authenticates against the identity provider and
// leaves temporary credentials behind (typically in a YAML file). This
// package models consuming them — a Source interface, a file-backed
// implementation with expiration checking, and a process-lifetime
// memoizing wrapper so one authenticated identity serves all writes.
package credential
