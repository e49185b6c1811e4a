// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command tree, help formatting, exit-code
// signaling, and logger construction shared by the rift-annex
// subcommands.
package cli
