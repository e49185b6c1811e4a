// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads annex configuration.
//
// Configuration comes from a single YAML file named by the
// RIFT_ANNEX_CONFIG environment variable or an explicit --config flag.
// There is no discovery or layering: one file, deterministic result.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cea-hpc/rift/lib/credential"
)

// Config is the annex configuration surface.
type Config struct {
	// Annex is the primary (read) location: a filesystem path, a
	// file:// path, or an http(s):// url. Required.
	Annex string `yaml:"annex"`

	// AnnexPush is the write location. Optional: defaults to Annex
	// when Annex is local or S3.
	AnnexPush string `yaml:"annex_push"`

	// AnnexIsS3 marks the primary location as an S3 endpoint url to
	// decompose into endpoint, bucket, and prefix.
	AnnexIsS3 bool `yaml:"annex_is_s3"`

	// AnnexRestoreCache is an optional local directory mirroring
	// fetched blobs by digest. Grows without bound: no eviction.
	AnnexRestoreCache string `yaml:"annex_restore_cache"`

	// S3CredentialFile is the YAML credentials file left behind by
	// the external authentication flow, consumed on S3 pushes.
	S3CredentialFile string `yaml:"s3_credential_file"`
}

// EnvVar names the environment variable holding the config file path.
const EnvVar = "RIFT_ANNEX_CONFIG"

// Load reads configuration from the file named by EnvVar.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"point it at your annex config file or pass --config", EnvVar)
	}
	return LoadFile(path)
}

// LoadFile reads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandPaths expands leading ~ in the user-supplied local paths.
func (c *Config) expandPaths() error {
	var err error
	if c.AnnexRestoreCache != "" {
		if c.AnnexRestoreCache, err = credential.ExpandUser(c.AnnexRestoreCache); err != nil {
			return err
		}
	}
	if c.S3CredentialFile != "" {
		if c.S3CredentialFile, err = credential.ExpandUser(c.S3CredentialFile); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the configuration for startup-fatal problems.
// Location shape errors (bad schemes, S3 pairing) are caught later by
// backend resolution; this covers what must hold before resolving.
func (c *Config) Validate() error {
	var errs []error

	if c.Annex == "" {
		errs = append(errs, fmt.Errorf("annex is required"))
	}
	if c.AnnexIsS3 && c.S3CredentialFile == "" && c.AnnexPush == "" {
		// An S3 primary defaults the push location to itself, and any
		// push there needs credentials to consume.
		errs = append(errs, fmt.Errorf("annex_is_s3 without annex_push requires s3_credential_file for pushes"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
