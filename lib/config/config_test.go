// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annex.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
annex: https://s3.example.com/bucket/annex
annex_push: /srv/annex-push
annex_is_s3: true
annex_restore_cache: /var/cache/annex
s3_credential_file: /etc/rift/credentials.yaml
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Annex != "https://s3.example.com/bucket/annex" {
		t.Errorf("Annex = %s", cfg.Annex)
	}
	if cfg.AnnexPush != "/srv/annex-push" {
		t.Errorf("AnnexPush = %s", cfg.AnnexPush)
	}
	if !cfg.AnnexIsS3 {
		t.Error("AnnexIsS3 should be true")
	}
	if cfg.AnnexRestoreCache != "/var/cache/annex" {
		t.Errorf("AnnexRestoreCache = %s", cfg.AnnexRestoreCache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	path := writeConfig(t, `
annex: /srv/annex
annex_restore_cache: ~/.cache/rift-annex
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if want := filepath.Join(home, ".cache", "rift-annex"); cfg.AnnexRestoreCache != want {
		t.Errorf("AnnexRestoreCache = %s, want %s", cfg.AnnexRestoreCache, want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "annex: [unclosed")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile should fail on malformed YAML")
	}
}

func TestValidateRequiresAnnex(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail without annex")
	}
	if !strings.Contains(err.Error(), "annex is required") {
		t.Errorf("error = %v, want mention of the missing annex", err)
	}
}

func TestValidateS3NeedsCredentials(t *testing.T) {
	cfg := &Config{Annex: "https://s3.example.com/bucket", AnnexIsS3: true}
	if err := cfg.Validate(); err == nil {
		t.Error("S3 primary without push override or credentials file should fail validation")
	}

	cfg.S3CredentialFile = "/etc/rift/credentials.yaml"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "annex: /srv/annex\n")
	t.Setenv(EnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Annex != "/srv/annex" {
		t.Errorf("Annex = %s", cfg.Annex)
	}

	t.Setenv(EnvVar, "")
	if _, err := Load(); err == nil {
		t.Error("Load should fail when the environment variable is unset")
	}
}
