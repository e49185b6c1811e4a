// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File reads credentials from a YAML file written by the external
// authentication flow:
//
//	access_key_id: AKIA...
//	secret_access_key: ...
//	session_token: ...
//	expiration: Mon Jan  2 15:04:05 2006
//
// Expired credentials are an error, not a silent fallback: the caller
// must re-authenticate rather than push anonymously.
type File struct {
	// Path is the credentials file location. A leading ~ expands to
	// the user's home directory.
	Path string
}

type fileContents struct {
	Credentials `yaml:",inline"`
	Expiration  string `yaml:"expiration"`
}

// Credentials loads and validates the credentials file.
func (f File) Credentials(ctx context.Context) (Credentials, error) {
	path, err := ExpandUser(f.Path)
	if err != nil {
		return Credentials{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}

	var contents fileContents
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	if contents.AccessKeyID == "" || contents.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("credentials file %s is missing access_key_id or secret_access_key", path)
	}

	if contents.Expiration != "" {
		expiration, err := parseExpiration(contents.Expiration)
		if err != nil {
			return Credentials{}, fmt.Errorf("parsing expiration in %s: %w", path, err)
		}
		if time.Now().After(expiration) {
			return Credentials{}, fmt.Errorf(
				"credentials in %s expired at %s; re-authenticate and retry", path, contents.Expiration)
		}
	}

	return contents.Credentials, nil
}

func parseExpiration(value string) (time.Time, error) {
	for _, layout := range []string{time.ANSIC, time.UnixDate, time.RFC3339} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ExpandUser expands a leading ~ or ~/ in path to the current user's
// home directory.
func ExpandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
