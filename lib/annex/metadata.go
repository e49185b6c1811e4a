// Copyright 2026 The Rift Authors
// SPDX-License-Identifier: Apache-2.0

package annex

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEntry records one filename's presence in the annex.
type FileEntry struct {
	// Date is the wall-clock timestamp of the push that recorded this
	// filename, in time.ANSIC layout.
	Date string `yaml:"date"`
}

// Time parses the recorded timestamp. Older stores may carry a
// timezone suffix, so the UnixDate layout is accepted as well.
func (e FileEntry) Time() (time.Time, error) {
	for _, layout := range []string{time.ANSIC, time.UnixDate} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable metadata date %q", e.Date)
}

// Metadata is the sidecar stored next to each blob, keyed by every
// filename whose content hashed to the blob's digest.
type Metadata struct {
	Filenames map[string]FileEntry `yaml:"filenames"`
}

// ParseMetadata decodes a sidecar document.
func ParseMetadata(data []byte) (Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata: %w", err)
	}
	if meta.Filenames == nil {
		meta.Filenames = make(map[string]FileEntry)
	}
	return meta, nil
}

// Marshal encodes the sidecar document.
func (m Metadata) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return data, nil
}

// Record adds or refreshes a filename entry with the given push time.
func (m *Metadata) Record(filename string, when time.Time) {
	if m.Filenames == nil {
		m.Filenames = make(map[string]FileEntry)
	}
	m.Filenames[filename] = FileEntry{Date: when.Format(time.ANSIC)}
}

// InsertionTime returns the earliest parseable date across all
// filename entries, the moment the blob first entered the annex. The
// zero time means no entry carried a parseable date.
func (m Metadata) InsertionTime() time.Time {
	var earliest time.Time
	for _, entry := range m.Filenames {
		t, err := entry.Time()
		if err != nil {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}
