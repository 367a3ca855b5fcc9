// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package bootmark

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foodactivity/svcboot/lib/codec"
)

// Mark records one startup handoff. Written before exec() and read on
// the next start to detect crash loops.
type Mark struct {
	// Command is the delegated command and its arguments as handed to
	// exec(). Argv[0] identifies the application across restarts.
	Command []string `cbor:"command"`

	// Credentials maps each materialized credential path to the hex
	// fingerprint of its content (never the content itself). Empty
	// when no credential content was supplied. Comparing fingerprints
	// across marks shows whether a rotation preceded a crash.
	Credentials map[string]string `cbor:"credentials,omitempty"`

	// Timestamp is when the handoff was initiated. Check uses it to
	// discard marks too old to describe the previous boot.
	Timestamp time.Time `cbor:"timestamp"`

	// PID is the process id at handoff time. Informational: inside a
	// container this is almost always 1.
	PID int `cbor:"pid"`
}

// Write atomically writes a boot mark. The record goes to a temporary
// file in the same directory, is fsynced, and renamed into place, so
// readers never see a partial mark. The file is created 0600; the
// parent directory must already exist.
func Write(path string, mark Mark) error {
	data, err := codec.Marshal(mark)
	if err != nil {
		return fmt.Errorf("marshaling boot mark: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary boot mark: %w", err)
	}

	// Write, sync, close — in that order. If any step fails, remove
	// the temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary boot mark: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary boot mark: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary boot mark: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming boot mark into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Read reads and parses a boot mark. When the file does not exist the
// returned error wraps os.ErrNotExist (testable with errors.Is).
func Read(path string) (Mark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mark{}, err
	}

	var mark Mark
	if err := codec.Unmarshal(data, &mark); err != nil {
		return Mark{}, fmt.Errorf("parsing boot mark %s: %w", path, err)
	}
	return mark, nil
}

// Check reads a boot mark and verifies it is recent enough to describe
// the previous boot. Returns the mark and true when the file exists
// and its Timestamp is within maxAge of now. Returns a zero Mark and
// false when the file does not exist or is older than maxAge.
//
// Any other error (permission denied, corrupt CBOR) is returned as-is
// so the caller can distinguish "no mark" from "mark unreadable".
func Check(path string, maxAge time.Duration) (Mark, bool, error) {
	mark, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Mark{}, false, nil
		}
		return Mark{}, false, err
	}

	if time.Since(mark.Timestamp) > maxAge {
		return Mark{}, false, nil
	}

	return mark, true, nil
}

// Clear removes a boot mark. Idempotent: returns nil when the file
// does not exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing boot mark: %w", err)
	}
	return nil
}
