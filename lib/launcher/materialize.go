// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package launcher

import (
	"fmt"
	"os"
)

// writeSecretFile writes content verbatim to path and restricts the
// file to mode 0600. The handle is flushed (fsync) and closed before
// the permission change, so by the time exec() runs the bytes are
// durable and the mode is final.
//
// The explicit chmod after close covers the pre-existing-file case:
// O_CREATE only applies the mode to files it creates, so a leftover
// file with looser permissions would otherwise keep them.
func writeSecretFile(path string, content []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating credential file %s: %w", path, err)
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		return fmt.Errorf("writing credential file %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing credential file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing credential file %s: %w", path, err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting credential file %s: %w", path, err)
	}

	return nil
}
