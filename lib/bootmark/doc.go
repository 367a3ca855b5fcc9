// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootmark provides atomic state file operations for tracking
// the container startup handoff. svcboot writes a mark immediately
// before exec()'ing the application; the application is expected to
// run until the container is destroyed, which also destroys the mark.
//
// Finding a recent mark on startup therefore means the previous
// application process died shortly after handoff and the container
// runtime restarted it — a crash loop in progress. svcboot logs the
// previous boot's timestamp and credential fingerprint so an operator
// can tell at a glance whether a credential rotation preceded the
// crash.
//
// Marks are written atomically (temporary file, fsync, rename) so a
// reader never sees a partial record, and carry a timestamp so stale
// marks from unrelated restarts are ignored via [Check].
package bootmark
