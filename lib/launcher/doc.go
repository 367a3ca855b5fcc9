// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package launcher implements the container startup sequence: decrypt
// and materialize credential files from environment variables, point
// the application at them via path variables, then replace the current
// process with the application via exec(2).
//
// The sequence is strictly ordered and one-shot. Any failing step
// aborts startup with an error; there are no retries and no partial
// handoff. On success [Launcher.Run] never returns — the process image
// is the application's.
//
// The exec(2) call is injectable ([Launcher.ExecFunc]) so tests can
// observe the handoff without losing their own process image.
package launcher
