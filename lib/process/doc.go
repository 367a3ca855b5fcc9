// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for svcboot
// binaries. [Fatal] is the standard error handler for main(): errors
// from run() land on stderr in a fixed format and the process exits
// non-zero, matching the contract that any failed startup step aborts
// the whole sequence.
package process
