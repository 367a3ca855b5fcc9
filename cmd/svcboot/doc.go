// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Svcboot is the container entrypoint for the Food & Activity API. It
// materializes credential files from environment variables (optionally
// decrypting them with an age identity), points the application at
// them via path variables, then replaces itself with the application
// server via exec(2). After handoff no svcboot process remains.
//
// Usage:
//
//	svcboot [flags] -- <command> [args...]
//	svcboot --version
package main
