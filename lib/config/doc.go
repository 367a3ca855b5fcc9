// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for svcboot.
//
// Configuration is loaded from a single file specified by either the
// SVCBOOT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// discovery: a container either names its config file explicitly or
// runs on the built-in defaults. This keeps startup deterministic and
// auditable.
//
// The common single-credential deployment needs no file at all —
// [Default] describes it, and the svcboot flags override its fields.
// A file is only needed when a container materializes more than one
// credential.
//
// Variable expansion is performed on path fields after loading:
// ${VAR} and ${VAR:-default} patterns are expanded from the process
// environment. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- credentials to materialize plus launch defaults
//   - [Default] -- the single-credential Firebase deployment
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other svcboot packages.
package config
