// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides CBOR encoding and decoding for svcboot state
// files (boot marks).
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same logical record always produces identical bytes, which keeps
// state files diffable across boots.
//
// Decoding accepts standard CBOR and silently ignores unknown fields,
// so a svcboot binary can read marks written by a newer version.
//
// Depends on github.com/fxamacker/cbor/v2. No svcboot-internal
// dependencies.
package codec
