// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes short identifiers for credential
// content so that logs and boot marks can say "the credential changed"
// without ever containing the credential.
//
// Fingerprints are BLAKE3 keyed hashes. The fixed domain key means a
// svcboot fingerprint is not a plain BLAKE3 digest of the secret, so
// it cannot be matched against digests computed elsewhere.
//
// Depends on github.com/zeebo/blake3. No svcboot-internal dependencies.
package fingerprint
