// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for credential
// blobs passed to containers via environment variables.
//
// It wraps filippo.io/age for the three operations svcboot needs:
// generate keypairs (svcboot-seal keygen), encrypt plaintext to one or
// more recipients (svcboot-seal seal), and decrypt ciphertext with an
// identity file mounted into the container (svcboot --identity-file).
//
// Ciphertext is base64-encoded so it survives transport through
// orchestrator environment blocks and YAML manifests; the encoding is
// handled internally. Private keys and decrypted plaintext travel in
// secret.Buffer values (mmap-backed, locked against swap, zeroed on
// close).
package sealed
