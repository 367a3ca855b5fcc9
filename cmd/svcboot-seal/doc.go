// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Svcboot-seal is the operator tool for sealed credentials. It
// generates age keypairs, encrypts credential material for delivery
// through environment variables, and inspects credential values
// without printing their content.
//
// Typical workflow:
//
//	svcboot-seal keygen > public.key 2> identity.txt
//	svcboot-seal seal --recipient "$(cat public.key)" < firebase-admin.json
//
// The sealed output is safe to store in deployment manifests; only a
// holder of the identity file can recover the plaintext.
package main
