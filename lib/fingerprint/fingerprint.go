// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint is a 32-byte BLAKE3 keyed digest of credential content.
type Fingerprint [32]byte

// credentialDomainKey is the BLAKE3 key for credential fingerprints.
// Fixed constant — changing it invalidates every recorded fingerprint.
// The bytes are the ASCII domain name, zero-padded to 32 bytes, so the
// key is inspectable in hex dumps without weakening the keyed mode.
var credentialDomainKey = [32]byte{
	's', 'v', 'c', 'b', 'o', 'o', 't', '.',
	'c', 'r', 'e', 'd', 'e', 'n', 't', 'i', 'a', 'l',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Sum computes the credential-domain fingerprint of data.
func Sum(data []byte) Fingerprint {
	hasher, err := blake3.NewKeyed(credentialDomainKey[:])
	if err != nil {
		// NewKeyed fails only for a key that is not 32 bytes, which
		// cannot happen with the fixed array above.
		panic("fingerprint: keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(data)

	var digest Fingerprint
	hasher.Digest().Read(digest[:])
	return digest
}

// String returns the full hex encoding of the fingerprint. This is the
// canonical form used in boot marks and log output.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 12 hex characters, enough to compare two
// boots by eye in log output.
func (f Fingerprint) Short() string {
	return f.String()[:12]
}

// Parse decodes a full hex-encoded fingerprint.
func Parse(hexString string) (Fingerprint, error) {
	var digest Fingerprint
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("fingerprint is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
