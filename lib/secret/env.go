// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
)

// FromEnv captures the value of an environment variable into a
// protected buffer. Returns (nil, false, nil) when the variable is
// unset or empty — both mean "no credential supplied" for container
// startup purposes.
//
// The value is captured verbatim. No whitespace trimming, no newline
// handling: what the orchestrator put in the environment is exactly
// what the buffer holds.
//
// The environment itself still contains the plaintext value (the
// application process inherits the full environment, and os.Environ
// strings cannot be zeroed from Go). The buffer exists so that all
// downstream handling inside svcboot works on protected memory.
func FromEnv(name string) (*Buffer, bool, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return nil, false, nil
	}

	buffer, err := NewFromBytes([]byte(value))
	if err != nil {
		return nil, false, err
	}
	return buffer, true, nil
}
