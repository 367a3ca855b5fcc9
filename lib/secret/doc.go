// Copyright 2026 The Foodactivity Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credential material in memory that is locked
// against swap and excluded from core dumps.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// pins it into physical RAM via mlock, and marks it with
// madvise(MADV_DONTDUMP). On Close the memory is zeroed, unlocked, and
// unmapped. Because the region is invisible to the garbage collector it
// is never copied or relocated, so zeroing on Close destroys the only
// durable copy.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory, zeros the source
//   - [FromEnv] -- captures an environment variable's value verbatim
//
// [FromEnv] performs no trimming or normalization: the service-account
// JSON passed to the container must reach disk byte-identical to the
// environment value, whitespace included.
//
// Depends on golang.org/x/sys/unix. No svcboot-internal dependencies.
package secret
