// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"sync"

	"github.com/gomlx/exceptions"
	"unsafe"
)

// Allocator hands out device memory for temporaries and for results the caller
// provided no buffer for.
type Allocator interface {
	// Allocate returns a region of at least sizeBytes bytes. The region stays
	// alive at least as long as the allocator.
	Allocate(sizeBytes int) DeviceMemory
}

// HostAllocator allocates host memory backed by Go slices.
//
// It retains a reference to every chunk it hands out: DeviceMemory values hold
// raw pointers the garbage collector cannot see, so the chunks must be rooted
// here until the allocator is released.
type HostAllocator struct {
	mu     sync.Mutex
	chunks [][]byte
}

// Compile-time check:
var _ Allocator = (*HostAllocator)(nil)

// NewHostAllocator returns an empty HostAllocator.
func NewHostAllocator() *HostAllocator {
	return &HostAllocator{}
}

// Allocate returns a zero-initialized host region of sizeBytes bytes.
func (a *HostAllocator) Allocate(sizeBytes int) DeviceMemory {
	if sizeBytes < 0 {
		exceptions.Panicf("HostAllocator.Allocate(%d): negative size", sizeBytes)
	}
	if sizeBytes == 0 {
		return DeviceMemory{}
	}
	chunk := make([]byte, sizeBytes)
	a.mu.Lock()
	a.chunks = append(a.chunks, chunk)
	a.mu.Unlock()
	return MemoryOf(unsafe.Pointer(&chunk[0]), sizeBytes)
}

// Release drops all chunks allocated so far. Any DeviceMemory previously
// returned becomes invalid.
func (a *HostAllocator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = nil
}
