// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/xrt/internal/workerspool"
)

// DeviceContext bundles the execution resources of one device: its stream,
// allocator and intra-op worker pool. The executor framework passes one per
// invocation to Kernel.Launch; the same DeviceContext may be shared by
// concurrent invocations targeting the same device.
type DeviceContext struct {
	// Type selects the synchronization policy: blocking for Host, asynchronous
	// for Accelerator.
	Type DeviceType

	// Ordinal of the device within its backend.
	Ordinal DeviceNum

	// Stream orders the device's work.
	Stream Stream

	// Allocator for temporaries and unhinted results.
	Allocator Allocator

	// Workers for intra-op parallelism. Optional.
	Workers *workerspool.Pool
}

// Memcpy copies src into dst with the device-appropriate primitive: immediately
// for host-resident devices, enqueued on the stream for accelerators so it
// orders after earlier work.
func (d *DeviceContext) Memcpy(dst, src DeviceMemory) {
	if dst.SizeBytes() < src.SizeBytes() {
		exceptions.Panicf("DeviceContext.Memcpy: destination has %d bytes, source has %d", dst.SizeBytes(), src.SizeBytes())
	}
	doCopy := func() { copy(dst.Bytes(), src.Bytes()) }
	if d.Type.IsHostResident() {
		doCopy()
		return
	}
	d.Stream.Enqueue(doCopy)
}
