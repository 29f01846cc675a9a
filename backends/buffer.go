// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/types/shapes"
)

// DeviceMemory is an opaque region of device memory: a device pointer plus a
// length in bytes. It carries no ownership -- whoever created the underlying
// allocation is responsible for keeping it alive while the DeviceMemory is in
// use.
type DeviceMemory struct {
	ptr  unsafe.Pointer
	size int
}

// MemoryOf returns the DeviceMemory for the given pointer and size in bytes.
func MemoryOf(ptr unsafe.Pointer, sizeBytes int) DeviceMemory {
	return DeviceMemory{ptr: ptr, size: sizeBytes}
}

// Opaque returns the underlying device pointer.
func (m DeviceMemory) Opaque() unsafe.Pointer { return m.ptr }

// SizeBytes returns the length of the region in bytes.
func (m DeviceMemory) SizeBytes() int { return m.size }

// IsNull returns whether the region has no underlying pointer.
func (m DeviceMemory) IsNull() bool { return m.ptr == nil }

// Bytes returns a byte slice view of the region.
// Only valid for host-addressable memory.
func (m DeviceMemory) Bytes() []byte {
	if m.IsNull() {
		return nil
	}
	return unsafe.Slice((*byte)(m.ptr), m.size)
}

// String implements fmt.Stringer.
func (m DeviceMemory) String() string {
	return fmt.Sprintf("DeviceMemory(%p, %d bytes)", m.ptr, m.size)
}

// Buffer is a caller-owned memory region plus the logical shape of the data it
// holds. The launch engine only borrows buffers: it reads and writes through
// them for the duration of one invocation and never takes ownership or retains
// a pointer past it.
type Buffer struct {
	shape  shapes.Shape
	memory DeviceMemory
}

// NewBuffer wraps the given memory region with its logical shape.
func NewBuffer(shape shapes.Shape, memory DeviceMemory) *Buffer {
	return &Buffer{shape: shape, memory: memory}
}

// Shape of the data held by the buffer.
func (b *Buffer) Shape() shapes.Shape { return b.shape }

// Memory returns the underlying memory region.
func (b *Buffer) Memory() DeviceMemory { return b.memory }

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%s @ %p)", b.shape, b.memory.ptr)
}

// NamedBuffer is a buffer bound to the name it takes within a subgraph
// invocation.
type NamedBuffer struct {
	Name   string
	Buffer *Buffer
}

// Named binds a buffer to a name. Convenience to build invocation lists.
func Named(name string, buffer *Buffer) NamedBuffer {
	return NamedBuffer{Name: name, Buffer: buffer}
}

// BufferFromFlat wraps the storage of the given flat slice as a host Buffer
// with the given dimensions. The slice is borrowed, not copied: the caller must
// keep it alive (and must not resize it) while the buffer is in use.
func BufferFromFlat[T any](flat []T, dimensions ...int) *Buffer {
	dtype := dtypes.FromGoType(reflect.TypeFor[T]())
	if dtype == dtypes.InvalidDType {
		exceptions.Panicf("BufferFromFlat: Go type %T has no corresponding DType", flat)
	}
	shape := shapes.Make(dtype, dimensions...)
	if len(flat) != shape.Size() {
		exceptions.Panicf("BufferFromFlat: flat has %d elements, shape %s requires %d", len(flat), shape, shape.Size())
	}
	memory := MemoryOf(unsafe.Pointer(&flat[0]), int(shape.Memory()))
	return NewBuffer(shape, memory)
}

// FlatData returns a flat slice view of the buffer's host memory.
// It panics if T doesn't correspond to the buffer's dtype.
func FlatData[T any](b *Buffer) []T {
	dtype := dtypes.FromGoType(reflect.TypeFor[T]())
	if dtype != b.shape.DType {
		exceptions.Panicf("FlatData[%s] on buffer of shape %s", dtype, b.shape)
	}
	return unsafe.Slice((*T)(b.memory.ptr), b.shape.Size())
}

// ShapedBuffer pairs device memory with the shape the executable reads or
// writes through it. It is either a leaf (one region, one shape) or a tuple of
// components -- the form in which executables return their results.
type ShapedBuffer struct {
	shape      shapes.Shape
	memory     DeviceMemory
	components []*ShapedBuffer
}

// NewShapedBuffer returns a leaf ShapedBuffer.
func NewShapedBuffer(shape shapes.Shape, memory DeviceMemory) *ShapedBuffer {
	return &ShapedBuffer{shape: shape, memory: memory}
}

// NewTupleShapedBuffer returns a tuple ShapedBuffer aggregating the given components.
func NewTupleShapedBuffer(components []*ShapedBuffer) *ShapedBuffer {
	elementShapes := make([]shapes.Shape, len(components))
	for ii, component := range components {
		elementShapes[ii] = component.shape
	}
	return &ShapedBuffer{shape: shapes.MakeTuple(elementShapes), components: components}
}

// Shape of the buffer -- a tuple shape for tuple buffers.
func (b *ShapedBuffer) Shape() shapes.Shape { return b.shape }

// IsTuple returns whether this buffer aggregates components.
func (b *ShapedBuffer) IsTuple() bool { return b.shape.IsTuple() }

// NumComponents returns the number of components of a tuple buffer, 0 for leaves.
func (b *ShapedBuffer) NumComponents() int { return len(b.components) }

// Component returns the i-th component of a tuple buffer.
func (b *ShapedBuffer) Component(i int) *ShapedBuffer {
	if i < 0 || i >= len(b.components) {
		exceptions.Panicf("ShapedBuffer.Component(%d) out-of-bounds, buffer has %d components", i, len(b.components))
	}
	return b.components[i]
}

// Memory returns the memory region of a leaf buffer.
func (b *ShapedBuffer) Memory() DeviceMemory { return b.memory }
