package backends

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferFromFlat(t *testing.T) {
	flat := []float32{1, 2, 3, 4, 5, 6}
	b := BufferFromFlat(flat, 2, 3)
	assert.True(t, b.Shape().Equal(shapes.Make(dtypes.Float32, 2, 3)))
	assert.Equal(t, 6*4, b.Memory().SizeBytes())
	assert.False(t, b.Memory().IsNull())

	// The buffer borrows the slice storage, it doesn't copy.
	view := FlatData[float32](b)
	view[0] = 7
	assert.Equal(t, float32(7), flat[0])
	require.Equal(t, &flat[0], &view[0])

	// Size mismatch and dtype mismatch panic.
	require.Panics(t, func() { BufferFromFlat(flat, 7) })
	require.Panics(t, func() { FlatData[float64](b) })
}

func TestDeviceMemory(t *testing.T) {
	var null DeviceMemory
	assert.True(t, null.IsNull())
	assert.Nil(t, null.Bytes())

	data := []byte{1, 2, 3}
	b := BufferFromFlat(data, 3)
	mem := b.Memory()
	assert.Equal(t, 3, mem.SizeBytes())
	assert.Equal(t, data, mem.Bytes())
}

func TestShapedBufferTuple(t *testing.T) {
	x := []float32{1, 2}
	y := []int64{3}
	leafX := NewShapedBuffer(shapes.Make(dtypes.Float32, 2), BufferFromFlat(x, 2).Memory())
	leafY := NewShapedBuffer(shapes.Make(dtypes.Int64, 1), BufferFromFlat(y, 1).Memory())
	tuple := NewTupleShapedBuffer([]*ShapedBuffer{leafX, leafY})

	assert.True(t, tuple.IsTuple())
	assert.Equal(t, 2, tuple.NumComponents())
	assert.Equal(t, "Tuple<(Float32)[2], (Int64)[1]>", tuple.Shape().String())
	assert.Equal(t, leafX.Memory().Opaque(), tuple.Component(0).Memory().Opaque())
	require.Panics(t, func() { tuple.Component(2) })

	assert.False(t, leafX.IsTuple())
	assert.Equal(t, 0, leafX.NumComponents())
}

func TestHostAllocator(t *testing.T) {
	alloc := NewHostAllocator()
	mem := alloc.Allocate(16)
	require.False(t, mem.IsNull())
	require.Equal(t, 16, mem.SizeBytes())
	for _, v := range mem.Bytes() {
		assert.Equal(t, byte(0), v)
	}
	assert.True(t, alloc.Allocate(0).IsNull())
	require.Panics(t, func() { alloc.Allocate(-1) })
	alloc.Release()
}
