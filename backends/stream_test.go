package backends

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostStream(t *testing.T) {
	s := NewHostStream()
	done := false
	s.Enqueue(func() { done = true })
	// Host stream executes inline.
	assert.True(t, done)
	s.BlockHostUntilDone()
}

func TestOrderedStreamFIFO(t *testing.T) {
	s := NewOrderedStream()
	defer s.Finalize()

	const n = 100
	var order []int
	for i := range n {
		s.Enqueue(func() { order = append(order, i) })
	}
	s.BlockHostUntilDone()
	require.Len(t, order, n)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestOrderedStreamAsync(t *testing.T) {
	s := NewOrderedStream()
	defer s.Finalize()

	release := make(chan struct{})
	var ran atomic.Bool
	s.Enqueue(func() {
		<-release
		ran.Store(true)
	})
	// Enqueue returned while the work is still pending.
	assert.False(t, ran.Load())
	close(release)
	s.BlockHostUntilDone()
	assert.True(t, ran.Load())
}

func TestOrderedStreamFinalize(t *testing.T) {
	s := NewOrderedStream()
	var ran atomic.Bool
	s.Enqueue(func() {
		time.Sleep(time.Millisecond)
		ran.Store(true)
	})
	// Finalize drains pending work before stopping.
	s.Finalize()
	assert.True(t, ran.Load())
}

func TestDeviceTypeEnum(t *testing.T) {
	assert.Equal(t, "Host", Host.String())
	assert.Equal(t, "Accelerator", Accelerator.String())
	assert.True(t, Host.IsHostResident())
	assert.False(t, Accelerator.IsHostResident())

	v, err := DeviceTypeString("accelerator")
	require.NoError(t, err)
	assert.Equal(t, Accelerator, v)
	_, err = DeviceTypeString("gpu")
	require.Error(t, err)
}

func TestOpTypeEnum(t *testing.T) {
	assert.Equal(t, "MulScalar", OpMulScalar.String())
	assert.Equal(t, 2, OpAdd.NumInputs())
	assert.Equal(t, 1, OpNeg.NumInputs())
	assert.True(t, OpAddScalar.HasScalarOperand())
	assert.False(t, OpAdd.HasScalarOperand())

	v, err := OpTypeString("Add")
	require.NoError(t, err)
	assert.Equal(t, OpAdd, v)
}

func TestDeviceContextMemcpy(t *testing.T) {
	src := BufferFromFlat([]float32{1, 2, 3}, 3)
	dst := BufferFromFlat(make([]float32, 3), 3)

	host := &DeviceContext{Type: Host, Stream: NewHostStream(), Allocator: NewHostAllocator()}
	host.Memcpy(dst.Memory(), src.Memory())
	assert.Equal(t, []float32{1, 2, 3}, FlatData[float32](dst))

	// Accelerator copies are ordered on the stream, not immediate.
	stream := NewOrderedStream()
	defer stream.Finalize()
	accel := &DeviceContext{Type: Accelerator, Stream: stream, Allocator: NewHostAllocator()}
	dst2 := BufferFromFlat(make([]float32, 3), 3)
	accel.Memcpy(dst2.Memory(), src.Memory())
	stream.BlockHostUntilDone()
	assert.Equal(t, []float32{1, 2, 3}, FlatData[float32](dst2))

	require.Panics(t, func() {
		host.Memcpy(BufferFromFlat(make([]float32, 2), 2).Memory(), src.Memory())
	})
}
