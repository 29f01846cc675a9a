package hostexec

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/internal/workerspool"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func runNodeOn[T any](t *testing.T, node backends.NodeSpec, shape shapes.Shape, inputs ...[]T) []T {
	t.Helper()
	memories := make([]backends.DeviceMemory, len(inputs))
	for ii, input := range inputs {
		memories[ii] = backends.BufferFromFlat(input, shape.Dimensions...).Memory()
	}
	out := make([]T, shape.Size())
	dest := backends.BufferFromFlat(out, shape.Dimensions...).Memory()
	require.NoError(t, runNode(node, memories, dest, shape, nil))
	return out
}

func TestKernelsFloat32(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 4)
	x := []float32{1, -2, 3, -4}
	y := []float32{10, 20, 30, 40}

	assert.Equal(t, []float32{1, -2, 3, -4},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpIdentity, Inputs: []string{"x"}}, shape, x))
	assert.Equal(t, []float32{-1, 2, -3, 4},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpNeg, Inputs: []string{"x"}}, shape, x))
	assert.Equal(t, []float32{1, 2, 3, 4},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpAbs, Inputs: []string{"x"}}, shape, x))
	assert.Equal(t, []float32{11, 18, 33, 36},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpAdd, Inputs: []string{"x", "y"}}, shape, x, y))
	assert.Equal(t, []float32{-9, -22, -27, -44},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpSub, Inputs: []string{"x", "y"}}, shape, x, y))
	assert.Equal(t, []float32{10, -40, 90, -160},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpMul, Inputs: []string{"x", "y"}}, shape, x, y))
	assert.Equal(t, []float32{2, -1, 4, -3},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpAddScalar, Inputs: []string{"x"}, Scalar: 1}, shape, x))
	assert.Equal(t, []float32{2, -4, 6, -8},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpMulScalar, Inputs: []string{"x"}, Scalar: 2}, shape, x))
}

func TestKernelsInt64(t *testing.T) {
	shape := shapes.Make(dtypes.Int64, 3)
	x := []int64{-5, 0, 7}
	assert.Equal(t, []int64{5, 0, 7},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpAbs, Inputs: []string{"x"}}, shape, x))
	assert.Equal(t, []int64{-15, 0, 21},
		runNodeOn(t, backends.NodeSpec{Op: backends.OpMulScalar, Inputs: []string{"x"}, Scalar: 3}, shape, x))
}

func TestKernelsFloat16(t *testing.T) {
	shape := shapes.Make(dtypes.Float16, 2)
	toBits := func(values ...float32) []uint16 {
		bits := make([]uint16, len(values))
		for ii, v := range values {
			bits[ii] = float16.Fromfloat32(v).Bits()
		}
		return bits
	}
	x := toBits(1.5, -2)
	y := toBits(0.5, 4)

	got := runNodeOn(t, backends.NodeSpec{Op: backends.OpAdd, Inputs: []string{"x", "y"}}, shape, x, y)
	assert.Equal(t, toBits(2, 2), got)

	got = runNodeOn(t, backends.NodeSpec{Op: backends.OpAbs, Inputs: []string{"x"}}, shape, x)
	assert.Equal(t, toBits(1.5, 2), got)
}

func TestKernelInPlace(t *testing.T) {
	// dest aliased to the input, as the in-place mutation path uses it.
	shape := shapes.Make(dtypes.Float32, 3)
	x := []float32{1, 2, 3}
	memory := backends.BufferFromFlat(x, 3).Memory()
	node := backends.NodeSpec{Op: backends.OpMulScalar, Inputs: []string{"x"}, Scalar: 2}
	require.NoError(t, runNode(node, []backends.DeviceMemory{memory}, memory, shape, nil))
	assert.Equal(t, []float32{2, 4, 6}, x)
}

func TestParallelForLarge(t *testing.T) {
	const n = 10 * parallelChunkSize
	shape := shapes.Make(dtypes.Float64, n)
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	out := make([]float64, n)
	node := backends.NodeSpec{Op: backends.OpAddScalar, Inputs: []string{"x"}, Scalar: 1}
	workers := workerspool.New()
	err := runNode(node,
		[]backends.DeviceMemory{backends.BufferFromFlat(x, n).Memory()},
		backends.BufferFromFlat(out, n).Memory(), shape, workers)
	require.NoError(t, err)
	for i := range out {
		require.Equal(t, float64(i+1), out[i])
	}
}

func TestRunNodeUnsupportedDType(t *testing.T) {
	shape := shapes.Make(dtypes.Complex64, 2)
	err := runNode(backends.NodeSpec{Op: backends.OpNeg, Inputs: []string{"x"}},
		[]backends.DeviceMemory{{}}, backends.DeviceMemory{}, shape, nil)
	require.Error(t, err)
}
