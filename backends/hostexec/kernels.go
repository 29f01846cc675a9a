// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package hostexec

import (
	"sync"
	"unsafe"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/internal/workerspool"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// memorySlice reinterprets a host memory region as a flat slice of n elements.
func memorySlice[T number](m backends.DeviceMemory, n int) []T {
	return unsafe.Slice((*T)(m.Opaque()), n)
}

// parallelChunkSize is the smallest unit of work worth a goroutine.
const parallelChunkSize = 4096

// parallelFor applies fn over [0, n) in chunks, using the worker pool for
// chunks beyond the first when the work is large enough.
func parallelFor(workers *workerspool.Pool, n int, fn func(start, end int)) {
	if workers == nil || !workers.IsEnabled() || n < 2*parallelChunkSize {
		fn(0, n)
		return
	}
	var wg sync.WaitGroup
	for start := 0; start < n; start += parallelChunkSize {
		end := min(start+parallelChunkSize, n)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(start, end)
		}
		if !workers.StartIfAvailable(task) {
			task()
		}
	}
	wg.Wait()
}

// runNode executes one elementwise node, reading the input regions and writing
// the destination region. Writing in place (dest equal to an input) is safe.
func runNode(node backends.NodeSpec, inputs []backends.DeviceMemory, dest backends.DeviceMemory,
	shape shapes.Shape, workers *workerspool.Pool) error {
	n := shape.Size()
	switch shape.DType {
	case dtypes.Float32:
		return runTyped[float32](node, inputs, dest, n, workers)
	case dtypes.Float64:
		return runTyped[float64](node, inputs, dest, n, workers)
	case dtypes.Int32:
		return runTyped[int32](node, inputs, dest, n, workers)
	case dtypes.Int64:
		return runTyped[int64](node, inputs, dest, n, workers)
	case dtypes.Float16:
		return runFloat16(node, inputs, dest, n, workers)
	default:
		return errors.Errorf("dtype %s not supported by the %s backend", shape.DType, BackendName)
	}
}

func runTyped[T number](node backends.NodeSpec, inputs []backends.DeviceMemory, dest backends.DeviceMemory,
	n int, workers *workerspool.Pool) error {
	dst := memorySlice[T](dest, n)
	switch node.Op {
	case backends.OpIdentity:
		src := memorySlice[T](inputs[0], n)
		parallelFor(workers, n, func(start, end int) {
			copy(dst[start:end], src[start:end])
		})
	case backends.OpNeg:
		src := memorySlice[T](inputs[0], n)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = -src[i]
			}
		})
	case backends.OpAbs:
		src := memorySlice[T](inputs[0], n)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				v := src[i]
				if v < 0 {
					v = -v
				}
				dst[i] = v
			}
		})
	case backends.OpAdd:
		lhs, rhs := memorySlice[T](inputs[0], n), memorySlice[T](inputs[1], n)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = lhs[i] + rhs[i]
			}
		})
	case backends.OpSub:
		lhs, rhs := memorySlice[T](inputs[0], n), memorySlice[T](inputs[1], n)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = lhs[i] - rhs[i]
			}
		})
	case backends.OpMul:
		lhs, rhs := memorySlice[T](inputs[0], n), memorySlice[T](inputs[1], n)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = lhs[i] * rhs[i]
			}
		})
	case backends.OpAddScalar:
		src := memorySlice[T](inputs[0], n)
		scalar := T(node.Scalar)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = src[i] + scalar
			}
		})
	case backends.OpMulScalar:
		src := memorySlice[T](inputs[0], n)
		scalar := T(node.Scalar)
		parallelFor(workers, n, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = src[i] * scalar
			}
		})
	default:
		return errors.Errorf("op %s not implemented", node.Op)
	}
	return nil
}

// runFloat16 computes in float32 and rounds back, since Go has no native
// float16 arithmetic.
func runFloat16(node backends.NodeSpec, inputs []backends.DeviceMemory, dest backends.DeviceMemory,
	n int, workers *workerspool.Pool) error {
	dst := memorySlice[uint16](dest, n)
	at := func(input int, i int) float32 {
		return float16.Frombits(memorySlice[uint16](inputs[input], n)[i]).Float32()
	}
	set := func(i int, v float32) {
		dst[i] = float16.Fromfloat32(v).Bits()
	}
	var fn func(i int)
	switch node.Op {
	case backends.OpIdentity:
		fn = func(i int) { dst[i] = memorySlice[uint16](inputs[0], n)[i] }
	case backends.OpNeg:
		fn = func(i int) { set(i, -at(0, i)) }
	case backends.OpAbs:
		fn = func(i int) {
			v := at(0, i)
			if v < 0 {
				v = -v
			}
			set(i, v)
		}
	case backends.OpAdd:
		fn = func(i int) { set(i, at(0, i)+at(1, i)) }
	case backends.OpSub:
		fn = func(i int) { set(i, at(0, i)-at(1, i)) }
	case backends.OpMul:
		fn = func(i int) { set(i, at(0, i)*at(1, i)) }
	case backends.OpAddScalar:
		scalar := float32(node.Scalar)
		fn = func(i int) { set(i, at(0, i)+scalar) }
	case backends.OpMulScalar:
		scalar := float32(node.Scalar)
		fn = func(i int) { set(i, at(0, i)*scalar) }
	default:
		return errors.Errorf("op %s not implemented", node.Op)
	}
	parallelFor(workers, n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
	return nil
}
