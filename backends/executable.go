// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/xrt/internal/workerspool"
	"github.com/gomlx/xrt/types/shapes"
)

// RunOptions carries the per-invocation device resources an Executable runs
// with. It mirrors what the launch engine holds in its execution context.
type RunOptions struct {
	// Stream the run is ordered on. Must not be nil.
	Stream Stream

	// Allocator for temporary and result buffers the caller did not provide
	// hints for.
	Allocator Allocator

	// Workers for intra-op parallelism. Optional.
	Workers *workerspool.Pool

	// ResultHints, if set, has one entry per output: memory the executable
	// should populate directly, so the caller avoids a copy. A null entry means
	// no hint for that output. Aliased outputs ignore their hint -- they always
	// write through the aliased input.
	ResultHints []DeviceMemory

	// RngSeed for ops that consume randomness.
	RngSeed uint64

	// Device ordinal to run on, for backends that address several devices.
	Device DeviceNum
}

// Executable is the API for compiled subgraphs ready to execute.
type Executable interface {
	// Name of the executable, for logging.
	Name() string

	// InputShapes returns the expected argument shapes, in invocation order.
	InputShapes() []shapes.Shape

	// OutputShape returns the tuple shape of the result.
	OutputShape() shapes.Shape

	// Run enqueues the execution on opts.Stream and returns the result as a
	// tuple ShapedBuffer. The returned buffer descriptors are valid
	// immediately; their contents are only valid once the stream has executed
	// the run (immediately for host streams). The args are borrowed and must
	// stay alive until the stream reaches the run.
	Run(args []*ShapedBuffer, opts RunOptions) (*ShapedBuffer, error)

	// Finalize immediately frees resources associated to the executable.
	Finalize()
}
