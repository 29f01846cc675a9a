// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"math/rand/v2"

	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/pkg/errors"
)

// ExecutionContext drives one invocation of a compiled executable on one
// device: it translates the caller's buffers into executable arguments, runs
// with the device-appropriate synchronization policy, and writes results back
// into the caller's buffers. It is invocation-local and never shared.
type ExecutionContext struct {
	name    string
	device  *backends.DeviceContext
	rngSeed uint64
}

func newExecutionContext(name string, device *backends.DeviceContext) *ExecutionContext {
	return &ExecutionContext{
		name:    name,
		device:  device,
		rngSeed: rand.Uint64(),
	}
}

// buildArguments translates the entry buffers into the per-run argument list,
// checking them against the shapes the executable was compiled for.
//
// An entry with null memory but non-empty shape is substituted by the first
// output's buffer: some producers hand over placeholder entries whose storage
// was elided, and any valid device address satisfies them since the compiled
// program never reads through the pointer. Genuinely empty entries are passed
// through as-is.
func (c *ExecutionContext) buildArguments(entries []*backends.Buffer, inputShapes []shapes.Shape,
	returns []*backends.Buffer) []*backends.ShapedBuffer {
	if len(entries) != len(inputShapes) {
		fatalf(ShapeMismatch, "%s: invocation has %d inputs, executable was compiled for %d",
			c.name, len(entries), len(inputShapes))
	}
	if len(returns) == 0 {
		fatalf(MissingOutput, "%s: invocation declares no outputs", c.name)
	}
	args := make([]*backends.ShapedBuffer, len(entries))
	for ii, entry := range entries {
		shape := inputShapes[ii]
		if shape.IsTuple() {
			fatalf(ShapeMismatch, "%s: input #%d has tuple shape %s, arguments must be flattened",
				c.name, ii, shape)
		}
		if !entry.Shape().Equal(shape) {
			fatalf(ShapeMismatch, "%s: input #%d has shape %s, executable was compiled for %s",
				c.name, ii, entry.Shape(), shape)
		}
		memory := entry.Memory()
		if memory.IsNull() && shape.Memory() > 0 {
			memory = backends.MemoryOf(returns[0].Memory().Opaque(), int(shape.Memory()))
		}
		args[ii] = backends.NewShapedBuffer(shape, memory)
	}
	return args
}

// execute runs the executable on the invocation's stream and applies the
// device's synchronization policy: host-resident devices block until the run
// has finished, accelerators leave the run in flight on the stream.
//
// The result buffers are offered as placement hints, so a well-behaved backend
// populates the caller's memory directly.
func (c *ExecutionContext) execute(executable backends.Executable, args []*backends.ShapedBuffer,
	returns []*backends.Buffer) *backends.ShapedBuffer {
	hints := make([]backends.DeviceMemory, len(returns))
	for ii, ret := range returns {
		hints[ii] = ret.Memory()
	}
	run, err := executable.Run(args, backends.RunOptions{
		Stream:      c.device.Stream,
		Allocator:   c.device.Allocator,
		Workers:     c.device.Workers,
		ResultHints: hints,
		RngSeed:     c.rngSeed,
		Device:      c.device.Ordinal,
	})
	if err != nil {
		panic(errors.WithMessagef(err, "%s: executable run failed", c.name))
	}
	if c.device.Type.IsHostResident() {
		c.device.Stream.BlockHostUntilDone()
	}
	if !run.IsTuple() {
		fatalf(ResultShapeViolation, "%s: executable returned a non-tuple result of shape %s",
			c.name, run.Shape())
	}
	if run.NumComponents() != len(returns) {
		fatalf(ResultShapeViolation, "%s: executable returned %d outputs, invocation declares %d",
			c.name, run.NumComponents(), len(returns))
	}
	return run
}

// writeResults copies each run output into the corresponding caller buffer,
// unless the backend already populated the caller's memory (the pointers
// compare equal), in which case the copy is skipped. Copies use the device's
// stream-ordered primitive.
func (c *ExecutionContext) writeResults(run *backends.ShapedBuffer, returns []*backends.Buffer) {
	for ii, ret := range returns {
		component := run.Component(ii)
		memory := component.Memory()
		if memory.IsNull() {
			continue
		}
		if memory.Opaque() == ret.Memory().Opaque() {
			continue
		}
		c.device.Memcpy(ret.Memory(), memory)
	}
}
