// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package hostexec

import (
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// executable interprets the validated node list of one compiled subgraph.
//
// It is stateless between runs and safe for concurrent Run calls: all mutable
// state is local to one run, and the writes to result memory are ordered by the
// caller's stream.
type executable struct {
	name  string
	nodes []backends.NodeSpec

	entryNames  []string
	returnNames []string

	// aliasForOutput maps an output index to the input index whose buffer it
	// writes through.
	aliasForOutput map[int]int

	inputShapes  []shapes.Shape
	returnShapes []shapes.Shape
	outputShape  shapes.Shape
}

// Compile-time check:
var _ backends.Executable = (*executable)(nil)

func (e *executable) Name() string                { return e.name }
func (e *executable) InputShapes() []shapes.Shape { return e.inputShapes }
func (e *executable) OutputShape() shapes.Shape   { return e.outputShape }

// Run enqueues one interpretation of the node list on opts.Stream.
//
// Result placement is decided up front, before anything is enqueued: aliased
// outputs write through their paired input's memory, hinted outputs write
// through the hint, and the rest get fresh allocations. That way the returned
// descriptors are final even while the work is still in flight on the stream.
func (e *executable) Run(args []*backends.ShapedBuffer, opts backends.RunOptions) (*backends.ShapedBuffer, error) {
	if len(args) != len(e.inputShapes) {
		return nil, errors.Errorf("executable %s: got %d arguments, expects %d",
			e.name, len(args), len(e.inputShapes))
	}
	for ii, arg := range args {
		if !arg.Shape().Equal(e.inputShapes[ii]) {
			return nil, errors.Errorf("executable %s: argument #%d has shape %s, expects %s",
				e.name, ii, arg.Shape(), e.inputShapes[ii])
		}
	}
	if opts.Stream == nil {
		return nil, errors.Errorf("executable %s: run without a stream", e.name)
	}
	if opts.ResultHints != nil && len(opts.ResultHints) != len(e.returnShapes) {
		return nil, errors.Errorf("executable %s: got %d result hints for %d outputs",
			e.name, len(opts.ResultHints), len(e.returnShapes))
	}

	components := make([]*backends.ShapedBuffer, len(e.returnShapes))
	for ii, shape := range e.returnShapes {
		var memory backends.DeviceMemory
		if inputIdx, aliased := e.aliasForOutput[ii]; aliased {
			memory = args[inputIdx].Memory()
		} else if opts.ResultHints != nil && !opts.ResultHints[ii].IsNull() &&
			opts.ResultHints[ii].SizeBytes() >= int(shape.Memory()) {
			memory = opts.ResultHints[ii]
		} else {
			memory = opts.Allocator.Allocate(int(shape.Memory()))
		}
		components[ii] = backends.NewShapedBuffer(shape, memory)
	}

	opts.Stream.Enqueue(func() {
		if err := e.interpret(args, components, opts); err != nil {
			// Compilation already rejected everything that can fail here.
			klog.Exitf("executable %s: %+v", e.name, err)
		}
	})
	return backends.NewTupleShapedBuffer(components), nil
}

// interpret runs the node list once. It executes on the stream, after all
// previously enqueued device work.
func (e *executable) interpret(args, components []*backends.ShapedBuffer, opts backends.RunOptions) error {
	env := make(map[string]backends.DeviceMemory, len(args)+len(e.nodes))
	shapeOf := make(map[string]shapes.Shape, len(args)+len(e.nodes))
	for ii, name := range e.entryNames {
		env[name] = args[ii].Memory()
		shapeOf[name] = args[ii].Shape()
	}

	// Nodes producing an output write straight into its result memory.
	destForName := make(map[string]backends.DeviceMemory, len(e.returnNames))
	for ii, name := range e.returnNames {
		if _, found := destForName[name]; !found {
			destForName[name] = components[ii].Memory()
		}
	}

	for _, node := range e.nodes {
		inputs := make([]backends.DeviceMemory, len(node.Inputs))
		shape := shapes.Invalid()
		for ii, inputName := range node.Inputs {
			inputs[ii] = env[inputName]
			shape = shapeOf[inputName]
		}
		dest, found := destForName[node.Output]
		if !found {
			dest = opts.Allocator.Allocate(int(shape.Memory()))
		}
		if err := runNode(node, inputs, dest, shape, opts.Workers); err != nil {
			return err
		}
		env[node.Output] = dest
		shapeOf[node.Output] = shape
	}

	// Pass-through outputs: return names bound directly to an entry, or to a
	// result memory other than where the value was computed.
	for ii, name := range e.returnNames {
		memory, found := env[name]
		if !found {
			return errors.Errorf("output %q was never computed", name)
		}
		dest := components[ii].Memory()
		if memory.Opaque() != dest.Opaque() {
			copy(dest.Bytes(), memory.Bytes())
		}
	}
	return nil
}

// Finalize is a no-op: the interpreter holds no resources outside the
// allocator, which the device owns.
func (e *executable) Finalize() {}
