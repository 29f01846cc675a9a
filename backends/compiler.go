// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

import (
	"github.com/gomlx/xrt/types/shapes"
)

// Subgraph describes one fused region of operators that is offloaded for joint
// compilation and execution. It is produced by an earlier partitioning pass and
// is immutable from the launch engine's point of view.
type Subgraph struct {
	// Name identifies the subgraph instance. Together with the device ordinal
	// and the input shapes it forms the compilation signature.
	Name string

	// Nodes of the fused region, in topological order. Node inputs refer either
	// to invocation input names or to outputs of earlier nodes.
	Nodes []NodeSpec

	// MutableArgs maps the name of each input the subgraph modifies in place to
	// the output name it must also appear under.
	MutableArgs map[string]string
}

// NodeSpec is one operator of a Subgraph.
type NodeSpec struct {
	Op     OpType
	Inputs []string
	Output string

	// Scalar operand, used by the *Scalar ops.
	Scalar float64
}

// IsMutableArg returns whether the named input is declared as mutated in place.
func (sg *Subgraph) IsMutableArg(name string) bool {
	_, found := sg.MutableArgs[name]
	return found
}

// MutableArgOutput returns the output name a mutable input maps to, or "" if
// the input is not mutable.
func (sg *Subgraph) MutableArgOutput(name string) string {
	return sg.MutableArgs[name]
}

// Alias declares that the buffer passed as input InputIndex is reused, in
// place, as the buffer for output OutputIndex -- no data copy happens for the
// pair.
type Alias struct {
	OutputIndex int
	InputIndex  int
}

// CompilationResult is the product of one GraphCompiler.Compile call.
//
// It is immutable after creation and shared: the compilation cache owns it, and
// every invocation that hits its signature holds a non-owning reference for the
// duration of execution.
type CompilationResult struct {
	// Executable is the opaque compiled artifact.
	Executable Executable

	// InputShapes are the expected shapes of the arguments, in invocation order.
	InputShapes []shapes.Shape

	// OutputShape is always a tuple shape with one component per declared
	// output, including outputs appended by input/output aliasing.
	OutputShape shapes.Shape
}

// GraphCompiler is the external collaborator that turns a Subgraph into an
// Executable. Compilation is expensive and not idempotent; the launch engine
// guarantees it is invoked at most once per signature.
//
// The entry buffers are used for shape and dtype inference only, they are not
// consumed. A returned error means the subgraph cannot be compiled at all
// (e.g. an unsupported operator) -- the launch engine treats it as fatal.
type GraphCompiler interface {
	Compile(subgraph *Subgraph, entries []*Buffer, entryNames, returnNames []string,
		aliases []Alias) (*CompilationResult, error)
}
