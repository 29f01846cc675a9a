// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package hostexec

import (
	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Compiler turns a Subgraph into an interpreted executable. Compilation here is
// validation plus shape inference; the per-element work happens at run time.
type Compiler struct{}

// Compile-time check:
var _ backends.GraphCompiler = (*Compiler)(nil)

// supportedDTypes the interpreter can execute.
var supportedDTypes = types.SetWith(
	dtypes.Float16, dtypes.Float32, dtypes.Float64, dtypes.Int32, dtypes.Int64)

// Compile validates the subgraph against the invocation's entry shapes, infers
// the shape of every node output, and returns an executable interpreting the
// node list. A non-nil error means the subgraph can never execute with these
// shapes, whatever the inputs hold.
func (c *Compiler) Compile(subgraph *backends.Subgraph, entries []*backends.Buffer,
	entryNames, returnNames []string, aliases []backends.Alias) (*backends.CompilationResult, error) {
	if len(entries) != len(entryNames) {
		return nil, errors.Errorf("subgraph %q: %d entry buffers for %d entry names",
			subgraph.Name, len(entries), len(entryNames))
	}

	inputShapes := make([]shapes.Shape, len(entries))
	env := make(map[string]shapes.Shape, len(entries)+len(subgraph.Nodes))
	for ii, entry := range entries {
		shape := entry.Shape()
		if !shape.Ok() || shape.IsTuple() {
			return nil, errors.Errorf("subgraph %q: entry %q has unsupported shape %s",
				subgraph.Name, entryNames[ii], shape)
		}
		if !supportedDTypes.Has(shape.DType) {
			return nil, errors.Errorf("subgraph %q: entry %q has dtype %s, not supported by the %s backend",
				subgraph.Name, entryNames[ii], shape.DType, BackendName)
		}
		inputShapes[ii] = shape
		env[entryNames[ii]] = shape
	}

	for ni, node := range subgraph.Nodes {
		shape, err := inferNodeShape(subgraph, ni, node, env)
		if err != nil {
			return nil, err
		}
		env[node.Output] = shape
	}

	if err := checkMutationOrdering(subgraph); err != nil {
		return nil, err
	}

	returnShapes := make([]shapes.Shape, len(returnNames))
	for ii, name := range returnNames {
		shape, found := env[name]
		if !found {
			return nil, errors.Errorf("subgraph %q: output %q is neither a node output nor an entry",
				subgraph.Name, name)
		}
		returnShapes[ii] = shape
	}
	if err := checkAliasShapes(subgraph.Name, aliases, inputShapes, returnShapes); err != nil {
		return nil, err
	}

	aliasForOutput := make(map[int]int, len(aliases))
	for _, alias := range aliases {
		aliasForOutput[alias.OutputIndex] = alias.InputIndex
	}
	exec := &executable{
		name:           subgraph.Name + "#" + uuid.NewString()[:8],
		nodes:          subgraph.Nodes,
		entryNames:     entryNames,
		returnNames:    returnNames,
		aliasForOutput: aliasForOutput,
		inputShapes:    inputShapes,
		returnShapes:   returnShapes,
		outputShape:    shapes.MakeTuple(returnShapes),
	}
	if klog.V(1).Enabled() {
		var outputBytes uintptr
		for _, shape := range returnShapes {
			outputBytes += shape.Memory()
		}
		klog.Infof("compiled %s: %d node(s), %d output(s), %s of results",
			exec.name, len(exec.nodes), len(returnNames), humanize.Bytes(uint64(outputBytes)))
	}
	return &backends.CompilationResult{
		Executable:  exec,
		InputShapes: inputShapes,
		OutputShape: exec.outputShape,
	}, nil
}

// inferNodeShape validates one node against the shapes known so far and
// returns its output shape. The ops are all elementwise, so the output shape is
// the (common) input shape.
func inferNodeShape(subgraph *backends.Subgraph, ni int, node backends.NodeSpec,
	env map[string]shapes.Shape) (shapes.Shape, error) {
	if !node.Op.IsAOpType() || node.Op == backends.OpInvalid {
		return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d has invalid op %d",
			subgraph.Name, ni, node.Op)
	}
	if len(node.Inputs) != node.Op.NumInputs() {
		return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d (%s) takes %d input(s), got %d",
			subgraph.Name, ni, node.Op, node.Op.NumInputs(), len(node.Inputs))
	}
	if node.Output == "" {
		return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d (%s) has no output name",
			subgraph.Name, ni, node.Op)
	}
	if _, taken := env[node.Output]; taken {
		return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d redefines %q",
			subgraph.Name, ni, node.Output)
	}
	var shape shapes.Shape
	for ii, inputName := range node.Inputs {
		inputShape, found := env[inputName]
		if !found {
			return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d (%s) reads undefined value %q",
				subgraph.Name, ni, node.Op, inputName)
		}
		if ii == 0 {
			shape = inputShape
		} else if !shape.Equal(inputShape) {
			return shapes.Invalid(), errors.Errorf("subgraph %q: node #%d (%s) mixes shapes %s and %s",
				subgraph.Name, ni, node.Op, shape, inputShape)
		}
	}
	return shape, nil
}

// checkMutationOrdering rejects nodes that read a mutable entry after the node
// producing its replacement value. The replacement is written through the
// entry's own buffer, so such a read would observe the mutated value instead of
// the original.
func checkMutationOrdering(subgraph *backends.Subgraph) error {
	for entry, output := range subgraph.MutableArgs {
		producer := -1
		for ni, node := range subgraph.Nodes {
			if node.Output == output {
				producer = ni
				break
			}
		}
		if producer == -1 {
			continue
		}
		for ni := producer + 1; ni < len(subgraph.Nodes); ni++ {
			for _, input := range subgraph.Nodes[ni].Inputs {
				if input == entry {
					return errors.Errorf("subgraph %q: node #%d reads %q after node #%d overwrote it in place with %q",
						subgraph.Name, ni, entry, producer, output)
				}
			}
		}
	}
	return nil
}

func checkAliasShapes(name string, aliases []backends.Alias, inputShapes, returnShapes []shapes.Shape) error {
	for _, alias := range aliases {
		if alias.InputIndex < 0 || alias.InputIndex >= len(inputShapes) ||
			alias.OutputIndex < 0 || alias.OutputIndex >= len(returnShapes) {
			return errors.Errorf("subgraph %q: alias %+v out of range for %d inputs and %d outputs",
				name, alias, len(inputShapes), len(returnShapes))
		}
		in, out := inputShapes[alias.InputIndex], returnShapes[alias.OutputIndex]
		if !in.Equal(out) {
			return errors.Errorf("subgraph %q: alias %+v pairs shape %s with shape %s",
				name, alias, in, out)
		}
	}
	return nil
}
