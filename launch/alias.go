// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/xrt/backends"
)

// resolveAliases extends the return lists with one synthetic output per mutable
// input, in entry order, and returns the input/output alias pairs for the
// compiler. Each synthetic output reuses the mutable input's own buffer, so the
// executable writes the mutation in place and the callers see the updated value
// through the buffer they passed in.
//
// The returns/returnNames slices are extended through the pointers; entries and
// entryNames are only read.
func resolveAliases(subgraph *backends.Subgraph, entries []*backends.Buffer, entryNames []string,
	returns *[]*backends.Buffer, returnNames *[]string) []backends.Alias {
	if len(entries) != len(entryNames) {
		fatalf(ShapeMismatch, "subgraph %q: %d entry buffers for %d entry names",
			subgraph.Name, len(entries), len(entryNames))
	}
	if len(*returns) != len(*returnNames) {
		fatalf(ShapeMismatch, "subgraph %q: %d return buffers for %d return names",
			subgraph.Name, len(*returns), len(*returnNames))
	}
	var aliases []backends.Alias
	for ii, name := range entryNames {
		if !subgraph.IsMutableArg(name) {
			continue
		}
		outputName := subgraph.MutableArgOutput(name)
		if outputName == "" {
			exceptions.Panicf("subgraph %q: mutable input %q has no output name", subgraph.Name, name)
		}
		aliases = append(aliases, backends.Alias{OutputIndex: len(*returns), InputIndex: ii})
		*returns = append(*returns, entries[ii])
		*returnNames = append(*returnNames, outputName)
	}
	return aliases
}

// validateAliases checks every alias pair against the invocation's input and
// output cardinalities.
func validateAliases(aliases []backends.Alias, numInputs, numOutputs int) {
	for _, alias := range aliases {
		if alias.InputIndex < 0 || alias.InputIndex >= numInputs {
			fatalf(AliasBoundsViolation, "alias input index %d out of range, invocation has %d inputs",
				alias.InputIndex, numInputs)
		}
		if alias.OutputIndex < 0 || alias.OutputIndex >= numOutputs {
			fatalf(AliasBoundsViolation, "alias output index %d out of range, invocation has %d outputs",
				alias.OutputIndex, numOutputs)
		}
	}
}
