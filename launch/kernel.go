// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package launch implements the signature-keyed compilation cache and the
// launch path for offloaded subgraphs.
//
// A Kernel wraps one Subgraph and an external GraphCompiler. Each Launch
// derives the invocation's Signature (subgraph name, device ordinal, input
// shapes), compiles the subgraph at most once per signature, and runs the
// resulting executable against the caller's buffers, writing outputs in place.
// Inputs the subgraph mutates are aliased to synthetic trailing outputs, so
// their updates land in the caller's own storage without a copy.
//
// Precondition violations are fatal: they panic with an error wrapping one of
// the Failure conditions, following the library convention of panicking on
// programming errors (see github.com/gomlx/exceptions to handle them as
// errors).
package launch

import (
	"sync"
	"time"

	"github.com/gomlx/xrt/backends"
	"k8s.io/klog/v2"
)

// Kernel is the launch engine for one subgraph. It is safe for concurrent use:
// invocations on different devices or with different input shapes proceed
// independently, and invocations sharing a signature reuse one compilation.
type Kernel struct {
	subgraph *backends.Subgraph
	compiler backends.GraphCompiler

	// cache is created lazily on first launch. Each kernel owns its own cache,
	// there is no process-global compilation state.
	cacheOnce sync.Once
	cache     *Cache
}

// NewKernel returns a Kernel launching the given subgraph through the given
// compiler. The subgraph is borrowed and must not be mutated afterwards.
func NewKernel(subgraph *backends.Subgraph, compiler backends.GraphCompiler) *Kernel {
	return &Kernel{subgraph: subgraph, compiler: compiler}
}

// Cache returns the kernel's compilation cache, creating it if needed.
func (k *Kernel) Cache() *Cache {
	k.cacheOnce.Do(func() { k.cache = NewCache() })
	return k.cache
}

// Launch runs the kernel's subgraph on the given device, reading the inputs
// and writing the outputs in place. Inputs declared mutable by the subgraph are
// updated through their own buffers.
//
// On host-resident devices Launch returns only after the results are fully
// written. On accelerators the work is left in flight on the device's stream
// and the output contents become valid once the stream catches up
// (device.Stream.BlockHostUntilDone synchronizes).
func (k *Kernel) Launch(device *backends.DeviceContext, inputs, outputs []backends.NamedBuffer) {
	entries := make([]*backends.Buffer, len(inputs))
	entryNames := make([]string, len(inputs))
	for ii, in := range inputs {
		entries[ii] = in.Buffer
		entryNames[ii] = in.Name
	}
	returns := make([]*backends.Buffer, len(outputs))
	returnNames := make([]string, len(outputs))
	for ii, out := range outputs {
		returns[ii] = out.Buffer
		returnNames[ii] = out.Name
	}

	aliases := resolveAliases(k.subgraph, entries, entryNames, &returns, &returnNames)
	result := k.buildExecutable(device, entries, entryNames, returnNames, aliases)

	ctx := newExecutionContext(k.subgraph.Name, device)
	args := ctx.buildArguments(entries, result.InputShapes, returns)
	run := ctx.execute(result.Executable, args, returns)
	ctx.writeResults(run, returns)
}

// buildExecutable returns the compilation for the invocation's signature,
// compiling on a cache miss. Concurrent launches with the same signature
// compile once and share the result.
func (k *Kernel) buildExecutable(device *backends.DeviceContext, entries []*backends.Buffer,
	entryNames, returnNames []string, aliases []backends.Alias) *backends.CompilationResult {
	signature := ComputeSignature(k.subgraph.Name, device.Ordinal, entries)
	return k.Cache().GetOrCompile(signature, func() *backends.CompilationResult {
		validateAliases(aliases, len(entries), len(returnNames))
		start := time.Now()
		result, err := k.compiler.Compile(k.subgraph, entries, entryNames, returnNames, aliases)
		if err != nil {
			fatalf(CompilationFailure, "signature %s: %v", signature, err)
		}
		if result == nil || result.Executable == nil {
			fatalf(CompilationFailure, "signature %s: compiler returned no executable", signature)
		}
		if klog.V(1).Enabled() {
			klog.Infof("compiled %s in %s", signature, time.Since(start))
		}
		return result
	})
}

// Finalize releases the kernel's cached executables. The kernel shouldn't be
// launched after that.
func (k *Kernel) Finalize() {
	k.cacheOnce.Do(func() { k.cache = NewCache() })
	k.cache.Finalize()
}
