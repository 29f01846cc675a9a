// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types/xsync"
	"k8s.io/klog/v2"
)

// Cache owns the mapping from Signature to CompilationResult for one kernel
// instance. It is the only resource shared between concurrent invocations of a
// kernel; everything else is invocation-local.
//
// Entries live for the lifetime of the cache -- there is no eviction. Results
// are immutable and shared: every invocation hitting a signature gets the same
// *backends.CompilationResult instance.
//
// Same-signature races are serialized per entry: the first racer to install an
// entry compiles, later racers wait on the entry's latch. Different signatures
// never block each other beyond the sync.Map access itself.
type Cache struct {
	entries xsync.SyncMap[string, *cacheEntry]
}

type cacheEntry struct {
	signature Signature
	result    *xsync.LatchWithValue[*backends.CompilationResult]
}

func newCacheEntry(signature Signature) *cacheEntry {
	return &cacheEntry{
		signature: signature,
		result:    xsync.NewLatchWithValue[*backends.CompilationResult](),
	}
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Lookup returns the result recorded for the signature, if present and ready.
// A compilation still in flight for the signature reads as a miss.
func (c *Cache) Lookup(signature Signature) (*backends.CompilationResult, bool) {
	entry, found := c.entries.Load(signature.Key())
	if !found || !entry.result.Test() {
		return nil, false
	}
	result := entry.result.Wait()
	if result == nil {
		// A compile for this signature failed; the entry is poisoned.
		return nil, false
	}
	return result, true
}

// Record stores the result for the signature. The first Record for a signature
// wins and later ones are discarded; it returns the authoritative shared
// instance, which callers must use in place of their own argument.
func (c *Cache) Record(signature Signature, result *backends.CompilationResult) *backends.CompilationResult {
	entry, _ := c.entries.LoadOrStore(signature.Key(), newCacheEntry(signature))
	entry.result.Trigger(result)
	return entry.result.Wait()
}

// GetOrCompile returns the result cached for the signature, compiling it with
// the given function if absent. The function is invoked at most once per
// signature: concurrent callers racing on a cold signature wait for the first
// racer's result and all receive the same instance. It must not return nil.
//
// If the compile panics, the panic propagates on the compiling goroutine, the
// waiters fail with CompilationFailure, and the signature stays poisoned --
// matching the fail-fast convention for compilation errors.
func (c *Cache) GetOrCompile(signature Signature, compile func() *backends.CompilationResult) *backends.CompilationResult {
	entry, loaded := c.entries.LoadOrStore(signature.Key(), newCacheEntry(signature))
	if loaded {
		if !entry.result.Test() && klog.V(2).Enabled() {
			klog.Infof("signature %s: waiting on concurrent compilation", signature)
		}
		result := entry.result.Wait()
		if result == nil {
			fatalf(CompilationFailure, "signature %s: compilation failed on a concurrent invocation", entry.signature)
		}
		return result
	}

	completed := false
	defer func() {
		if !completed {
			// Release waiters before unwinding.
			entry.result.Trigger(nil)
		}
	}()
	result := compile()
	entry.result.Trigger(result)
	completed = true
	return entry.result.Wait()
}

// Size returns the number of signatures recorded so far, including in-flight
// and poisoned ones.
func (c *Cache) Size() int {
	count := 0
	c.entries.Range(func(_ string, _ *cacheEntry) bool {
		count++
		return true
	})
	return count
}

// Finalize releases the executables of all ready entries and clears the cache.
// The cache shouldn't be used after that.
func (c *Cache) Finalize() {
	c.entries.Range(func(_ string, entry *cacheEntry) bool {
		if entry.result.Test() {
			if result := entry.result.Wait(); result != nil && result.Executable != nil {
				result.Executable.Finalize()
			}
		}
		return true
	})
	c.entries.Clear()
}
