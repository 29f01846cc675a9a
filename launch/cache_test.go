package launch

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutable is a do-nothing Executable for cache tests.
type stubExecutable struct {
	name      string
	finalized atomic.Bool
}

func (e *stubExecutable) Name() string                { return e.name }
func (e *stubExecutable) InputShapes() []shapes.Shape { return nil }
func (e *stubExecutable) OutputShape() shapes.Shape   { return shapes.MakeTuple(nil) }
func (e *stubExecutable) Run(args []*backends.ShapedBuffer, opts backends.RunOptions) (*backends.ShapedBuffer, error) {
	return backends.NewTupleShapedBuffer(nil), nil
}
func (e *stubExecutable) Finalize() { e.finalized.Store(true) }

func stubResult(name string) *backends.CompilationResult {
	return &backends.CompilationResult{Executable: &stubExecutable{name: name}}
}

func testSignature(name string) Signature {
	return MakeSignature(name, 0, []shapes.Shape{shapes.Make(dtypes.Float32, 4)})
}

func TestCacheLookupAndRecord(t *testing.T) {
	cache := NewCache()
	sig := testSignature("add1")

	_, found := cache.Lookup(sig)
	assert.False(t, found)

	result := stubResult("add1")
	stored := cache.Record(sig, result)
	assert.Same(t, result, stored)

	// Read-after-record returns the recorded instance.
	got, found := cache.Lookup(sig)
	require.True(t, found)
	assert.Same(t, result, got)
	assert.Equal(t, 1, cache.Size())
}

func TestCacheRecordFirstWins(t *testing.T) {
	cache := NewCache()
	sig := testSignature("add1")

	first := stubResult("first")
	second := stubResult("second")
	assert.Same(t, first, cache.Record(sig, first))

	// The duplicate record is discarded; the authoritative instance comes back.
	assert.Same(t, first, cache.Record(sig, second))
	got, found := cache.Lookup(sig)
	require.True(t, found)
	assert.Same(t, first, got)
	assert.Equal(t, 1, cache.Size())
}

func TestCacheGetOrCompileAtMostOnce(t *testing.T) {
	cache := NewCache()
	sig := testSignature("add1")
	result := stubResult("add1")

	var compiles atomic.Int32
	compile := func() *backends.CompilationResult {
		compiles.Add(1)
		return result
	}

	const goroutines = 32
	got := make([]*backends.CompilationResult, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = cache.GetOrCompile(sig, compile)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), compiles.Load())
	for i := range goroutines {
		assert.Same(t, result, got[i])
	}
	assert.Equal(t, 1, cache.Size())
}

func TestCacheIndependentSignatures(t *testing.T) {
	cache := NewCache()
	sigA := testSignature("add1")
	sigB := MakeSignature("add1", 0, []shapes.Shape{shapes.Make(dtypes.Float32, 8)})

	resultA := cache.GetOrCompile(sigA, func() *backends.CompilationResult { return stubResult("a") })
	resultB := cache.GetOrCompile(sigB, func() *backends.CompilationResult { return stubResult("b") })
	assert.NotSame(t, resultA, resultB)
	assert.Equal(t, 2, cache.Size())
}

func TestCacheCompilePanicPoisonsSignature(t *testing.T) {
	cache := NewCache()
	sig := testSignature("broken")

	err := catchFailure(t, func() {
		cache.GetOrCompile(sig, func() *backends.CompilationResult {
			fatalf(CompilationFailure, "unsupported operator")
			return nil
		})
	})
	require.ErrorIs(t, err, CompilationFailure)

	// The signature stays poisoned: later callers fail fast without compiling.
	err = catchFailure(t, func() {
		cache.GetOrCompile(sig, func() *backends.CompilationResult {
			t.Fatal("compile must not run for a poisoned signature")
			return nil
		})
	})
	require.ErrorIs(t, err, CompilationFailure)

	_, found := cache.Lookup(sig)
	assert.False(t, found)
}

func TestCacheFinalize(t *testing.T) {
	cache := NewCache()
	exec := &stubExecutable{name: "add1"}
	cache.Record(testSignature("add1"), &backends.CompilationResult{Executable: exec})

	cache.Finalize()
	assert.True(t, exec.finalized.Load())
	assert.Equal(t, 0, cache.Size())
}
