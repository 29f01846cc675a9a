// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"github.com/pkg/errors"
)

// Failure enumerates the fatal precondition violations the launch engine can
// detect. Every one of them indicates a defect in an earlier, statically
// verified stage -- not a transient runtime condition -- so they abort the
// invocation by panicking instead of returning a recoverable error. There are
// no retries anywhere in this engine.
//
// A test harness can catch and match them with
// exceptions.TryCatch[error] + errors.Is.
type Failure int

//go:generate go tool enumer -type=Failure -output=gen_failure_enumer.go errors.go

const (
	// ShapeMismatch: buffer count or shape doesn't match the declared
	// input/output cardinality.
	ShapeMismatch Failure = iota

	// CompilationFailure: the external compiler cannot produce an executable
	// for the subgraph/signature.
	CompilationFailure

	// MissingOutput: zero real outputs requested.
	MissingOutput

	// AliasBoundsViolation: an alias references an out-of-range input or output
	// index.
	AliasBoundsViolation

	// ResultShapeViolation: the compiled run's result is not an aggregate
	// matching the declared output cardinality.
	ResultShapeViolation
)

// Error implements the error interface, so a Failure can be matched with
// errors.Is on the panic value.
func (f Failure) Error() string { return f.String() }

// fatalf aborts the invocation by panicking with an error wrapping the named
// failure condition.
func fatalf(f Failure, format string, args ...any) {
	panic(errors.WithMessagef(f, format, args...))
}
