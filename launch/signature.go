// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package launch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/xrt/backends"
	"github.com/gomlx/xrt/types/shapes"
)

// Signature is the identity key of one cached compilation: the subgraph
// identity, the target device ordinal, and the invocation's input shapes.
// Two signatures are equal iff all fields compare equal by value -- there is no
// partial or fuzzy matching. Immutable once constructed.
type Signature struct {
	SubgraphName  string
	DeviceOrdinal backends.DeviceNum
	InputShapes   []shapes.Shape

	// key memoizes the canonical form.
	key string
}

// ComputeSignature derives the Signature of one invocation from the subgraph
// name, the target device and the shapes of the entry buffers. It is a pure
// function; its only failure mode is malformed shape metadata, which is fatal.
func ComputeSignature(subgraphName string, deviceOrdinal backends.DeviceNum, entries []*backends.Buffer) Signature {
	inputShapes := make([]shapes.Shape, len(entries))
	for ii, entry := range entries {
		shape := entry.Shape()
		if !shape.Ok() {
			fatalf(ShapeMismatch, "input #%d of subgraph %q has an invalid shape", ii, subgraphName)
		}
		inputShapes[ii] = shape
	}
	return MakeSignature(subgraphName, deviceOrdinal, inputShapes)
}

// MakeSignature builds a Signature directly from shapes.
func MakeSignature(subgraphName string, deviceOrdinal backends.DeviceNum, inputShapes []shapes.Shape) Signature {
	return Signature{
		SubgraphName:  subgraphName,
		DeviceOrdinal: deviceOrdinal,
		InputShapes:   inputShapes,
		key:           signatureKey(subgraphName, deviceOrdinal, inputShapes),
	}
}

func signatureKey(subgraphName string, deviceOrdinal backends.DeviceNum, inputShapes []shapes.Shape) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s@%d", subgraphName, deviceOrdinal)
	for _, shape := range inputShapes {
		b.WriteByte('|')
		b.WriteString(shape.String())
	}
	return b.String()
}

// Key returns the canonical string form of the signature: independently
// constructed signatures with equal content have equal keys, so it is what the
// cache indexes by.
func (s Signature) Key() string {
	if s.key == "" {
		return signatureKey(s.SubgraphName, s.DeviceOrdinal, s.InputShapes)
	}
	return s.key
}

// Equal compares signatures structurally.
func (s Signature) Equal(other Signature) bool {
	return s.SubgraphName == other.SubgraphName &&
		s.DeviceOrdinal == other.DeviceOrdinal &&
		slices.EqualFunc(s.InputShapes, other.InputShapes, shapes.Shape.Equal)
}

// String implements fmt.Stringer.
func (s Signature) String() string { return s.Key() }
