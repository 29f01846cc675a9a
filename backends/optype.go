// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package backends

// OpType is an enum of the operators a Subgraph node can carry.
//
// Nothing precludes a specialized backend from recognizing other ops; a backend
// that doesn't support one of these returns a compilation error, which the
// launch engine treats as fatal.
type OpType int

//go:generate go tool enumer -type=OpType -trimprefix=Op -output=gen_optype_enumer.go optype.go

const (
	OpInvalid OpType = iota
	OpIdentity
	OpNeg
	OpAbs
	OpAdd
	OpSub
	OpMul
	OpAddScalar
	OpMulScalar
)

// NumInputs returns how many inputs the operator consumes.
func (op OpType) NumInputs() int {
	switch op {
	case OpIdentity, OpNeg, OpAbs, OpAddScalar, OpMulScalar:
		return 1
	case OpAdd, OpSub, OpMul:
		return 2
	default:
		return 0
	}
}

// HasScalarOperand returns whether the operator consumes NodeSpec.Scalar.
func (op OpType) HasScalarOperand() bool {
	return op == OpAddScalar || op == OpMulScalar
}
