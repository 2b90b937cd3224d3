// Package ir implements the intermediate representation emitted by the
// front end: operands, instructions, per-function containers, the flat
// symbol table and the top-level compiler state that ties them together
// into a complete LLVM IR module.
package ir

import (
	"fmt"
	"strconv"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// OperandKind differentiates the four operand variants an instruction may
// reference.
type OperandKind uint8

const (
	OperandConstant   OperandKind = iota // A signed 32-bit literal.
	OperandNumberedReg                   // The n-th SSA register of the current function.
	OperandNamedReg                      // A named local/parameter register.
	OperandGlobalVar                     // A module-level variable or array.
)

// Operand is an immutable, uniform representation of an IR value. Operands
// are value types: equality is by tag and payload, and printing is total.
type Operand struct {
	kind OperandKind
	num  int32
	name string
}

// ---------------------
// ----- functions -----
// ---------------------

// Constant returns an Operand holding the signed 32-bit literal v.
func Constant(v int32) Operand {
	return Operand{kind: OperandConstant, num: v}
}

// NumberedReg returns an Operand referring to SSA register n, n >= 1.
func NumberedReg(n int) Operand {
	return Operand{kind: OperandNumberedReg, num: int32(n)}
}

// NamedReg returns an Operand referring to the named local/parameter
// register name.
func NamedReg(name string) Operand {
	return Operand{kind: OperandNamedReg, name: name}
}

// GlobalVar returns an Operand referring to the module-level variable or
// array name.
func GlobalVar(name string) Operand {
	return Operand{kind: OperandGlobalVar, name: name}
}

// Kind returns the variant tag of the operand.
func (o Operand) Kind() OperandKind {
	return o.kind
}

// IsConstant reports whether o is a Constant operand.
func (o Operand) IsConstant() bool {
	return o.kind == OperandConstant
}

// ConstantValue returns the literal value of a Constant operand. It panics
// if o is not a Constant; callers must check IsConstant first.
func (o Operand) ConstantValue() int32 {
	if o.kind != OperandConstant {
		panic("ir: ConstantValue called on non-constant operand")
	}
	return o.num
}

// String renders the operand exactly as it appears in emitted IR text.
func (o Operand) String() string {
	switch o.kind {
	case OperandConstant:
		return strconv.FormatInt(int64(o.num), 10)
	case OperandNumberedReg:
		return fmt.Sprintf("%%%d", o.num)
	case OperandNamedReg:
		return fmt.Sprintf("%%%s", o.name)
	case OperandGlobalVar:
		return fmt.Sprintf("@%s", o.name)
	default:
		panic("ir: unknown operand kind")
	}
}

// Label names a function-local basic block. Labels carry a positive integer
// and render differently in definitions (Lk:) than in branch targets (%Lk).
type Label struct {
	id int
}

// Name returns the bare label name, e.g. "L3".
func (l Label) Name() string {
	return fmt.Sprintf("L%d", l.id)
}

// Ref returns the label as a branch target operand, e.g. "%L3".
func (l Label) Ref() string {
	return fmt.Sprintf("%%L%d", l.id)
}

// Def returns the label definition line, e.g. "L3:".
func (l Label) Def() string {
	return fmt.Sprintf("%s:", l.Name())
}
