package ir

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Op identifies the closed set of LLVM instruction forms this compiler
// knows how to emit. Adding an opcode means adding a variant here and a
// case in Instruction.String; there is no dynamic dispatch over instruction
// forms (see the design note on re-modelling classwise polymorphism as a
// single tagged variant).
type Op uint8

const (
	OpGlobalScalar Op = iota
	OpGlobalArray
	OpAlloca
	OpStore
	OpLoad
	OpAdd
	OpSub
	OpMul
	OpSdiv
	OpShl
	OpAshr
	OpSext
	OpGEP
	OpIcmp
	OpBr
	OpCondBr
	OpLabel
	OpRetVoid
	OpRetVal
	OpCallFunc
	OpCallProc
	OpCallPrintf
	OpCallScanf
)

// Pred is the relational predicate carried by an icmp instruction.
type Pred string

// Predicate mnemonics used verbatim in icmp instructions.
const (
	PredEq  Pred = "eq"
	PredNe  Pred = "ne"
	PredSgt Pred = "sgt"
	PredSge Pred = "sge"
	PredSlt Pred = "slt"
	PredSle Pred = "sle"
)

// Instruction is an immutable value object carrying exactly the operands,
// labels and identifiers its rendered form needs. Instructions are never
// mutated after construction; a function's instruction stream is an ordered
// sequence of these values.
type Instruction struct {
	op     Op
	dst    Operand
	a, b   Operand
	name   string
	size   int
	pred   Pred
	l1, l2 Label
	args   []Operand
}

// ---------------------------------
// ----- instruction constructors -----
// ---------------------------------

// GlobalScalar builds "@name = common global i32 0, align 4".
func GlobalScalar(name string) Instruction {
	return Instruction{op: OpGlobalScalar, name: name}
}

// GlobalArray builds "@name = common global [size x i32] zeroinitializer, align 16".
func GlobalArray(name string, size int) Instruction {
	return Instruction{op: OpGlobalArray, name: name, size: size}
}

// Alloca builds "%name = alloca i32, align 4". The destination of an alloca
// is always a named register: a local variable, a parameter's shadow slot is
// never alloca'd, or a function's own return slot.
func Alloca(name string) Instruction {
	return Instruction{op: OpAlloca, name: name}
}

// Store builds "store i32 value, i32* ptr, align 4".
func Store(value, ptr Operand) Instruction {
	return Instruction{op: OpStore, a: value, b: ptr}
}

// Load builds "dst = load i32, i32* ptr, align 4".
func Load(dst, ptr Operand) Instruction {
	return Instruction{op: OpLoad, dst: dst, a: ptr}
}

// Add builds "dst = add nsw i32 a, b".
func Add(dst, a, b Operand) Instruction {
	return Instruction{op: OpAdd, dst: dst, a: a, b: b}
}

// Sub builds "dst = sub nsw i32 a, b".
func Sub(dst, a, b Operand) Instruction {
	return Instruction{op: OpSub, dst: dst, a: a, b: b}
}

// Mul builds "dst = mul nsw i32 a, b".
func Mul(dst, a, b Operand) Instruction {
	return Instruction{op: OpMul, dst: dst, a: a, b: b}
}

// Sdiv builds "dst = sdiv i32 a, b".
func Sdiv(dst, a, b Operand) Instruction {
	return Instruction{op: OpSdiv, dst: dst, a: a, b: b}
}

// Shl builds "dst = shl i32 a, b" (strength-reduced multiply by 2^b).
func Shl(dst, a, b Operand) Instruction {
	return Instruction{op: OpShl, dst: dst, a: a, b: b}
}

// Ashr builds "dst = ashr i32 a, b" (strength-reduced divide by 2^b).
func Ashr(dst, a, b Operand) Instruction {
	return Instruction{op: OpAshr, dst: dst, a: a, b: b}
}

// Sext builds "dst = sext i32 v to i64".
func Sext(dst, v Operand) Instruction {
	return Instruction{op: OpSext, dst: dst, a: v}
}

// GEP builds the array element address computation:
// "dst = getelementptr inbounds [size x i32], [size x i32]* @name, i64 0, i64 idx".
func GEP(dst Operand, size int, name string, idx Operand) Instruction {
	return Instruction{op: OpGEP, dst: dst, a: idx, name: name, size: size}
}

// Icmp builds "dst = icmp pred i32 a, b".
func Icmp(dst Operand, pred Pred, a, b Operand) Instruction {
	return Instruction{op: OpIcmp, dst: dst, a: a, b: b, pred: pred}
}

// Br builds the unconditional branch "br label %l".
func Br(l Label) Instruction {
	return Instruction{op: OpBr, l1: l}
}

// CondBr builds "br i1 cond, label %ltrue, label %lfalse".
func CondBr(cond Operand, ltrue, lfalse Label) Instruction {
	return Instruction{op: OpCondBr, a: cond, l1: ltrue, l2: lfalse}
}

// LabelDef builds the basic block definition "l:".
func LabelDef(l Label) Instruction {
	return Instruction{op: OpLabel, l1: l}
}

// RetVoid builds "ret void".
func RetVoid() Instruction {
	return Instruction{op: OpRetVoid}
}

// RetVal builds "ret i32 v".
func RetVal(v Operand) Instruction {
	return Instruction{op: OpRetVal, a: v}
}

// CallFunc builds "dst = call i32 @name(i32 a1, ...)".
func CallFunc(dst Operand, name string, args []Operand) Instruction {
	return Instruction{op: OpCallFunc, dst: dst, name: name, args: args}
}

// CallProc builds "call void @name(i32 a1, ...)".
func CallProc(name string, args []Operand) Instruction {
	return Instruction{op: OpCallProc, name: name, args: args}
}

// CallPrintf builds the fixed-format printf call used by write statements.
func CallPrintf(dst, arg Operand) Instruction {
	return Instruction{op: OpCallPrintf, dst: dst, a: arg}
}

// CallScanf builds the fixed-format scanf call used by read statements.
func CallScanf(dst, ptr Operand) Instruction {
	return Instruction{op: OpCallScanf, dst: dst, a: ptr}
}

// ---------------------
// ----- rendering -----
// ---------------------

// String renders the instruction exactly as specified: total and
// deterministic, one line, no trailing newline.
func (ins Instruction) String() string {
	switch ins.op {
	case OpGlobalScalar:
		return fmt.Sprintf("@%s = common global i32 0, align 4", ins.name)
	case OpGlobalArray:
		return fmt.Sprintf("@%s = common global [%d x i32] zeroinitializer, align 16", ins.name, ins.size)
	case OpAlloca:
		return fmt.Sprintf("%%%s = alloca i32, align 4", ins.name)
	case OpStore:
		return fmt.Sprintf("store i32 %s, i32* %s, align 4", ins.a, ins.b)
	case OpLoad:
		return fmt.Sprintf("%s = load i32, i32* %s, align 4", ins.dst, ins.a)
	case OpAdd:
		return fmt.Sprintf("%s = add nsw i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpSub:
		return fmt.Sprintf("%s = sub nsw i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpMul:
		return fmt.Sprintf("%s = mul nsw i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpSdiv:
		return fmt.Sprintf("%s = sdiv i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpShl:
		return fmt.Sprintf("%s = shl i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpAshr:
		return fmt.Sprintf("%s = ashr i32 %s, %s", ins.dst, ins.a, ins.b)
	case OpSext:
		return fmt.Sprintf("%s = sext i32 %s to i64", ins.dst, ins.a)
	case OpGEP:
		return fmt.Sprintf("%s = getelementptr inbounds [%d x i32], [%d x i32]* @%s, i64 0, i64 %s",
			ins.dst, ins.size, ins.size, ins.name, ins.a)
	case OpIcmp:
		return fmt.Sprintf("%s = icmp %s i32 %s, %s", ins.dst, ins.pred, ins.a, ins.b)
	case OpBr:
		return fmt.Sprintf("br label %s", ins.l1.Ref())
	case OpCondBr:
		return fmt.Sprintf("br i1 %s, label %s, label %s", ins.a, ins.l1.Ref(), ins.l2.Ref())
	case OpLabel:
		return ins.l1.Def()
	case OpRetVoid:
		return "ret void"
	case OpRetVal:
		return fmt.Sprintf("ret i32 %s", ins.a)
	case OpCallFunc:
		return fmt.Sprintf("%s = call i32 @%s(%s)", ins.dst, ins.name, argList(ins.args))
	case OpCallProc:
		return fmt.Sprintf("call void @%s(%s)", ins.name, argList(ins.args))
	case OpCallPrintf:
		return fmt.Sprintf("%s = call i32 (i8*, ...) @printf(i8* getelementptr inbounds "+
			"([4 x i8], [4 x i8]* @.str.w, i64 0, i64 0), i32 %s)", ins.dst, ins.a)
	case OpCallScanf:
		return fmt.Sprintf("%s = call i32 (i8*, ...) @scanf (i8* getelementptr inbounds "+
			"([3 x i8], [3 x i8]* @.str.r, i64 0, i64 0), i32* %s)", ins.dst, ins.a)
	default:
		panic("ir: unknown instruction opcode")
	}
}

// argList renders a call argument list as "i32 a1, i32 a2, ...".
func argList(args []Operand) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i1, a := range args {
		parts[i1] = fmt.Sprintf("i32 %s", a)
	}
	return strings.Join(parts, ", ")
}

// RelOp maps a source relational operator token to the icmp predicate that
// implements it: = -> eq, <> -> ne, > -> sgt, >= -> sge, < -> slt, <= -> sle.
func RelOp(src string) Pred {
	switch src {
	case "=":
		return PredEq
	case "<>":
		return PredNe
	case ">":
		return PredSgt
	case ">=":
		return PredSge
	case "<":
		return PredSlt
	case "<=":
		return PredSle
	default:
		panic(fmt.Sprintf("ir: unknown relational operator %q", src))
	}
}
