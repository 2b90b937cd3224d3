package ir

import "testing"

func TestInstructionStringRendering(t *testing.T) {
	cases := []struct {
		name string
		ins  Instruction
		want string
	}{
		{"global scalar", GlobalScalar("x"), "@x = common global i32 0, align 4"},
		{"global array", GlobalArray("a", 10), "@a = common global [10 x i32] zeroinitializer, align 16"},
		{"alloca", Alloca("x"), "%x = alloca i32, align 4"},
		{"store", Store(Constant(1), GlobalVar("x")), "store i32 1, i32* @x, align 4"},
		{"load", Load(NumberedReg(1), GlobalVar("x")), "%1 = load i32, i32* @x, align 4"},
		{"add", Add(NumberedReg(2), NumberedReg(1), Constant(1)), "%2 = add nsw i32 %1, 1"},
		{"sub", Sub(NumberedReg(2), NumberedReg(1), Constant(1)), "%2 = sub nsw i32 %1, 1"},
		{"mul", Mul(NumberedReg(2), NumberedReg(1), Constant(3)), "%2 = mul nsw i32 %1, 3"},
		{"sdiv", Sdiv(NumberedReg(2), NumberedReg(1), Constant(3)), "%2 = sdiv i32 %1, 3"},
		{"shl", Shl(NumberedReg(2), NumberedReg(1), Constant(3)), "%2 = shl i32 %1, 3"},
		{"ashr", Ashr(NumberedReg(2), NumberedReg(1), Constant(2)), "%2 = ashr i32 %1, 2"},
		{"sext", Sext(NumberedReg(2), NumberedReg(1)), "%2 = sext i32 %1 to i64"},
		{"gep", GEP(NumberedReg(3), 10, "a", NumberedReg(2)),
			"%3 = getelementptr inbounds [10 x i32], [10 x i32]* @a, i64 0, i64 %2"},
		{"icmp", Icmp(NumberedReg(1), PredEq, Constant(1), Constant(2)), "%1 = icmp eq i32 1, 2"},
		{"br", Br(Label{id: 1}), "br label %L1"},
		{"condbr", CondBr(NumberedReg(1), Label{id: 1}, Label{id: 2}), "br i1 %1, label %L1, label %L2"},
		{"labeldef", LabelDef(Label{id: 4}), "L4:"},
		{"retvoid", RetVoid(), "ret void"},
		{"retval", RetVal(Constant(0)), "ret i32 0"},
		{"callfunc no args", CallFunc(NumberedReg(1), "f", nil), "%1 = call i32 @f()"},
		{"callfunc args", CallFunc(NumberedReg(1), "f", []Operand{Constant(1), NumberedReg(2)}),
			"%1 = call i32 @f(i32 1, i32 %2)"},
		{"callproc", CallProc("p", []Operand{Constant(5)}), "call void @p(i32 5)"},
	}
	for _, c := range cases {
		if got := c.ins.String(); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestCallPrintfRendering(t *testing.T) {
	got := CallPrintf(NumberedReg(1), Constant(7)).String()
	want := `%1 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ` +
		`([4 x i8], [4 x i8]* @.str.w, i64 0, i64 0), i32 7)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallScanfRendering(t *testing.T) {
	got := CallScanf(NumberedReg(1), GlobalVar("x")).String()
	want := `%1 = call i32 (i8*, ...) @scanf (i8* getelementptr inbounds ` +
		`([3 x i8], [3 x i8]* @.str.r, i64 0, i64 0), i32* @x)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRelOp(t *testing.T) {
	cases := map[string]Pred{
		"=": PredEq, "<>": PredNe, ">": PredSgt,
		">=": PredSge, "<": PredSlt, "<=": PredSle,
	}
	for src, want := range cases {
		if got := RelOp(src); got != want {
			t.Errorf("RelOp(%q) = %s, want %s", src, got, want)
		}
	}
}

func TestRelOpPanicsOnUnknownOperator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown relational operator")
		}
	}()
	RelOp("??")
}
