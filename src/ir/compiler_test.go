package ir

import (
	"strings"
	"testing"
)

func TestCompilerSerializeGlobalsAndRuntimeDeclarations(t *testing.T) {
	c := NewCompiler()
	c.Symbols.Insert("x", ScopeGlobalVar)
	sym := c.Symbols.Insert("a", ScopeArray)
	sym.Bounds = Bounds{Lo: 1, Hi: 4}
	c.UseWrite = true
	c.UseRead = true

	c.BeginFunction("main", "i32")
	c.Emit(RetVal(Constant(0)))
	c.FinishFunction()

	var sb strings.Builder
	if err := c.Serialize(&sb); err != nil {
		t.Fatalf("serialize: %s", err)
	}
	out := sb.String()

	for _, want := range []string{
		"@x = common global i32 0, align 4",
		"@a = common global [4 x i32] zeroinitializer, align 16",
		"define i32 @main() {",
		"ret i32 0",
		"declare i32 @printf(i8*, ...)",
		"declare i32 @scanf(i8*, ...)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCompilerSerializeOmitsUnusedRuntimeDeclarations(t *testing.T) {
	c := NewCompiler()
	c.BeginFunction("main", "i32")
	c.Emit(RetVal(Constant(0)))
	c.FinishFunction()

	var sb strings.Builder
	if err := c.Serialize(&sb); err != nil {
		t.Fatalf("serialize: %s", err)
	}
	out := sb.String()

	if strings.Contains(out, "@printf") || strings.Contains(out, "@scanf") {
		t.Errorf("did not expect runtime declarations, got:\n%s", out)
	}
}

func TestBeginFunctionMakesItCurrent(t *testing.T) {
	c := NewCompiler()
	f := c.BeginFunction("f", "void")
	if c.Cur != f {
		t.Error("BeginFunction should make the new function current")
	}
	c.Emit(RetVoid())
	if len(f.Body) != 1 {
		t.Errorf("expected one instruction appended to the current function, got %d", len(f.Body))
	}
	c.FinishFunction()
	if c.Cur != nil {
		t.Error("FinishFunction should clear Cur")
	}
	if len(c.Functions) != 1 || c.Functions[0] != f {
		t.Error("FinishFunction should append the function to Functions")
	}
}
