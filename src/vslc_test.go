package main

import (
	"strings"
	"testing"

	"pslc/src/frontend"
)

// compile parses src and serializes the result to a string, failing the
// test immediately on any error.
func compile(t *testing.T, src string) string {
	t.Helper()
	c, diags, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	var sb strings.Builder
	if err := c.Serialize(&sb); err != nil {
		t.Fatalf("serialize: %s", err)
	}
	return sb.String()
}

func TestEmptyProgram(t *testing.T) {
	out := compile(t, "program empty; begin end.")
	if !strings.Contains(out, "define i32 @main() {") {
		t.Errorf("missing main header, got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("missing program epilogue, got:\n%s", out)
	}
}

func TestGlobalVarsAndWrite(t *testing.T) {
	out := compile(t, `program p;
var x, y;
begin
  x := 40;
  y := x + 2;
  write(y)
end.`)

	for _, want := range []string{
		"@x = common global i32 0, align 4",
		"@y = common global i32 0, align 4",
		"store i32 40, i32* @x, align 4",
		"declare i32 @printf(i8*, ...)",
		`@.str.w = private unnamed_addr constant [4 x i8] c"%d\0A\00", align 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q, got:\n%s", want, out)
		}
	}
}

func TestIfElse(t *testing.T) {
	out := compile(t, `program p;
var x;
begin
  if x = 0 then
    write(1)
  else
    write(2)
end.`)

	if n := strings.Count(out, "icmp eq i32"); n != 1 {
		t.Errorf("expected exactly one icmp eq, got %d in:\n%s", n, out)
	}
	if n := strings.Count(out, "call i32 (i8*, ...) @printf"); n != 2 {
		t.Errorf("expected exactly two printf calls, got %d", n)
	}
	if n := strings.Count(out, ":\n"); n < 3 {
		t.Errorf("expected at least three label definitions, got %d in:\n%s", n, out)
	}
}

func TestIfWithoutElse(t *testing.T) {
	out := compile(t, `program p;
var x;
begin
  if x > 0 then
    write(1)
end.`)
	if n := strings.Count(out, "L1:"); n != 1 {
		t.Errorf("expected L1 defined exactly once, got %d", n)
	}
	if !strings.Contains(out, "br i1 %2, label %L1, label %L2") {
		t.Errorf("missing conditional branch, got:\n%s", out)
	}
}

func TestForLoop(t *testing.T) {
	out := compile(t, `program p;
var i;
begin
  for i := 1 to 10 do
    write(i)
end.`)

	for _, want := range []string{
		"store i32 1, i32* @i, align 4",
		"icmp sle i32",
		"add nsw i32",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q, got:\n%s", want, out)
		}
	}
}

func TestWhileLoop(t *testing.T) {
	out := compile(t, `program p;
var x;
begin
  x := 0;
  while x < 10 do
    x := x + 1
end.`)
	if !strings.Contains(out, "icmp slt i32") {
		t.Errorf("missing while condition, got:\n%s", out)
	}
}

func TestProcedureAndCall(t *testing.T) {
	out := compile(t, `program p;
procedure greet(n);
begin
  write(n)
end;
begin
  greet(7)
end.`)

	if !strings.Contains(out, "define void @greet(i32 %n) {") {
		t.Errorf("missing procedure header, got:\n%s", out)
	}
	if !strings.Contains(out, "call void @greet(i32 7)") {
		t.Errorf("missing call site, got:\n%s", out)
	}
	if !strings.Contains(out, "ret void") {
		t.Errorf("missing void return, got:\n%s", out)
	}
}

func TestFunctionReturnSlot(t *testing.T) {
	out := compile(t, `program p;
var r;
function square(n);
begin
  square := n * n
end;
begin
  r := square(6)
end.`)

	if !strings.Contains(out, "define i32 @square(i32 %n) {") {
		t.Errorf("missing function header, got:\n%s", out)
	}
	if !strings.Contains(out, "%square = alloca i32, align 4") {
		t.Errorf("missing return slot alloca, got:\n%s", out)
	}
	if !strings.Contains(out, "call i32 @square(i32 6)") {
		t.Errorf("missing call site, got:\n%s", out)
	}
}

func TestArrayReadWrite(t *testing.T) {
	out := compile(t, `program p;
var a[1..10];
begin
  a[1] := 5;
  write(a[1])
end.`)

	if !strings.Contains(out, "@a = common global [10 x i32] zeroinitializer, align 16") {
		t.Errorf("missing array declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "getelementptr inbounds [10 x i32], [10 x i32]* @a") {
		t.Errorf("missing element address computation, got:\n%s", out)
	}
}

func TestStrengthReductionMultiplyAndDivide(t *testing.T) {
	out := compile(t, `program p;
var x, y, z;
begin
  x := y * 8;
  z := y div 4
end.`)

	if !strings.Contains(out, "shl i32") {
		t.Errorf("expected multiply by power of two to become a shift, got:\n%s", out)
	}
	if !strings.Contains(out, "ashr i32") {
		t.Errorf("expected divide by power of two to become a shift, got:\n%s", out)
	}
	if strings.Contains(out, "mul nsw") {
		t.Errorf("did not expect a plain multiply, got:\n%s", out)
	}
}

func TestMultiplyByNonPowerOfTwoStaysMul(t *testing.T) {
	out := compile(t, `program p;
var x, y;
begin
  x := y * 3
end.`)
	if !strings.Contains(out, "mul nsw i32") {
		t.Errorf("expected a plain multiply, got:\n%s", out)
	}
}

func TestUndefinedIdentifierFailsHard(t *testing.T) {
	_, _, err := frontend.Parse(`program p;
begin
  x := 1
end.`)
	if err == nil {
		t.Fatal("expected an error for an undefined identifier")
	}
}

func TestSyntaxErrorFailsHard(t *testing.T) {
	_, _, err := frontend.Parse(`program p;
var x;
begin
  x :=
end.`)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestIllegalCharacterIsReportedAndSkipped(t *testing.T) {
	_, diags, err := frontend.Parse(`program p;
var x;
begin
  x := 1 $
end.`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %s", err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected exactly one lexical diagnostic, got %d: %v", len(diags), diags)
	}
}
