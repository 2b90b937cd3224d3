package ir

import "testing"

func TestSymbolTableInsertAndLookup(t *testing.T) {
	var st SymbolTable
	st.Insert("x", ScopeGlobalVar)
	st.Insert("y", ScopeGlobalVar)

	sym, ok := st.Lookup("x")
	if !ok || sym.Scope != ScopeGlobalVar {
		t.Fatalf("Lookup(x) = (%v, %v), want a global var", sym, ok)
	}
	if _, ok := st.Lookup("z"); ok {
		t.Error("Lookup(z) should fail, z was never declared")
	}
}

func TestSymbolTableShadowing(t *testing.T) {
	var st SymbolTable
	st.Insert("x", ScopeGlobalVar)
	st.Insert("x", ScopeParam)

	sym, ok := st.Lookup("x")
	if !ok || sym.Scope != ScopeParam {
		t.Fatalf("Lookup(x) should resolve to the most recent declaration, got %v", sym)
	}
}

func TestSymbolTableDeleteRemovesLocalsAndParamsOnly(t *testing.T) {
	var st SymbolTable
	st.Insert("g", ScopeGlobalVar)
	st.Insert("p", ScopeProc)
	st.Insert("n", ScopeParam)
	st.Insert("l", ScopeLocalVar)

	st.Delete()

	if _, ok := st.Lookup("n"); ok {
		t.Error("param n should have been removed")
	}
	if _, ok := st.Lookup("l"); ok {
		t.Error("local l should have been removed")
	}
	if _, ok := st.Lookup("g"); !ok {
		t.Error("global g should survive Delete")
	}
	if _, ok := st.Lookup("p"); !ok {
		t.Error("procedure p should survive Delete")
	}
}

func TestSymbolTableAllPreservesInsertionOrder(t *testing.T) {
	var st SymbolTable
	st.Insert("a", ScopeGlobalVar)
	st.Insert("b", ScopeGlobalVar)
	st.Insert("c", ScopeGlobalVar)

	all := st.All()
	want := []string{"a", "b", "c"}
	if len(all) != len(want) {
		t.Fatalf("got %d symbols, want %d", len(all), len(want))
	}
	for i1, w := range want {
		if all[i1].Name != w {
			t.Errorf("symbol %d: got %s, want %s", i1, all[i1].Name, w)
		}
	}
}

func TestBoundsSize(t *testing.T) {
	b := Bounds{Lo: 1, Hi: 10}
	if b.Size() != 10 {
		t.Errorf("Size() = %d, want 10", b.Size())
	}
	b = Bounds{Lo: -5, Hi: 5}
	if b.Size() != 11 {
		t.Errorf("Size() = %d, want 11", b.Size())
	}
}
