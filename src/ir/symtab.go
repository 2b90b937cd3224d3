package ir

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Scope tags what kind of name a Symbol names. There is only one level of
// nesting in the source language (a subprogram's own parameters and
// locals), so a flat, ordered list with shadowing by tail-scan is adequate;
// see the design note on replacing this with a stack of frames if nesting
// were ever extended.
type Scope uint8

const (
	ScopeGlobalVar Scope = iota
	ScopeLocalVar
	ScopeProc
	ScopeParam
	ScopeFunc
	ScopeArray
)

// Bounds gives the inclusive [Lo, Hi] index range of an array symbol.
type Bounds struct {
	Lo, Hi int32
}

// Size returns the element count of the array, hi - lo + 1.
func (b Bounds) Size() int {
	return int(b.Hi-b.Lo) + 1
}

// Symbol records one declared name: its scope, and for ScopeArray symbols
// its declared index bounds.
type Symbol struct {
	Name   string
	Scope  Scope
	Bounds Bounds // Only meaningful when Scope == ScopeArray.
}

// SymbolTable is a single ordered sequence of symbols with no nested
// frames. New symbols append; lookup scans from newest to oldest so inner
// scopes shadow outer ones.
type SymbolTable struct {
	symbols []Symbol
}

// ---------------------
// ----- functions -----
// ---------------------

// Insert appends a new symbol named name with the given scope and returns a
// pointer to it so the caller can set array bounds immediately afterwards.
// There is no uniqueness check: re-declaring a name simply shadows the
// earlier entry for subsequent lookups.
func (t *SymbolTable) Insert(name string, scope Scope) *Symbol {
	t.symbols = append(t.symbols, Symbol{Name: name, Scope: scope})
	return &t.symbols[len(t.symbols)-1]
}

// Lookup returns the most recently inserted symbol named name, scanning
// from tail to head so that inner scopes shadow outer ones. The second
// return value is false if no such symbol exists.
func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	for i1 := len(t.symbols) - 1; i1 >= 0; i1-- {
		if t.symbols[i1].Name == name {
			return t.symbols[i1], true
		}
	}
	return Symbol{}, false
}

// Delete removes every symbol whose scope is ScopeLocalVar or ScopeParam,
// preserving the insertion order of the survivors. It is called at the end
// of each procedure/function body.
func (t *SymbolTable) Delete() {
	kept := t.symbols[:0]
	for _, s := range t.symbols {
		if s.Scope != ScopeLocalVar && s.Scope != ScopeParam {
			kept = append(kept, s)
		}
	}
	t.symbols = kept
}

// All returns the full symbol sequence in insertion order. Used at the end
// of compilation to emit one global/array declaration per surviving global
// symbol.
func (t *SymbolTable) All() []Symbol {
	return t.symbols
}
