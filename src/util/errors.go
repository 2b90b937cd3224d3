// errors.go provides a small diagnostic collector used by the lexer to report
// lexical problems without aborting the whole compilation immediately.
// Syntactic and semantic errors are fatal and are returned directly by the
// parser instead of being routed through the Reporter.

package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind differentiates the diagnostic categories named in the error handling design.
type Kind int

const (
	Lexical Kind = iota
	Semantic
)

// Diagnostic holds one reported problem and the source line it occurred on.
type Diagnostic struct {
	Kind Kind
	Line int
	Msg  string
}

// Reporter buffers diagnostics raised while lexing.
// It does not abort compilation by itself; callers decide whether accumulated
// diagnostics should turn into a fatal error once parsing completes.
type Reporter struct {
	diags []Diagnostic
}

// ---------------------
// ----- functions -----
// ---------------------

// Report appends a diagnostic of the given kind to the reporter.
func (r *Reporter) Report(k Kind, line int, format string, args ...interface{}) {
	r.diags = append(r.diags, Diagnostic{
		Kind: k,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// Len returns the number of diagnostics accumulated so far.
func (r *Reporter) Len() int {
	return len(r.diags)
}

// Diagnostics returns the buffered diagnostics in the order they were reported.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// String renders a diagnostic as a single human-readable line.
func (d Diagnostic) String() string {
	prefix := "lexical error"
	if d.Kind == Semantic {
		prefix = "semantic error"
	}
	if d.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", prefix, d.Line, d.Msg)
	}
	return fmt.Sprintf("%s: %s", prefix, d.Msg)
}
