// parser.go implements a hand-written recursive descent recognizer for the
// grammar in the specification. Grammar productions are not collected into
// a retained syntax tree: each reduction point calls directly into the ir
// package to synthesize LLVM IR, allocate registers/labels and resolve
// identifiers through the symbol table, exactly as described for the
// syntax-directed emitter. The grammar is LL(1) once the lexer performs
// maximal munch, except for telling an assignment/array-assignment/call
// statement apart and telling a bare variable reference from a function
// call inside an expression - both resolved with one extra token of
// lookahead.
package frontend

import (
	"fmt"
	"math/bits"

	"pslc/src/ir"
	"pslc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Parser recognizes the grammar and drives emission through a shared
// Compiler value. It keeps a small lookahead buffer over the token stream
// produced by the lexer goroutine.
type Parser struct {
	lex  *lexer
	buf  []item
	errs *util.Reporter
	c    *ir.Compiler
}

// ---------------------
// ----- functions -----
// ---------------------

// Parse lexes and parses src from scratch, emitting LLVM IR into a fresh
// Compiler as grammar productions reduce. It returns the populated
// Compiler, any lexical diagnostics gathered along the way, and a fatal
// error if the source was not accepted (syntax error, or an unresolved
// identifier - semantic errors are fatal by design, see DESIGN.md). No
// partial Compiler state should be serialized when err is non-nil.
func Parse(src string) (*ir.Compiler, []util.Diagnostic, error) {
	errs := &util.Reporter{}
	lex := newLexer(src, lexGlobal, errs)
	go lex.run()

	p := &Parser{lex: lex, errs: errs, c: ir.NewCompiler()}
	if err := p.parseProgram(); err != nil {
		return nil, errs.Diagnostics(), err
	}
	return p.c, errs.Diagnostics(), nil
}

// ---------------------------
// ----- token handling -----
// ---------------------------

// peek returns the token n positions ahead of the current one (0 is the
// current lookahead token), pulling more tokens from the lexer as needed.
func (p *Parser) peek(n int) item {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lex.nextItem())
	}
	return p.buf[n]
}

// cur returns the current lookahead token without consuming it.
func (p *Parser) cur() item {
	return p.peek(0)
}

// advance consumes and returns the current lookahead token.
func (p *Parser) advance() item {
	t := p.peek(0)
	p.buf = p.buf[1:]
	return t
}

// expect consumes the current token if it has type typ, otherwise reports a
// syntax error and halts.
func (p *Parser) expect(typ itemType) (item, error) {
	t := p.cur()
	if t.typ != typ {
		return item{}, p.syntaxError(t)
	}
	return p.advance(), nil
}

// syntaxError reports the offending token type, value and line, or "syntax
// error at EOF", per the error handling design. Syntactic errors halt
// further emission before any output is produced.
func (p *Parser) syntaxError(t item) error {
	if t.typ == itemEOF {
		return fmt.Errorf("syntax error at EOF")
	}
	return fmt.Errorf("syntax error: got %s %q at line %d", t.typ.String(), t.val, t.line)
}

// lookup resolves name through the symbol table. An unresolved identifier
// is a fatal semantic error: the compiler is not required, and does not
// attempt, to produce well-formed IR past this point (see the design note
// on failing hard instead of synthesizing a sentinel).
func (p *Parser) lookup(name string, line int) (ir.Symbol, error) {
	sym, ok := p.c.Symbols.Lookup(name)
	if !ok {
		return ir.Symbol{}, fmt.Errorf("semantic error: undefined identifier %q at line %d", name, line)
	}
	return sym, nil
}

// ------------------------------------
// ----- program / declarations -----
// ------------------------------------

func (p *Parser) parseProgram() error {
	if _, err := p.expect(PROGRAM); err != nil {
		return err
	}
	if _, err := p.expect(IDENT); err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	if err := p.parseOutblock(); err != nil {
		return err
	}
	if _, err := p.expect(PERIOD); err != nil {
		return err
	}
	if t := p.cur(); t.typ != itemEOF {
		return p.syntaxError(t)
	}
	return nil
}

// parseOutblock recognizes "var_decl_part subprog_decl_part statement" and
// wraps the outermost statement in the program's implicit main function,
// emitting the program epilogue ("ret i32 0") on completion.
func (p *Parser) parseOutblock() error {
	p.c.VarScope = ir.ScopeGlobalVar
	if err := p.parseVarDeclPart(); err != nil {
		return err
	}
	if err := p.parseSubprogDeclPart(); err != nil {
		return err
	}

	p.c.BeginFunction("main", "i32")
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.c.Emit(ir.RetVal(ir.Constant(0)))
	p.c.FinishFunction()
	return nil
}

// parseVarDeclPart recognizes "(var_decl_list ';')?": zero or more
// semicolon-terminated var_decl productions.
func (p *Parser) parseVarDeclPart() error {
	for p.cur().typ == VAR {
		if err := p.parseVarDecl(); err != nil {
			return err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseVarDecl() error {
	if _, err := p.expect(VAR); err != nil {
		return err
	}
	return p.parseIdList()
}

// parseIdList recognizes "id_item (',' id_item)*".
func (p *Parser) parseIdList() error {
	for {
		if err := p.parseIdItem(); err != nil {
			return err
		}
		if p.cur().typ != COMMA {
			break
		}
		p.advance()
	}
	return nil
}

// parseIdItem recognizes one declared name, scalar or array, inserting it
// into the symbol table under the current declaration scope. Array bounds
// in a parameter list are rejected outright: the grammar admits the
// combination but the original design never demonstrates its intended
// behaviour (see DESIGN.md), so this rewrite fails hard instead of
// guessing.
func (p *Parser) parseIdItem() error {
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	name := nameTok.val

	if p.cur().typ == LBRACKET {
		p.advance()
		loTok, err := p.expect(NUMBER)
		if err != nil {
			return err
		}
		if _, err := p.expect(INTERVAL); err != nil {
			return err
		}
		hiTok, err := p.expect(NUMBER)
		if err != nil {
			return err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return err
		}
		if p.c.VarScope == ir.ScopeParam {
			return fmt.Errorf("semantic error: array parameter %q at line %d is not supported", name, nameTok.line)
		}
		if hiTok.num < loTok.num {
			return fmt.Errorf("semantic error: array %q at line %d has hi < lo", name, nameTok.line)
		}
		sym := p.c.Symbols.Insert(name, ir.ScopeArray)
		sym.Bounds = ir.Bounds{Lo: loTok.num, Hi: hiTok.num}
		return nil
	}

	p.c.Symbols.Insert(name, p.c.VarScope)
	if p.c.VarScope == ir.ScopeParam {
		p.c.Cur.AddParam(ir.NamedReg(name))
	}
	return nil
}

// parseSubprogDeclPart recognizes "(subprog_decl_list ';')?".
func (p *Parser) parseSubprogDeclPart() error {
	for p.cur().typ == PROCEDURE || p.cur().typ == FUNCTION {
		if err := p.parseSubprogDecl(); err != nil {
			return err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseSubprogDecl() error {
	switch p.cur().typ {
	case PROCEDURE:
		return p.parseProcDecl()
	case FUNCTION:
		return p.parseFuncDecl()
	default:
		return p.syntaxError(p.cur())
	}
}

// parseParamList recognizes the optional "'(' id_list? ')'" parameter list
// shared by procedures and functions, directing id_list entries to the
// Param scope.
func (p *Parser) parseParamList() error {
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	if p.cur().typ != RPAREN {
		p.c.VarScope = ir.ScopeParam
		if err := p.parseIdList(); err != nil {
			return err
		}
	}
	_, err := p.expect(RPAREN)
	return err
}

// parseProcDecl recognizes a full procedure declaration and emits its
// container: void return type, the procedure's own name registered before
// its parameters are parsed, a trailing "ret void", and a symbol table
// Delete once the body is fully emitted.
func (p *Parser) parseProcDecl() error {
	if _, err := p.expect(PROCEDURE); err != nil {
		return err
	}
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	p.c.Symbols.Insert(nameTok.val, ir.ScopeProc)
	p.c.BeginFunction(nameTok.val, "void")

	if err := p.parseParamList(); err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	if err := p.parseInblock(); err != nil {
		return err
	}

	p.c.Emit(ir.RetVoid())
	p.c.FinishFunction()
	p.c.Symbols.Delete()
	return nil
}

// parseFuncDecl recognizes a full function declaration. A function owns an
// implicit return slot addressed as %name; at the end of the body it is
// loaded into a fresh register and returned.
func (p *Parser) parseFuncDecl() error {
	if _, err := p.expect(FUNCTION); err != nil {
		return err
	}
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	name := nameTok.val
	p.c.Symbols.Insert(name, ir.ScopeFunc)
	f := p.c.BeginFunction(name, "i32")

	if err := p.parseParamList(); err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	p.c.VarScope = ir.ScopeLocalVar
	if err := p.parseVarDeclPart(); err != nil {
		return err
	}
	p.emitLocalAllocas()
	p.c.Emit(ir.Alloca(name))

	if err := p.parseStatement(); err != nil {
		return err
	}

	r := f.NewRegister()
	p.c.Emit(ir.Load(r, ir.NamedReg(name)))
	p.c.Emit(ir.RetVal(r))
	p.c.FinishFunction()
	p.c.Symbols.Delete()
	return nil
}

// parseInblock recognizes a procedure body: "var_decl_part statement",
// emitting one alloca per local variable before the body statement.
func (p *Parser) parseInblock() error {
	p.c.VarScope = ir.ScopeLocalVar
	if err := p.parseVarDeclPart(); err != nil {
		return err
	}
	p.emitLocalAllocas()
	return p.parseStatement()
}

// emitLocalAllocas emits one "alloca i32, align 4" per LocalVar symbol
// currently visible, in the order they were declared.
func (p *Parser) emitLocalAllocas() {
	for _, s := range p.c.Symbols.All() {
		if s.Scope == ir.ScopeLocalVar {
			p.c.Emit(ir.Alloca(s.Name))
		}
	}
}

// ---------------------
// ----- statements -----
// ---------------------

func (p *Parser) parseStatement() error {
	switch p.cur().typ {
	case IDENT:
		return p.parseIdentStatement()
	case IF:
		return p.parseIfStatement()
	case WHILE:
		return p.parseWhileStatement()
	case FOR:
		return p.parseForStatement()
	case BEGIN:
		return p.parseBlock()
	case READ:
		return p.parseRead()
	case WRITE:
		return p.parseWrite()
	case SEMICOLON, END, ELSE, PERIOD, itemEOF:
		// Empty (null) statement: no tokens consumed.
		return nil
	default:
		return p.syntaxError(p.cur())
	}
}

// parseIdentStatement dispatches on the token following the leading IDENT
// to tell an assignment from a procedure or function call used as a
// statement.
func (p *Parser) parseIdentStatement() error {
	switch p.peek(1).typ {
	case ASSIGN, LBRACKET:
		return p.parseAssignment()
	case LPAREN:
		return p.parseCallStatement()
	default:
		return p.syntaxError(p.peek(1))
	}
}

// parseAssignment recognizes "IDENT ':=' expression" and
// "IDENT '[' expression ']' ':=' expression", computing the destination
// address the same way for both scalar and array targets and then
// emitting a single store.
func (p *Parser) parseAssignment() error {
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return err
	}

	var ptr ir.Operand
	if p.cur().typ == LBRACKET {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return err
		}
		if sym.Scope != ir.ScopeArray {
			return fmt.Errorf("semantic error: %q at line %d is not an array", sym.Name, nameTok.line)
		}
		ptr = p.arrayElementPtr(sym, idx)
	} else {
		if sym.Scope == ir.ScopeArray || sym.Scope == ir.ScopeProc {
			return fmt.Errorf("semantic error: %q at line %d is not assignable", sym.Name, nameTok.line)
		}
		ptr = p.lvalueOf(sym)
	}

	if _, err := p.expect(ASSIGN); err != nil {
		return err
	}
	rhs, err := p.parseExpression()
	if err != nil {
		return err
	}
	p.c.Emit(ir.Store(rhs, ptr))
	return nil
}

// lvalueOf returns the address operand of a non-array symbol: a GlobalVar
// operand for globals, a NamedReg for locals, parameters and a function's
// own return slot.
func (p *Parser) lvalueOf(sym ir.Symbol) ir.Operand {
	switch sym.Scope {
	case ir.ScopeGlobalVar:
		return ir.GlobalVar(sym.Name)
	case ir.ScopeLocalVar, ir.ScopeParam, ir.ScopeFunc:
		return ir.NamedReg(sym.Name)
	default:
		panic("frontend: lvalueOf called on a non-scalar symbol")
	}
}

// arrayElementPtr computes an array element's address: the single
// "sub, sext, getelementptr" sequence shared by reads, writes and read(a[i]).
func (p *Parser) arrayElementPtr(sym ir.Symbol, idx ir.Operand) ir.Operand {
	f := p.c.Cur
	t1 := f.NewRegister()
	p.c.Emit(ir.Sub(t1, idx, ir.Constant(sym.Bounds.Lo)))
	t2 := f.NewRegister()
	p.c.Emit(ir.Sext(t2, t1))
	t3 := f.NewRegister()
	p.c.Emit(ir.GEP(t3, sym.Bounds.Size(), sym.Name, t2))
	return t3
}

// parseIfStatement implements the if/then/else emission contract. Lthen and
// Lfalse are allocated before the then-branch is parsed; Lfalse serves
// directly as the merge label when no else branch follows, or is redefined
// as the else entry point (with a fresh merge label allocated) when one
// does - both labels are only referenced as forward branch targets before
// their defining "Lk:" instruction is appended, which LLVM IR permits.
func (p *Parser) parseIfStatement() error {
	if _, err := p.expect(IF); err != nil {
		return err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(THEN); err != nil {
		return err
	}

	f := p.c.Cur
	lThen := f.NewLabel()
	lFalse := f.NewLabel()
	p.c.Emit(ir.CondBr(cond, lThen, lFalse))
	p.c.Emit(ir.LabelDef(lThen))

	if err := p.parseStatement(); err != nil {
		return err
	}

	if p.cur().typ == ELSE {
		p.advance()
		lEnd := f.NewLabel()
		p.c.Emit(ir.Br(lEnd))
		p.c.Emit(ir.LabelDef(lFalse))
		if err := p.parseStatement(); err != nil {
			return err
		}
		p.c.Emit(ir.Br(lEnd))
		p.c.Emit(ir.LabelDef(lEnd))
	} else {
		p.c.Emit(ir.Br(lFalse))
		p.c.Emit(ir.LabelDef(lFalse))
	}
	return nil
}

// parseWhileStatement implements the while/do emission contract.
func (p *Parser) parseWhileStatement() error {
	if _, err := p.expect(WHILE); err != nil {
		return err
	}
	f := p.c.Cur
	lHead := f.NewLabel()
	lBody := f.NewLabel()
	lEnd := f.NewLabel()

	p.c.Emit(ir.Br(lHead))
	p.c.Emit(ir.LabelDef(lHead))
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(DO); err != nil {
		return err
	}
	p.c.Emit(ir.CondBr(cond, lBody, lEnd))
	p.c.Emit(ir.LabelDef(lBody))

	if err := p.parseStatement(); err != nil {
		return err
	}
	p.c.Emit(ir.Br(lHead))
	p.c.Emit(ir.LabelDef(lEnd))
	return nil
}

// parseForStatement implements the for/to/do emission contract. The loop
// variable must resolve to a GlobalVar or LocalVar.
func (p *Parser) parseForStatement() error {
	if _, err := p.expect(FOR); err != nil {
		return err
	}
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return err
	}
	if sym.Scope != ir.ScopeGlobalVar && sym.Scope != ir.ScopeLocalVar {
		return fmt.Errorf("semantic error: for-loop variable %q at line %d must be a global or local variable",
			sym.Name, nameTok.line)
	}
	ptr := p.lvalueOf(sym)

	if _, err := p.expect(ASSIGN); err != nil {
		return err
	}
	e1, err := p.parseExpression()
	if err != nil {
		return err
	}
	if _, err := p.expect(TO); err != nil {
		return err
	}
	e2, err := p.parseExpression()
	if err != nil {
		return err
	}
	if _, err := p.expect(DO); err != nil {
		return err
	}

	p.c.Emit(ir.Store(e1, ptr))

	f := p.c.Cur
	lHead := f.NewLabel()
	lBody := f.NewLabel()
	lEnd := f.NewLabel()

	p.c.Emit(ir.Br(lHead))
	p.c.Emit(ir.LabelDef(lHead))
	v := f.NewRegister()
	p.c.Emit(ir.Load(v, ptr))
	cmp := f.NewRegister()
	p.c.Emit(ir.Icmp(cmp, ir.PredSle, v, e2))
	p.c.Emit(ir.CondBr(cmp, lBody, lEnd))
	p.c.Emit(ir.LabelDef(lBody))

	if err := p.parseStatement(); err != nil {
		return err
	}

	w := f.NewRegister()
	p.c.Emit(ir.Load(w, ptr))
	w2 := f.NewRegister()
	p.c.Emit(ir.Add(w2, w, ir.Constant(1)))
	p.c.Emit(ir.Store(w2, ptr))
	p.c.Emit(ir.Br(lHead))
	p.c.Emit(ir.LabelDef(lEnd))
	return nil
}

// parseCallStatement recognizes a procedure call or a function call used
// as a statement (its result register is computed but discarded).
func (p *Parser) parseCallStatement() error {
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return err
	}
	switch sym.Scope {
	case ir.ScopeProc:
		p.c.Emit(ir.CallProc(sym.Name, args))
	case ir.ScopeFunc:
		r := p.c.Cur.NewRegister()
		p.c.Emit(ir.CallFunc(r, sym.Name, args))
	default:
		return fmt.Errorf("semantic error: %q at line %d is not callable", sym.Name, nameTok.line)
	}
	return nil
}

// parseCallArgs recognizes "'(' (expression (',' expression)*)? ')'".
func (p *Parser) parseCallArgs() ([]ir.Operand, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var args []ir.Operand
	if p.cur().typ != RPAREN {
		for {
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			if p.cur().typ != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseRead recognizes "'read' '(' IDENT ('[' expression ']')? ')'".
func (p *Parser) parseRead() error {
	if _, err := p.expect(READ); err != nil {
		return err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return err
	}

	var ptr ir.Operand
	if p.cur().typ == LBRACKET {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return err
		}
		if sym.Scope != ir.ScopeArray {
			return fmt.Errorf("semantic error: %q at line %d is not an array", sym.Name, nameTok.line)
		}
		ptr = p.arrayElementPtr(sym, idx)
	} else {
		if sym.Scope == ir.ScopeArray || sym.Scope == ir.ScopeProc {
			return fmt.Errorf("semantic error: %q at line %d is not readable", sym.Name, nameTok.line)
		}
		ptr = p.lvalueOf(sym)
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}

	r := p.c.Cur.NewRegister()
	p.c.Emit(ir.CallScanf(r, ptr))
	p.c.UseRead = true
	return nil
}

// parseWrite recognizes "'write' '(' expression ')'".
func (p *Parser) parseWrite() error {
	if _, err := p.expect(WRITE); err != nil {
		return err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	e, err := p.parseExpression()
	if err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}
	r := p.c.Cur.NewRegister()
	p.c.Emit(ir.CallPrintf(r, e))
	p.c.UseWrite = true
	return nil
}

// parseBlock recognizes "'begin' statement (';' statement)* 'end'".
func (p *Parser) parseBlock() error {
	if _, err := p.expect(BEGIN); err != nil {
		return err
	}
	for {
		if err := p.parseStatement(); err != nil {
			return err
		}
		if p.cur().typ != SEMICOLON {
			break
		}
		p.advance()
	}
	_, err := p.expect(END)
	return err
}

// ----------------------
// ----- conditions -----
// ----------------------

// parseCondition recognizes "expression relop expression" and emits the
// icmp instruction implementing it.
func (p *Parser) parseCondition() (ir.Operand, error) {
	lhs, err := p.parseExpression()
	if err != nil {
		return ir.Operand{}, err
	}
	opTok := p.cur()
	var predSrc string
	switch opTok.typ {
	case EQ:
		predSrc = "="
	case NEQ:
		predSrc = "<>"
	case LT:
		predSrc = "<"
	case LE:
		predSrc = "<="
	case GT:
		predSrc = ">"
	case GE:
		predSrc = ">="
	default:
		return ir.Operand{}, p.syntaxError(opTok)
	}
	p.advance()
	rhs, err := p.parseExpression()
	if err != nil {
		return ir.Operand{}, err
	}
	r := p.c.Cur.NewRegister()
	p.c.Emit(ir.Icmp(r, ir.RelOp(predSrc), lhs, rhs))
	return r, nil
}

// ----------------------
// ----- expressions -----
// ----------------------

// parseExpression recognizes "['-'] term (('+'|'-') term)*".
func (p *Parser) parseExpression() (ir.Operand, error) {
	negate := p.cur().typ == MINUS
	if negate {
		p.advance()
	}

	result, err := p.parseTerm()
	if err != nil {
		return ir.Operand{}, err
	}
	if negate {
		r := p.c.Cur.NewRegister()
		p.c.Emit(ir.Sub(r, ir.Constant(0), result))
		result = r
	}

	for p.cur().typ == PLUS || p.cur().typ == MINUS {
		op := p.advance().typ
		rhs, err := p.parseTerm()
		if err != nil {
			return ir.Operand{}, err
		}
		r := p.c.Cur.NewRegister()
		if op == PLUS {
			p.c.Emit(ir.Add(r, result, rhs))
		} else {
			p.c.Emit(ir.Sub(r, result, rhs))
		}
		result = r
	}
	return result, nil
}

// parseTerm recognizes "factor (('*'|'div') factor)*", applying strength
// reduction for power-of-two multiply/divide.
func (p *Parser) parseTerm() (ir.Operand, error) {
	result, err := p.parseFactor()
	if err != nil {
		return ir.Operand{}, err
	}
	for p.cur().typ == MULT || p.cur().typ == DIV {
		op := p.advance().typ
		rhs, err := p.parseFactor()
		if err != nil {
			return ir.Operand{}, err
		}
		r := p.c.Cur.NewRegister()
		if op == MULT {
			p.emitMul(r, result, rhs)
		} else {
			p.emitDiv(r, result, rhs)
		}
		result = r
	}
	return result, nil
}

// parseFactor recognizes "IDENT ('[' expression ']')? | NUMBER |
// '(' expression ')' | func_call". A function call is told apart from a
// bare variable reference by a single token of lookahead past the
// identifier: this is the "longest match on function identifiers"
// resolution the grammar's expression/term/factor ambiguity calls for (see
// DESIGN.md), and it naturally covers func_call appearing in any of those
// three positions since factor is reached from both.
func (p *Parser) parseFactor() (ir.Operand, error) {
	switch p.cur().typ {
	case IDENT:
		if p.peek(1).typ == LPAREN {
			return p.parseFuncCallExpr()
		}
		return p.parseVarNameFactor()
	case NUMBER:
		tok := p.advance()
		return ir.Constant(tok.num), nil
	case LPAREN:
		p.advance()
		v, err := p.parseExpression()
		if err != nil {
			return ir.Operand{}, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return ir.Operand{}, err
		}
		return v, nil
	default:
		return ir.Operand{}, p.syntaxError(p.cur())
	}
}

// parseVarNameFactor recognizes "IDENT ('[' expression ']')?" used as a
// value: a parameter's value is already a register and needs no load,
// every other scalar kind is loaded from its address.
func (p *Parser) parseVarNameFactor() (ir.Operand, error) {
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return ir.Operand{}, err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return ir.Operand{}, err
	}

	if p.cur().typ == LBRACKET {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return ir.Operand{}, err
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return ir.Operand{}, err
		}
		if sym.Scope != ir.ScopeArray {
			return ir.Operand{}, fmt.Errorf("semantic error: %q at line %d is not an array", sym.Name, nameTok.line)
		}
		ptr := p.arrayElementPtr(sym, idx)
		r := p.c.Cur.NewRegister()
		p.c.Emit(ir.Load(r, ptr))
		return r, nil
	}

	switch sym.Scope {
	case ir.ScopeParam:
		return ir.NamedReg(sym.Name), nil
	case ir.ScopeGlobalVar:
		r := p.c.Cur.NewRegister()
		p.c.Emit(ir.Load(r, ir.GlobalVar(sym.Name)))
		return r, nil
	case ir.ScopeLocalVar, ir.ScopeFunc:
		r := p.c.Cur.NewRegister()
		p.c.Emit(ir.Load(r, ir.NamedReg(sym.Name)))
		return r, nil
	default:
		return ir.Operand{}, fmt.Errorf("semantic error: %q at line %d cannot be used as a value", sym.Name, nameTok.line)
	}
}

// parseFuncCallExpr recognizes a function call used as an expression atom.
func (p *Parser) parseFuncCallExpr() (ir.Operand, error) {
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return ir.Operand{}, err
	}
	sym, err := p.lookup(nameTok.val, nameTok.line)
	if err != nil {
		return ir.Operand{}, err
	}
	if sym.Scope != ir.ScopeFunc {
		return ir.Operand{}, fmt.Errorf("semantic error: %q at line %d is not a function", sym.Name, nameTok.line)
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return ir.Operand{}, err
	}
	r := p.c.Cur.NewRegister()
	p.c.Emit(ir.CallFunc(r, sym.Name, args))
	return r, nil
}

// --------------------------------
// ----- strength reduction -----
// --------------------------------

// isPowerOfTwo reports whether v is a strictly positive power of two and,
// if so, its base-2 logarithm. Zero is never a power of two.
func isPowerOfTwo(v int32) (int, bool) {
	if v <= 0 {
		return 0, false
	}
	if v&(v-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros32(uint32(v)), true
}

// emitMul emits a multiply, rewriting it to a left shift when either
// operand is a positive power-of-two constant (right checked first, then
// left).
func (p *Parser) emitMul(dst, a, b ir.Operand) {
	if b.IsConstant() {
		if shift, ok := isPowerOfTwo(b.ConstantValue()); ok {
			p.c.Emit(ir.Shl(dst, a, ir.Constant(int32(shift))))
			return
		}
	}
	if a.IsConstant() {
		if shift, ok := isPowerOfTwo(a.ConstantValue()); ok {
			p.c.Emit(ir.Shl(dst, b, ir.Constant(int32(shift))))
			return
		}
	}
	p.c.Emit(ir.Mul(dst, a, b))
}

// emitDiv emits a divide, rewriting it to an arithmetic right shift when
// the right-hand operand is a positive power-of-two constant. Division is
// not commutative, so only the right operand is ever checked.
func (p *Parser) emitDiv(dst, a, b ir.Operand) {
	if b.IsConstant() {
		if shift, ok := isPowerOfTwo(b.ConstantValue()); ok {
			p.c.Emit(ir.Ashr(dst, a, ir.Constant(int32(shift))))
			return
		}
	}
	p.c.Emit(ir.Sdiv(dst, a, b))
}
