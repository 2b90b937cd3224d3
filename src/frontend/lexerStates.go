package frontend

import (
	"strconv"

	"pslc/src/util"
)

// lexGlobal starts the lexing process and serves as the default state.
// Operator disambiguation is resolved here by maximal munch: '.' vs '..',
// and '<', '<=', '<>' and '>', '>=' each peek one rune ahead before
// deciding which token to emit.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case isAlpha(r):
			l.backup()
			return lexWord
		case isDigit(r):
			l.backup()
			return lexNumber
		case r == '\n':
			l.ignore()
			l.line++
			l.startOnLine = 1
		case isSpace(r):
			l.ignore()
		case r == '#':
			// Comment: runs to end of line.
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.backup()
			l.ignore()
		case r == ':' && l.peek() == '=':
			l.next()
			l.emit(ASSIGN)
		case r == '.' && l.peek() == '.':
			l.next()
			l.emit(INTERVAL)
		case r == '.':
			l.emit(PERIOD)
		case r == '<' && l.peek() == '=':
			l.next()
			l.emit(LE)
		case r == '<' && l.peek() == '>':
			l.next()
			l.emit(NEQ)
		case r == '<':
			l.emit(LT)
		case r == '>' && l.peek() == '=':
			l.next()
			l.emit(GE)
		case r == '>':
			l.emit(GT)
		case r == '+':
			l.emit(PLUS)
		case r == '-':
			l.emit(MINUS)
		case r == '*':
			l.emit(MULT)
		case r == '=':
			l.emit(EQ)
		case r == '(':
			l.emit(LPAREN)
		case r == ')':
			l.emit(RPAREN)
		case r == '[':
			l.emit(LBRACKET)
		case r == ']':
			l.emit(RBRACKET)
		case r == ',':
			l.emit(COMMA)
		case r == ';':
			l.emit(SEMICOLON)
		case r == eof:
			l.emit(itemEOF)
			return nil
		default:
			l.illegal(r)
		}
	}
}

// lexWord scans an identifier or reserved word: [A-Za-z][A-Za-z0-9]*.
func lexWord(l *lexer) stateFunc {
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) {
			l.backup()
			kw, typ := isKeyword(l.input[l.start:l.pos])
			if kw {
				l.emit(typ)
			} else {
				l.emit(IDENT)
			}
			return lexGlobal
		}
	}
}

// lexNumber scans "0" or "[1-9][0-9]*" and converts it to a signed 32-bit
// integer. Overflow is reported and the substituted value is 0.
func lexNumber(l *lexer) stateFunc {
	if l.next() != '0' {
		l.acceptRun("0123456789")
	}
	text := l.input[l.start:l.pos]

	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		l.errs.Report(util.Lexical, l.line, "integer literal %q overflows 32 bits", text)
		l.emitNumber(0)
		return lexGlobal
	}
	l.emitNumber(int32(v))
	return lexGlobal
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// isAlpha return true if rune r is an alphabetic character in the set [a-zA-Z].
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit return true if rune r is a digit in the range [0-9].
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSpace return true if rune r is a whitespace character. Newlines are
// handled separately so the line counter advances correctly.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}
