package frontend

import (
	"fmt"

	"pslc/src/util"
)

// TokenStream lexes src and prints every scanned item to stdout, one per
// line, up to and including EOF, followed by any lexical diagnostics.
// Illegal characters are reported but do not end the dump. It backs the
// command line's "-ts" debug flag.
func TokenStream(src string) error {
	errs := &util.Reporter{}
	lex := newLexer(src, lexGlobal, errs)
	go lex.run()

	for {
		it := lex.nextItem()
		fmt.Println(it.String())
		if it.typ == itemEOF {
			break
		}
	}
	for _, d := range errs.Diagnostics() {
		fmt.Println(d.String())
	}
	return nil
}
