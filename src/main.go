package main

import (
	"fmt"
	"os"

	"pslc/src/frontend"
	"pslc/src/util"
	"pslc/src/verify"
)

// run drives one compiler invocation end to end: read source, optionally
// dump the token stream, parse and emit, then serialize the result to the
// configured output path.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}

	if opt.TokenStream {
		return frontend.TokenStream(src)
	}

	c, diags, err := frontend.Parse(src)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if err != nil {
		return err
	}

	f, err := util.CreateOutput(opt.Out)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()

	w := util.NewWriter(f)
	if err := c.Serialize(w); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	if opt.Verbose {
		fmt.Printf("wrote %d function(s), %d lexical diagnostic(s) to %s\n", len(c.Functions), len(diags), opt.Out)
	}

	if opt.VerifyLLVM {
		if err := verify.IR(opt.Out); err != nil {
			return fmt.Errorf("LLVM verification failed: %w", err)
		}
		if opt.Verbose {
			fmt.Println("LLVM accepted and verified the emitted module")
		}
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
}
