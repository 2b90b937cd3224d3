package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the command line configuration of one compiler invocation.
type Options struct {
	Src         string // Path to the source file. Required.
	Out         string // Path to the output LLVM IR file. Defaults to OutDefault.
	TokenStream bool   // Set true if the compiler should print the token stream and exit.
	Verbose     bool   // Set true if the compiler should log statistics to stdout.
	VerifyLLVM  bool   // Set true if the emitted IR should additionally be parsed and verified through LLVM.
}

// ---------------------
// ----- Constants -----
// ---------------------

// OutDefault is the fixed output path written when -o is not given.
const OutDefault = "result.ll"

const appVersion = "pslc 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options structure.
func ParseArgs(args []string) (Options, error) {
	opt := Options{Out: OutDefault}
	if len(args) == 0 {
		return opt, fmt.Errorf("expected path to source file")
	}

	var positional []string
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-ts":
			opt.TokenStream = true
		case "-vb":
			opt.Verbose = true
		case "-verify-llvm":
			opt.VerifyLLVM = true
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			positional = append(positional, args[i1])
		}
	}

	switch len(positional) {
	case 0:
		return opt, fmt.Errorf("expected path to source file")
	case 1:
		opt.Src = positional[0]
	default:
		return opt, fmt.Errorf("expected exactly one source file, got %d", len(positional))
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the output LLVM IR file. Defaults to result.ll.")
	_, _ = fmt.Fprintln(w, "-ts\tPrint the token stream of the source file and exit.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_, _ = fmt.Fprintln(w, "-verify-llvm\tParse and verify the emitted IR through the LLVM library after compilation.")
	_ = w.Flush()
}
