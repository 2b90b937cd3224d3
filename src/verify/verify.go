// Package verify optionally round-trips the compiler's own textual output
// through the real LLVM library: it parses the emitted IR back into an
// in-memory module and runs LLVM's verifier over it. This is a second,
// independent check on top of the hand-written emitter (which is trusted
// to produce well-formed IR by construction) and is only ever invoked
// behind the "-verify-llvm" flag, since it requires a working LLVM
// installation on the host.
package verify

import (
	"fmt"

	"tinygo.org/x/go-llvm"
)

// IR parses the LLVM IR text produced for path and runs LLVM's module
// verifier over it, returning a descriptive error if either step fails.
func IR(path string) error {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	buf, err := llvm.NewMemoryBufferFromFile(path)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}

	m, err := ctx.ParseIR(buf)
	if err != nil {
		return fmt.Errorf("LLVM rejected the emitted IR: %w", err)
	}
	defer m.Dispose()

	if err := llvm.VerifyModule(m, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("LLVM module verifier failed: %w", err)
	}
	return nil
}
