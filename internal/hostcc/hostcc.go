// Package hostcc discovers and invokes a host C++ compiler to turn an
// emitted translation unit into a binary and run it. This is explicitly
// out of the language front-end's scope; it exists only so `pulse run`
// has somewhere to hand off the generated C++, behind an interface the
// build driver's own tests never need to satisfy.
package hostcc

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pulse-lang/pulse/internal/compiler/errors"
)

// candidates is the ordered list of compiler binaries searched for on
// PATH; the first one found is used.
var candidates = []string{"g++", "clang++", "c++"}

// Compiler invokes a host C++ toolchain. Find and Build are the only
// operations the build driver's CLI layer needs; this interface exists
// so tests can substitute a fake without a real compiler installed.
type Compiler interface {
	// Find locates a usable compiler binary, or returns CompilerNotFound.
	Find() (string, error)
	// Build compiles cppPath into an executable at outputPath.
	Build(binary, cppPath, outputPath string) error
}

// System searches PATH for one of the known C++ compiler names and
// invokes it with a conventional flag set.
type System struct{}

// New creates a System host-compiler invoker.
func New() *System {
	return &System{}
}

// Find searches PATH in order for g++, clang++, then c++.
func (s *System) Find() (string, error) {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.CompilerNotFound(candidates)
}

// Build invokes binary to compile cppPath into outputPath, using
// absolute paths so the invocation is unambiguous regardless of the
// caller's working directory.
func (s *System) Build(binary, cppPath, outputPath string) error {
	absCPP, err := filepath.Abs(cppPath)
	if err != nil {
		return errors.Io(err)
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return errors.Io(err)
	}

	cmd := exec.Command(binary, "-std=c++17", "-o", absOutput, absCPP)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Io(err)
	}
	return nil
}

// Run executes the built binary, streaming its stdio to the current
// process's.
func Run(binaryPath string, args ...string) error {
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Io(err)
	}
	return nil
}
