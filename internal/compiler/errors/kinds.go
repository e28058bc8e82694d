package errors

import (
	"fmt"

	"github.com/pulse-lang/pulse/internal/compiler/position"
)

// The constructors below build a *CompilerError for each diagnosable
// condition the compiler can hit, one per phase. Span and source are
// used only to render a source snippet; source may be "" when no
// snippet is available (e.g. driver-level errors before a file is read).

// ParseError is raised by the parser when it cannot recover a
// well-formed construct at span.
func ParseError(message string, span position.Span, source, file string) *CompilerError {
	return newError("parser", CodeParseError, message, span, source, file)
}

// FunctionAlreadyExists is raised when a function declaration reuses
// the name of a function already declared in the same compilation unit.
func FunctionAlreadyExists(name string, span position.Span, source, file string) *CompilerError {
	return newError("parser", CodeFunctionAlreadyExists, fmt.Sprintf("function %q is already declared", name), span, source, file)
}

// InvalidType is raised when a type annotation names a type that does
// not exist.
func InvalidType(name string, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeInvalidType, fmt.Sprintf("%q is not a valid type", name), span, source, file)
}

// TypeMismatch is raised when an expression's type is not assignable
// to the type its context requires.
func TypeMismatch(from, to string, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeTypeMismatch, fmt.Sprintf("expected type %s, found %s", to, from), span, source, file)
}

// NotFound is raised when an identifier does not resolve to any
// variable visible at the point of use.
func NotFound(name string, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeNotFound, fmt.Sprintf("%q is not defined", name), span, source, file)
}

// IllegalReturn is raised when a return statement appears outside of
// any function body.
func IllegalReturn(span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeIllegalReturn, "return outside of a function", span, source, file)
}

// CallToUndeclaredFunction is raised when a call expression's callee
// does not resolve to any reserved builtin or user-defined function.
func CallToUndeclaredFunction(name string, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeCallToUndeclaredFunction, fmt.Sprintf("call to undeclared function %q", name), span, source, file)
}

// InvalidArguments is raised when a call's argument count does not
// match the callee's declared parameter count.
func InvalidArguments(expected, actual int, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeInvalidArguments, fmt.Sprintf("expected %d argument(s), found %d", expected, actual), span, source, file)
}

// ReservedName is raised when a function declaration reuses one of the
// names reserved for builtin I/O functions.
func ReservedName(name string, span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeReservedName, fmt.Sprintf("%q is a reserved name", name), span, source, file)
}

// MainFunctionParameters is raised when the entry-point function `main`
// is declared with parameters.
func MainFunctionParameters(span position.Span, source, file string) *CompilerError {
	return newError("type_checker", CodeMainFunctionParameters, "main must not declare parameters", span, source, file)
}

// Io wraps an underlying filesystem or process I/O failure.
func Io(err error) *CompilerError {
	return &CompilerError{Phase: "driver", Code: CodeIo, Message: err.Error(), Severity: Fatal}
}

// InvalidExtension is raised when a source file's extension is not the
// one Pulse source files use.
func InvalidExtension(path string) *CompilerError {
	return &CompilerError{Phase: "driver", Code: CodeInvalidExtension, Message: fmt.Sprintf("%s: expected a .pulse file", path), Severity: Fatal}
}

// FileDoesNotExist is raised when the driver is asked to compile a path
// that does not exist.
func FileDoesNotExist(path string) *CompilerError {
	return &CompilerError{Phase: "driver", Code: CodeFileDoesNotExist, Message: fmt.Sprintf("%s: no such file", path), Severity: Fatal}
}

// NotImplemented is raised for a recognized but unimplemented feature.
func NotImplemented(feature string) *CompilerError {
	return &CompilerError{Phase: "driver", Code: CodeNotImplemented, Message: fmt.Sprintf("%s is not implemented", feature), Severity: Fatal}
}

// CompilerNotFound is raised when `pulse run` cannot locate a host C++
// toolchain on PATH.
func CompilerNotFound(lookedFor []string) *CompilerError {
	return &CompilerError{Phase: "driver", Code: CodeCompilerNotFound, Message: fmt.Sprintf("no C++ compiler found, tried: %v", lookedFor), Severity: Fatal}
}

// Generic wraps a one-off error with a title and optional body text.
func Generic(title, text string) *CompilerError {
	msg := title
	if text != "" {
		msg = title + ": " + text
	}
	return &CompilerError{Phase: "driver", Code: CodeGeneric, Message: msg, Severity: Error}
}
