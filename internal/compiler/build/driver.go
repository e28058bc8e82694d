// Package build owns the lifetime of one compilation: it constructs a
// fresh AST arena and declaration context, and runs the lexer, parser,
// type analyzer and code emitter over them in order, failing fast on
// the first diagnosable error.
package build

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/cache"
	"github.com/pulse-lang/pulse/internal/compiler/codegen"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
	"github.com/pulse-lang/pulse/internal/compiler/lexer"
	"github.com/pulse-lang/pulse/internal/compiler/parser"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
	"github.com/pulse-lang/pulse/internal/compiler/typechecker"
)

// SourceExtension is the only file extension CompileFile accepts.
const SourceExtension = ".pulse"

// Result is the outcome of one compilation. CPP is empty and
// Diagnostics holds the single failing error when compilation did not
// reach code emission.
type Result struct {
	CompilationID uuid.UUID
	File          string
	CPP           string
	Diagnostics   []*errors.CompilerError
}

// Driver runs one compilation at a time. A Driver may be reused across
// compilations: each Compile call constructs its own arena and
// declaration context and owns them for the lifetime of that call.
type Driver struct {
	cache *cache.ResultCache
}

// New creates a Driver with no result cache: every Compile call runs
// the full pipeline.
func New() *Driver {
	return &Driver{}
}

// NewCached creates a Driver backed by an LRU result cache, used by
// `pulse build --watch` to skip recompiling an unchanged file.
func NewCached(resultCache *cache.ResultCache) *Driver {
	return &Driver{cache: resultCache}
}

// CompileFile reads path, validates its extension, and compiles its
// contents.
func (d *Driver) CompileFile(path string) (*Result, error) {
	if !strings.HasSuffix(path, SourceExtension) {
		err := errors.InvalidExtension(path)
		return &Result{Diagnostics: []*errors.CompilerError{err}}, err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fileErr := errors.FileDoesNotExist(path)
			return &Result{Diagnostics: []*errors.CompilerError{fileErr}}, fileErr
		}
		ioErr := errors.Io(err)
		return &Result{Diagnostics: []*errors.CompilerError{ioErr}}, ioErr
	}

	return d.Compile(string(contents), path)
}

// Compile runs the lexer, parser, type analyzer and code emitter over
// source in order, stopping at the first error. A cache hit returns the
// previous Result for this exact source without re-running any pass,
// restamped with a fresh CompilationID.
func (d *Driver) Compile(source, file string) (*Result, error) {
	if d.cache != nil {
		if cached, ok := d.cache.Get(source); ok {
			result := *cached.(*Result)
			result.CompilationID = uuid.New()
			return &result, nil
		}
	}

	id := uuid.New()

	tokens := lexer.NonWhitespace(lexer.New(source).ScanAll())
	a := ast.New()
	global := sema.NewGlobalContext()

	p := parser.New(tokens, source, file, a, global)
	if err := p.ParseFile(); err != nil {
		return d.fail(id, file, err)
	}

	c := typechecker.New(a, global, source, file)
	if err := c.CheckFile(); err != nil {
		return d.fail(id, file, err)
	}

	cpp, err := codegen.New(a, global).Generate()
	if err != nil {
		return d.fail(id, file, fmt.Errorf("codegen: %w", err))
	}

	result := &Result{CompilationID: id, File: file, CPP: cpp}
	if d.cache != nil {
		d.cache.Put(source, result)
	}
	return result, nil
}

func (d *Driver) fail(id uuid.UUID, file string, err error) (*Result, error) {
	result := &Result{CompilationID: id, File: file}
	if ce, ok := err.(*errors.CompilerError); ok {
		result.Diagnostics = []*errors.CompilerError{ce}
	}
	return result, err
}
