package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-lang/pulse/internal/compiler/cache"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
)

func TestCompileHelloWorld(t *testing.T) {
	result, err := New().Compile(`fn main() { println("Hello, World!"); }`, "hello.pulse")
	require.NoError(t, err)
	assert.Contains(t, result.CPP, "void main()")
	assert.Contains(t, result.CPP, `println ("Hello, World!");`)
}

func TestCompileFunctionCallAndParameters(t *testing.T) {
	source := `fn add(a: int, b: int) -> int { return a + b; } fn main() { let x: int = add(1, 2); }`
	result, err := New().Compile(source, "add.pulse")
	require.NoError(t, err)
	assert.Contains(t, result.CPP, "int add(int a, int b)")
	assert.Contains(t, result.CPP, "return a + b;")
	assert.Contains(t, result.CPP, "int x = add(1, 2);")
}

func TestCompileTypeMismatchFails(t *testing.T) {
	result, err := New().Compile(`fn main() { let b: bool = 1 + 2; }`, "mismatch.pulse")
	require.Error(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.CodeTypeMismatch, result.Diagnostics[0].Code)
}

func TestCompileCallToUndeclaredFunctionFails(t *testing.T) {
	result, err := New().Compile(`fn main() { foo(1); }`, "undeclared.pulse")
	require.Error(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.CodeCallToUndeclaredFunction, result.Diagnostics[0].Code)
}

func TestCompileReservedNameDeclarationFails(t *testing.T) {
	result, err := New().Compile(`fn print() {}`, "reserved.pulse")
	require.Error(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.CodeReservedName, result.Diagnostics[0].Code)
}

func TestCompileInvalidArgumentsFails(t *testing.T) {
	source := `fn add(a: int) -> int { return a; } fn main() { add(1, 2); }`
	result, err := New().Compile(source, "arity.pulse")
	require.Error(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.CodeInvalidArguments, result.Diagnostics[0].Code)
}

func TestCompileFileRejectsWrongExtension(t *testing.T) {
	_, err := New().CompileFile("main.txt")
	require.Error(t, err)
	var ce *errors.CompilerError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.CodeInvalidExtension, ce.Code)
}

func TestCompileFileMissingFails(t *testing.T) {
	_, err := New().CompileFile("does-not-exist.pulse")
	require.Error(t, err)
	var ce *errors.CompilerError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.CodeFileDoesNotExist, ce.Code)
}

func TestCompileStampsEachResultWithAFreshID(t *testing.T) {
	source := `fn main() { println("hi"); }`
	r1, err := New().Compile(source, "a.pulse")
	require.NoError(t, err)
	r2, err := New().Compile(source, "a.pulse")
	require.NoError(t, err)
	assert.NotEqual(t, r1.CompilationID, r2.CompilationID)
}

func TestCompileCachedDriverReusesResultOnUnchangedSource(t *testing.T) {
	resultCache, err := cache.NewResultCache(cache.DefaultSize)
	require.NoError(t, err)
	driver := NewCached(resultCache)

	source := `fn main() { println("hi"); }`
	first, err := driver.Compile(source, "a.pulse")
	require.NoError(t, err)
	require.Equal(t, 1, resultCache.Len())

	second, err := driver.Compile(source, "a.pulse")
	require.NoError(t, err)
	assert.Equal(t, first.CPP, second.CPP)
	assert.NotEqual(t, first.CompilationID, second.CompilationID)
	assert.Equal(t, 1, resultCache.Len())
}
