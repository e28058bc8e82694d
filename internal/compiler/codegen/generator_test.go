package codegen

import (
	"strings"
	"testing"

	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/lexer"
	"github.com/pulse-lang/pulse/internal/compiler/parser"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
	"github.com/pulse-lang/pulse/internal/compiler/typechecker"
)

func generate(t *testing.T, source string) string {
	t.Helper()

	tokens := lexer.NonWhitespace(lexer.New(source).ScanAll())
	a := ast.New()
	global := sema.NewGlobalContext()

	p := parser.New(tokens, source, "test.pulse", a, global)
	if err := p.ParseFile(); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	c := typechecker.New(a, global, source, "test.pulse")
	if err := c.CheckFile(); err != nil {
		t.Fatalf("type error: %v", err)
	}

	code, err := New(a, global).Generate()
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}
	return code
}

func TestGeneratePrelude(t *testing.T) {
	code := generate(t, `fn main() {}`)
	for _, want := range []string{
		"#include <iostream>",
		"#include <string>",
		`#include "../std/lib.cpp"`,
		"using namespace std;",
		"using namespace io;",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("expected prelude to contain %q, got:\n%s", want, code)
		}
	}
}

func TestGenerateHelloWorld(t *testing.T) {
	code := generate(t, `fn main() { println("Hello, World!"); }`)

	if !strings.Contains(code, "void main()") {
		t.Errorf("expected void main(), got:\n%s", code)
	}
	if !strings.Contains(code, `println ("Hello, World!");`) {
		t.Errorf("expected a reserved call with a space before its argument list, got:\n%s", code)
	}
}

func TestGenerateFunctionWithParametersAndCall(t *testing.T) {
	code := generate(t, `
fn add(a: int, b: int) -> int { return a + b; }
fn main() { let x: int = add(1, 2); }
`)

	for _, want := range []string{
		"int add(int a, int b)",
		"return a + b;",
		"int x = add(1, 2);",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("expected generated code to contain %q, got:\n%s", want, code)
		}
	}
}

func TestGenerateIfElse(t *testing.T) {
	code := generate(t, `fn main() { let x = if true { 1 } else { 2 }; }`)

	if !strings.Contains(code, "if (true) {") || !strings.Contains(code, "} else {") {
		t.Errorf("expected an if/else translation, got:\n%s", code)
	}
}

func TestGenerateWhile(t *testing.T) {
	code := generate(t, `
fn main() {
  let x = 1;
  while x < 10 {
    x = x + 1;
  }
}
`)
	if !strings.Contains(code, "while (x < 10) {") {
		t.Errorf("expected a while loop translation, got:\n%s", code)
	}
}

func TestGenerateScopedStdCallDropsLeadingStd(t *testing.T) {
	code := generate(t, `fn main() { let x = std::math::sqrt(4); }`)
	if !strings.Contains(code, "math::sqrt(4)") {
		t.Errorf("expected the leading std path segment to be elided, got:\n%s", code)
	}
	if strings.Contains(code, "std::math::sqrt") {
		t.Errorf("did not expect the leading std:: segment to survive, got:\n%s", code)
	}
}

func TestGeneratePowerLowersToSupportRoutine(t *testing.T) {
	code := generate(t, `fn main() { let x = 2 ** 3; }`)
	if !strings.Contains(code, "__pulse_pow(2, 3)") {
		t.Errorf("expected ** to lower to a __pulse_pow call, got:\n%s", code)
	}
}

func TestGenerateUnaryOperators(t *testing.T) {
	code := generate(t, `fn main() { let x = -1; let y = ~2; }`)
	if !strings.Contains(code, "-1") || !strings.Contains(code, "~2") {
		t.Errorf("expected unary operators to pass through, got:\n%s", code)
	}
}

func TestGenerateStringLiteralIsDoubleQuoted(t *testing.T) {
	code := generate(t, `fn main() { let x = "hi"; }`)
	if !strings.Contains(code, `string x = "hi";`) {
		t.Errorf("expected a quoted string literal and a bare string type, got:\n%s", code)
	}
	if strings.Contains(code, "std::string") {
		t.Errorf("expected string to be emitted bare, not std::string, got:\n%s", code)
	}
}
