package typechecker

import (
	"testing"

	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/lexer"
	"github.com/pulse-lang/pulse/internal/compiler/parser"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
)

func checkSource(t *testing.T, source string) (*ast.Ast, *sema.GlobalContext, error) {
	t.Helper()

	tokens := lexer.NonWhitespace(lexer.New(source).ScanAll())
	a := ast.New()
	global := sema.NewGlobalContext()

	p := parser.New(tokens, source, "test.pulse", a, global)
	if err := p.ParseFile(); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	c := New(a, global, source, "test.pulse")
	return a, global, c.CheckFile()
}

func TestCheckLetInfersTypeFromInitializer(t *testing.T) {
	a, global, err := checkSource(t, `let x = 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	v := global.LookupVar(let.ResolvedVarID)
	if v.Type != ast.TypeInt {
		t.Fatalf("x type = %s, want int", v.Type)
	}
}

func TestCheckLetAnnotationMismatchFails(t *testing.T) {
	_, _, err := checkSource(t, `let x: bool = 1`)
	if err == nil {
		t.Fatal("expected a TypeMismatch error")
	}
}

func TestCheckVariableNotFound(t *testing.T) {
	_, _, err := checkSource(t, `let y = x`)
	if err == nil {
		t.Fatal("expected a NotFound error")
	}
}

func TestCheckBinaryRequiresInt(t *testing.T) {
	_, _, err := checkSource(t, `let x = true + 1`)
	if err == nil {
		t.Fatal("expected a TypeMismatch error")
	}
}

func TestCheckComparisonProducesBool(t *testing.T) {
	a, _, err := checkSource(t, `let x = 1 < 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeBool {
		t.Fatal("expected comparison to produce Bool")
	}
}

func TestCheckReturnOutsideFunctionFails(t *testing.T) {
	_, _, err := checkSource(t, `return 1`)
	if err == nil {
		t.Fatal("expected an IllegalReturn error")
	}
}

func TestCheckReturnTypeMismatchFails(t *testing.T) {
	_, _, err := checkSource(t, `fn f() -> int { return true }`)
	if err == nil {
		t.Fatal("expected a TypeMismatch error")
	}
}

func TestCheckFunctionCallArityMismatch(t *testing.T) {
	_, _, err := checkSource(t, `
fn add(a: int, b: int) -> int { return a + b }
let x = add(1)
`)
	if err == nil {
		t.Fatal("expected an InvalidArguments error")
	}
}

func TestCheckFunctionCallResolvesReturnType(t *testing.T) {
	a, _, err := checkSource(t, `
fn add(a: int, b: int) -> int { return a + b }
let x = add(1, 2)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[1].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeInt {
		t.Fatal("expected call to add to produce Int")
	}
}

func TestCheckReservedNameDeclarationFails(t *testing.T) {
	_, _, err := checkSource(t, `fn print() {}`)
	if err == nil {
		t.Fatal("expected a ReservedName error")
	}
}

func TestCheckCallToUndeclaredFunctionFails(t *testing.T) {
	_, _, err := checkSource(t, `let x = nope(1)`)
	if err == nil {
		t.Fatal("expected a CallToUndeclaredFunction error")
	}
}

func TestCheckScopedStdCallResolves(t *testing.T) {
	a, _, err := checkSource(t, `let x = std::math::sqrt(4)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeInt {
		t.Fatal("expected std::math::sqrt to produce Int")
	}
}

func TestCheckReservedCallProducesVoid(t *testing.T) {
	a, _, err := checkSource(t, `let x = println("hi")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeVoid {
		t.Fatal("expected println(...) to produce Void")
	}
}

func TestCheckIfElseCommonType(t *testing.T) {
	a, _, err := checkSource(t, `let x = if true { 1 } else { 2 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeInt {
		t.Fatal("expected if/else to produce Int")
	}
}

func TestCheckIfWithoutElseIsVoid(t *testing.T) {
	a, _, err := checkSource(t, `let x = if true { 1 }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if a.QueryExpr(let.Initializer).Ty != ast.TypeVoid {
		t.Fatal("expected if without else to produce Void")
	}
}

func TestCheckNoExpressionIsLeftUnresolved(t *testing.T) {
	a, _, err := checkSource(t, `
fn add(a: int, b: int) -> int {
  let sum = a + b
  return sum
}
let x = add(1, (2))
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fn := a.Items()[0].Kind.(*ast.FunctionItem)
	sumLet := a.QueryStmt(fn.Body.Stmts[0]).Kind.(*ast.LetStmt)
	sum := a.QueryExpr(sumLet.Initializer).Kind.(*ast.BinaryExpr)
	ret := a.QueryStmt(fn.Body.Stmts[1]).Kind.(*ast.ReturnStmt)
	xLet := a.QueryStmt(a.Items()[1].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	call := a.QueryExpr(xLet.Initializer).Kind.(*ast.CallExpr)
	paren := a.QueryExpr(call.Arguments[1]).Kind.(*ast.ParenthesizedExpr)

	for _, id := range []ast.ID{sumLet.Initializer, sum.Left, sum.Right, *ret.Value, xLet.Initializer, call.Arguments[0], call.Arguments[1], paren.Inner} {
		if a.QueryExpr(id).Ty == ast.TypeUnresolved {
			t.Errorf("expression %d was left unresolved", id)
		}
	}
}

func TestCheckShadowingInNestedScope(t *testing.T) {
	a, global, err := checkSource(t, `
let x = 1
if true {
  let x = true
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer := a.QueryStmt(a.Items()[0].Kind.(*ast.StmtItem).Stmt).Kind.(*ast.LetStmt)
	if global.LookupVar(outer.ResolvedVarID).Shadowing {
		t.Fatal("outer x should not be marked shadowing")
	}
}
