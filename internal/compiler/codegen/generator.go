// Package codegen walks a type-checked Pulse AST and streams the
// equivalent C++ translation unit into a string buffer.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
)

// The reserved builtins (print/println/eprint/eprintln) live in the
// support library's io namespace; `using namespace io;` brings them into
// scope unqualified so an unscoped call like `println(...)` resolves
// without requiring the caller to write `io::println(...)`. math::sqrt
// is never called unscoped, so math is left qualified to avoid any
// ambiguity with <cmath>'s std::sqrt.
const prelude = "#include <iostream>\n#include <string>\n#include \"../std/lib.cpp\"\nusing namespace std;\nusing namespace io;\n"

// Generator streams a C++ translation unit from an AST and the
// declaration context the type analyzer populated for it.
type Generator struct {
	ast    *ast.Ast
	global *sema.GlobalContext
	buf    bytes.Buffer
}

// New creates a Generator for one compilation unit. a must already have
// been through a successful type-analysis pass.
func New(a *ast.Ast, global *sema.GlobalContext) *Generator {
	return &Generator{ast: a, global: global}
}

// Generate emits the prelude followed by every top-level item, in
// declaration order, and returns the resulting translation unit.
func (g *Generator) Generate() (string, error) {
	g.buf.Reset()
	g.buf.WriteString(prelude)

	for _, item := range g.ast.Items() {
		if err := g.emitItem(item); err != nil {
			return "", err
		}
	}

	return g.buf.String(), nil
}

func (g *Generator) emitItem(item *ast.Item) error {
	switch k := item.Kind.(type) {
	case *ast.StmtItem:
		if err := g.emitStatement(k.Stmt); err != nil {
			return err
		}
	case *ast.FunctionItem:
		if err := g.emitFunction(k); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codegen: unhandled item kind %T", item.Kind)
	}
	return nil
}

func (g *Generator) emitFunction(item *ast.FunctionItem) error {
	fn := g.global.LookupFunctionByID(item.FunctionID)

	g.buf.WriteString(cppType(fn.ReturnType))
	g.buf.WriteByte(' ')
	g.buf.WriteString(fn.Name)
	g.buf.WriteByte('(')

	for i, paramID := range fn.Parameters {
		if i != 0 {
			g.buf.WriteString(", ")
		}
		param := g.global.LookupVar(paramID)
		g.buf.WriteString(cppType(param.Type))
		g.buf.WriteByte(' ')
		g.buf.WriteString(param.Name)
	}

	g.buf.WriteString(") {\n")
	for _, stmtID := range fn.Body.Stmts {
		if err := g.emitStatement(stmtID); err != nil {
			return err
		}
	}
	g.buf.WriteString("}\n")

	return nil
}

// emitStatement emits one statement. Every statement is terminated with
// `;\n` except one whose own emission already closes with a brace (a
// while loop, or an if expression used directly as a statement):
// appending a semicolon there would be accepted by mainstream compilers
// but is stylistically noisy, so it is omitted.
func (g *Generator) emitStatement(id ast.ID) error {
	stmt := g.ast.QueryStmt(id)
	start := g.buf.Len()

	switch k := stmt.Kind.(type) {
	case *ast.ExprStmt:
		if err := g.emitExpr(k.Expr); err != nil {
			return err
		}
	case *ast.LetStmt:
		v := g.global.LookupVar(k.ResolvedVarID)
		g.buf.WriteString(cppType(v.Type))
		g.buf.WriteByte(' ')
		g.buf.WriteString(v.Name)
		g.buf.WriteString(" = ")
		if err := g.emitExpr(k.Initializer); err != nil {
			return err
		}
	case *ast.WhileStmt:
		g.buf.WriteString("while (")
		if err := g.emitExpr(k.Condition); err != nil {
			return err
		}
		g.buf.WriteString(") {\n")
		for _, s := range k.Body.Stmts {
			if err := g.emitStatement(s); err != nil {
				return err
			}
		}
		g.buf.WriteString("}")
	case *ast.ReturnStmt:
		g.buf.WriteString("return")
		if k.Value != nil {
			g.buf.WriteByte(' ')
			if err := g.emitExpr(*k.Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("codegen: unhandled statement kind %T", stmt.Kind)
	}

	written := strings.TrimRight(g.buf.String()[start:], "\n")
	if strings.HasSuffix(written, "}") {
		g.buf.Truncate(start + len(written))
		g.buf.WriteByte('\n')
	} else {
		g.buf.WriteString(";\n")
	}
	return nil
}

func (g *Generator) emitExpr(id ast.ID) error {
	expr := g.ast.QueryExpr(id)

	switch k := expr.Kind.(type) {
	case *ast.NumberExpr:
		fmt.Fprintf(&g.buf, "%d", k.Value)
	case *ast.BooleanExpr:
		if k.Value {
			g.buf.WriteString("true")
		} else {
			g.buf.WriteString("false")
		}
	case *ast.StringExpr:
		g.buf.WriteByte('"')
		g.buf.WriteString(k.Value)
		g.buf.WriteByte('"')
	case *ast.VariableExpr:
		g.buf.WriteString(g.global.LookupVar(k.ResolvedVarID).Name)
	case *ast.AssignmentExpr:
		g.buf.WriteString(g.global.LookupVar(k.ResolvedVarID).Name)
		g.buf.WriteString(" = ")
		return g.emitExpr(k.Rhs)
	case *ast.UnaryExpr:
		g.buf.WriteString(k.Op.String())
		return g.emitExpr(k.Operand)
	case *ast.BinaryExpr:
		return g.emitBinary(k)
	case *ast.ParenthesizedExpr:
		g.buf.WriteByte('(')
		if err := g.emitExpr(k.Inner); err != nil {
			return err
		}
		g.buf.WriteByte(')')
	case *ast.IfExpr:
		return g.emitIf(k)
	case *ast.BlockExpr:
		return g.emitBlock(k)
	case *ast.CallExpr:
		return g.emitCall(k)
	case *ast.ErrorExpr:
		return fmt.Errorf("codegen: reached an error expression at %v", k.Span)
	default:
		return fmt.Errorf("codegen: unhandled expression kind %T", expr.Kind)
	}

	return nil
}

// emitBinary maps every binary operator one-for-one onto its C++
// spelling except power, which C++ has no operator for: it lowers to a
// call into the support library's __pulse_pow routine instead of
// emitting the bare `**` token, which mainstream C++ compilers reject
// outright.
func (g *Generator) emitBinary(b *ast.BinaryExpr) error {
	if b.Op == ast.BinOpPower {
		g.buf.WriteString("__pulse_pow(")
		if err := g.emitExpr(b.Left); err != nil {
			return err
		}
		g.buf.WriteString(", ")
		if err := g.emitExpr(b.Right); err != nil {
			return err
		}
		g.buf.WriteByte(')')
		return nil
	}

	if err := g.emitExpr(b.Left); err != nil {
		return err
	}
	g.buf.WriteByte(' ')
	g.buf.WriteString(b.Op.String())
	g.buf.WriteByte(' ')
	return g.emitExpr(b.Right)
}

func (g *Generator) emitIf(expr *ast.IfExpr) error {
	g.buf.WriteString("if (")
	if err := g.emitExpr(expr.Condition); err != nil {
		return err
	}
	g.buf.WriteString(") {\n")

	for _, s := range expr.ThenBranch.Stmts {
		if err := g.emitStatement(s); err != nil {
			return err
		}
	}

	if expr.ElseBranch == nil {
		g.buf.WriteString("}\n")
		return nil
	}

	g.buf.WriteString("} else {\n")
	for _, s := range expr.ElseBranch.Body.Stmts {
		if err := g.emitStatement(s); err != nil {
			return err
		}
	}
	g.buf.WriteString("}\n")

	return nil
}

func (g *Generator) emitBlock(expr *ast.BlockExpr) error {
	for _, s := range expr.Stmts {
		if err := g.emitStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// emitCall dispatches on how the call was resolved by the type
// analyzer: a scoped `std::` call elides the leading `std` path segment
// and emits the remainder joined by `::`; a reserved builtin is emitted
// with a space before its argument list; everything else is a plain
// user-defined function call.
func (g *Generator) emitCall(call *ast.CallExpr) error {
	if call.Scope != nil {
		scope := g.ast.QueryExpr(*call.Scope).Kind.(*ast.ScopedIdentifierExpr)
		for _, tok := range scope.Path {
			if tok.Literal == "std" {
				continue
			}
			g.buf.WriteString(tok.Literal)
			g.buf.WriteString("::")
		}
		g.buf.WriteString(call.FunctionName())
		g.buf.WriteByte('(')
		if err := g.emitArgs(call.Arguments); err != nil {
			return err
		}
		g.buf.WriteByte(')')
		return nil
	}

	if sema.ReservedNames[call.FunctionName()] {
		g.buf.WriteString(call.FunctionName())
		g.buf.WriteString(" (")
		if err := g.emitArgs(call.Arguments); err != nil {
			return err
		}
		g.buf.WriteByte(')')
		return nil
	}

	fn := g.global.LookupFunctionByID(call.ResolvedFunctionID)
	g.buf.WriteString(fn.Name)
	g.buf.WriteByte('(')
	if err := g.emitArgs(call.Arguments); err != nil {
		return err
	}
	g.buf.WriteByte(')')
	return nil
}

func (g *Generator) emitArgs(args []ast.ID) error {
	for i, arg := range args {
		if i != 0 {
			g.buf.WriteString(", ")
		}
		if err := g.emitExpr(arg); err != nil {
			return err
		}
	}
	return nil
}

// cppType maps a resolved Pulse type to its C++ spelling. String is left
// bare, relying on the prelude's `using namespace std;`, for consistency
// with the unqualified cout/cin style the support library implies.
func cppType(t ast.Type) string {
	switch t {
	case ast.TypeInt:
		return "int"
	case ast.TypeBool:
		return "bool"
	case ast.TypeString:
		return "string"
	case ast.TypeVoid:
		return "void"
	default:
		return "/* unresolved */"
	}
}
