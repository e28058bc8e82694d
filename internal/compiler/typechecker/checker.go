// Package typechecker walks a parsed AST recording a type for every
// expression and resolving every variable and function reference. It
// aborts on the first ill-typed construct it finds.
package typechecker

import (
	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
)

// Checker is the type analyzer: it owns no state of its own beyond the
// AST it mutates in place and the scope stack it threads declarations
// through.
type Checker struct {
	ast    *ast.Ast
	scopes *sema.Scopes
	source string
	file   string
}

// New creates a Checker over a, threading declarations through global.
func New(a *ast.Ast, global *sema.GlobalContext, source, file string) *Checker {
	return &Checker{ast: a, scopes: sema.NewScopes(global), source: source, file: file}
}

// CheckFile visits every item in declaration order.
func (c *Checker) CheckFile() error {
	for _, item := range c.ast.Items() {
		if err := c.checkItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkItem(item *ast.Item) error {
	switch k := item.Kind.(type) {
	case *ast.FunctionItem:
		return c.checkFunction(k)
	case *ast.StmtItem:
		return c.checkStmt(k.Stmt)
	default:
		panic("typechecker: unknown item kind")
	}
}

func (c *Checker) checkFunction(fn *ast.FunctionItem) error {
	if reservedNames[fn.Identifier.Literal] {
		return errors.ReservedName(fn.Identifier.Literal, fn.Identifier.Span, c.source, c.file)
	}

	funcID := fn.FunctionID
	c.scopes.PushScope(&funcID)
	decl := c.scopes.Global.LookupFunctionByID(funcID)
	for _, paramID := range decl.Parameters {
		c.scopes.AddLocal(paramID)
	}

	if err := c.checkBody(fn.Body); err != nil {
		return err
	}
	c.scopes.PopScope()
	return nil
}

func (c *Checker) checkBody(body ast.Body) error {
	for _, id := range body.Stmts {
		if err := c.checkStmt(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(id ast.ID) error {
	stmt := c.ast.QueryStmt(id)
	switch k := stmt.Kind.(type) {
	case *ast.ExprStmt:
		return c.checkExpr(k.Expr)
	case *ast.LetStmt:
		return c.checkLet(id, k)
	case *ast.WhileStmt:
		return c.checkWhile(k)
	case *ast.ReturnStmt:
		return c.checkReturn(k)
	default:
		panic("typechecker: unknown statement kind")
	}
}

func (c *Checker) checkLet(stmtID ast.ID, let *ast.LetStmt) error {
	if err := c.checkExpr(let.Initializer); err != nil {
		return err
	}
	initTy := c.ast.QueryExpr(let.Initializer).Ty

	typ := initTy
	if let.TypeAnnotation != nil {
		annTy, ok := ast.TypeFromName(let.TypeAnnotation.TypeName.Literal)
		if !ok {
			return errors.InvalidType(let.TypeAnnotation.TypeName.Literal, let.TypeAnnotation.TypeName.Span, c.source, c.file)
		}
		if !initTy.IsAssignableTo(annTy) {
			return errors.TypeMismatch(initTy.String(), annTy.String(), let.TypeAnnotation.TypeName.Span, c.source, c.file)
		}
		typ = annTy
	}

	varID := c.scopes.NewVar(let.Identifier.Literal, typ)
	c.ast.SetVarStmt(stmtID, varID)
	return nil
}

func (c *Checker) checkWhile(w *ast.WhileStmt) error {
	if err := c.checkExpr(w.Condition); err != nil {
		return err
	}
	cond := c.ast.QueryExpr(w.Condition)
	if !cond.Ty.IsAssignableTo(ast.TypeBool) {
		return errors.TypeMismatch(cond.Ty.String(), ast.TypeBool.String(), w.WhileKeyword.Span, c.source, c.file)
	}
	return c.checkBody(w.Body)
}

func (c *Checker) checkReturn(r *ast.ReturnStmt) error {
	funcID, ok := c.scopes.CurrentFunction()
	if !ok {
		return errors.IllegalReturn(r.ReturnKeyword.Span, c.source, c.file)
	}
	fn := c.scopes.Global.LookupFunctionByID(funcID)

	valTy := ast.TypeVoid
	if r.Value != nil {
		if err := c.checkExpr(*r.Value); err != nil {
			return err
		}
		valTy = c.ast.QueryExpr(*r.Value).Ty
	}
	if !valTy.IsAssignableTo(fn.ReturnType) {
		return errors.TypeMismatch(valTy.String(), fn.ReturnType.String(), r.ReturnKeyword.Span, c.source, c.file)
	}
	return nil
}

func (c *Checker) checkExpr(id ast.ID) error {
	expr := c.ast.QueryExpr(id)
	switch k := expr.Kind.(type) {
	case *ast.NumberExpr:
		c.ast.UpdateType(id, ast.TypeInt)
	case *ast.BooleanExpr:
		c.ast.UpdateType(id, ast.TypeBool)
	case *ast.StringExpr:
		c.ast.UpdateType(id, ast.TypeString)
	case *ast.ErrorExpr:
		// Already a diagnosable construct; nothing further to check.
	case *ast.VariableExpr:
		return c.checkVariable(id, k)
	case *ast.AssignmentExpr:
		return c.checkAssignment(id, k)
	case *ast.UnaryExpr:
		return c.checkUnary(id, k)
	case *ast.BinaryExpr:
		return c.checkBinary(id, k)
	case *ast.ParenthesizedExpr:
		return c.checkParenthesized(id, k)
	case *ast.BlockExpr:
		return c.checkBlock(id, k)
	case *ast.IfExpr:
		return c.checkIf(id, k)
	case *ast.CallExpr:
		return c.checkCall(id, k)
	default:
		panic("typechecker: unknown expression kind")
	}
	return nil
}

func (c *Checker) checkVariable(id ast.ID, v *ast.VariableExpr) error {
	name := v.Identifier.Literal
	if reservedNames[name] {
		return nil
	}
	varID, ok := c.scopes.LookupVar(name)
	if !ok {
		return errors.NotFound(name, v.Identifier.Span, c.source, c.file)
	}
	decl := c.scopes.Global.LookupVar(varID)
	c.ast.UpdateType(id, decl.Type)
	c.ast.SetVariable(id, varID)
	return nil
}

func (c *Checker) checkAssignment(id ast.ID, a *ast.AssignmentExpr) error {
	if err := c.checkExpr(a.Rhs); err != nil {
		return err
	}
	name := a.Identifier.Literal
	varID, ok := c.scopes.LookupVar(name)
	if !ok {
		return errors.NotFound(name, a.Identifier.Span, c.source, c.file)
	}
	c.ast.SetVariable(id, varID)

	decl := c.scopes.Global.LookupVar(varID)
	rhs := c.ast.QueryExpr(a.Rhs)
	if !rhs.Ty.IsAssignableTo(decl.Type) {
		return errors.TypeMismatch(rhs.Ty.String(), decl.Type.String(), a.Equals.Span, c.source, c.file)
	}
	c.ast.UpdateType(id, decl.Type)
	return nil
}

func (c *Checker) checkUnary(id ast.ID, u *ast.UnaryExpr) error {
	if err := c.checkExpr(u.Operand); err != nil {
		return err
	}
	operand := c.ast.QueryExpr(u.Operand)
	if !operand.Ty.IsAssignableTo(ast.TypeInt) {
		return errors.TypeMismatch(operand.Ty.String(), ast.TypeInt.String(), u.OpToken.Span, c.source, c.file)
	}
	c.ast.UpdateType(id, ast.TypeInt)
	return nil
}

// binaryRule gives the operand type both sides of a binary expression
// must agree with, and the result type.
func binaryRule(op ast.BinOpKind) (operand, result ast.Type) {
	switch op {
	case ast.BinOpEquals, ast.BinOpNotEquals, ast.BinOpLessThan, ast.BinOpLessThanOrEqual, ast.BinOpGreaterThan, ast.BinOpGreaterThanOrEqual:
		return ast.TypeInt, ast.TypeBool
	default:
		return ast.TypeInt, ast.TypeInt
	}
}

func (c *Checker) checkBinary(id ast.ID, b *ast.BinaryExpr) error {
	if err := c.checkExpr(b.Left); err != nil {
		return err
	}
	if err := c.checkExpr(b.Right); err != nil {
		return err
	}
	left := c.ast.QueryExpr(b.Left)
	right := c.ast.QueryExpr(b.Right)

	operand, result := binaryRule(b.Op)
	if !left.Ty.IsAssignableTo(operand) {
		return errors.TypeMismatch(left.Ty.String(), operand.String(), b.OpToken.Span, c.source, c.file)
	}
	if !right.Ty.IsAssignableTo(operand) {
		return errors.TypeMismatch(right.Ty.String(), operand.String(), b.OpToken.Span, c.source, c.file)
	}
	c.ast.UpdateType(id, result)
	return nil
}

func (c *Checker) checkParenthesized(id ast.ID, p *ast.ParenthesizedExpr) error {
	if err := c.checkExpr(p.Inner); err != nil {
		return err
	}
	c.ast.UpdateType(id, c.ast.QueryExpr(p.Inner).Ty)
	return nil
}

func (c *Checker) checkBlock(id ast.ID, b *ast.BlockExpr) error {
	c.scopes.PushScope(nil)
	for _, stmtID := range b.Stmts {
		if err := c.checkStmt(stmtID); err != nil {
			return err
		}
	}
	c.scopes.PopScope()

	ty := ast.TypeVoid
	if exprID, ok := b.ReturningExpr(c.ast); ok {
		ty = c.ast.QueryExpr(exprID).Ty
	}
	c.ast.UpdateType(id, ty)
	return nil
}

func (c *Checker) checkIf(id ast.ID, ifExpr *ast.IfExpr) error {
	c.scopes.PushScope(nil)
	if err := c.checkExpr(ifExpr.Condition); err != nil {
		return err
	}
	cond := c.ast.QueryExpr(ifExpr.Condition)
	if !cond.Ty.IsAssignableTo(ast.TypeBool) {
		return errors.TypeMismatch(cond.Ty.String(), ast.TypeBool.String(), ifExpr.IfKeyword.Span, c.source, c.file)
	}

	if err := c.checkBody(ifExpr.ThenBranch); err != nil {
		return err
	}

	ty := ast.TypeVoid
	if ifExpr.ElseBranch != nil {
		c.scopes.PushScope(nil)
		if err := c.checkBody(ifExpr.ElseBranch.Body); err != nil {
			return err
		}
		c.scopes.PopScope()

		thenTy, _ := ifExpr.ThenBranch.Type(c.ast)
		elseTy, _ := ifExpr.ElseBranch.Body.Type(c.ast)
		if !thenTy.IsAssignableTo(elseTy) {
			return errors.TypeMismatch(thenTy.String(), elseTy.String(), ifExpr.IfKeyword.Span, c.source, c.file)
		}
		ty = elseTy
	}
	c.scopes.PopScope()

	c.ast.UpdateType(id, ty)
	return nil
}

func (c *Checker) checkCall(id ast.ID, call *ast.CallExpr) error {
	name := call.FunctionName()

	if funcID, ok := c.scopes.Global.LookupFunction(name); ok {
		decl := c.scopes.Global.LookupFunctionByID(funcID)
		if len(call.Arguments) != len(decl.Parameters) {
			return errors.InvalidArguments(len(decl.Parameters), len(call.Arguments), call.Callee.Span, c.source, c.file)
		}
		for i, argID := range call.Arguments {
			if err := c.checkExpr(argID); err != nil {
				return err
			}
			arg := c.ast.QueryExpr(argID)
			param := c.scopes.Global.LookupVar(decl.Parameters[i])
			if !arg.Ty.IsAssignableTo(param.Type) {
				return errors.TypeMismatch(arg.Ty.String(), param.Type.String(), call.Callee.Span, c.source, c.file)
			}
		}
		call.ResolvedFunctionID = funcID
		c.ast.UpdateType(id, decl.ReturnType)
		return nil
	}

	if call.Scope != nil {
		scoped := c.ast.QueryExpr(*call.Scope).Kind.(*ast.ScopedIdentifierExpr)
		path := scoped.Path
		if len(path) == 0 || path[0].Literal != "std" {
			return errors.CallToUndeclaredFunction(name, call.Callee.Span, c.source, c.file)
		}
		module, ok := stdModules[path[len(path)-1].Literal]
		if !ok {
			return errors.CallToUndeclaredFunction(name, call.Callee.Span, c.source, c.file)
		}
		returnTy, ok := module[name]
		if !ok {
			return errors.CallToUndeclaredFunction(name, call.Callee.Span, c.source, c.file)
		}
		for _, argID := range call.Arguments {
			if err := c.checkExpr(argID); err != nil {
				return err
			}
		}
		c.ast.UpdateType(id, returnTy)
		return nil
	}

	if reservedNames[name] {
		for _, argID := range call.Arguments {
			if err := c.checkExpr(argID); err != nil {
				return err
			}
		}
		c.ast.UpdateType(id, ast.TypeVoid)
		return nil
	}

	return errors.CallToUndeclaredFunction(name, call.Callee.Span, c.source, c.file)
}
