package ast

import "github.com/pulse-lang/pulse/internal/compiler/lexer"

// StmtKind is implemented by every concrete statement payload.
type StmtKind interface {
	stmtKind()
}

// Stmt is an arena entry for a statement.
type Stmt struct {
	ID   ID
	Kind StmtKind
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Expr ID
}

func (*ExprStmt) stmtKind() {}

// TypeAnnotation is an explicit `: TypeName` written on a let binding or
// function parameter.
type TypeAnnotation struct {
	Colon    lexer.Token
	TypeName lexer.Token
}

// LetStmt is `let name (: Type)? = init`. ResolvedVarID is filled in by
// the type analyzer.
type LetStmt struct {
	Identifier     lexer.Token
	Initializer    ID
	TypeAnnotation *TypeAnnotation
	ResolvedVarID  ID
}

func (*LetStmt) stmtKind() {}

// WhileStmt is `while cond body`.
type WhileStmt struct {
	WhileKeyword lexer.Token
	Condition    ID
	Body         Body
}

func (*WhileStmt) stmtKind() {}

// ReturnStmt is `return expr?`.
type ReturnStmt struct {
	ReturnKeyword lexer.Token
	Value         *ID
}

func (*ReturnStmt) stmtKind() {}

// Body is a brace-delimited sequence of statements shared by function
// declarations, if/else branches, and while loops.
type Body struct {
	OpeningBrace lexer.Token
	Stmts        []ID
	ClosingBrace lexer.Token
}

// Type returns the type of the body's trailing expression statement, if
// its last statement is one.
func (b Body) Type(a *Ast) (Type, bool) {
	if len(b.Stmts) == 0 {
		return TypeVoid, false
	}
	last := a.QueryStmt(b.Stmts[len(b.Stmts)-1])
	if exprStmt, ok := last.Kind.(*ExprStmt); ok {
		return a.QueryExpr(exprStmt.Expr).Ty, true
	}
	return TypeVoid, false
}
