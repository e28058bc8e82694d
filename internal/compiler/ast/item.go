package ast

import "github.com/pulse-lang/pulse/internal/compiler/lexer"

// ItemKind is implemented by every concrete top-level item payload.
type ItemKind interface {
	itemKind()
}

// Item is an arena entry for a top-level item.
type Item struct {
	ID   ID
	Kind ItemKind
}

// StmtItem is a top-level statement (a statement outside any function).
type StmtItem struct {
	Stmt ID
}

func (*StmtItem) itemKind() {}

// FunctionParam is one parameter in a function's declaration, before name
// resolution assigns it a variable ID in the global context.
type FunctionParam struct {
	Identifier lexer.Token
	Type       TypeAnnotation
}

// ReturnTypeAnnotation is the optional `-> TypeName` on a function
// declaration.
type ReturnTypeAnnotation struct {
	Arrow    lexer.Token
	TypeName lexer.Token
}

// FunctionItem is a top-level function declaration.
type FunctionItem struct {
	FuncKeyword lexer.Token
	Identifier  lexer.Token
	Params      []FunctionParam
	Body        Body
	ReturnType  *ReturnTypeAnnotation
	FunctionID  ID // set by the parser when it declares the function in the global context
}

func (*FunctionItem) itemKind() {}
