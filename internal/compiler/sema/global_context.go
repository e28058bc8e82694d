// Package sema holds the global declaration context and lexical scope
// stack used by the type analyzer to resolve variable and function
// references.
package sema

import (
	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
	"github.com/pulse-lang/pulse/internal/compiler/lexer"
)

// Variable is a declaration-table entry for one variable.
type Variable struct {
	Name      string
	Type      ast.Type
	Shadowing bool
}

// Function is a declaration-table entry for one function.
type Function struct {
	Name       string
	Parameters []ast.ID // variable IDs, in declaration order
	Body       ast.Body
	ReturnType ast.Type
}

// GlobalContext holds every variable and function declared in a
// compilation unit, keyed by ID, plus the ordered list of variables
// visible at global scope.
type GlobalContext struct {
	variables map[ast.ID]*Variable
	functions map[ast.ID]*Function
	globals   []ast.ID

	nextVarID  ast.ID
	nextFuncID ast.ID
}

// NewGlobalContext creates an empty declaration context.
func NewGlobalContext() *GlobalContext {
	return &GlobalContext{
		variables: make(map[ast.ID]*Variable),
		functions: make(map[ast.ID]*Function),
	}
}

// AddVariable allocates a fresh variable ID and inserts it, recording it as
// globally visible when global is true.
func (g *GlobalContext) AddVariable(name string, typ ast.Type, shadowing, global bool) ast.ID {
	g.nextVarID++
	id := g.nextVarID
	g.variables[id] = &Variable{Name: name, Type: typ, Shadowing: shadowing}
	if global {
		g.globals = append(g.globals, id)
	}
	return id
}

// LookupVar returns the variable stored under id. Panics if id is not a
// variable in this context (precondition: id is valid).
func (g *GlobalContext) LookupVar(id ast.ID) *Variable {
	v, ok := g.variables[id]
	if !ok {
		panic("sema: no variable with this ID")
	}
	return v
}

// LookupVarID searches the globally-visible variables for one named name.
func (g *GlobalContext) LookupVarID(name string) (ast.ID, bool) {
	for _, id := range g.globals {
		if g.variables[id].Name == name {
			return id, true
		}
	}
	return 0, false
}

// LookupFunction returns the ID of the function named name, if one has
// been declared.
func (g *GlobalContext) LookupFunction(name string) (ast.ID, bool) {
	for id, fn := range g.functions {
		if fn.Name == name {
			return id, true
		}
	}
	return 0, false
}

// PushFunction allocates a fresh function ID and inserts fn, without any
// duplicate-name check.
func (g *GlobalContext) PushFunction(fn *Function) ast.ID {
	g.nextFuncID++
	id := g.nextFuncID
	g.functions[id] = fn
	return id
}

// LookupFunctionByID returns the function stored under id. Panics if id is
// not a function in this context.
func (g *GlobalContext) LookupFunctionByID(id ast.ID) *Function {
	fn, ok := g.functions[id]
	if !ok {
		panic("sema: no function with this ID")
	}
	return fn
}

// NewFunction declares a function named by identifierToken, rejecting a
// redeclaration of a name already present in this context.
func (g *GlobalContext) NewFunction(identifierToken lexer.Token, body ast.Body, params []ast.ID, returnType ast.Type, source, file string) (ast.ID, error) {
	name := identifierToken.Literal
	if _, exists := g.LookupFunction(name); exists {
		return 0, errors.FunctionAlreadyExists(name, identifierToken.Span, source, file)
	}
	return g.PushFunction(&Function{
		Name:       name,
		Parameters: params,
		Body:       body,
		ReturnType: returnType,
	}), nil
}
