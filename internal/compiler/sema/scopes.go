package sema

import "github.com/pulse-lang/pulse/internal/compiler/ast"

// LocalScope is one level of lexical nesting: the variables declared
// directly inside it, and the function it belongs to, if any (nil for
// an if/while body nested inside a function rather than its own).
type LocalScope struct {
	Locals   []ast.ID
	Function *ast.ID
}

func newLocalScope(function *ast.ID) *LocalScope {
	return &LocalScope{Function: function}
}

func (s *LocalScope) addLocal(id ast.ID) {
	s.Locals = append(s.Locals, id)
}

// Scopes layers a stack of LocalScope frames on top of a GlobalContext,
// implementing shadowing: a variable declared inside a scope hides any
// variable of the same name declared outside it.
type Scopes struct {
	Global *GlobalContext
	local  []*LocalScope
}

// NewScopes wraps global in an empty scope stack.
func NewScopes(global *GlobalContext) *Scopes {
	return &Scopes{Global: global}
}

// PushScope opens a new lexical scope, optionally tagging it with the
// ID of the function it is the body of.
func (s *Scopes) PushScope(function *ast.ID) {
	s.local = append(s.local, newLocalScope(function))
}

// PopScope closes the innermost scope.
func (s *Scopes) PopScope() {
	s.local = s.local[:len(s.local)-1]
}

func (s *Scopes) addLocal(id ast.ID) {
	if len(s.local) == 0 {
		return
	}
	s.local[len(s.local)-1].addLocal(id)
}

// AddLocal pushes an already-declared variable ID onto the innermost
// open scope, e.g. a function's parameter variables at the start of
// its body.
func (s *Scopes) AddLocal(id ast.ID) {
	s.addLocal(id)
}

// InScope reports whether any local scope is currently open.
func (s *Scopes) InScope() bool {
	return len(s.local) > 0
}

// NewVar declares a variable named name with type typ in the innermost
// open scope, detecting whether it shadows another variable of the
// same name already visible in that scope, and recording it as a
// global when no scope is open.
func (s *Scopes) NewVar(name string, typ ast.Type) ast.ID {
	inScope := s.InScope()

	shadowing := false
	if inScope {
		cur := s.local[len(s.local)-1]
		for _, local := range cur.Locals {
			if s.Global.LookupVar(local).Name == name {
				shadowing = true
				break
			}
		}
	}

	id := s.Global.AddVariable(name, typ, shadowing, !inScope)
	if inScope {
		s.addLocal(id)
	}
	return id
}

// LookupVar searches the innermost-to-outermost scope stack, then
// falls back to global variables, returning the nearest declaration of
// name in scope.
func (s *Scopes) LookupVar(name string) (ast.ID, bool) {
	for i := len(s.local) - 1; i >= 0; i-- {
		locals := s.local[i].Locals
		for j := len(locals) - 1; j >= 0; j-- {
			if s.Global.LookupVar(locals[j]).Name == name {
				return locals[j], true
			}
		}
	}
	return s.Global.LookupVarID(name)
}

// CurrentFunction returns the ID of the function whose body is the
// nearest enclosing scope, if any.
func (s *Scopes) CurrentFunction() (ast.ID, bool) {
	for i := len(s.local) - 1; i >= 0; i-- {
		if fn := s.local[i].Function; fn != nil {
			return *fn, true
		}
	}
	return 0, false
}
