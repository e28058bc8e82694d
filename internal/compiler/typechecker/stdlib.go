package typechecker

import (
	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
)

// reservedNames are builtin I/O function names a Pulse program may
// never redeclare; calls to them resolve directly to Void.
var reservedNames = sema.ReservedNames

// stdModules maps a standard-library module name to the return type of
// each of its members, keyed by unqualified member name.
var stdModules = map[string]map[string]ast.Type{
	"io": {
		"print":    ast.TypeVoid,
		"println":  ast.TypeVoid,
		"eprint":   ast.TypeVoid,
		"eprintln": ast.TypeVoid,
	},
	"math": {
		"sqrt": ast.TypeInt,
	},
}
