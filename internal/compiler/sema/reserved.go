package sema

// ReservedNames are builtin I/O function names a Pulse program may never
// redeclare as a function; calls to them bypass ordinary function
// resolution in both the type analyzer and the code emitter.
var ReservedNames = map[string]bool{
	"print":    true,
	"println":  true,
	"eprint":   true,
	"eprintln": true,
}
