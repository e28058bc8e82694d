package errors

// Error code constants organized by compiler phase.
// E0xx: lexer errors (currently none are fatal; Bad tokens surface as E1xx)
// E1xx: parser and declaration errors
// E2xx: type-analysis errors
// E4xx: codegen errors (the emitter is total over a checked AST; reserved)
// E5xx: driver / CLI / host-toolchain errors

const (
	CodeParseError           = "E100"
	CodeFunctionAlreadyExists = "E101"

	CodeInvalidType               = "E200"
	CodeTypeMismatch              = "E201"
	CodeNotFound                  = "E202"
	CodeIllegalReturn             = "E203"
	CodeCallToUndeclaredFunction  = "E204"
	CodeInvalidArguments          = "E205"
	CodeReservedName              = "E206"
	CodeMainFunctionParameters    = "E207"

	CodeIo               = "E500"
	CodeInvalidExtension = "E501"
	CodeFileDoesNotExist = "E502"
	CodeNotImplemented   = "E503"
	CodeCompilerNotFound = "E504"
	CodeGeneric          = "E599"
)
