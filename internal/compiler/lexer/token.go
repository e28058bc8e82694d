// Package lexer tokenizes Pulse source code into a stream of Tokens.
package lexer

import (
	"fmt"

	"github.com/pulse-lang/pulse/internal/compiler/position"
)

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_BAD
	TOKEN_WHITESPACE

	// Literals
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_IDENTIFIER

	// Keywords
	TOKEN_LET
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_WHILE
	TOKEN_FN
	TOKEN_RETURN

	// Operators
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_PERCENT
	TOKEN_AMP
	TOKEN_PIPE
	TOKEN_CARET
	TOKEN_TILDE
	TOKEN_STAR_STAR
	TOKEN_EQUALS
	TOKEN_EQUALS_EQUALS
	TOKEN_BANG_EQUALS
	TOKEN_LESS
	TOKEN_GREATER
	TOKEN_LESS_EQUALS
	TOKEN_GREATER_EQUALS

	// Separators
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_COMMA
	TOKEN_COLON
	TOKEN_SEMICOLON
	TOKEN_ARROW
	TOKEN_COLON_COLON
)

var keywords = map[string]TokenType{
	"let":    TOKEN_LET,
	"if":     TOKEN_IF,
	"else":   TOKEN_ELSE,
	"true":   TOKEN_TRUE,
	"false":  TOKEN_FALSE,
	"while":  TOKEN_WHILE,
	"fn":     TOKEN_FN,
	"return": TOKEN_RETURN,
}

// String renders a human-readable token kind name, used in diagnostics.
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "Eof"
	case TOKEN_BAD:
		return "Bad"
	case TOKEN_WHITESPACE:
		return "Whitespace"
	case TOKEN_NUMBER:
		return "Number"
	case TOKEN_STRING:
		return "String"
	case TOKEN_IDENTIFIER:
		return "Identifier"
	case TOKEN_LET:
		return "'let'"
	case TOKEN_IF:
		return "'if'"
	case TOKEN_ELSE:
		return "'else'"
	case TOKEN_TRUE:
		return "'true'"
	case TOKEN_FALSE:
		return "'false'"
	case TOKEN_WHILE:
		return "'while'"
	case TOKEN_FN:
		return "'fn'"
	case TOKEN_RETURN:
		return "'return'"
	case TOKEN_PLUS:
		return "'+'"
	case TOKEN_MINUS:
		return "'-'"
	case TOKEN_STAR:
		return "'*'"
	case TOKEN_SLASH:
		return "'/'"
	case TOKEN_PERCENT:
		return "'%'"
	case TOKEN_AMP:
		return "'&'"
	case TOKEN_PIPE:
		return "'|'"
	case TOKEN_CARET:
		return "'^'"
	case TOKEN_TILDE:
		return "'~'"
	case TOKEN_STAR_STAR:
		return "'**'"
	case TOKEN_EQUALS:
		return "'='"
	case TOKEN_EQUALS_EQUALS:
		return "'=='"
	case TOKEN_BANG_EQUALS:
		return "'!='"
	case TOKEN_LESS:
		return "'<'"
	case TOKEN_GREATER:
		return "'>'"
	case TOKEN_LESS_EQUALS:
		return "'<='"
	case TOKEN_GREATER_EQUALS:
		return "'>='"
	case TOKEN_LPAREN:
		return "'('"
	case TOKEN_RPAREN:
		return "')'"
	case TOKEN_LBRACE:
		return "'{'"
	case TOKEN_RBRACE:
		return "'}'"
	case TOKEN_COMMA:
		return "','"
	case TOKEN_COLON:
		return "':'"
	case TOKEN_SEMICOLON:
		return "';'"
	case TOKEN_ARROW:
		return "'->'"
	case TOKEN_COLON_COLON:
		return "'::'"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token is one lexical unit: a kind, the span it occupies, and the exact
// source substring it was scanned from. A string literal is the one
// exception: its Literal is the raw text between the quotes, without
// the quotes themselves.
type Token struct {
	Type    TokenType
	Span    position.Span
	Literal string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Span)
}
