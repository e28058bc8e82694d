// Package parser implements recursive-descent parsing with a
// precedence-climbing expression parser, driven by a monotonic cursor
// over a non-whitespace token stream. The parser owns no recovery
// strategy: it fails fast and returns the first ParseError it hits.
package parser

import (
	"fmt"

	"github.com/pulse-lang/pulse/internal/compiler/ast"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
	"github.com/pulse-lang/pulse/internal/compiler/lexer"
	"github.com/pulse-lang/pulse/internal/compiler/sema"
)

// Parser transforms a non-whitespace token stream into items inserted
// into an AST arena, registering functions and their parameters in a
// global declaration context as it goes.
type Parser struct {
	tokens  []lexer.Token
	current int

	ast    *ast.Ast
	global *sema.GlobalContext
	source string
	file   string
}

// New creates a parser over tokens (already filtered of whitespace),
// inserting into a and registering declarations into global.
func New(tokens []lexer.Token, source, file string, a *ast.Ast, global *sema.GlobalContext) *Parser {
	return &Parser{tokens: tokens, ast: a, global: global, source: source, file: file}
}

// ParseFile consumes the entire token stream, one item at a time.
func (p *Parser) ParseFile() error {
	for !p.isAtEnd() {
		if err := p.parseItem(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseItem() error {
	if p.check(lexer.TOKEN_FN) {
		return p.parseFunction()
	}

	stmtID, err := p.parseStatement()
	if err != nil {
		return err
	}
	p.ast.NewItem(&ast.StmtItem{Stmt: stmtID})
	return nil
}

func (p *Parser) parseFunction() error {
	funcKeyword, err := p.consume(lexer.TOKEN_FN)
	if err != nil {
		return err
	}
	identifier, err := p.consume(lexer.TOKEN_IDENTIFIER)
	if err != nil {
		return err
	}

	var params []ast.FunctionParam
	var paramIDs []ast.ID
	if p.check(lexer.TOKEN_LPAREN) {
		params, paramIDs, err = p.parseParams()
		if err != nil {
			return err
		}
	}

	returnType := ast.TypeVoid
	var returnAnn *ast.ReturnTypeAnnotation
	if p.check(lexer.TOKEN_ARROW) {
		arrow := p.advance()
		typeName, err := p.consume(lexer.TOKEN_IDENTIFIER)
		if err != nil {
			return err
		}
		ty, ok := ast.TypeFromName(typeName.Literal)
		if !ok {
			return errors.InvalidType(typeName.Literal, typeName.Span, p.source, p.file)
		}
		returnType = ty
		returnAnn = &ast.ReturnTypeAnnotation{Arrow: arrow, TypeName: typeName}
	}

	body, err := p.parseBody()
	if err != nil {
		return err
	}

	if identifier.Literal == "main" && len(paramIDs) > 0 {
		return errors.MainFunctionParameters(identifier.Span, p.source, p.file)
	}

	functionID, err := p.global.NewFunction(identifier, body, paramIDs, returnType, p.source, p.file)
	if err != nil {
		return err
	}

	p.ast.NewItem(&ast.FunctionItem{
		FuncKeyword: funcKeyword,
		Identifier:  identifier,
		Params:      params,
		Body:        body,
		ReturnType:  returnAnn,
		FunctionID:  functionID,
	})
	return nil
}

// parseParams parses '(' (Param (',' Param)*)? ')', registering each
// parameter as a variable in the global context up front so that the
// function's parameter IDs are available to register the function
// itself, and returns both the AST-level parameter list and the
// resolved variable IDs in declaration order.
func (p *Parser) parseParams() ([]ast.FunctionParam, []ast.ID, error) {
	if _, err := p.consume(lexer.TOKEN_LPAREN); err != nil {
		return nil, nil, err
	}

	var params []ast.FunctionParam
	var ids []ast.ID

	if !p.check(lexer.TOKEN_RPAREN) {
		for {
			identifier, err := p.consume(lexer.TOKEN_IDENTIFIER)
			if err != nil {
				return nil, nil, err
			}
			colon, err := p.consume(lexer.TOKEN_COLON)
			if err != nil {
				return nil, nil, err
			}
			typeName, err := p.consume(lexer.TOKEN_IDENTIFIER)
			if err != nil {
				return nil, nil, err
			}
			ty, ok := ast.TypeFromName(typeName.Literal)
			if !ok {
				return nil, nil, errors.InvalidType(typeName.Literal, typeName.Span, p.source, p.file)
			}

			params = append(params, ast.FunctionParam{
				Identifier: identifier,
				Type:       ast.TypeAnnotation{Colon: colon, TypeName: typeName},
			})
			ids = append(ids, p.global.AddVariable(identifier.Literal, ty, false, false))

			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}

	if _, err := p.consume(lexer.TOKEN_RPAREN); err != nil {
		return nil, nil, err
	}
	return params, ids, nil
}

func (p *Parser) parseBody() (ast.Body, error) {
	open, err := p.consume(lexer.TOKEN_LBRACE)
	if err != nil {
		return ast.Body{}, err
	}

	var stmts []ast.ID
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		id, err := p.parseStatement()
		if err != nil {
			return ast.Body{}, err
		}
		stmts = append(stmts, id)
	}

	closing, err := p.consume(lexer.TOKEN_RBRACE)
	if err != nil {
		return ast.Body{}, err
	}
	return ast.Body{OpeningBrace: open, Stmts: stmts, ClosingBrace: closing}, nil
}

// parseStatement parses one Statement and returns its AST ID.
func (p *Parser) parseStatement() (ast.ID, error) {
	var id ast.ID
	var err error

	switch {
	case p.check(lexer.TOKEN_LET):
		id, err = p.parseLet()
	case p.check(lexer.TOKEN_WHILE):
		id, err = p.parseWhile()
	case p.check(lexer.TOKEN_RETURN):
		id, err = p.parseReturn()
	default:
		id, err = p.parseExprStmt()
	}
	if err != nil {
		return 0, err
	}

	p.match(lexer.TOKEN_SEMICOLON) // consumed if present, never required
	return id, nil
}

func (p *Parser) parseLet() (ast.ID, error) {
	if _, err := p.consume(lexer.TOKEN_LET); err != nil {
		return 0, err
	}
	identifier, err := p.consume(lexer.TOKEN_IDENTIFIER)
	if err != nil {
		return 0, err
	}

	var typeAnn *ast.TypeAnnotation
	if p.check(lexer.TOKEN_COLON) {
		colon := p.advance()
		typeName, err := p.consume(lexer.TOKEN_IDENTIFIER)
		if err != nil {
			return 0, err
		}
		typeAnn = &ast.TypeAnnotation{Colon: colon, TypeName: typeName}
	}

	if _, err := p.consume(lexer.TOKEN_EQUALS); err != nil {
		return 0, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	stmt := p.ast.NewStmt(&ast.LetStmt{
		Identifier:     identifier,
		Initializer:    init,
		TypeAnnotation: typeAnn,
	})
	return stmt.ID, nil
}

func (p *Parser) parseWhile() (ast.ID, error) {
	keyword, err := p.consume(lexer.TOKEN_WHILE)
	if err != nil {
		return 0, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	body, err := p.parseBody()
	if err != nil {
		return 0, err
	}
	return p.ast.NewStmt(&ast.WhileStmt{WhileKeyword: keyword, Condition: cond, Body: body}).ID, nil
}

func (p *Parser) parseReturn() (ast.ID, error) {
	keyword, err := p.consume(lexer.TOKEN_RETURN)
	if err != nil {
		return 0, err
	}

	var value *ast.ID
	if !p.atStatementBoundary() {
		id, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		value = &id
	}
	return p.ast.NewStmt(&ast.ReturnStmt{ReturnKeyword: keyword, Value: value}).ID, nil
}

// atStatementBoundary reports whether the current token cannot begin
// an expression, used to detect a bare `return` with no value.
func (p *Parser) atStatementBoundary() bool {
	switch p.peek().Type {
	case lexer.TOKEN_SEMICOLON, lexer.TOKEN_RBRACE, lexer.TOKEN_EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExprStmt() (ast.ID, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	return p.ast.NewStmt(&ast.ExprStmt{Expr: expr}).ID, nil
}

// parseExpr implements Expr := Assign | Binary via one token of
// lookahead: Identifier followed by '=' is an assignment.
func (p *Parser) parseExpr() (ast.ID, error) {
	if p.check(lexer.TOKEN_IDENTIFIER) && p.checkAt(1, lexer.TOKEN_EQUALS) {
		identifier := p.advance()
		equals := p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		return p.ast.NewExpr(&ast.AssignmentExpr{Identifier: identifier, Equals: equals, Rhs: rhs}).ID, nil
	}
	return p.parseBinary(0)
}

var binOps = map[lexer.TokenType]ast.BinOpKind{
	lexer.TOKEN_PLUS:           ast.BinOpPlus,
	lexer.TOKEN_MINUS:          ast.BinOpMinus,
	lexer.TOKEN_STAR:           ast.BinOpMultiply,
	lexer.TOKEN_SLASH:          ast.BinOpDivide,
	lexer.TOKEN_PERCENT:        ast.BinOpModulo,
	lexer.TOKEN_AMP:            ast.BinOpBitwiseAnd,
	lexer.TOKEN_PIPE:           ast.BinOpBitwiseOr,
	lexer.TOKEN_CARET:          ast.BinOpBitwiseXor,
	lexer.TOKEN_EQUALS_EQUALS:  ast.BinOpEquals,
	lexer.TOKEN_BANG_EQUALS:    ast.BinOpNotEquals,
	lexer.TOKEN_LESS:           ast.BinOpLessThan,
	lexer.TOKEN_LESS_EQUALS:    ast.BinOpLessThanOrEqual,
	lexer.TOKEN_GREATER:        ast.BinOpGreaterThan,
	lexer.TOKEN_GREATER_EQUALS: ast.BinOpGreaterThanOrEqual,
}

// parseBinary implements precedence climbing: minPrec is the minimum
// binding power an operator must have to be consumed at this level.
func (p *Parser) parseBinary(minPrec int) (ast.ID, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		op, ok := binOps[p.peek().Type]
		if !ok {
			break
		}
		prec := op.Precedence()
		if prec < minPrec {
			break
		}
		opToken := p.advance()

		nextMin := prec + 1
		if op.Associativity() == ast.AssocRight {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return 0, err
		}
		left = p.ast.NewExpr(&ast.BinaryExpr{Left: left, Op: op, OpToken: opToken, Right: right}).ID
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.ID, error) {
	if p.check(lexer.TOKEN_MINUS) || p.check(lexer.TOKEN_TILDE) {
		opToken := p.advance()
		op := ast.UnOpMinus
		if opToken.Type == lexer.TOKEN_TILDE {
			op = ast.UnOpBitwiseNot
		}
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.ast.NewExpr(&ast.UnaryExpr{Op: op, OpToken: opToken, Operand: operand}).ID, nil
	}
	return p.parsePower()
}

// parsePower binds `**` tighter than a leading unary operator reaching
// across it: `-a ** b` parses as `-(a ** b)`, not `(-a) ** b`. The
// exponent is parsed through parseUnary so a unary operator may still
// appear there (`a ** -b`), and the same recursion makes chained `**`
// right-associative.
func (p *Parser) parsePower() (ast.ID, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if !p.check(lexer.TOKEN_STAR_STAR) {
		return left, nil
	}
	opToken := p.advance()
	right, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return p.ast.NewExpr(&ast.BinaryExpr{Left: left, Op: ast.BinOpPower, OpToken: opToken, Right: right}).ID, nil
}

func (p *Parser) parsePrimary() (ast.ID, error) {
	switch {
	case p.check(lexer.TOKEN_LBRACE):
		return p.parseBlock()
	case p.check(lexer.TOKEN_IF):
		return p.parseIf()
	case p.check(lexer.TOKEN_NUMBER):
		return p.parseNumber()
	case p.check(lexer.TOKEN_STRING):
		tok := p.advance()
		return p.ast.NewExpr(&ast.StringExpr{Value: tok.Literal, Token: tok}).ID, nil
	case p.check(lexer.TOKEN_LPAREN):
		return p.parseParenthesized()
	case p.check(lexer.TOKEN_TRUE), p.check(lexer.TOKEN_FALSE):
		tok := p.advance()
		return p.ast.NewExpr(&ast.BooleanExpr{Value: tok.Type == lexer.TOKEN_TRUE, Token: tok}).ID, nil
	case p.check(lexer.TOKEN_IDENTIFIER):
		return p.parseIdentifierExpr()
	default:
		tok := p.peek()
		return p.ast.NewExpr(&ast.ErrorExpr{Span: tok.Span}).ID, p.errorAtCurrent(fmt.Sprintf("expected an expression, found %s", tok.Type))
	}
}

func (p *Parser) parseNumber() (ast.ID, error) {
	tok := p.advance()
	var value int64
	for _, r := range tok.Literal {
		value = value*10 + int64(r-'0')
	}
	return p.ast.NewExpr(&ast.NumberExpr{Value: value, Token: tok}).ID, nil
}

func (p *Parser) parseParenthesized() (ast.ID, error) {
	left, err := p.consume(lexer.TOKEN_LPAREN)
	if err != nil {
		return 0, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	right, err := p.consume(lexer.TOKEN_RPAREN)
	if err != nil {
		return 0, err
	}
	return p.ast.NewExpr(&ast.ParenthesizedExpr{LeftParen: left, Inner: inner, RightParen: right}).ID, nil
}

func (p *Parser) parseBlock() (ast.ID, error) {
	open, err := p.consume(lexer.TOKEN_LBRACE)
	if err != nil {
		return 0, err
	}
	var stmts []ast.ID
	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		id, err := p.parseStatement()
		if err != nil {
			return 0, err
		}
		stmts = append(stmts, id)
	}
	closing, err := p.consume(lexer.TOKEN_RBRACE)
	if err != nil {
		return 0, err
	}
	return p.ast.NewExpr(&ast.BlockExpr{LeftBrace: open, Stmts: stmts, RightBrace: closing}).ID, nil
}

func (p *Parser) parseIf() (ast.ID, error) {
	keyword, err := p.consume(lexer.TOKEN_IF)
	if err != nil {
		return 0, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	thenBody, err := p.parseBody()
	if err != nil {
		return 0, err
	}

	var elseBranch *ast.ElseBranch
	if p.check(lexer.TOKEN_ELSE) {
		elseKeyword := p.advance()
		elseBody, err := p.parseBody()
		if err != nil {
			return 0, err
		}
		elseBranch = &ast.ElseBranch{ElseKeyword: elseKeyword, Body: elseBody}
	}

	return p.ast.NewExpr(&ast.IfExpr{IfKeyword: keyword, Condition: cond, ThenBranch: thenBody, ElseBranch: elseBranch}).ID, nil
}

// parseIdentifierExpr handles a bare identifier, a scoped identifier
// path (A::B::...), a call, and a scoped call.
func (p *Parser) parseIdentifierExpr() (ast.ID, error) {
	first := p.advance()

	if p.check(lexer.TOKEN_COLON_COLON) {
		path := []lexer.Token{first}
		for p.check(lexer.TOKEN_COLON_COLON) {
			p.advance()
			next, err := p.consume(lexer.TOKEN_IDENTIFIER)
			if err != nil {
				return 0, err
			}
			path = append(path, next)
		}

		callee := path[len(path)-1]
		scopePath := path[:len(path)-1]
		scopeID := p.ast.NewExpr(&ast.ScopedIdentifierExpr{Path: scopePath}).ID

		lparen, err := p.consume(lexer.TOKEN_LPAREN)
		if err != nil {
			return 0, err
		}
		args, rparen, err := p.parseCallArguments()
		if err != nil {
			return 0, err
		}
		return p.ast.NewExpr(&ast.CallExpr{
			Callee:     callee,
			LeftParen:  lparen,
			Arguments:  args,
			RightParen: rparen,
			Scope:      &scopeID,
		}).ID, nil
	}

	if p.check(lexer.TOKEN_LPAREN) {
		lparen := p.advance()
		args, rparen, err := p.parseCallArguments()
		if err != nil {
			return 0, err
		}
		return p.ast.NewExpr(&ast.CallExpr{
			Callee:     first,
			LeftParen:  lparen,
			Arguments:  args,
			RightParen: rparen,
		}).ID, nil
	}

	return p.ast.NewExpr(&ast.VariableExpr{Identifier: first}).ID, nil
}

func (p *Parser) parseCallArguments() ([]ast.ID, lexer.Token, error) {
	var args []ast.ID
	if !p.check(lexer.TOKEN_RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, lexer.Token{}, err
			}
			args = append(args, arg)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
		}
	}
	rparen, err := p.consume(lexer.TOKEN_RPAREN)
	if err != nil {
		return nil, lexer.Token{}, err
	}
	return args, rparen, nil
}

// Cursor primitives. The cursor never moves backward; peek clamps at
// the last token (EOF), matching the sentinel behavior of the lexer.

func (p *Parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return p.tokens[idx]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAt(offset int, t lexer.TokenType) bool {
	return p.peekAt(offset).Type == t
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAtCurrent(fmt.Sprintf("expected %s, found %s", t, p.peek().Type))
}

func (p *Parser) errorAtCurrent(message string) error {
	return errors.ParseError(message, p.peek().Span, p.source, p.file)
}
