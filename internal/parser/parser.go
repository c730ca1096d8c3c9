package parser

import (
	"tapec/internal/ast"
	"tapec/internal/diag"
	"tapec/internal/lexer"
	"tapec/internal/token"
)

// Parser is a recursive-descent parser with one token of lookahead.
// Unlike the lexer it is not an iterator: ParseProgram consumes the whole
// token stream and either returns a complete tree or the first error.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token // Current token under examination
	peekToken token.Token // Next token (for look-ahead)

	lexErr error // first lexer error, reported instead of any parse error
}

// New creates a new parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// Read two tokens to set curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if err := p.l.Err(); err != nil && p.lexErr == nil {
		p.lexErr = err
	}
}

// curTokenIs checks if current token matches
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if next token matches
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token matches, else errors.
// Used for mandatory syntax like the ';' after a statement.
func (p *Parser) expectPeek(t token.TokenType) error {
	if p.peekTokenIs(t) {
		p.nextToken()
		return nil
	}
	if p.peekTokenIs(token.EOF) {
		return diag.Parsef(p.peekToken.Line, "unexpected EOF")
	}
	return diag.Parsef(p.peekToken.Line, "expected '%s', got '%s'", t, p.peekToken.Literal)
}

// ParseProgram parses the whole token stream into a program named name.
// The first lex or parse error aborts parsing.
func (p *Parser) ParseProgram(name string) (*ast.Program, error) {
	program := &ast.Program{Name: name}

	for !p.curTokenIs(token.EOF) {
		var (
			stmt ast.Statement
			err  error
		)
		if p.curTokenIs(token.TYPE) {
			stmt, err = p.parseTopLevel()
		} else {
			stmt, err = p.parseStatement()
		}
		if err != nil {
			if p.lexErr != nil {
				return nil, p.lexErr
			}
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	if p.lexErr != nil {
		return nil, p.lexErr
	}
	return program, nil
}
