package parser

import (
	"tapec/internal/ast"
	"tapec/internal/diag"
	"tapec/internal/token"
)

// parseTopLevel parses a declaration or a function definition.
// Both start with "<type> <ident>"; the token after the identifier decides:
// '=' or ';' makes it a declaration, '(' makes it a function.
func (p *Parser) parseTopLevel() (ast.Statement, error) {
	typ := p.curToken.Literal
	line := p.curToken.Line
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	name := p.curToken.Literal

	switch p.peekToken.Type {
	case token.ASSIGN, token.SEMICOLON:
		return p.parseDeclarationRest(typ, name, line)
	case token.LPAREN:
		return p.parseFunctionRest(typ, name, line)
	}
	if p.peekTokenIs(token.EOF) {
		return nil, diag.Parsef(p.peekToken.Line, "unexpected EOF")
	}
	return nil, diag.Parsef(p.peekToken.Line, "expected '=', ';' or '(', got '%s'", p.peekToken.Literal)
}

// parseDeclaration parses "<type> <ident> [= <expr>] ;" inside a block.
func (p *Parser) parseDeclaration() (ast.Statement, error) {
	typ := p.curToken.Literal
	line := p.curToken.Line
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	return p.parseDeclarationRest(typ, p.curToken.Literal, line)
}

// parseDeclarationRest finishes a declaration after "<type> <ident>".
func (p *Parser) parseDeclarationRest(typ, name string, line int) (ast.Statement, error) {
	decl := &ast.Declaration{Pos: ast.Pos(line), Type: typ, Name: name}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		init, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if err := p.expectPeek(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseFunctionRest finishes a function definition after "<type> <ident>".
func (p *Parser) parseFunctionRest(typ, name string, line int) (ast.Statement, error) {
	fn := &ast.Function{Pos: ast.Pos(line), ReturnType: typ, Name: name}
	p.nextToken() // consume '('

	for !p.peekTokenIs(token.RPAREN) {
		if len(fn.Params) > 0 {
			if err := p.expectPeek(token.COMMA); err != nil {
				return nil, err
			}
		}
		if err := p.expectPeek(token.TYPE); err != nil {
			return nil, err
		}
		param := &ast.Declaration{Pos: ast.Pos(p.curToken.Line), Type: p.curToken.Literal}
		if err := p.expectPeek(token.IDENT); err != nil {
			return nil, err
		}
		param.Name = p.curToken.Literal
		fn.Params = append(fn.Params, param)
	}
	p.nextToken() // consume ')'

	if err := p.expectPeek(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// parseStatement dispatches on the current token.
// Declarations are not statements: "if (x) int y;" is a parse error.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.RETURN:
		return p.parseReturn()
	case token.INLINE:
		// the lexer already consumed the terminating ';'
		return &ast.Inline{Pos: ast.Pos(p.curToken.Line), Code: p.curToken.Literal}, nil
	case token.IDENT:
		return p.parseCallOrAssign()
	case token.EOF:
		return nil, diag.Parsef(p.curToken.Line, "unexpected EOF")
	}
	return nil, diag.Parsef(p.curToken.Line, "unexpected token '%s'", p.curToken.Literal)
}

// parseBlock parses '{' (declaration | statement)* '}'.
func (p *Parser) parseBlock() (*ast.Block, error) {
	block := &ast.Block{Pos: ast.Pos(p.curToken.Line)}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			return nil, diag.Parsef(p.curToken.Line, "unexpected EOF")
		}
		var (
			stmt ast.Statement
			err  error
		)
		if p.curTokenIs(token.TYPE) {
			stmt, err = p.parseDeclaration()
		} else {
			stmt, err = p.parseStatement()
		}
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	return block, nil
}

// parseCondition parses "( <expr> )" after if, while or repeat.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if err := p.expectPeek(token.LPAREN); err != nil {
		return nil, err
	}
	p.nextToken()
	cond, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	stmt := &ast.If{Pos: ast.Pos(p.curToken.Line)}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond

	p.nextToken()
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Then = then

	// the else branch attaches eagerly, so it binds to the nearest if
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		alt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = alt
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	stmt := &ast.While{Pos: ast.Pos(p.curToken.Line)}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond

	p.nextToken()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseRepeat() (ast.Statement, error) {
	stmt := &ast.Repeat{Pos: ast.Pos(p.curToken.Line)}
	count, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Count = count

	p.nextToken()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	stmt := &ast.Return{Pos: ast.Pos(p.curToken.Line)}
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	stmt.Expr = expr
	if err := p.expectPeek(token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseCallOrAssign parses an identifier statement: either a function call
// "f(a, b);" or an assignment "x op expr;".
func (p *Parser) parseCallOrAssign() (ast.Statement, error) {
	if p.peekTokenIs(token.LPAREN) {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		if err := p.expectPeek(token.SEMICOLON); err != nil {
			return nil, err
		}
		return call, nil
	}

	if token.IsAssignOp(p.peekToken.Type) {
		stmt := &ast.Assign{
			Pos:  ast.Pos(p.curToken.Line),
			Name: p.curToken.Literal,
			Op:   string(p.peekToken.Type),
		}
		p.nextToken() // consume the operator
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Expr = expr
		if err := p.expectPeek(token.SEMICOLON); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	return nil, diag.Parsef(p.curToken.Line, "expected function call or assignment")
}
