package parser

import (
	"tapec/internal/ast"
	"tapec/internal/diag"
	"tapec/internal/token"
)

// precedence levels (lowest to highest)
// These determine operator binding: a + b * c parses as a + (b * c) because
// * has higher precedence. NOT sits between the logical connectives and the
// comparisons, so "not a == b" negates the whole comparison.
const (
	_ int = iota
	LOWEST
	LOGICOR     // or
	LOGICAND    // and
	NOT         // not x
	EQUALS      // == or !=
	LESSGREATER // < > <= >=
	SUM         // + or -
	PRODUCT     // * / %
	PREFIX      // -x or +x
)

// precedences maps binary operator token types to their precedence level
var precedences = map[token.TokenType]int{
	token.OR:      LOGICOR,
	token.AND:     LOGICAND,
	token.EQ:      EQUALS,
	token.NOT_EQ:  EQUALS,
	token.LT:      LESSGREATER,
	token.GT:      LESSGREATER,
	token.LT_EQ:   LESSGREATER,
	token.GT_EQ:   LESSGREATER,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.PERCENT: PRODUCT,
}

// peekPrecedence returns precedence of the next token
func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// parseExpression parses an expression with the given minimum precedence.
// It expects curToken to be the first token of the expression and leaves
// curToken on its last token. All binary operators are left-associative.
func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parsePrefix parses the tokens that can start an expression.
func (p *Parser) parsePrefix() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.INT:
		return &ast.Int{Pos: ast.Pos(p.curToken.Line), Value: p.curToken.Value}, nil
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseCall()
		}
		return &ast.Var{Pos: ast.Pos(p.curToken.Line), Name: p.curToken.Literal}, nil
	case token.LPAREN:
		return p.parseGrouped()
	case token.PLUS, token.MINUS:
		return p.parseUnary(PREFIX)
	case token.NOT:
		return p.parseUnary(NOT)
	case token.EOF:
		return nil, diag.Parsef(p.curToken.Line, "unexpected EOF")
	}
	return nil, diag.Parsef(p.curToken.Line, "unexpected token '%s'", p.curToken.Literal)
}

// parseUnary parses a prefix operator; the operand is parsed at the
// operator's own precedence, which makes prefix operators right-associative.
func (p *Parser) parseUnary(precedence int) (ast.Expression, error) {
	expr := &ast.UnOp{Pos: ast.Pos(p.curToken.Line), Op: string(p.curToken.Type)}
	p.nextToken()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return expr, nil
}

// parseInfix parses <left> <op> <right> with curToken on the operator.
func (p *Parser) parseInfix(left ast.Expression) (ast.Expression, error) {
	expr := &ast.BinOp{
		Pos:  ast.Pos(p.curToken.Line),
		Op:   string(p.curToken.Type),
		Left: left,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	expr.Right = right
	return expr, nil
}

// parseGrouped parses '(' <expr> ')'.
func (p *Parser) parseGrouped() (ast.Expression, error) {
	p.nextToken()
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCall parses <ident>(<args>) with curToken on the identifier.
func (p *Parser) parseCall() (*ast.FuncCall, error) {
	call := &ast.FuncCall{Pos: ast.Pos(p.curToken.Line), Name: p.curToken.Literal}
	p.nextToken() // consume '('

	for !p.peekTokenIs(token.RPAREN) {
		if len(call.Args) > 0 {
			if err := p.expectPeek(token.COMMA); err != nil {
				return nil, err
			}
		}
		p.nextToken()
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	p.nextToken() // consume ')'
	return call, nil
}
