package codegen

import (
	"strings"

	"tapec/internal/ast"
	"tapec/internal/diag"
)

// genCall emits a function call in statement or expression position.
// Arguments are evaluated left to right into consecutive cells starting at
// stackPtr; those cells become the callee's parameters. The pointer then
// walks back to the frame base and the memoized body code is spliced in.
// For a non-void callee the return value ends up in the cell at stackPtr.
func (g *Generator) genCall(call *ast.FuncCall, exprPosition bool) error {
	fn, ok := g.funcs[call.Name]
	if !ok {
		return diag.CodeGenf(call.Line(), "undefined function '%s'", call.Name)
	}
	for _, name := range g.inlining {
		if name == call.Name {
			return diag.CodeGenf(call.Line(), "recursive function '%s'", call.Name)
		}
	}
	if exprPosition && fn.Void {
		return diag.CodeGenf(call.Line(), "function '%s' has return type void", call.Name)
	}
	if len(call.Args) != fn.Arity {
		return diag.CodeGenf(call.Line(), "function '%s' expects %d arguments, got %d",
			call.Name, fn.Arity, len(call.Args))
	}
	if !fn.compiled {
		if err := g.compileFunction(fn); err != nil {
			return err
		}
	}

	for _, arg := range call.Args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
		g.emit(">")
		g.stackPtr++
	}
	g.emit(strings.Repeat("<", len(call.Args)))
	g.stackPtr -= len(call.Args)
	g.emit(fn.Code)
	return nil
}

// compileFunction expands a function body once and memoizes the result.
//
// The body is generated against a fresh scope stack but the current
// stackPtr; since every template uses relative distances the resulting code
// is independent of where the frame base actually sits. The function's name
// stays on the inlining stack for the duration so any call cycle back into
// it is caught as recursion.
func (g *Generator) compileFunction(fn *Function) error {
	g.inlining = append(g.inlining, fn.Name)
	oldScopes := g.scopes
	oldCode := g.code
	g.scopes = []map[string]int{{}}
	g.code = &strings.Builder{}
	defer func() {
		g.inlining = g.inlining[:len(g.inlining)-1]
		g.scopes = oldScopes
		g.code = oldCode
	}()

	for _, param := range fn.node.Params {
		if param.Type == "void" {
			return diag.CodeGenf(param.Line(), "parameter '%s' has type 'void'", param.Name)
		}
		if g.declared(param.Name) {
			return diag.CodeGenf(param.Line(), "parameter '%s' is declared multiple times", param.Name)
		}
		g.defineVar(param.Name)
	}

	// parameters and body share one scope, so a body declaration may not
	// reuse a parameter name
	hasReturn := false
	for _, stmt := range fn.node.Body.Statements {
		ret, ok := stmt.(*ast.Return)
		if !ok {
			if err := g.genStatement(stmt); err != nil {
				return err
			}
			continue
		}
		if fn.Void {
			return diag.CodeGenf(ret.Line(), "unexpected 'return' statement in function returning 'void'")
		}
		if err := g.genExpr(ret.Expr); err != nil {
			return err
		}
		// slide the result down over the frame's cells: clear the frame
		// base, then drain the result into it
		if vars := len(g.scopes[len(g.scopes)-1]); vars > 0 {
			left := strings.Repeat("<", vars)
			right := strings.Repeat(">", vars)
			g.emit(left + "[-]" + right + "[-" + left + "+" + right + "]")
		}
		hasReturn = true
		break
	}
	if !hasReturn && !fn.Void {
		return diag.CodeGenf(fn.node.Line(), "function '%s' has no 'return' statement", fn.Name)
	}

	g.exitScope()
	fn.Code = g.code.String()
	fn.compiled = true
	return nil
}
