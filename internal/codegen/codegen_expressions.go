package codegen

import (
	"strings"

	"tapec/internal/ast"
	"tapec/internal/diag"
)

// binTemplates are the instruction templates for the binary operators.
// Each one runs with the pointer on the right operand (stackPtr+1), combines
// the two adjacent cells into the left one and leaves the pointer where it
// started; the emitter appends the '<' back to the result. Templates clear
// the scratch cells they need before using them, not after — consumers make
// no assumptions about cells above the result. Comparison and logic
// templates produce 0 or 1.
var binTemplates = map[string]string{
	"+":   "[-<+>]",
	"-":   "[-<->]",
	"*":   ">[-]>[-]<<<[->>+<<]>[->[->+<<<+>>]>[-<+>]<<]",
	"/":   ">[-]+>[-]>[-]>[-]<<<<<[->-[>+>>]>[[-<+>]+>+>>]<<<<<]>>>[-<<<+>>>]<<",
	"%":   ">[-]+>[-]>[-]>[-]<<<<<[->-[>+>>]>[[-<+>]+>>>]<<<<<]>>-[-<<+>>]<",
	"==":  "<[->-<]+>[<->[-]]",
	"!=":  "<[->-<]>[<+>[-]]",
	">":   ">[-]>[-]<<[-<[->>+>+<<<]>>[-<<+>>]>[<<<->>>[-]]<<]<[>+<[-]]>[-<+>]",
	">=":  ">[-]>[-]<<<[->[->+>+<<]>[-<+>]>[<<->>[-]]<<<]+>[<->[-]]",
	"<":   ">[-]>[-]<<<[->[->+>+<<]>[-<+>]>[<<->>[-]]<<<]>[<+>[-]]",
	"<=":  ">[-]>[-]<<[-<[->>+>+<<<]>>[-<<+>>]>[<<<->>>[-]]<<]<[>+<[-]]+>[-<->]",
	"and": ">[-]<[<[>>+<<[-]]>[-]]<[-]>>[-<<+>>]<",
	"or":  ">[-]<[>+<[-]]<[>>[-]+<<[-]]>>[-<<+>>]<",
}

// genExpr emits code that leaves the expression's value in the cell at
// stackPtr with the pointer on that cell. Cells below stackPtr other than
// the expression's own reads are untouched.
func (g *Generator) genExpr(expr ast.Expression) error {
	switch expr := expr.(type) {
	case *ast.Int:
		g.emit("[-]" + strings.Repeat("+", ((expr.Value%256)+256)%256))
		return nil
	case *ast.Var:
		return g.genVar(expr)
	case *ast.BinOp:
		return g.genBinOp(expr)
	case *ast.UnOp:
		return g.genUnOp(expr)
	case *ast.FuncCall:
		return g.genCall(expr, true)
	}
	return diag.CodeGenf(expr.Line(), "cannot generate code for %T", expr)
}

// genBinOp evaluates the left operand at stackPtr, the right one at
// stackPtr+1, then applies the operator template on the adjacent pair.
func (g *Generator) genBinOp(expr *ast.BinOp) error {
	template, ok := binTemplates[expr.Op]
	if !ok {
		return diag.CodeGenf(expr.Line(), "unknown operator '%s'", expr.Op)
	}
	if err := g.genExpr(expr.Left); err != nil {
		return err
	}
	g.emit(">")
	g.stackPtr++
	if err := g.genExpr(expr.Right); err != nil {
		return err
	}
	g.stackPtr--
	g.emit(template)
	g.emit("<")
	return nil
}

// genUnOp emits prefix +, - and not.
// Negation and logical not evaluate the operand one cell up and fold it
// into a cleared (or 1-seeded) result cell.
func (g *Generator) genUnOp(expr *ast.UnOp) error {
	switch expr.Op {
	case "+":
		return g.genExpr(expr.Right)
	case "-":
		g.emit("[-]>")
		g.stackPtr++
		if err := g.genExpr(expr.Right); err != nil {
			return err
		}
		g.stackPtr--
		g.emit("[-<->]<")
		return nil
	case "not":
		g.emit("[-]+>")
		g.stackPtr++
		if err := g.genExpr(expr.Right); err != nil {
			return err
		}
		g.stackPtr--
		g.emit("[<->[-]]<")
		return nil
	}
	return diag.CodeGenf(expr.Line(), "unknown operator '%s'", expr.Op)
}

// genVar copies the variable's cell to stackPtr without destroying it:
// drain the source into the result cell and a scratch cell, then drain the
// scratch back into the source. The relative distance is fixed at emission
// time.
func (g *Generator) genVar(expr *ast.Var) error {
	addr, ok := g.lookupVar(expr.Name)
	if !ok {
		return diag.CodeGenf(expr.Line(), "undeclared variable '%s'", expr.Name)
	}
	rel := g.stackPtr - addr
	left := strings.Repeat("<", rel)
	right := strings.Repeat(">", rel)
	g.emit("[-]>[-]<" + left + "[-" + right + "+>+<" + left + "]" + right +
		">[-<" + left + "+" + right + ">]<")
	return nil
}
