package codegen

import (
	"strings"

	"tapec/internal/ast"
	"tapec/internal/diag"
)

// genStatement emits the code for one statement.
// Every case restores the pointer to stackPtr before returning.
func (g *Generator) genStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.Declaration:
		return g.genDeclaration(stmt)
	case *ast.Block:
		return g.genBlock(stmt)
	case *ast.If:
		return g.genIf(stmt)
	case *ast.While:
		return g.genWhile(stmt)
	case *ast.Repeat:
		return g.genRepeat(stmt)
	case *ast.Inline:
		g.emit(stmt.Code)
		return nil
	case *ast.Assign:
		return g.genAssign(stmt)
	case *ast.FuncCall:
		return g.genCall(stmt, false)
	case *ast.Return:
		// returns are handled by compileFunction; one that gets here is
		// either at the top level or nested inside a function body
		return diag.CodeGenf(stmt.Line(), "unexpected 'return' statement")
	}
	return diag.CodeGenf(stmt.Line(), "cannot generate code for %T", stmt)
}

// genDeclaration reserves a cell for the variable and optionally stores the
// initializer. Without an initializer no code is emitted: the tape starts
// zeroed and producers clear their target cell first.
func (g *Generator) genDeclaration(decl *ast.Declaration) error {
	if decl.Type == "void" {
		return diag.CodeGenf(decl.Line(), "variable '%s' has type 'void'", decl.Name)
	}
	if g.declared(decl.Name) {
		return diag.CodeGenf(decl.Line(), "variable '%s' is declared multiple times", decl.Name)
	}
	if decl.Init != nil {
		if err := g.genExpr(decl.Init); err != nil {
			return err
		}
	}
	g.defineVar(decl.Name)
	return nil
}

func (g *Generator) genBlock(block *ast.Block) error {
	g.enterScope()
	for _, stmt := range block.Statements {
		if err := g.genStatement(stmt); err != nil {
			return err
		}
	}
	g.exitScope()
	return nil
}

// genIf emits "{cond}[{then}[-]]" without an else branch.
//
// With one, a flag cell below the condition selects the branch:
// "[-]+>{cond}[{then}<->[-]]<[{else}[-]]". The flag starts at 1; taking the
// then branch decrements it so the else loop never runs. Both loops close
// with [-] so they run at most once regardless of what the branch left in
// the cell.
func (g *Generator) genIf(stmt *ast.If) error {
	if stmt.Else == nil {
		if err := g.genExpr(stmt.Cond); err != nil {
			return err
		}
		g.emit("[")
		if err := g.genStatement(stmt.Then); err != nil {
			return err
		}
		g.emit("[-]]")
		return nil
	}

	g.emit("[-]+>")
	g.stackPtr++
	if err := g.genExpr(stmt.Cond); err != nil {
		return err
	}
	g.emit("[")
	if err := g.genStatement(stmt.Then); err != nil {
		return err
	}
	g.stackPtr--
	g.emit("<->[-]]<[")
	if err := g.genStatement(stmt.Else); err != nil {
		return err
	}
	g.emit("[-]]")
	return nil
}

// genWhile emits "{cond}[{body}{cond}]"; the condition code runs once before
// the loop and again after every iteration.
func (g *Generator) genWhile(stmt *ast.While) error {
	cond, err := g.capture(func() error { return g.genExpr(stmt.Cond) })
	if err != nil {
		return err
	}
	g.emit(cond)
	g.emit("[")
	if err := g.genStatement(stmt.Body); err != nil {
		return err
	}
	g.emit(cond)
	g.emit("]")
	return nil
}

// genRepeat emits "{count}[>{body}<-]". The count lands in the cell at
// stackPtr and serves as the loop counter; the body runs one cell higher.
func (g *Generator) genRepeat(stmt *ast.Repeat) error {
	if err := g.genExpr(stmt.Count); err != nil {
		return err
	}
	g.emit("[>")
	g.stackPtr++
	if err := g.genStatement(stmt.Body); err != nil {
		return err
	}
	g.stackPtr--
	g.emit("<-]")
	return nil
}

// genAssign evaluates the right-hand side at stackPtr and folds it into the
// destination cell rel steps below. The compound templates for *=, /= and %=
// use up to four scratch cells above stackPtr and clear them again.
func (g *Generator) genAssign(stmt *ast.Assign) error {
	addr, ok := g.lookupVar(stmt.Name)
	if !ok {
		return diag.CodeGenf(stmt.Line(), "undeclared variable '%s'", stmt.Name)
	}
	rel := g.stackPtr - addr
	left := strings.Repeat("<", rel)
	right := strings.Repeat(">", rel)
	clearScratch := "[-]>[-]>[-]>[-]>[-]<<<<"

	if err := g.genExpr(stmt.Expr); err != nil {
		return err
	}

	switch stmt.Op {
	case "=":
		g.emit(left + "[-]" + right + "[-" + left + "+" + right + "]")
	case "+=":
		g.emit("[-" + left + "+" + right + "]")
	case "-=":
		g.emit("[-" + left + "-" + right + "]")
	case "*=":
		g.emit(">[-]>[-]<<" + left + "[-" + right + ">+<" + left + "]" + right +
			"[->[->+<<" + left + "+" + right + ">]>[-<+>]<<]" + clearScratch)
	case "/=":
		g.emit(">[-]+>[-]>[-]>[-]<<<<" + left + "[-" + right + "-[>+>>]>[[-<+>]+>+>>]<<<<" +
			left + "]" + right + ">>[-<<" + left + "+" + right + ">>]<<")
	case "%=":
		g.emit(">[-]+>[-]>[-]>[-]<<<<" + left + "[-" + right + "-[>+>>]>[[-<+>]+>>>]<<<<" +
			left + "]" + right + ">-[-<" + left + "+" + right + ">]<" + clearScratch)
	default:
		return diag.CodeGenf(stmt.Line(), "unknown assignment operator '%s'", stmt.Op)
	}
	return nil
}
