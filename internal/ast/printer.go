package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Tree renders a program as an indented tree, one node per line.
// This is what the compiler's -t flag prints.
func Tree(p *Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program %s\n", p.Name)
	for _, s := range p.Statements {
		writeTree(&b, s, 1)
	}
	return b.String()
}

func writeTree(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("    ", depth)

	switch n := n.(type) {
	case *Declaration:
		fmt.Fprintf(b, "%sdecl %s %s\n", indent, n.Type, n.Name)
		if n.Init != nil {
			writeTree(b, n.Init, depth+1)
		}
	case *Function:
		params := make([]string, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, p.Type+" "+p.Name)
		}
		fmt.Fprintf(b, "%sfunc %s %s(%s)\n", indent, n.ReturnType, n.Name, strings.Join(params, ", "))
		writeTree(b, n.Body, depth+1)
	case *Block:
		fmt.Fprintf(b, "%sblock\n", indent)
		for _, s := range n.Statements {
			writeTree(b, s, depth+1)
		}
	case *If:
		fmt.Fprintf(b, "%sif\n", indent)
		writeTree(b, n.Cond, depth+1)
		writeTree(b, n.Then, depth+1)
		if n.Else != nil {
			fmt.Fprintf(b, "%selse\n", indent)
			writeTree(b, n.Else, depth+1)
		}
	case *While:
		fmt.Fprintf(b, "%swhile\n", indent)
		writeTree(b, n.Cond, depth+1)
		writeTree(b, n.Body, depth+1)
	case *Repeat:
		fmt.Fprintf(b, "%srepeat\n", indent)
		writeTree(b, n.Count, depth+1)
		writeTree(b, n.Body, depth+1)
	case *Return:
		fmt.Fprintf(b, "%sreturn\n", indent)
		writeTree(b, n.Expr, depth+1)
	case *Inline:
		fmt.Fprintf(b, "%sinline %q\n", indent, n.Code)
	case *Assign:
		fmt.Fprintf(b, "%s%s %s\n", indent, n.Op, n.Name)
		writeTree(b, n.Expr, depth+1)
	case *FuncCall:
		fmt.Fprintf(b, "%scall %s\n", indent, n.Name)
		for _, a := range n.Args {
			writeTree(b, a, depth+1)
		}
	case *BinOp:
		fmt.Fprintf(b, "%s%s\n", indent, n.Op)
		writeTree(b, n.Left, depth+1)
		writeTree(b, n.Right, depth+1)
	case *UnOp:
		fmt.Fprintf(b, "%sunary %s\n", indent, n.Op)
		writeTree(b, n.Right, depth+1)
	case *Var:
		fmt.Fprintf(b, "%svar %s\n", indent, n.Name)
	case *Int:
		fmt.Fprintf(b, "%sint %s\n", indent, strconv.Itoa(n.Value))
	}
}
