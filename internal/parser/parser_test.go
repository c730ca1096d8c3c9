package parser

import (
	"errors"
	"strings"
	"testing"

	"tapec/internal/ast"
	"tapec/internal/diag"
	"tapec/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := New(lexer.New(input)).ParseProgram("test")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = 1 + 2 * 3;", "x = (1 + (2 * 3));"},
		{"x = 1 * 2 + 3;", "x = ((1 * 2) + 3);"},
		{"x = 1 - 2 - 3;", "x = ((1 - 2) - 3);"},
		{"x = 10 / 2 % 3;", "x = ((10 / 2) % 3);"},
		{"x = -1 + 2;", "x = ((-1) + 2);"},
		{"x = -1 * 2;", "x = ((-1) * 2);"},
		{"x = (1 + 2) * 3;", "x = ((1 + 2) * 3);"},
		{"x = a < b == c > d;", "x = ((a < b) == (c > d));"},
		{"x = a <= b or a >= c;", "x = ((a <= b) or (a >= c));"},
		{"x = a or b and c;", "x = (a or (b and c));"},
		{"x = not a == b;", "x = (not (a == b));"},
		{"x = not not a;", "x = (not (not a));"},
		{"x = not a and b;", "x = ((not a) and b);"},
		{"x = a + f(b) * c;", "x = (a + (f(b) * c));"},
		{"x = f(a, b + c);", "x = f(a, (b + c));"},
		{"x = 1 == 2 != 3;", "x = ((1 == 2) != 3);"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q - expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("%q - got %q", tt.input, got)
		}
	}
}

func TestDeclarations(t *testing.T) {
	program := parseProgram(t, "int a;\nint b = 2 + 3;")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}

	first, ok := program.Statements[0].(*ast.Declaration)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.Declaration", program.Statements[0])
	}
	if first.Name != "a" || first.Type != "int" || first.Init != nil {
		t.Errorf("unexpected declaration: %s", first)
	}
	if first.Line() != 1 {
		t.Errorf("declaration line = %d, want 1", first.Line())
	}

	second := program.Statements[1].(*ast.Declaration)
	if second.Init == nil || second.Init.String() != "(2 + 3)" {
		t.Errorf("unexpected initializer: %s", second)
	}
	if second.Line() != 2 {
		t.Errorf("declaration line = %d, want 2", second.Line())
	}
}

func TestFunctionDefinition(t *testing.T) {
	program := parseProgram(t, "int add(int a, int b) { return a + b; }")
	fn, ok := program.Statements[0].(*ast.Function)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Function", program.Statements[0])
	}
	if fn.Name != "add" || fn.ReturnType != "int" {
		t.Errorf("unexpected function header: %s %s", fn.ReturnType, fn.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected parameters: %v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*ast.Return); !ok {
		t.Errorf("body statement is %T, want *ast.Return", fn.Body.Statements[0])
	}
}

func TestNoParamFunction(t *testing.T) {
	program := parseProgram(t, "void f() { }")
	fn := program.Statements[0].(*ast.Function)
	if len(fn.Params) != 0 {
		t.Errorf("expected no parameters, got %d", len(fn.Params))
	}
	if len(fn.Body.Statements) != 0 {
		t.Errorf("expected empty body, got %d statements", len(fn.Body.Statements))
	}
}

func TestDanglingElse(t *testing.T) {
	program := parseProgram(t, "if (a) if (b) x = 1; else x = 2;")
	outer := program.Statements[0].(*ast.If)
	if outer.Else != nil {
		t.Fatal("else bound to the outer if; want the nearest one")
	}
	inner, ok := outer.Then.(*ast.If)
	if !ok {
		t.Fatalf("then branch is %T, want *ast.If", outer.Then)
	}
	if inner.Else == nil {
		t.Fatal("inner if has no else branch")
	}
}

func TestControlStatements(t *testing.T) {
	program := parseProgram(t, `
while (n) { n -= 1; }
repeat (10) x += 1;
{ int y = 1; y = 2; }
inline +-;
f();
g(1, 2, 3);
`)
	wantTypes := []string{"*ast.While", "*ast.Repeat", "*ast.Block", "*ast.Inline", "*ast.FuncCall", "*ast.FuncCall"}
	if len(program.Statements) != len(wantTypes) {
		t.Fatalf("expected %d statements, got %d", len(wantTypes), len(program.Statements))
	}
	for i, want := range wantTypes {
		if got := typeName(program.Statements[i]); got != want {
			t.Errorf("statement %d is %s, want %s", i, got, want)
		}
	}

	call := program.Statements[5].(*ast.FuncCall)
	if len(call.Args) != 3 {
		t.Errorf("expected 3 arguments, got %d", len(call.Args))
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *ast.While:
		return "*ast.While"
	case *ast.Repeat:
		return "*ast.Repeat"
	case *ast.Block:
		return "*ast.Block"
	case *ast.Inline:
		return "*ast.Inline"
	case *ast.FuncCall:
		return "*ast.FuncCall"
	}
	return "unknown"
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int;", "expected 'IDENT'"},
		{"int x", "unexpected EOF"},
		{"x = 1", "unexpected EOF"},
		{"x;", "expected function call or assignment"},
		{"x + 1;", "expected function call or assignment"},
		{"if (x) { y = 1; ", "unexpected EOF"},
		{"if x { }", "expected '('"},
		{"f(1, ;", "unexpected token ';'"},
		{"f(1 2);", "expected ','"},
		{"int f(int) { }", "expected 'IDENT'"},
		{"return;", "unexpected token ';'"},
		{"else x = 1;", "unexpected token 'else'"},
		{"int x = ;", "unexpected token ';'"},
		{"}", "unexpected token '}'"},
	}

	for _, tt := range tests {
		_, err := New(lexer.New(tt.input)).ParseProgram("test")
		if err == nil {
			t.Errorf("%q - expected parse error", tt.input)
			continue
		}
		var parseErr *diag.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%q - error is %T, want *diag.ParseError", tt.input, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.expected) {
			t.Errorf("%q - error %q does not contain %q", tt.input, err.Error(), tt.expected)
		}
	}
}

func TestLexErrorWinsOverParseError(t *testing.T) {
	_, err := New(lexer.New("int x = $;")).ParseProgram("test")
	var lexErr *diag.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("error is %T (%v), want *diag.LexError", err, err)
	}
}

func TestErrorLineNumbers(t *testing.T) {
	input := "int x = 1;\nint y = 2;\nz +;\n"
	_, err := New(lexer.New(input)).ParseProgram("test")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("error = %q, want line 3 prefix", err.Error())
	}
}

func TestLeafLinesNonDecreasing(t *testing.T) {
	input := `
int a = 1;
int sum(int x, int y) {
    return x + y;
}
while (a) {
    a -= 1;
    if (a == 1) { sum(a, 2); } else { a = 0; }
}
`
	program := parseProgram(t, input)
	last := 0
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if line := n.Line(); line > 0 {
			if line < last {
				t.Fatalf("line %d after line %d", line, last)
			}
			last = line
		}
		switch n := n.(type) {
		case *ast.Function:
			walk(n.Body)
		case *ast.Block:
			for _, s := range n.Statements {
				walk(s)
			}
		case *ast.Declaration:
			if n.Init != nil {
				walk(n.Init)
			}
		case *ast.While:
			walk(n.Cond)
			walk(n.Body)
		case *ast.If:
			walk(n.Cond)
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *ast.Assign:
			walk(n.Expr)
		case *ast.FuncCall:
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Return:
			walk(n.Expr)
		}
	}
	for _, s := range program.Statements {
		walk(s)
	}
}
