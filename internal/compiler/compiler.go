// Package compiler wires the pipeline together: lexing, parsing, code
// generation, the optional peephole pass and output formatting.
package compiler

import (
	"tapec/internal/ast"
	"tapec/internal/codegen"
	"tapec/internal/lexer"
	"tapec/internal/optimizer"
	"tapec/internal/parser"
	"tapec/internal/stdlib"
)

// Parse turns source text into a program AST named name.
func Parse(source, name string) (*ast.Program, error) {
	return parser.New(lexer.New(source)).ParseProgram(name)
}

// Generate emits the instruction stream for a parsed program.
// std seeds the generator with pre-compiled standard-library functions; the
// generator itself is fresh, so nothing leaks between compilations.
func Generate(program *ast.Program, std []stdlib.Entry, optimize bool) (string, error) {
	gen := codegen.New()
	for _, e := range std {
		gen.Define(e.Name, e.Void, e.Arity, e.Code)
	}
	code, err := gen.Generate(program)
	if err != nil {
		return "", err
	}
	if optimize {
		code = optimizer.Optimize(code)
	}
	return code, nil
}

// Compile runs the full pipeline and returns the formatted output.
func Compile(source, name string, std []stdlib.Entry, optimize bool, width int) (string, error) {
	program, err := Parse(source, name)
	if err != nil {
		return "", err
	}
	code, err := Generate(program, std, optimize)
	if err != nil {
		return "", err
	}
	return codegen.Format(name, code, width), nil
}
