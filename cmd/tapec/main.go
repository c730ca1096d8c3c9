package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora"
	"github.com/mileusna/conditional"

	"tapec/internal/ast"
	"tapec/internal/codegen"
	"tapec/internal/compiler"
	"tapec/internal/config"
	"tapec/internal/stdlib"
)

func main() {
	os.Exit(run())
}

func run() int {
	var debugMode, tree, optimize, recompile bool
	flag.BoolVar(&debugMode, "d", false, "print the full diagnostic trace on compiler errors")
	flag.BoolVar(&debugMode, "debug", false, "same as -d")
	flag.BoolVar(&tree, "t", false, "pretty-print the AST before the code")
	flag.BoolVar(&tree, "tree", false, "same as -t")
	flag.BoolVar(&optimize, "o", false, "run the peephole optimizer")
	flag.BoolVar(&optimize, "optimize", false, "same as -o")
	flag.BoolVar(&recompile, "r", false, "force regeneration of the cached standard library")
	flag.BoolVar(&recompile, "recompile", false, "same as -r")
	flag.Usage = usage
	flag.Parse()

	cfg := config.Load()
	au := aurora.NewAurora(cfg.Color)

	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		return 2
	}
	src := flag.Arg(0)
	dest := conditional.String(flag.NArg() == 2, flag.Arg(1), "")

	data, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, au.Red(err.Error()))
		usage()
		return 2
	}

	std, err := stdlib.Load(cfg.StdlibPath, cfg.CacheDir, recompile)
	if err != nil {
		return fail(au, err, debugMode, nil)
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	program, err := compiler.Parse(string(data), name)
	if err != nil {
		return fail(au, err, debugMode, nil)
	}

	if tree {
		fmt.Print(ast.Tree(program))
	}

	code, err := compiler.Generate(program, std, optimize)
	if err != nil {
		return fail(au, err, debugMode, program)
	}

	out := codegen.Format(name, code, cfg.Width)
	if dest == "" {
		fmt.Print(out)
	} else if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, au.Red(err.Error()))
		usage()
		return 2
	}

	if debugMode {
		target := conditional.String(dest == "", "stdout", dest)
		fmt.Fprintln(os.Stderr, au.Cyan(fmt.Sprintf("%d instructions written to %s", len(code), target)))
	}
	return 0
}

// fail reports a compiler error. In debug mode the parsed tree (when the
// parse succeeded) and the stack trace are dumped as well.
func fail(au aurora.Aurora, err error, debugMode bool, program *ast.Program) int {
	fmt.Fprintln(os.Stderr, au.Red("error: "+err.Error()))
	if debugMode {
		if program != nil {
			fmt.Fprint(os.Stderr, spew.Sdump(program))
		}
		os.Stderr.Write(debug.Stack())
	}
	return 1
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tapec [flags] <src> [<dest>]")
	flag.PrintDefaults()
}
