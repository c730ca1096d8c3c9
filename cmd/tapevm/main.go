// tapevm runs a compiled tape-machine program from a file.
package main

import (
	"fmt"
	"os"

	"tapec/internal/tape"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tapevm <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	m := tape.New(os.Stdin, os.Stdout)
	if err := m.Run(string(data)); err != nil {
		fmt.Fprintln(os.Stderr, "runtime error:", err)
		os.Exit(1)
	}
}
