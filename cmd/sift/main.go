// Sift is a typed expression language for slicing and summarizing
// line-based data. It compiles a single expression into a small command
// program and runs it against the input stream, printing the result in the
// expression's inferred type.
package main

import (
	"os"

	"src.sift.dev/pkg/buildinfo"
	"src.sift.dev/pkg/interp"
	"src.sift.dev/pkg/lsp"
	"src.sift.dev/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &lsp.Program{}, &interp.Program{})))
}
