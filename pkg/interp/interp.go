// Package interp implements the interpreter subprogram, the default mode of
// sift: compile the expression given on the command line and run it against
// the input stream, one line per sequence element.
package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"src.sift.dev/pkg/compile"
	"src.sift.dev/pkg/logutil"
	"src.sift.dev/pkg/parse"
	"src.sift.dev/pkg/prog"
	"src.sift.dev/pkg/vm"
)

var logger = logutil.GetLogger("[interp] ")

// Program is the interpreter subprogram.
type Program struct {
	v, vv, vvv  bool
	inputPath   string
	compileOnly bool
	interactive bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.v, "v", false, "dump the syntax tree before running")
	fs.BoolVar(&p.vv, "vv", false, "like -v, and also dump the result type")
	fs.BoolVar(&p.vvv, "vvv", false, "like -vv, and also dump the compiled commands")
	fs.StringVar(&p.inputPath, "f", "", "read input from this file instead of stdin")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "compile the expression and print its type, without running it")
	fs.BoolVar(&p.interactive, "i", false, "run an interactive prompt")
}

func (p *Program) verbosity() int {
	switch {
	case p.vvv:
		return 3
	case p.vv:
		return 2
	case p.v:
		return 1
	}
	return 0
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if p.interactive {
		return p.repl(fds)
	}
	if len(args) == 0 {
		return prog.BadUsage("no expression given")
	}
	code := strings.Join(args, " ")

	in := io.Reader(fds[0])
	if p.inputPath != "" {
		f, err := os.Open(p.inputPath)
		if err != nil {
			return fail(fds[2], err)
		}
		defer f.Close()
		in = f
	}
	return p.evaluate(code, in, fds)
}

// evaluate compiles and runs one expression. Panics from the pipeline are
// caught so that a bug in the interpreter doesn't crash with a stack trace
// mid-stream.
func (p *Program) evaluate(code string, in io.Reader, fds [3]*os.File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("panic: %v", r)
			fmt.Fprintln(fds[2], "UNKNOWN ERROR.")
			err = prog.Exit(1)
		}
	}()

	src := parse.Source{Name: "expr", Code: code}
	n, perr := parse.Parse(src)
	if perr != nil {
		return fail(fds[2], perr)
	}
	if p.verbosity() >= 1 {
		fmt.Fprintln(fds[2], parse.Dump(n))
	}

	prg, cerr := compile.Compile(src, n)
	if cerr != nil {
		return fail(fds[2], cerr)
	}
	if p.verbosity() >= 2 {
		fmt.Fprintln(fds[2], "type:", prg.Type)
	}
	if p.verbosity() >= 3 {
		fmt.Fprint(fds[2], prg.Dump())
	}

	if p.compileOnly {
		fmt.Fprintln(fds[1], prg.Type)
		return nil
	}
	if xerr := vm.Execute(prg, in, fds[1]); xerr != nil {
		return fail(fds[2], xerr)
	}
	return nil
}

func fail(w io.Writer, err error) error {
	fmt.Fprintln(w, "ERROR:", err)
	return prog.Exit(1)
}
