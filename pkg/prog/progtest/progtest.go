// Package progtest provides utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"testing"

	"src.sift.dev/pkg/must"
	"src.sift.dev/pkg/prog"
)

// Output captures the result of one program invocation.
type Output struct {
	Exit   int
	Stdout string
	Stderr string
}

// Run runs a program with the given stdin content and arguments (excluding
// the program name), capturing its exit status and output.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) Output {
	t.Helper()
	in0, in1 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(in1, stdin)
		in1.Close()
	}()
	out0, out1 := must.OK2(os.Pipe())
	err0, err1 := must.OK2(os.Pipe())
	outc := drain(out0)
	errc := drain(err0)

	exit := prog.Run([3]*os.File{in0, out1, err1}, append([]string{"sift"}, args...), p)

	in0.Close()
	out1.Close()
	err1.Close()
	return Output{Exit: exit, Stdout: <-outc, Stderr: <-errc}
}

// drain reads everything from r in the background, so that the program under
// test cannot block on a full pipe buffer.
func drain(r *os.File) <-chan string {
	c := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(r)
		r.Close()
		c <- string(b)
	}()
	return c
}
