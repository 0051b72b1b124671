package vm_test

import (
	"strings"
	"testing"

	"src.sift.dev/pkg/compile"
	"src.sift.dev/pkg/must"
	"src.sift.dev/pkg/parse"
	"src.sift.dev/pkg/tt"
	"src.sift.dev/pkg/vm"
)

// eval compiles an expression and runs it against the given input, returning
// the printed output.
func eval(code, input string) (string, error) {
	src := parse.Source{Name: "test", Code: code}
	n := must.OK1(parse.Parse(src))
	p := must.OK1(compile.Compile(src, n))
	var sb strings.Builder
	if err := vm.Execute(p, strings.NewReader(input), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func TestExecute_Scalars(t *testing.T) {
	tt.Test(t, tt.Fn("eval", eval), tt.Table{
		tt.Args("1 + 2", "").Rets("3\n", error(nil)),
		tt.Args("10 - 4 * 2", "").Rets("2\n", error(nil)),
		tt.Args("7 / 2", "").Rets("3\n", error(nil)),
		tt.Args("7u / 2u", "").Rets("3\n", error(nil)),
		tt.Args("7 % 3", "").Rets("1\n", error(nil)),
		tt.Args("-7 % 3", "").Rets("-1\n", error(nil)),
		tt.Args("7.0 / 2", "").Rets("3.5\n", error(nil)),
		tt.Args("1 + 0.5", "").Rets("1.5\n", error(nil)),
		tt.Args("1u + 2u", "").Rets("3\n", error(nil)),
		tt.Args("2 ** 10", "").Rets("1024\n", error(nil)),
		tt.Args("2 ** 3 ** 2", "").Rets("512\n", error(nil)),
		tt.Args("-2 ** 2", "").Rets("4\n", error(nil)),
		tt.Args("-(1 + 2)", "").Rets("-3\n", error(nil)),
		tt.Args("12 & 10", "").Rets("8\n", error(nil)),
		tt.Args("12 | 10", "").Rets("14\n", error(nil)),
		tt.Args("12 ^ 10", "").Rets("6\n", error(nil)),
		tt.Args("~0", "").Rets("-1\n", error(nil)),
		// Strings print bare at the top level.
		tt.Args(`"hello"`, "").Rets("hello\n", error(nil)),
		tt.Args("(1, (2u, 3.5))", "").Rets("(1,(2,3.5))\n", error(nil)),
		// Real division by zero follows IEEE, integral is an error.
		tt.Args("1.0 / 0", "").Rets("+Inf\n", error(nil)),
		tt.Args("1 / 0", "").Rets("", vm.ErrDivByZero),
		tt.Args("1u / 0u", "").Rets("", vm.ErrDivByZero),
		tt.Args("1 % 0", "").Rets("", vm.ErrModByZero),
	})
}

func TestExecute_Bindings(t *testing.T) {
	tt.Test(t, tt.Fn("eval", eval), tt.Table{
		tt.Args("x = 2; x * x + x", "").Rets("6\n", error(nil)),
		tt.Args("x = 2; y = x + 1; x * y", "").Rets("6\n", error(nil)),
		// The inner binding shadows the outer one inside its body only.
		tt.Args("x = 1; (x = 2; x) + x", "").Rets("3\n", error(nil)),
	})
}

func TestExecute_Input(t *testing.T) {
	tt.Test(t, tt.Fn("eval", eval), tt.Table{
		tt.Args("@", "a\nb\n").Rets("[\"a\",\"b\"]\n", error(nil)),
		tt.Args("@", "").Rets("[]\n", error(nil)),
		tt.Args("count(array(@))", "a\nbb\n").Rets("2\n", error(nil)),
		tt.Args("[count(@)]", "a\nbb\nccc\n").Rets("[1,2,3]\n", error(nil)),
		tt.Args("[count(@) * 2u]", "a\nbb\n").Rets("[2,4]\n", error(nil)),
		tt.Args("sum(array([int(@)]))", "1\n2\n3\n").Rets("6\n", error(nil)),
		tt.Args("avg(array([int(@)]))", "1\n2\n").Rets("1.5\n", error(nil)),
		tt.Args(`join(array([upper(@)]), ",")`, "a\nb\n").Rets("A,B\n", error(nil)),
		// The last line counts even without a newline.
		tt.Args("[count(@)]", "a\nbb").Rets("[1,2]\n", error(nil)),
	})
}

func TestExecute_Collections(t *testing.T) {
	tt.Test(t, tt.Fn("eval", eval), tt.Table{
		tt.Args(`[cut(@, ",")]`, "a,b\nc\n").
			Rets("[[\"a\",\"b\"],[\"c\"]]\n", error(nil)),
		tt.Args(`flat([cut(@, ",")])`, "a,b\nc\n").
			Rets("[\"a\",\"b\",\"c\"]\n", error(nil)),
		tt.Args(`array(flat([cut(@, ",")]))[1u]`, "a,b\nc\n").
			Rets("b\n", error(nil)),
		tt.Args("a = array(@); a[0u]", "x\ny\n").Rets("x\n", error(nil)),
		tt.Args("a = array(@); a[1]", "x\ny\n").Rets("y\n", error(nil)),
		tt.Args("{@ -> count(@)}", "a\nbb\n").
			Rets("{\"a\": 1,\"bb\": 2}\n", error(nil)),
		tt.Args(`m = {@ -> count(@)}; m["bb"]`, "a\nbb\n").Rets("2\n", error(nil)),
		tt.Args("tabulate([(@, count(@))])", "a\nbb\n").
			Rets("{\"a\": 1,\"bb\": 2}\n", error(nil)),
		// Duplicate keys: the last pair wins.
		tt.Args("{@ -> count(@)}", "a\nbb\na\n").
			Rets("{\"a\": 1,\"bb\": 2}\n", error(nil)),
	})
}

func TestExecute_GeneratorSources(t *testing.T) {
	tt.Test(t, tt.Fn("eval", eval), tt.Table{
		// Over an array.
		tt.Args("a = array(@); [upper(@) : a]", "x\ny\n").
			Rets("[\"X\",\"Y\"]\n", error(nil)),
		// Over a map: elements are key-value pairs in sorted key order.
		tt.Args("m = {@ -> count(@)}; [@ : m]", "a\nbb\n").
			Rets("[(\"a\",1),(\"bb\",2)]\n", error(nil)),
	})
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		code, input, wantErr string
	}{
		{"a = array(@); a[5]", "x\n", "array index out of range: 5"},
		{`m = {@ -> count(@)}; m["nope"]`, "a\n", "key not found"},
		{"[int(@)]", "1\noops\n", "cannot parse as Int"},
		{`cut("a", "")`, "", "empty delimiter"},
		{"avg(array([int(@)]))", "", "average of an empty array"},
	}
	for _, test := range tests {
		_, err := eval(test.code, test.input)
		if err == nil {
			t.Errorf("evaluating %q did not fail", test.code)
			continue
		}
		if !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("evaluating %q: got error %q, want one containing %q",
				test.code, err, test.wantErr)
		}
	}
}

func TestExecute_LiteralsSurviveReruns(t *testing.T) {
	// The body closure runs once per element; literals and bound variables
	// inside it must not be clobbered by earlier iterations.
	got, err := eval("[int(@) * 10 + 1]", "1\n2\n3\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "[11,21,31]\n" {
		t.Errorf("eval = %q, want [11,21,31]", got)
	}
}
