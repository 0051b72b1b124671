package funcs

import (
	"errors"
	"fmt"
	"strings"

	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// The cut and grep family: substring splitting and regex matching.

var (
	// ErrEmptyDelimiter is returned by cut when the delimiter is empty.
	ErrEmptyDelimiter = errors.New("empty delimiter in 'cut'")
	// ErrSubstrNotFound is returned by the indexed form of cut when the
	// string splits into fewer pieces than requested.
	ErrSubstrNotFound = errors.New("Substring not found in 'cut'")
)

func init() {
	strT := types.StringType
	strArrT := types.ArrOf(types.StringType)

	Add("cut", types.TupOf(strT, strT), strArrT, cut)
	Add("cut", types.TupOf(strT, strT, types.UIntType), strT, cutn)
	Add("cut", types.TupOf(strT, strT, types.IntType), strT, cutn)
	Add("grep", types.TupOf(strT, strT), strArrT, grep)
	Add("grepif", types.TupOf(strT, strT), types.UIntType, grepif)
}

// cut splits a string on a literal delimiter. Empty pieces are preserved, so
// joining the result with the delimiter reproduces the input.
func cut(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	str := args.Fields[0].(*vals.String).V
	del := args.Fields[1].(*vals.String).V
	if del == "" {
		return ErrEmptyDelimiter
	}

	res := out.(*vals.Array)
	res.Elems = res.Elems[:0]
	for _, piece := range strings.Split(str, del) {
		res.Elems = append(res.Elems, &vals.String{V: piece})
	}
	return nil
}

// cutn returns the n-th (zero-based) piece of the same split.
func cutn(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	str := args.Fields[0].(*vals.String).V
	del := args.Fields[1].(*vals.String).V
	if del == "" {
		return ErrEmptyDelimiter
	}

	var nth uint64
	switch n := args.Fields[2].(type) {
	case *vals.UInt:
		nth = n.V
	case *vals.Int:
		if n.V < 0 {
			return fmt.Errorf("negative index %d in 'cut'", n.V)
		}
		nth = uint64(n.V)
	}

	pieces := strings.Split(str, del)
	if nth >= uint64(len(pieces)) {
		return ErrSubstrNotFound
	}
	out.(*vals.String).V = pieces[nth]
	return nil
}

// grep returns all regex matches in a string. If the pattern has capturing
// groups, each group of each match is returned instead of the whole match.
func grep(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	str := args.Fields[0].(*vals.String).V
	pattern := args.Fields[1].(*vals.String).V

	re, err := compileRegex(pattern)
	if err != nil {
		return err
	}

	res := out.(*vals.Array)
	res.Elems = res.Elems[:0]
	for _, match := range re.FindAllStringSubmatch(str, -1) {
		if len(match) == 1 {
			res.Elems = append(res.Elems, &vals.String{V: match[0]})
		} else {
			for _, group := range match[1:] {
				res.Elems = append(res.Elems, &vals.String{V: group})
			}
		}
	}
	return nil
}

// grepif returns 1 if the regex matches anywhere in the string, 0 otherwise.
func grepif(arg, out vals.Value) error {
	args := arg.(*vals.Tuple)
	str := args.Fields[0].(*vals.String).V
	pattern := args.Fields[1].(*vals.String).V

	re, err := compileRegex(pattern)
	if err != nil {
		return err
	}

	res := out.(*vals.UInt)
	if re.MatchString(str) {
		res.V = 1
	} else {
		res.V = 0
	}
	return nil
}
