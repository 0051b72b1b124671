package diag

import "testing"

type testTag struct{}

func (testTag) ErrorTag() string { return "test error" }

func TestError(t *testing.T) {
	err := &Error[testTag]{
		Message: "bad thing",
		Context: *NewContext("script", "do bad thing", Ranging{3, 12}),
	}
	want := "test error: script, line 1: bad thing: bad thing"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := err.Range(); got != (Ranging{3, 12}) {
		t.Errorf("Range() = %v, want %v", got, Ranging{3, 12})
	}
}

func TestContextDescribe(t *testing.T) {
	tests := []struct {
		name    string
		context *Context
		want    string
	}{
		{
			"single line",
			NewContext("a.sift", "count(@)", Ranging{0, 8}),
			"a.sift, line 1: count(@)",
		},
		{
			"second line",
			NewContext("a.sift", "x = 1\nx + y", Ranging{10, 11}),
			"a.sift, line 2: y",
		},
		{
			"multi line",
			NewContext("a.sift", "x +\ny", Ranging{0, 5}),
			`a.sift, line 1-2: x +\ny`,
		},
		{
			"empty culprit",
			NewContext("a.sift", "abc", PointRanging(3)),
			"a.sift, line 1",
		},
		{
			"invalid range",
			NewContext("a.sift", "abc", Ranging{2, 9}),
			"a.sift, invalid position 2-9",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.context.Describe(); got != test.want {
				t.Errorf("Describe() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestMixedRanging(t *testing.T) {
	got := MixedRanging(Ranging{1, 3}, Ranging{5, 9})
	if got != (Ranging{1, 9}) {
		t.Errorf("MixedRanging = %v, want %v", got, Ranging{1, 9})
	}
}
