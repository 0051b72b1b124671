package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "db.bolt"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCmd(t *testing.T) {
	st := testStore(t)

	start, err := st.NextCmdSeq()
	if err != nil {
		t.Fatal(err)
	}
	if start != 1 {
		t.Errorf("NextCmdSeq of a fresh store = %d, want 1", start)
	}

	cmds := []string{`count(array(@))`, `[int(@)]`, `sum(array([int(@)]))`}
	for i, cmd := range cmds {
		seq, err := st.AddCmd(cmd)
		if err != nil {
			t.Fatal(err)
		}
		if seq != start+i {
			t.Errorf("AddCmd returned seq %d, want %d", seq, start+i)
		}
	}

	for i, want := range cmds {
		cmd, err := st.Cmd(start + i)
		if err != nil {
			t.Errorf("Cmd(%d) -> error %v", start+i, err)
		}
		if cmd != want {
			t.Errorf("Cmd(%d) = %q, want %q", start+i, cmd, want)
		}
	}

	if _, err := st.Cmd(start + len(cmds)); !errors.Is(err, ErrNoMatchingCmd) {
		t.Errorf("Cmd on an absent seq -> error %v, want ErrNoMatchingCmd", err)
	}

	next, err := st.NextCmdSeq()
	if err != nil {
		t.Fatal(err)
	}
	if next != start+len(cmds) {
		t.Errorf("NextCmdSeq = %d, want %d", next, start+len(cmds))
	}
}

func TestCmds(t *testing.T) {
	st := testStore(t)
	for _, cmd := range []string{"a", "b", "c", "d"} {
		if _, err := st.AddCmd(cmd); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		from, upto int
		want       []string
	}{
		{1, 5, []string{"a", "b", "c", "d"}},
		{2, 4, []string{"b", "c"}},
		{3, 3, nil},
		{5, 10, nil},
	}
	for _, test := range tests {
		cmds, err := st.Cmds(test.from, test.upto)
		if err != nil {
			t.Errorf("Cmds(%d, %d) -> error %v", test.from, test.upto, err)
		}
		if diff := cmp.Diff(test.want, cmds); diff != "" {
			t.Errorf("Cmds(%d, %d) (-want +got):\n%s", test.from, test.upto, diff)
		}
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.bolt")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddCmd("persisted"); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	cmd, err := st.Cmd(1)
	if err != nil {
		t.Fatal(err)
	}
	if cmd != "persisted" {
		t.Errorf("Cmd(1) after reopening = %q, want %q", cmd, "persisted")
	}
}
