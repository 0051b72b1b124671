package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"src.sift.dev/pkg/store"
)

const prompt = "sift> "

// repl runs the interactive prompt. Each accepted line is compiled and run
// against a fresh input stream: the -f file re-opened for every evaluation,
// or empty input when -f was not given.
func (p *Program) repl(fds [3]*os.File) error {
	if !isatty.IsTerminal(fds[0].Fd()) {
		return errors.New("-i requires an interactive terminal")
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	st := openHistory(fds[2])
	if st != nil {
		defer st.Close()
		loadHistory(ln, st, fds[2])
	}

	for {
		line, err := ln.Prompt(prompt)
		switch err {
		case nil:
		case io.EOF:
			fmt.Fprintln(fds[1])
			return nil
		case liner.ErrPromptAborted:
			continue
		default:
			return err
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit", ":exit":
			return nil
		}

		ln.AppendHistory(line)
		if st != nil {
			if _, err := st.AddCmd(line); err != nil {
				fmt.Fprintln(fds[2], "WARNING: cannot save command history:", err)
			}
		}
		p.evaluateInteractive(line, fds)
	}
}

// evaluateInteractive reports errors on stderr and keeps the loop going; a
// bad expression should never terminate the prompt.
func (p *Program) evaluateInteractive(code string, fds [3]*os.File) {
	var in io.Reader = strings.NewReader("")
	if p.inputPath != "" {
		f, err := os.Open(p.inputPath)
		if err != nil {
			fmt.Fprintln(fds[2], "ERROR:", err)
			return
		}
		defer f.Close()
		in = f
	}
	p.evaluate(code, in, fds)
}

// dbPath returns the path of the command history database, following the XDG
// base directory convention.
func dbPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sift", "db.bolt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "sift", "db.bolt"), nil
}

// openHistory opens the history database, degrading to in-memory history
// with a warning when it cannot be opened.
func openHistory(stderr io.Writer) *store.Store {
	path, err := dbPath()
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			var st *store.Store
			if st, err = store.Open(path); err == nil {
				return st
			}
		}
	}
	fmt.Fprintln(stderr, "WARNING: cannot open command history:", err)
	return nil
}

func loadHistory(ln *liner.State, st *store.Store, stderr io.Writer) {
	next, err := st.NextCmdSeq()
	if err == nil {
		var cmds []string
		if cmds, err = st.Cmds(0, next); err == nil {
			for _, cmd := range cmds {
				ln.AppendHistory(cmd)
			}
			return
		}
	}
	fmt.Fprintln(stderr, "WARNING: cannot read command history:", err)
}
