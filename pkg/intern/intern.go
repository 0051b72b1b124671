// Package intern implements a string interner. Literal strings that appear in
// a compiled program are stored once and referred to by a small stable ID,
// which is what command arguments embed.
package intern

import "sync"

// ID identifies an interned string.
type ID int32

// Interner maps strings to stable IDs. The zero value is not usable; use New.
type Interner struct {
	mu   sync.Mutex
	ids  map[string]ID
	strs []string
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{ids: make(map[string]ID)}
}

// Intern returns the ID for s, assigning a new one if s has not been seen
// before.
func (in *Interner) Intern(s string) ID {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := ID(len(in.strs))
	in.ids[s] = id
	in.strs = append(in.strs, s)
	return id
}

// Get returns the string for an ID previously returned by Intern.
func (in *Interner) Get(id ID) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.strs[id]
}

var global = New()

// Intern interns s in the process-wide interner.
func Intern(s string) ID { return global.Intern(s) }

// Get resolves an ID against the process-wide interner.
func Get(id ID) string { return global.Get(id) }
