package vals

import (
	"fmt"
	"io"
	"sort"

	"src.sift.dev/pkg/types"
)

// Map is an association from keys to values. Keys are compared structurally,
// using their printed representation as the hash key. Iteration and printing
// order is the sorted order of key representations, so output is
// deterministic.
type Map struct {
	KeyType types.Type
	ValType types.Type

	entries map[string]MapEntry
}

// MapEntry is a key-value pair stored in a Map.
type MapEntry struct {
	Key Value
	Val Value
}

// NewMap creates an empty Map with the given key and value types.
func NewMap(keyType, valType types.Type) *Map {
	return &Map{keyType, valType, make(map[string]MapEntry)}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Put inserts an entry, overwriting any existing entry with an equal key. The
// map adopts both cells.
func (m *Map) Put(key, val Value) {
	m.entries[ReprString(key)] = MapEntry{key, val}
}

// Get looks up the entry for key.
func (m *Map) Get(key Value) (MapEntry, bool) {
	e, ok := m.entries[ReprString(key)]
	return e, ok
}

func (m *Map) clear() {
	m.entries = make(map[string]MapEntry)
}

// Fill clears the map and drains seq into it. Each produced element must be
// a pair tuple; key and value are cloned. A later pair with an equal key
// overwrites an earlier one.
func (m *Map) Fill(seq Sequencer) error {
	m.clear()
	for {
		v, ok, err := seq.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		pair, ok := v.(*Tuple)
		if !ok || len(pair.Fields) != 2 {
			return fmt.Errorf("internal error: map filled from %T", v)
		}
		ck, err := Clone(m.KeyType, pair.Fields[0])
		if err != nil {
			return err
		}
		cv, err := Clone(m.ValType, pair.Fields[1])
		if err != nil {
			return err
		}
		m.Put(ck, cv)
	}
}

// Index copies the value for the given key into out. A missing key is a
// lookup error.
func (m *Map) Index(keyType types.Type, key, out Value) error {
	e, ok := m.Get(key)
	if !ok {
		return fmt.Errorf("key not found: %s", ReprString(key))
	}
	return Copy(out, e.Val)
}

func (m *Map) sortedKeys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Map) Repr(w io.Writer) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, k := range m.sortedKeys() {
		e := m.entries[k]
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := e.Key.Repr(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ": "); err != nil {
			return err
		}
		if err := e.Val.Repr(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}
