// Package funcs implements the builtin function registry.
//
// Functions are overloaded by exact structural argument type: a name maps to
// an ordered list of (argument type, result type, implementation) records,
// and a call site resolves to the first record whose argument type equals
// the offered one. Multi-argument calls offer a tuple type.
//
// Builtins are grouped into families, one file per family, each registering
// itself in an init function.
package funcs

import (
	"regexp"
	"sort"
	"sync"

	"src.sift.dev/pkg/intern"
	"src.sift.dev/pkg/types"
	"src.sift.dev/pkg/vals"
)

// Impl is a native function implementation. It reads its argument from arg
// and writes its result into the pre-allocated cell out.
type Impl func(arg, out vals.Value) error

type record struct {
	argType types.Type
	retType types.Type
	impl    Impl
}

var (
	mu       sync.RWMutex
	registry = make(map[string][]record)
)

// Add registers an overload for name. Overloads are tried in registration
// order.
func Add(name string, argType, retType types.Type, impl Impl) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = append(registry[name], record{argType, retType, impl})
}

// Resolve finds the first overload of name whose argument type equals
// argType. The last return value is false if name is unknown or no overload
// matches.
func Resolve(name string, argType types.Type) (Impl, types.Type, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, rec := range registry[name] {
		if rec.argType.Equal(argType) {
			return rec.impl, rec.retType, true
		}
	}
	return nil, types.NoneType, false
}

// Known reports whether any overload is registered for name.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return len(registry[name]) > 0
}

// Names returns the names of all registered functions, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Regexes are compiled lazily on first use and cached under the interned
// pattern for the lifetime of the process.
var (
	regexMu    sync.Mutex
	regexCache = make(map[intern.ID]*regexp.Regexp)
)

func compileRegex(pattern string) (*regexp.Regexp, error) {
	id := intern.Intern(pattern)
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[id]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache[id] = re
	return re, nil
}
