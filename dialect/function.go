// Package dialect holds per-dialect SQL function registrations.
//
// A Registry maps a case-sensitive function name to a Function entry: a
// render function plus static metadata (arity, declared return type). The
// visitors consult it while compiling a NamedFunctionNode.
package dialect

import (
	"fmt"
	"sort"
	"sync"
)

// ReturnType is the declared result type of a registered function.
type ReturnType int

const (
	// ReturnString is a generic textual type. It is declared for the host
	// layer and never used for further computation.
	ReturnString ReturnType = iota
)

func (r ReturnType) String() string {
	switch r {
	case ReturnString:
		return "string"
	default:
		return fmt.Sprintf("ReturnType(%d)", int(r))
	}
}

// RenderFunc turns the SQL text of each argument into a SQL fragment.
type RenderFunc func(tokens []string) (string, error)

// Function is a dialect function registration.
type Function struct {
	Name           string
	MinArgs        int
	HasArguments   bool
	ParensIfNoArgs bool
	ReturnType     ReturnType

	// SelectModifier functions render a clause that sits directly after
	// SELECT and replaces DISTINCT.
	SelectModifier bool

	Render RenderFunc
}

// Registry is a set of functions for one dialect. Lookups are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	dialect string
	funcs   map[string]Function
	denied  map[string]string // name -> hint
}

// NewRegistry creates an empty registry for the named dialect.
func NewRegistry(dialect string) *Registry {
	return &Registry{
		dialect: dialect,
		funcs:   make(map[string]Function),
		denied:  make(map[string]string),
	}
}

// Dialect returns the dialect name the registry was created for.
func (r *Registry) Dialect() string { return r.dialect }

// Register adds fn. Registering a previously denied name lifts the denial.
func (r *Registry) Register(fn Function) error {
	if !ValidName(fn.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidFunctionName, fn.Name)
	}
	if fn.Render == nil {
		return fmt.Errorf("register %s: nil render function", fn.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[fn.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, fn.Name)
	}
	delete(r.denied, fn.Name)
	r.funcs[fn.Name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(fn Function) {
	if err := r.Register(fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	if r == nil {
		return Function{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Deny marks name as unsupported by this dialect.
func (r *Registry) Deny(name, hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.funcs, name)
	r.denied[name] = hint
}

// Denied returns an UnsupportedFunctionError when name has been denied.
func (r *Registry) Denied(name string) error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hint, ok := r.denied[name]
	if !ok {
		return nil
	}
	return UnsupportedFunctionError{Function: name, Dialect: r.dialect, Hint: hint}
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidName reports whether name is a non-empty [A-Za-z0-9_] identifier.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

// Postgres returns a registry with the PostgreSQL extensions registered.
func Postgres() *Registry {
	r := NewRegistry("PostgreSQL")
	r.MustRegister(DistinctOn)
	return r
}

// MySQL returns the MySQL registry. DISTINCT ON has no MySQL equivalent.
func MySQL() *Registry {
	r := NewRegistry("MySQL")
	r.Deny(DistinctOnName, "use ROW_NUMBER() OVER (PARTITION BY ...) in a subquery")
	return r
}

// SQLite returns the SQLite registry.
func SQLite() *Registry {
	r := NewRegistry("SQLite")
	r.Deny(DistinctOnName, "use ROW_NUMBER() OVER (PARTITION BY ...) in a subquery")
	return r
}
