// Package builtins implements Avon's standard function library (spec.md
// §4.4): pure collection/string/conversion functions, the JSON/YAML codec
// functions, and the path-guarded I/O functions, all bound into a top-level
// Environment as ordinary Function values.
//
// Grounded on the pack's registry/category-metadata shape
// (CWBudde-go-dws/internal/interp/builtins/registry.go), adapted from a
// case-insensitive single global registry to a case-sensitive one (Avon, a
// fresh design, has no reason to carry DWScript's case-insensitivity) built
// fresh per Environment so embedders can register additional functions
// without a shared mutable global.
package builtins

import (
	"sort"
	"sync"

	"github.com/avon-lang/avon/internal/eval"
)

// Category groups built-ins for documentation and introspection purposes;
// it has no effect on lookup.
type Category string

const (
	CategoryCollection Category = "collection"
	CategoryString     Category = "string"
	CategoryConversion Category = "conversion"
	CategoryJSON       Category = "json"
	CategoryYAML       Category = "yaml"
	CategoryIO         Category = "io"
	CategorySystem     Category = "system"
	CategoryDeploy     Category = "deploy"
)

// FunctionInfo holds metadata about a registered built-in.
type FunctionInfo struct {
	Name        string
	Arity       int
	Category    Category
	Description string
	Fn          eval.NativeFunc
}

// Registry is a named collection of built-in functions. It is built fresh
// per embedding (see NewStandardRegistry) rather than shared as a package
// global, so nothing here needs a lock against concurrent registration from
// unrelated embedders; the mutex still guards concurrent lookups, which do
// happen from a single running program's perspective once Bind has handed
// the functions to an Environment that multiple goroutines might read (the
// evaluator itself is single-threaded, but a host could still hold a
// Registry open for introspection from another goroutine).
type Registry struct {
	mu         sync.RWMutex
	functions  map[string]*FunctionInfo
	categories map[Category][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions:  make(map[string]*FunctionInfo),
		categories: make(map[Category][]string),
	}
}

// Register adds or replaces a built-in function.
func (r *Registry) Register(name string, arity int, category Category, description string, fn eval.NativeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[name]; !exists {
		r.categories[category] = append(r.categories[category], name)
	}
	r.functions[name] = &FunctionInfo{
		Name:        name,
		Arity:       arity,
		Category:    category,
		Description: description,
		Fn:          fn,
	}
}

// Get looks up a built-in by name.
func (r *Registry) Get(name string) (*FunctionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.functions[name]
	return info, ok
}

// GetByCategory returns a category's functions sorted by name.
func (r *Registry) GetByCategory(category Category) []*FunctionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.categories[category]
	result := make([]*FunctionInfo, 0, len(names))
	for _, n := range names {
		if info, ok := r.functions[n]; ok {
			result = append(result, info)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// AllFunctions returns every registered built-in sorted by name.
func (r *Registry) AllFunctions() []*FunctionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*FunctionInfo, 0, len(r.functions))
	for _, info := range r.functions {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Count returns the number of registered built-ins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// NewStandardRegistry builds a Registry carrying every built-in category
// spec.md §4.4 describes.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	RegisterCollectionFunctions(r)
	RegisterStringFunctions(r)
	RegisterConversionFunctions(r)
	RegisterJSONFunctions(r)
	RegisterYAMLFunctions(r)
	RegisterIOFunctions(r)
	RegisterSystemFunctions(r)
	return r
}

// Bind extends env with every function in r, wrapped as a Function value.
// Application always supplies exactly one argument (spec.md §4.2), so an
// Arity-0 built-in (currently only "os") has no way to ever be invoked
// through Apply; those are evaluated eagerly, right here, and bound as
// plain values instead of callables. Every other built-in becomes a
// curried Function whose Arity the Apply/currying machinery in
// internal/eval enforces before Fn ever runs (spec.md §4.4: "arity ...
// validated before effect").
func Bind(r *Registry, env *eval.Environment, ctx *eval.Context) *eval.Environment {
	for _, info := range r.AllFunctions() {
		if info.Arity == 0 {
			v, err := info.Fn(ctx, nil)
			if err != nil {
				continue
			}
			env = env.Extend(info.Name, v)
			continue
		}
		env = env.Extend(info.Name, &eval.FunctionValue{
			Name:   info.Name,
			Native: info.Fn,
			Arity:  info.Arity,
		})
	}
	return env
}
