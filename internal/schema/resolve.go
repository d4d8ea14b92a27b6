package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/annotype/internal/annotype"
)

// Registry holds the resolved descriptors of a document.
type Registry struct {
	names   []string
	entries map[string]any
	opts    []annotype.Option
}

// Names returns the defined names, sorted.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Lookup returns the resolved value of a defined name: a *Descriptor, a
// reflect.Type, or a sentinel.
func (r *Registry) Lookup(name string) (any, bool) {
	v, ok := r.entries[norm.NFC.String(name)]
	return v, ok
}

// Descriptor returns the named entry if it is a descriptor.
func (r *Registry) Descriptor(name string) (*annotype.Descriptor, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	d, ok := v.(*annotype.Descriptor)
	return d, ok
}

// Eval resolves an ad-hoc type expression against the registry.
func (r *Registry) Eval(expr any) (any, error) {
	res := &resolver{reg: r, opts: r.opts}
	return res.eval(expr, "")
}

// Resolve rebuilds every named descriptor of doc. Opts are passed to every
// annotype.ApplyWith call.
//
// Definitions are resolved in name order. A name that refers back to
// itself, directly or through other names, fails with ErrCodeCycle and the
// offending path.
func Resolve(doc *Document, opts ...annotype.Option) (*Registry, error) {
	exprs := make(map[string]any, len(doc.Descriptors))
	for raw, expr := range doc.Descriptors {
		name := norm.NFC.String(strings.TrimSpace(raw))
		if _, dup := exprs[name]; dup {
			return nil, &LoadError{
				Code:    ErrCodeNameConflict,
				Message: fmt.Sprintf("%q is defined twice after normalization", name),
				Path:    "descriptors." + name,
			}
		}
		if _, ok := HostType(name); ok {
			return nil, &LoadError{
				Code:    ErrCodeNameConflict,
				Message: fmt.Sprintf("%q shadows a host type", name),
				Path:    "descriptors." + name,
			}
		}
		if _, ok := annotype.LookupBare(name); ok {
			return nil, &LoadError{
				Code:    ErrCodeNameConflict,
				Message: fmt.Sprintf("%q shadows a bare descriptor", name),
				Path:    "descriptors." + name,
			}
		}
		exprs[name] = expr
	}

	reg := &Registry{
		names:   slices.Sorted(maps.Keys(exprs)),
		entries: make(map[string]any, len(exprs)),
		opts:    opts,
	}
	res := &resolver{
		reg:   reg,
		exprs: exprs,
		state: make(map[string]visitState, len(exprs)),
		opts:  opts,
	}
	for _, name := range reg.names {
		if _, err := res.define(name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

type resolver struct {
	reg   *Registry
	exprs map[string]any
	state map[string]visitState
	stack []string
	opts  []annotype.Option
}

// define resolves a named definition, depth first.
func (r *resolver) define(name string) (any, error) {
	switch r.state[name] {
	case done:
		return r.reg.entries[name], nil
	case visiting:
		start := slices.Index(r.stack, name)
		path := append(slices.Clone(r.stack[start:]), name)
		return nil, &LoadError{
			Code:    ErrCodeCycle,
			Message: "definition cycle: " + strings.Join(path, " -> "),
			Path:    "descriptors." + name,
		}
	}

	r.state[name] = visiting
	r.stack = append(r.stack, name)

	path := "descriptors." + name
	v, err := r.eval(r.exprs[name], path)
	if err != nil {
		return nil, err
	}
	if !annotype.IsTypeLike(v) {
		return nil, &LoadError{
			Code:    ErrCodeUnknownName,
			Message: fmt.Sprintf("%s names no host type, bare, or definition", annotype.NameOf(v)),
			Path:    path,
		}
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.state[name] = done
	r.reg.entries[name] = v
	return v, nil
}

// eval resolves one type expression. Strings name host types, bares, or
// definitions; a single-key map applies a bare to its resolved list. Any
// other value is returned as is, for the construction policy to reject.
func (r *resolver) eval(expr any, path string) (any, error) {
	switch e := expr.(type) {
	case string:
		return r.evalName(e, path)
	case map[string]any:
		if len(e) != 1 {
			return expr, nil
		}
		for key, val := range e {
			return r.evalApply(norm.NFC.String(key), val, path)
		}
	}
	return expr, nil
}

func (r *resolver) evalName(raw, path string) (any, error) {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if t, ok := HostType(name); ok {
		return t, nil
	}
	if b, ok := annotype.LookupBare(name); ok {
		return b, nil
	}
	if v, ok := r.reg.entries[name]; ok {
		return v, nil
	}
	if _, ok := r.exprs[name]; ok {
		return r.define(name)
	}
	// Left unresolved so validation reports it as a bad argument.
	return raw, nil
}

func (r *resolver) evalApply(key string, val any, path string) (any, error) {
	bare, ok := kindKeywords[key]
	if !ok {
		bare, ok = annotype.LookupBare(key)
	}
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeUnknownName,
			Message: fmt.Sprintf("unknown descriptor kind %q", key),
			Path:    path,
		}
	}

	items, isList := val.([]any)
	if !isList {
		items = []any{val}
	}
	args := make([]any, len(items))
	for i, item := range items {
		v, err := r.eval(item, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	d, err := annotype.ApplyWith(bare, args, r.opts...)
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeConstruct,
			Message: fmt.Sprintf("cannot construct %s", bare.Name()),
			Path:    path,
			Err:     err,
		}
	}
	return d, nil
}

// describeName resolves expr to a descriptor-like value, rejecting strings
// that name nothing.
func (r *Registry) describeName(expr any, path string) (any, error) {
	res := &resolver{reg: r, opts: r.opts}
	v, err := res.eval(expr, path)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(string); ok {
		return nil, &LoadError{
			Code:    ErrCodeUnknownName,
			Message: fmt.Sprintf("%q names no host type, bare, or definition", s),
			Path:    path,
		}
	}
	return v, nil
}
