package annotype

import (
	"errors"
	"reflect"
	"slices"
)

// Option configures a single construction.
type Option func(*applyConfig)

type applyConfig struct {
	cache  *Cache
	policy ArgumentPolicy
}

// WithCache selects the cache consulted and filled by the construction.
func WithCache(c *Cache) Option {
	return func(cfg *applyConfig) {
		if c != nil {
			cfg.cache = c
		}
	}
}

// WithPolicy overrides the kind's hooks for one construction.
// Nil hooks in p leave the kind's hooks in place.
func WithPolicy(p ArgumentPolicy) Option {
	return func(cfg *applyConfig) {
		cfg.policy = cfg.policy.Override(p)
	}
}

// Apply refines d with args. A single collection argument ([]any,
// []reflect.Type, []*Descriptor) is expanded. See ApplyWith.
func Apply(d *Descriptor, args ...any) (*Descriptor, error) {
	if len(args) == 1 {
		return ApplyWith(d, args[0])
	}
	return ApplyWith(d, args)
}

// MustApply is like Apply but panics on error.
// Use only for package-level definitions and tests.
func MustApply(d *Descriptor, args ...any) *Descriptor {
	out, err := Apply(d, args...)
	if err != nil {
		panic(err)
	}
	return out
}

// ApplyWith runs the construction protocol:
//
//  1. Normalize input: a non-collection becomes a one-element collection
//  2. Empty collection: return d unchanged, without touching the cache
//  3. Validate each element (InvalidArgument on failure)
//  4. Validate the collection (InvalidArgumentSet on failure)
//  5. Reduce through the kind's policy
//  6. Canonicalize and look up (Bare(d), args) in the cache
//  7. On a miss, construct, insert, and return
//
// Applying to an applied descriptor keeps its bare root; the result records
// d as DerivedFrom. If reduction leaves no arguments, Bare(d) is returned.
// A failure never mutates the cache.
func ApplyWith(d *Descriptor, input any, opts ...Option) (*Descriptor, error) {
	if d == nil {
		return nil, &Error{Code: CodeInvalidArgument, Message: "nil descriptor", Index: -1}
	}
	if _, ok := d.kind.(placeholderKind); ok {
		return nil, newUnsupported(d, d.name+" is not implemented")
	}

	cfg := &applyConfig{cache: defaultCache}
	for _, opt := range opts {
		opt(cfg)
	}

	args := normalizeArgs(input)
	if len(args) == 0 {
		return d, nil
	}

	policy := DefaultPolicy().Override(d.kind.Policy()).Override(cfg.policy)

	for i, a := range args {
		if !policy.ValidateEach(a) {
			return nil, newInvalidArgument(d, i, a)
		}
	}
	if !policy.ValidateAll(args) {
		return nil, newInvalidArgumentSet(d, "the collection of arguments does not pass the test", nil)
	}

	for i, a := range args {
		if a == nil {
			args[i] = None
		}
	}

	reduced, err := policy.Reduce(d.bare, args)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return nil, err
		}
		return nil, newInvalidArgumentSet(d, "arguments could not be reduced", err)
	}

	canonical, key, err := canonicalize(d.kind.Collection(), reduced)
	if err != nil {
		return nil, newInvalidArgumentSet(d, "reduced arguments are not type-like", err)
	}
	if len(canonical) == 0 {
		return d.bare, nil
	}

	return cfg.cache.getOrCreate(d, canonical, key), nil
}

// normalizeArgs copies input into a fresh argument slice.
func normalizeArgs(input any) []any {
	switch x := input.(type) {
	case []any:
		return slices.Clone(x)
	case []reflect.Type:
		out := make([]any, len(x))
		for i, t := range x {
			out[i] = t
		}
		return out
	case []*Descriptor:
		out := make([]any, len(x))
		for i, d := range x {
			out[i] = d
		}
		return out
	default:
		return []any{input}
	}
}
