package annotype

import (
	"reflect"
)

// unionKind matches a value if it matches any member.
type unionKind struct{}

// UnionKind returns the disjunctive kind. Use it with NewBare to define a
// Union-like root of your own; nested flattening only merges members that
// share the same bare.
func UnionKind() Kind { return unionKind{} }

// Union is the bare disjunctive descriptor.
//
//	Union[int, float64] matches 1 and 1.5 but not "s".
//
// None and NotImplemented arguments are read as their own types.
var Union = MustBare("Union", UnionKind())

func (unionKind) Name() string           { return "union" }
func (unionKind) Collection() Collection { return CollectionSet }

func (unionKind) Policy() ArgumentPolicy {
	return ArgumentPolicy{
		ValidateEach: IsTypeLike,
		Reduce:       reduceUnion,
	}
}

// reduceUnion flattens nested Unions of the same bare to a fixed point and
// maps sentinels to their types. Duplicates collapse later, when the set is
// canonicalized.
//
// A visited set keyed by canonical args guards the loop: a Union that has
// already been expanded contributes nothing the second time, so the pass
// terminates even if a Union is reachable from itself.
func reduceUnion(bare *Descriptor, args []any) ([]any, error) {
	visited := make(map[string]bool)
	current := args
	for {
		nested := false
		groups := make([][]any, 0, len(current))
		for _, a := range current {
			d, ok := a.(*Descriptor)
			if !ok || d.bare != bare {
				groups = append(groups, []any{a})
				continue
			}
			nested = true
			if visited[d.argsKey] {
				continue
			}
			visited[d.argsKey] = true
			groups = append(groups, d.args)
		}
		current = Flatten(groups)
		if !nested {
			break
		}
	}

	out := make([]any, len(current))
	for i, a := range current {
		if IsSentinel(a) {
			out[i] = TypeOf(a)
			continue
		}
		out[i] = a
	}
	return out, nil
}

func (unionKind) Instance(d *Descriptor, v any) (bool, error) {
	for _, m := range d.args {
		ok, err := instanceOf(v, m)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Subtype treats every specialization as a subtype of the bare Union. A
// Union candidate under the same bare must have each of its members under
// d; anything else must be a subtype of at least one member.
func (unionKind) Subtype(d *Descriptor, candidate any) (bool, error) {
	if c, ok := candidate.(*Descriptor); ok && c.bare == d.bare {
		if d.IsBare() {
			return true, nil
		}
		if c.IsBare() {
			return false, nil
		}
		for _, m := range c.args {
			ok, err := SubtypeQuery(m, d)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	for _, m := range d.args {
		ok, err := SubtypeQuery(candidate, m)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// SubtypeOfHost holds when every member is a subtype of t.
func (unionKind) SubtypeOfHost(d *Descriptor, t reflect.Type) (bool, error) {
	if d.IsBare() {
		return false, nil
	}
	for _, m := range d.args {
		ok, err := SubtypeQuery(m, t)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Instantiate always fails: a Union is a predicate, not a value.
func (unionKind) Instantiate(d *Descriptor, _ ...any) (any, error) {
	return nil, newUnsupported(d, "a Union cannot be instantiated")
}
