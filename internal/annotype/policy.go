package annotype

import "reflect"

// Collection is the canonical collection semantics of a kind's arguments.
type Collection int

const (
	// CollectionSequence keeps arguments in order, duplicates included.
	CollectionSequence Collection = iota
	// CollectionSet ignores order and collapses duplicates.
	CollectionSet
)

func (c Collection) String() string {
	if c == CollectionSet {
		return "set"
	}
	return "sequence"
}

// ArgumentPolicy holds the pure hooks a kind runs during construction.
// A nil hook means "use the default".
//
// ValidateEach and ValidateAll are checked independently, so ValidateAll
// need not repeat the per-element test. Reduce runs after both validations
// and receives the bare root of the descriptor being applied.
type ArgumentPolicy struct {
	ValidateEach func(arg any) bool
	ValidateAll  func(args []any) bool
	Reduce       func(bare *Descriptor, args []any) ([]any, error)
}

// DefaultPolicy accepts type-like arguments, accepts every collection, and
// reduces by identity.
func DefaultPolicy() ArgumentPolicy {
	return ArgumentPolicy{
		ValidateEach: IsTypeLike,
		ValidateAll:  func([]any) bool { return true },
		Reduce: func(_ *Descriptor, args []any) ([]any, error) {
			return Identity(args), nil
		},
	}
}

// Override returns p with every non-nil hook of o replacing p's.
func (p ArgumentPolicy) Override(o ArgumentPolicy) ArgumentPolicy {
	if o.ValidateEach != nil {
		p.ValidateEach = o.ValidateEach
	}
	if o.ValidateAll != nil {
		p.ValidateAll = o.ValidateAll
	}
	if o.Reduce != nil {
		p.Reduce = o.Reduce
	}
	return p
}

// IsTypeLike reports whether arg may appear in a descriptor's arguments:
// a non-nil reflect.Type, a non-nil *Descriptor, or a sentinel.
func IsTypeLike(arg any) bool {
	switch x := arg.(type) {
	case reflect.Type:
		return x != nil
	case *Descriptor:
		return x != nil
	}
	return IsSentinel(arg)
}
