package annotype

import (
	"errors"
	"slices"
)

// Combine merges two descriptors that share a bare root.
//
// Kind hooks run first (left operand's kind, then right's); a hook that
// returns ErrNotImplemented defers. The generic rule then applies:
//   - differing bares fail with TypeMismatch
//   - a bare operand on either side yields the other operand unchanged
//   - otherwise the bare is re-applied to the merged arguments, which is a
//     set union for CollectionSet kinds and concatenation for sequences
func Combine(a, b *Descriptor, opts ...Option) (*Descriptor, error) {
	if a == nil || b == nil {
		return nil, &Error{Code: CodeInvalidArgument, Message: "cannot combine a nil descriptor", Index: -1}
	}

	if c, ok := a.kind.(Combiner); ok {
		d, err := c.Combine(a, b)
		if !errors.Is(err, ErrNotImplemented) {
			return d, err
		}
	}
	if a.bare != b.bare {
		if c, ok := b.kind.(Combiner); ok {
			d, err := c.Combine(a, b)
			if !errors.Is(err, ErrNotImplemented) {
				return d, err
			}
		}
		return nil, newTypeMismatch("cannot combine descriptors with different bares", a, b)
	}

	if a.IsBare() {
		return b, nil
	}
	if b.IsBare() {
		return a, nil
	}

	merged := slices.Concat(a.args, b.args)
	return ApplyWith(a.bare, merged, opts...)
}
