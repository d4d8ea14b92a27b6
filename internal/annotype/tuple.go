package annotype

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// tupleKind is the ordered product kind: position i must match member i.
type tupleKind struct{}

// TupleKind returns the ordered-product kind, for use with NewBare.
func TupleKind() Kind { return tupleKind{} }

// Tuple is the bare ordered-product descriptor. As a subtype target it is a
// wildcard: every Tuple descriptor under it, and every Go slice or array
// type, is a subtype.
var Tuple = MustBare("Tuple", TupleKind())

var tupleValueType = reflect.TypeFor[*TupleValue]()

func (tupleKind) Name() string           { return "tuple" }
func (tupleKind) Collection() Collection { return CollectionSequence }
func (tupleKind) Policy() ArgumentPolicy { return ArgumentPolicy{ValidateEach: IsTypeLike} }

// Instance accepts *TupleValue and plain []any values. Arity is compared
// before any element is.
func (tupleKind) Instance(d *Descriptor, v any) (bool, error) {
	var elems []any
	switch x := v.(type) {
	case *TupleValue:
		if x == nil || x.desc.bare != d.bare {
			return false, nil
		}
		elems = x.elems
	case []any:
		elems = x
	default:
		return false, ErrNotImplemented
	}

	if d.IsBare() {
		return true, nil
	}
	return elementsMatch(d, elems)
}

func elementsMatch(d *Descriptor, elems []any) (bool, error) {
	if len(elems) != len(d.args) {
		return false, nil
	}
	for i, e := range elems {
		ok, err := instanceOf(e, d.args[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Subtype implements the product rules:
//   - equal descriptors are subtypes of each other
//   - a plain Go slice/array type (or *TupleValue) is a subtype only of the bare
//   - descriptors of other bares never are
//   - a bare candidate is never a subtype of a parameterized target
//   - equal arities relate when every member does; differing arities never
func (tupleKind) Subtype(d *Descriptor, candidate any) (bool, error) {
	c, ok := candidate.(*Descriptor)
	if !ok {
		if d.IsBare() && isHostSequence(candidate) {
			return true, nil
		}
		return false, ErrNotImplemented
	}
	if c.bare != d.bare {
		return false, nil
	}
	if Equal(c, d) {
		return true, nil
	}
	if c.IsBare() {
		return false, ErrNotImplemented
	}
	if d.IsBare() {
		return true, nil
	}
	if c.Len() != d.Len() {
		return false, nil
	}
	for i := range d.args {
		ok, err := SubtypeQuery(c.args[i], d.args[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func isHostSequence(candidate any) bool {
	t, ok := candidate.(reflect.Type)
	if !ok {
		return false
	}
	return t == tupleValueType || t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// SubtypeOfHost holds when *TupleValue is assignable to t.
func (tupleKind) SubtypeOfHost(_ *Descriptor, t reflect.Type) (bool, error) {
	return tupleValueType.AssignableTo(t), nil
}

// Instantiate wraps values under d. A single *TupleValue argument goes
// through MakeTuple unchanged; otherwise values are the elements.
func (tupleKind) Instantiate(d *Descriptor, values ...any) (any, error) {
	if len(values) == 1 {
		if tv, ok := values[0].(*TupleValue); ok {
			return MakeTuple(d, tv)
		}
	}
	return MakeTuple(d, values)
}

// TupleValue is an immutable ordered value described by a Tuple descriptor.
type TupleValue struct {
	desc  *Descriptor
	elems []any
}

// NewTuple wraps elems under a descriptor inferred from each element's
// runtime type (nil becomes NoneType). No elements yields the bare Tuple.
//
// Inference always produces reflect.Type members, while Apply keeps
// sentinel arguments as given. NewTuple(nil) is therefore described by
// Tuple[NoneType], which is not Equal to Apply(Tuple, None).
func NewTuple(elems ...any) (*TupleValue, error) {
	return inferTuple(Tuple, elems)
}

func inferTuple(bare *Descriptor, elems []any) (*TupleValue, error) {
	types := make([]any, len(elems))
	for i, e := range elems {
		types[i] = TypeOf(e)
	}
	d, err := ApplyWith(bare, types)
	if err != nil {
		return nil, err
	}
	return &TupleValue{desc: d, elems: slices.Clone(elems)}, nil
}

// MakeTuple wraps src under d.
//
// A *TupleValue already under d's bare is returned as is. A []any is
// inferred when d is bare, and otherwise must match d's arity and members
// pairwise. Anything else is a TypeMismatch.
func MakeTuple(d *Descriptor, src any) (*TupleValue, error) {
	if d == nil {
		return nil, &Error{Code: CodeInvalidArgument, Message: "nil descriptor", Index: -1}
	}
	if _, ok := d.kind.(tupleKind); !ok {
		return nil, newTypeMismatch(d.String()+" is not a Tuple descriptor", d, src)
	}

	switch x := src.(type) {
	case *TupleValue:
		if x != nil && x.desc.bare == d.bare {
			return x, nil
		}
	case []any:
		if d.IsBare() {
			return inferTuple(d.bare, x)
		}
		ok, err := elementsMatch(d, x)
		if err != nil {
			return nil, err
		}
		if ok {
			return &TupleValue{desc: d, elems: slices.Clone(x)}, nil
		}
		return nil, newTypeMismatch(fmt.Sprintf("elements %v do not match %s", x, d), d, x)
	}
	return nil, newTypeMismatch(fmt.Sprintf("cannot wrap %s under %s", NameOf(src), d), d, src)
}

// Descriptor returns the descriptor t is wrapped under.
func (t *TupleValue) Descriptor() *Descriptor { return t.desc }

// Len returns the number of elements.
func (t *TupleValue) Len() int { return len(t.elems) }

// At returns the i-th element.
func (t *TupleValue) At(i int) any { return t.elems[i] }

// Elems returns a copy of the elements.
func (t *TupleValue) Elems() []any { return slices.Clone(t.elems) }

// Concat joins t and other. Member types concatenate through Combine, so
// both sides must share a bare; a plain []any is inferred first.
func (t *TupleValue) Concat(other any) (*TupleValue, error) {
	var o *TupleValue
	switch x := other.(type) {
	case *TupleValue:
		o = x
	case []any:
		inferred, err := inferTuple(t.desc.bare, x)
		if err != nil {
			return nil, err
		}
		o = inferred
	}
	if o == nil {
		return nil, newTypeMismatch("can only concatenate tuples", t.desc, other)
	}

	d, err := Combine(t.desc, o.desc)
	if err != nil {
		return nil, err
	}
	return &TupleValue{desc: d, elems: slices.Concat(t.elems, o.elems)}, nil
}

// Equal reports equal descriptors and deeply equal elements.
func (t *TupleValue) Equal(o *TupleValue) bool {
	if t == nil || o == nil {
		return t == o
	}
	return Equal(t.desc, o.desc) && reflect.DeepEqual(t.elems, o.elems)
}

// String renders t as Tuple[int, float64](1, 2.5).
func (t *TupleValue) String() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		if e == nil {
			parts[i] = "None"
			continue
		}
		parts[i] = fmt.Sprintf("%v", e)
	}
	return t.desc.String() + "(" + strings.Join(parts, ", ") + ")"
}
