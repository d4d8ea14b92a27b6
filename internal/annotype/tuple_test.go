package annotype

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTupleInfersTypes(t *testing.T) {
	tv, err := NewTuple(1, 2.0)
	require.NoError(t, err)

	want := MustApply(Tuple, intT, floatT)
	assert.True(t, Equal(want, tv.Descriptor()))

	ok, err := MembershipQuery(want, []any{1, 2.0})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MembershipQuery(want, []any{2.0, 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = MembershipQuery(want, tv)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewTupleNilAndEmpty(t *testing.T) {
	tv, err := NewTuple(nil, "s")
	require.NoError(t, err)
	assert.Equal(t, "Tuple[NoneType, string](None, s)", tv.String())

	empty, err := NewTuple()
	require.NoError(t, err)
	assert.Same(t, Tuple, empty.Descriptor())
	assert.Equal(t, 0, empty.Len())
}

func TestNewTupleInfersNoneType(t *testing.T) {
	tv, err := NewTuple(nil)
	require.NoError(t, err)

	d := tv.Descriptor()
	assert.True(t, d.At(0) == any(TypeOf(nil)))
	assert.False(t, Equal(d, MustApply(Tuple, None)), "sentinel arguments stay sentinels under Apply")
	assert.True(t, Equal(d, MustApply(Tuple, TypeOf(nil))))
}

func TestMakeTupleExplicitTypes(t *testing.T) {
	pair := MustApply(Tuple, anyT, anyT)

	tv, err := MakeTuple(pair, []any{1, "x"})
	require.NoError(t, err)
	assert.Same(t, pair, tv.Descriptor())
	assert.Equal(t, []any{1, "x"}, tv.Elems())
	assert.Equal(t, "x", tv.At(1))

	_, err = MakeTuple(MustApply(Tuple, intT, intT), []any{1, "x"})
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))

	_, err = MakeTuple(MustApply(Tuple, intT, intT), []any{1})
	assert.True(t, IsTypeMismatch(err), "arity mismatch is a mismatch, not a truncation")
}

func TestMakeTupleReturnsSameBareValueUnchanged(t *testing.T) {
	tv, err := NewTuple(1, 2)
	require.NoError(t, err)

	got, err := MakeTuple(MustApply(Tuple, stringT), tv)
	require.NoError(t, err)
	assert.Same(t, tv, got)
}

func TestMakeTupleRejects(t *testing.T) {
	_, err := MakeTuple(Union, []any{1})
	assert.True(t, IsTypeMismatch(err))

	_, err = MakeTuple(Tuple, 5)
	assert.True(t, IsTypeMismatch(err))

	_, err = MakeTuple(nil, []any{1})
	assert.True(t, IsInvalidArgument(err))
}

func TestMakeTupleBareInfers(t *testing.T) {
	tv, err := MakeTuple(Tuple, []any{true})
	require.NoError(t, err)
	assert.True(t, Equal(MustApply(Tuple, boolT), tv.Descriptor()))
}

func TestInstantiateTuple(t *testing.T) {
	v, err := Instantiate(MustApply(Tuple, intT, stringT), 1, "a")
	require.NoError(t, err)
	tv, ok := v.(*TupleValue)
	require.True(t, ok)
	assert.Equal(t, 2, tv.Len())

	v, err = Instantiate(Tuple, tv)
	require.NoError(t, err)
	assert.Same(t, tv, v)
}

func TestTupleMembership(t *testing.T) {
	pair := MustApply(Tuple, intT, floatT)
	nested := MustApply(Tuple, pair, stringT)
	inner, err := NewTuple(1, 2.0)
	require.NoError(t, err)
	other, err := MakeTuple(MustApply(tupleLike, intT, floatT), []any{1, 2.0})
	require.NoError(t, err)

	tests := []struct {
		name  string
		d     *Descriptor
		value any
		want  bool
	}{
		{"exact", pair, []any{1, 2.0}, true},
		{"swapped", pair, []any{2.0, 1}, false},
		{"short", pair, []any{1}, false},
		{"long", pair, []any{1, 2.0, 3}, false},
		{"bare wildcard value", Tuple, inner, true},
		{"bare wildcard slice", Tuple, []any{"anything"}, true},
		{"nested", nested, []any{inner, "s"}, true},
		{"nested plain", nested, []any{[]any{1, 2.0}, "s"}, true},
		{"nested wrong", nested, []any{[]any{1, 2}, "s"}, false},
		{"not a tuple", pair, 5, false},
		{"other bare", pair, other, false},
		{"nil tuple pointer", pair, (*TupleValue)(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MembershipQuery(tt.d, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// tupleLike is a second Tuple-kind root.
var tupleLike = MustBare("Record", TupleKind())

func TestTupleSubtype(t *testing.T) {
	ints := MustApply(Tuple, intT, intT)
	anys := MustApply(Tuple, anyT, anyT)

	tests := []struct {
		name      string
		candidate any
		target    any
		want      bool
	}{
		{"equal", ints, MustApply(Tuple, intT, intT), true},
		{"pairwise", ints, anys, true},
		{"pairwise reversed", anys, ints, false},
		{"arity mismatch", MustApply(Tuple, intT), ints, false},
		{"arity mismatch reversed", ints, MustApply(Tuple, intT), false},
		{"into bare", ints, Tuple, true},
		{"bare into parameterized", Tuple, ints, false},
		{"bare into bare", Tuple, Tuple, true},
		{"slice type into bare", reflect.TypeFor[[]int](), Tuple, true},
		{"array type into bare", reflect.TypeFor[[2]int](), Tuple, true},
		{"tuple value type into bare", tupleValueType, Tuple, true},
		{"slice type into parameterized", reflect.TypeFor[[]int](), ints, false},
		{"int into bare", intT, Tuple, false},
		{"other bare", MustApply(tupleLike, intT, intT), ints, false},
		{"union candidate", MustApply(Union, intT), Tuple, false},
		{"nested", MustApply(Tuple, ints), MustApply(Tuple, anys), true},
		{"union member", MustApply(Tuple, intT), MustApply(Tuple, MustApply(Union, intT, stringT)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubtypeQuery(tt.candidate, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTupleSubtypeTransitive(t *testing.T) {
	a := MustApply(Tuple, intT, stringT)
	b := MustApply(Tuple, MustApply(Union, intT, floatT), MustApply(Union, stringT, boolT))
	c := MustApply(Tuple, anyT, anyT)

	require.True(t, IsSubtype(a, b))
	require.True(t, IsSubtype(b, c))
	assert.True(t, IsSubtype(a, c))
}

func TestTupleSubtypeOfHost(t *testing.T) {
	assert.True(t, IsSubtype(MustApply(Tuple, intT), reflect.TypeFor[Described]()))
	assert.True(t, IsSubtype(MustApply(Tuple, intT), anyT))
	assert.False(t, IsSubtype(MustApply(Tuple, intT), intT))
}

func TestTupleConcat(t *testing.T) {
	left, err := NewTuple(1)
	require.NoError(t, err)
	right, err := NewTuple(2.0)
	require.NoError(t, err)

	joined, err := left.Concat(right)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2.0}, joined.Elems())
	assert.True(t, Equal(MustApply(Tuple, intT, floatT), joined.Descriptor()))

	want, err := NewTuple(1, 2.0)
	require.NoError(t, err)
	assert.True(t, joined.Equal(want))
}

func TestTupleConcatPlainAndEmpty(t *testing.T) {
	left, err := NewTuple("a")
	require.NoError(t, err)

	joined, err := left.Concat([]any{true})
	require.NoError(t, err)
	assert.Equal(t, "Tuple[string, bool](a, true)", joined.String())

	empty, err := NewTuple()
	require.NoError(t, err)
	same, err := left.Concat(empty)
	require.NoError(t, err)
	assert.Same(t, left.Descriptor(), same.Descriptor())
}

func TestTupleConcatRejects(t *testing.T) {
	left, err := NewTuple(1)
	require.NoError(t, err)

	_, err = left.Concat(5)
	assert.True(t, IsTypeMismatch(err))

	other, err := MakeTuple(tupleLike, []any{1})
	require.NoError(t, err)
	_, err = left.Concat(other)
	assert.True(t, IsTypeMismatch(err))
}
