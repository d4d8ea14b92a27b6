package annotype

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEmptyReturnsDescriptorUnchanged(t *testing.T) {
	c := NewCache()

	d, err := ApplyWith(Union, []any{}, WithCache(c))
	require.NoError(t, err)
	assert.Same(t, Union, d)

	applied := MustApply(Tuple, intT)
	d, err = ApplyWith(applied, []reflect.Type{}, WithCache(c))
	require.NoError(t, err)
	assert.Same(t, applied, d)

	assert.Equal(t, 0, c.Len(), "empty application must not touch the cache")
}

func TestApplyCaches(t *testing.T) {
	c := NewCache()

	a, err := ApplyWith(Union, []any{intT, floatT}, WithCache(c))
	require.NoError(t, err)
	b, err := ApplyWith(Union, []any{floatT, intT}, WithCache(c))
	require.NoError(t, err)

	assert.True(t, Equal(a, b))
	assert.Same(t, a, b, "equal arguments reuse the cached descriptor")
	assert.Equal(t, 1, c.Len())

	got, ok := c.Lookup(Union, a.argsKey)
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestApplyDefaultCacheTwiceEqual(t *testing.T) {
	a, err := Apply(Union, intT, floatT)
	require.NoError(t, err)
	b, err := Apply(Union, intT, floatT)
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestApplyNormalizesInput(t *testing.T) {
	want := MustApply(Tuple, intT, stringT)

	tests := []struct {
		name  string
		input any
	}{
		{"any slice", []any{intT, stringT}},
		{"type slice", []reflect.Type{intT, stringT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ApplyWith(Tuple, tt.input)
			require.NoError(t, err)
			assert.True(t, Equal(want, d))
		})
	}

	single, err := ApplyWith(Tuple, intT)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	inner := MustApply(Tuple, boolT)
	nested, err := ApplyWith(Tuple, []*Descriptor{inner, inner})
	require.NoError(t, err)
	assert.Equal(t, "Tuple[Tuple[bool], Tuple[bool]]", nested.String())
}

func TestApplyNilIsNone(t *testing.T) {
	d, err := Apply(Tuple, nil)
	require.NoError(t, err)
	assert.Equal(t, None, d.At(0))
	assert.True(t, Equal(d, MustApply(Tuple, None)))
}

func TestApplyInvalidArgument(t *testing.T) {
	c := NewCache()

	_, err := ApplyWith(Union, []any{"not-a-type"}, WithCache(c))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrTypeMismatch))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 0, e.Index)
	assert.Equal(t, "Union", e.Descriptor)
	assert.Equal(t, "string", e.Details["type"])

	_, err = ApplyWith(Tuple, []any{intT, 3}, WithCache(c))
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 1, e.Index)

	var nilDesc *Descriptor
	_, err = ApplyWith(Tuple, []any{nilDesc}, WithCache(c))
	assert.True(t, IsInvalidArgument(err))

	assert.Equal(t, 0, c.Len(), "failed construction must not mutate the cache")
}

func TestApplyInvalidArgumentSet(t *testing.T) {
	c := NewCache()
	pairsOnly := ArgumentPolicy{
		ValidateAll: func(args []any) bool { return len(args) == 2 },
	}

	_, err := ApplyWith(Tuple, []any{intT}, WithCache(c), WithPolicy(pairsOnly))
	require.Error(t, err)
	assert.True(t, IsInvalidArgumentSet(err))

	d, err := ApplyWith(Tuple, []any{intT, intT}, WithCache(c), WithPolicy(pairsOnly))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, c.Len())
}

func TestApplyReduceFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := ArgumentPolicy{
		Reduce: func(*Descriptor, []any) ([]any, error) { return nil, boom },
	}

	_, err := ApplyWith(Tuple, []any{intT}, WithPolicy(failing), WithCache(NewCache()))
	require.Error(t, err)
	assert.True(t, IsInvalidArgumentSet(err))
	assert.ErrorIs(t, err, boom)
}

func TestApplyReduceToNonTypeLike(t *testing.T) {
	bad := ArgumentPolicy{
		Reduce: func(*Descriptor, []any) ([]any, error) { return []any{"x"}, nil },
	}
	_, err := ApplyWith(Tuple, []any{intT}, WithPolicy(bad), WithCache(NewCache()))
	assert.True(t, IsInvalidArgumentSet(err))
}

func TestApplyPolicyOverrideValidateEach(t *testing.T) {
	onlyInts := ArgumentPolicy{
		ValidateEach: func(arg any) bool { return arg == intT },
	}

	_, err := ApplyWith(Tuple, []any{stringT}, WithPolicy(onlyInts), WithCache(NewCache()))
	assert.True(t, IsInvalidArgument(err))

	d, err := ApplyWith(Tuple, []any{intT}, WithPolicy(onlyInts), WithCache(NewCache()))
	require.NoError(t, err)
	assert.Equal(t, "Tuple[int]", d.String())
}

func TestApplyReducedToNothingIsBare(t *testing.T) {
	d, err := Apply(Union, Union)
	require.NoError(t, err)
	assert.Same(t, Union, d)
}

func TestApplyToAppliedKeepsBare(t *testing.T) {
	base := MustApply(Union, intT)
	d := MustApply(base, stringT)

	assert.Same(t, Union, d.Bare())
	assert.Equal(t, "Union[string]", d.String())
	assert.True(t, Equal(d, MustApply(Union, stringT)))
}

func TestApplyPlaceholderUnsupported(t *testing.T) {
	for _, d := range []*Descriptor{List, Mapping, Iterable, Iterator, Generator} {
		t.Run(d.Name(), func(t *testing.T) {
			_, err := Apply(d, intT)
			require.Error(t, err)
			assert.True(t, IsUnsupportedOperation(err))
		})
	}
}

func TestApplyNilDescriptor(t *testing.T) {
	_, err := Apply(nil, intT)
	assert.True(t, IsInvalidArgument(err))
}

func TestApplyConcurrentSingleEntry(t *testing.T) {
	c := NewCache()
	const workers = 32

	results := make([]*Descriptor, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := ApplyWith(Union, []any{intT, stringT, floatT}, WithCache(c))
			if err == nil {
				results[i] = d
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Len())
	for _, d := range results {
		require.NotNil(t, d)
		assert.Same(t, results[0], d)
	}
}

func TestMustApplyPanics(t *testing.T) {
	assert.Panics(t, func() { MustApply(Union, 42) })
}
