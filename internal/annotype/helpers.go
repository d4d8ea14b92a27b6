package annotype

import (
	"fmt"
	"reflect"
)

// NameOf returns a human-readable name for v.
//
// Descriptors render as Name[args...], reflect types by their Go spelling
// (sentinel types as NoneType/NotImplementedType), sentinels by name.
// Anything else falls back to its %v formatting.
func NameOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case *Descriptor:
		if x == nil {
			return "<nil descriptor>"
		}
		return x.String()
	case reflect.Type:
		switch x {
		case noneType:
			return "NoneType"
		case notImplementedType:
			return "NotImplementedType"
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Identity returns v unchanged. The default reduce policy is built on it.
func Identity[T any](v T) T {
	return v
}

// Flatten concatenates groups into one slice, one level deep.
func Flatten[T any](groups [][]T) []T {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make([]T, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
