package annotype

import "reflect"

// NoneType is the type of the None sentinel, the "absent" value.
type NoneType struct{}

// NotImplementedType is the type of the NotImplemented sentinel.
type NotImplementedType struct{}

// Sentinel values. Untyped nil is read as None wherever a value or argument
// is expected.
var (
	None           = NoneType{}
	NotImplemented = NotImplementedType{}
)

func (NoneType) String() string           { return "None" }
func (NotImplementedType) String() string { return "NotImplemented" }

var (
	noneType           = reflect.TypeFor[NoneType]()
	notImplementedType = reflect.TypeFor[NotImplementedType]()
)

// IsSentinel reports whether v is None, NotImplemented, or untyped nil.
func IsSentinel(v any) bool {
	switch v.(type) {
	case nil, NoneType, NotImplementedType:
		return true
	}
	return false
}

// TypeOf returns the runtime type of v, mapping untyped nil to NoneType.
func TypeOf(v any) reflect.Type {
	if v == nil {
		return noneType
	}
	return reflect.TypeOf(v)
}
