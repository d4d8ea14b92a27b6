package annotype

import (
	"errors"
	"fmt"
	"reflect"
)

// MembershipQuery reports whether v belongs to the values d describes.
//
// The kind answers first. If it declines (ErrNotImplemented), the nominal
// fallback runs: a Described value matches a bare d when it shares d's bare,
// and an applied d when its descriptor equals d. Other values do not match.
func MembershipQuery(d *Descriptor, v any) (bool, error) {
	if d == nil {
		return false, &Error{Code: CodeInvalidArgument, Message: "nil descriptor", Index: -1}
	}
	ok, err := d.kind.Instance(d, v)
	if errors.Is(err, ErrNotImplemented) {
		return membershipFallback(d, v), nil
	}
	return ok, err
}

func membershipFallback(d *Descriptor, v any) bool {
	dv, ok := v.(Described)
	if !ok {
		return false
	}
	vd := dv.Descriptor()
	if vd == nil {
		return false
	}
	if d.IsBare() {
		return vd.bare == d.bare
	}
	return Equal(vd, d)
}

// SubtypeQuery reports whether every value described by candidate is also
// described by target. Either side may be a *Descriptor, a reflect.Type, or
// a sentinel (read as its own type).
//
// A descriptor target dispatches to its kind; a declined answer falls back
// to walking the candidate's ancestry (the candidate itself, then its bare).
// Plain Go types relate by assignability.
func SubtypeQuery(candidate, target any) (bool, error) {
	if candidate == nil {
		candidate = noneType
	}
	if !IsTypeLike(candidate) {
		return false, newUnsupported(nil, fmt.Sprintf("%s is not type-like", NameOf(candidate)))
	}

	switch t := target.(type) {
	case *Descriptor:
		if t == nil {
			break
		}
		ok, err := t.kind.Subtype(t, candidate)
		if errors.Is(err, ErrNotImplemented) {
			return subtypeFallback(candidate, t), nil
		}
		return ok, err
	case reflect.Type:
		if t == nil {
			break
		}
		return subtypeOfHost(candidate, t)
	case nil:
		return subtypeOfHost(candidate, noneType)
	case NoneType, NotImplementedType:
		return subtypeOfHost(candidate, TypeOf(t))
	}
	return false, newUnsupported(nil, fmt.Sprintf("%s is not type-like", NameOf(target)))
}

// IsSubtype reports SubtypeQuery, treating errors as "no".
func IsSubtype(candidate, target any) bool {
	ok, err := SubtypeQuery(candidate, target)
	return err == nil && ok
}

func subtypeFallback(candidate any, target *Descriptor) bool {
	c, ok := candidate.(*Descriptor)
	if !ok {
		return false
	}
	return Equal(c, target) || c.bare == target
}

// subtypeOfHost decides candidate <: t for a plain Go type t.
func subtypeOfHost(candidate any, t reflect.Type) (bool, error) {
	switch c := candidate.(type) {
	case reflect.Type:
		return c.AssignableTo(t), nil
	case *Descriptor:
		if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
			return true, nil
		}
		if hs, ok := c.kind.(HostSubtyper); ok {
			return hs.SubtypeOfHost(c, t)
		}
		return false, nil
	}
	// sentinels
	return TypeOf(candidate).AssignableTo(t), nil
}

// instanceOf reports whether v belongs to one argument of a descriptor.
func instanceOf(v any, arg any) (bool, error) {
	switch a := arg.(type) {
	case reflect.Type:
		return TypeOf(v).AssignableTo(a), nil
	case *Descriptor:
		return MembershipQuery(a, v)
	case nil, NoneType, NotImplementedType:
		return TypeOf(v) == TypeOf(a), nil
	}
	return false, newUnsupported(nil, fmt.Sprintf("%s is not type-like", NameOf(arg)))
}
