package annotype

import "reflect"

// Kind supplies the semantics shared by every descriptor rooted at one bare.
//
// Instance and Subtype may return ErrNotImplemented to decline; the public
// queries then run the generic fallback.
type Kind interface {
	// Name identifies the kind in canonical forms ("union", "tuple").
	Name() string

	// Collection is the canonical collection of the kind's arguments.
	Collection() Collection

	// Policy returns the kind's construction hooks. Nil hooks use defaults.
	Policy() ArgumentPolicy

	// Instance reports whether v belongs to d.
	Instance(d *Descriptor, v any) (bool, error)

	// Subtype reports whether candidate is a subtype of d.
	Subtype(d *Descriptor, candidate any) (bool, error)
}

// Combiner is implemented by kinds that override Combine.
// Returning ErrNotImplemented defers to the generic combination.
type Combiner interface {
	Combine(left, right *Descriptor) (*Descriptor, error)
}

// Instantiator is implemented by kinds whose descriptors can wrap values.
type Instantiator interface {
	Instantiate(d *Descriptor, values ...any) (any, error)
}

// HostSubtyper is implemented by kinds that can decide whether every value
// of d is assignable to the plain Go type t.
type HostSubtyper interface {
	SubtypeOfHost(d *Descriptor, t reflect.Type) (bool, error)
}

// Described is implemented by runtime values that carry their descriptor.
type Described interface {
	Descriptor() *Descriptor
}
