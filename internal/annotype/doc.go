// Package annotype implements a runtime type algebra over Go's nominal types.
//
// A bare descriptor (Union, Tuple, or one defined with NewBare) is the
// argument-less root of a kind. Applying arguments to it produces an applied
// descriptor:
//
//	num, _ := annotype.Apply(annotype.Union, reflect.TypeFor[int](), reflect.TypeFor[float64]())
//	ok, _ := annotype.MembershipQuery(num, 2.5) // true
//
// Arguments are type-like values: a reflect.Type, another *Descriptor, or one
// of the sentinels None (untyped nil is read as None) and NotImplemented.
//
// ARCHITECTURE:
//
// Construction runs through one protocol (Apply): normalize, validate each
// argument, validate the whole collection, reduce, canonicalize, then consult
// the cache. Each kind supplies its ArgumentPolicy, its canonical collection
// (set or sequence), and its membership/subtype rules through the Kind
// interface. A kind may decline a query by returning ErrNotImplemented, in
// which case a generic nominal fallback answers instead.
//
// Lifecycle:
//   - Bares are created once, at package init or program start, and never
//     destroyed. Names are unique per process.
//   - Applied descriptors are created lazily, cached, and never mutated.
//   - The cache grows for the life of the process; nothing is evicted.
//
// Concurrency: descriptors are immutable and safe to share. The cache
// serializes lookup-then-insert under a mutex, so concurrent construction of
// equal arguments yields one entry.
package annotype
