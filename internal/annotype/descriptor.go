package annotype

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/annotype/internal/canon"
)

// Descriptor is a bare or applied type descriptor. It is immutable.
type Descriptor struct {
	name string
	id   uuid.UUID
	kind Kind

	// bare points at itself for bare descriptors.
	bare *Descriptor

	// derived is the descriptor this one was applied to. Introspection only.
	derived *Descriptor

	// args is canonical: sorted and deduplicated for CollectionSet kinds.
	args    []any
	argsKey string
	hash    string
}

// bareNamespace seeds the UUIDv5 identity of every bare, so a bare's ID is
// a pure function of its name.
var bareNamespace = uuid.MustParse("6f0c4a2e-3b1d-5e8f-9a7c-2d4b6e8f0a1c")

var registry = struct {
	sync.Mutex
	bares map[string]*Descriptor
}{bares: make(map[string]*Descriptor)}

// NewBare defines a new bare descriptor of the given kind.
// Names are NFC normalized and must be unique within the process.
func NewBare(name string, kind Kind) (*Descriptor, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return nil, &Error{Code: CodeInvalidArgument, Message: "bare name is empty", Index: -1}
	}
	if kind == nil {
		return nil, &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf("bare %q has no kind", name), Index: -1}
	}

	registry.Lock()
	defer registry.Unlock()

	if _, exists := registry.bares[name]; exists {
		return nil, &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf("bare %q already defined", name), Index: -1}
	}

	d := &Descriptor{
		name: name,
		id:   uuid.NewSHA1(bareNamespace, []byte(name)),
		kind: kind,
	}
	d.bare = d
	d.hash = canon.HashWithDomain(canon.DomainDescriptor, canon.MustMarshal(d.Canonical()))
	registry.bares[name] = d
	return d, nil
}

// MustBare is like NewBare but panics on error.
// Use only for package-level definitions.
func MustBare(name string, kind Kind) *Descriptor {
	d, err := NewBare(name, kind)
	if err != nil {
		panic(err)
	}
	return d
}

// LookupBare returns the bare registered under name.
func LookupBare(name string) (*Descriptor, bool) {
	registry.Lock()
	defer registry.Unlock()
	d, ok := registry.bares[norm.NFC.String(name)]
	return d, ok
}

// Bares returns every registered bare, ordered by name.
func Bares() []*Descriptor {
	registry.Lock()
	defer registry.Unlock()
	out := make([]*Descriptor, 0, len(registry.bares))
	for _, d := range registry.bares {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *Descriptor) int { return strings.Compare(a.name, b.name) })
	return out
}

// Bare returns the bare root of d. Bare(Bare(d)) == Bare(d).
func Bare(d *Descriptor) *Descriptor {
	if d == nil {
		return nil
	}
	return d.bare
}

// Bare returns the bare root of d.
func (d *Descriptor) Bare() *Descriptor { return d.bare }

// IsBare reports whether d carries no arguments.
func (d *Descriptor) IsBare() bool { return d.bare == d }

// Name returns the name of d's bare root.
func (d *Descriptor) Name() string { return d.name }

// ID returns the identity of d's bare root.
func (d *Descriptor) ID() uuid.UUID { return d.id }

// Kind returns the kind shared by every descriptor under d's bare.
func (d *Descriptor) Kind() Kind { return d.kind }

// DerivedFrom returns the descriptor d was applied to, or nil for bares.
func (d *Descriptor) DerivedFrom() *Descriptor { return d.derived }

// Len returns the number of canonical arguments.
func (d *Descriptor) Len() int { return len(d.args) }

// At returns the i-th canonical argument.
func (d *Descriptor) At(i int) any { return d.args[i] }

// Args returns a copy of the canonical arguments.
func (d *Descriptor) Args() []any { return slices.Clone(d.args) }

// Hash returns a hex digest consistent with Equal.
func (d *Descriptor) Hash() string { return d.hash }

// Equal reports structural equality; see Equal.
func (d *Descriptor) Equal(o *Descriptor) bool { return Equal(d, o) }

// Apply is shorthand for Apply(d, args...).
func (d *Descriptor) Apply(args ...any) (*Descriptor, error) { return Apply(d, args...) }

// Matches reports membership of v, treating errors as "no".
func (d *Descriptor) Matches(v any) bool {
	ok, err := MembershipQuery(d, v)
	return err == nil && ok
}

// String renders d as Name or Name[arg, ...].
func (d *Descriptor) String() string {
	if d.IsBare() {
		return d.name
	}
	names := make([]string, len(d.args))
	for i, a := range d.args {
		names[i] = NameOf(a)
	}
	return d.name + "[" + strings.Join(names, ", ") + "]"
}

// Canonical returns the canonical form hashed by Hash.
func (d *Descriptor) Canonical() canon.Object {
	args := make(canon.Array, len(d.args))
	for i, a := range d.args {
		// args were canonicalized at construction, so this cannot fail
		args[i], _ = canonicalArg(a)
	}
	return canon.Object{
		"kind": canon.String(d.kind.Name()),
		"bare": canon.String(d.name),
		"id":   canon.String(d.id.String()),
		"args": args,
	}
}

// Equal reports whether a and b are structurally equal: the same bare
// identity and argument collections equal under the kind's collection
// semantics. Bares are equal only to themselves.
func Equal(a, b *Descriptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsBare() || b.IsBare() {
		return a == b
	}
	return a.bare == b.bare && a.argsKey == b.argsKey
}

// canonicalArg renders one argument for hashing and ordering.
func canonicalArg(a any) (canon.Value, error) {
	switch x := a.(type) {
	case *Descriptor:
		if x != nil {
			return x.Canonical(), nil
		}
	case reflect.Type:
		if x != nil {
			return canon.Object{"type": canon.String(typeToken(x))}, nil
		}
	case nil:
		return canon.Object{"sentinel": canon.String("None")}, nil
	case NoneType, NotImplementedType:
		return canon.Object{"sentinel": canon.String(NameOf(x))}, nil
	}
	return nil, fmt.Errorf("%s is not type-like", NameOf(a))
}

// typeToken spells a Go type for display and ordering: named types by
// import path, unnamed types as reflect renders them. Distinct types can
// share a spelling, so identity goes through typeOrdinal instead.
func typeToken(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

var typeOrdinals = struct {
	sync.Mutex
	ids map[reflect.Type]int
}{ids: make(map[reflect.Type]int)}

// typeOrdinal interns t and returns its process-unique number.
func typeOrdinal(t reflect.Type) int {
	typeOrdinals.Lock()
	defer typeOrdinals.Unlock()
	id, ok := typeOrdinals.ids[t]
	if !ok {
		id = len(typeOrdinals.ids) + 1
		typeOrdinals.ids[t] = id
	}
	return id
}

// identityKey distinguishes arguments exactly: types by ordinal,
// descriptors by bare identity plus their own args key.
func identityKey(a any) string {
	switch x := a.(type) {
	case *Descriptor:
		return "d:" + x.id.String() + x.argsKey
	case reflect.Type:
		return "t:" + strconv.Itoa(typeOrdinal(x))
	}
	return "s:" + NameOf(a)
}

// canonicalize orders and keys args under coll. Set collections sort by
// canonical token and drop arguments with the same identity. The key joins
// the identity keys, so it separates types that spell alike.
func canonicalize(coll Collection, args []any) ([]any, string, error) {
	type entry struct {
		arg   any
		token string
		key   string
	}
	entries := make([]entry, 0, len(args))
	for i, a := range args {
		v, err := canonicalArg(a)
		if err != nil {
			return nil, "", fmt.Errorf("argument %d: %w", i, err)
		}
		entries = append(entries, entry{arg: a, token: string(canon.MustMarshal(v)), key: identityKey(a)})
	}

	if coll == CollectionSet {
		slices.SortStableFunc(entries, func(x, y entry) int {
			if c := canon.CompareUTF16(x.token, y.token); c != 0 {
				return c
			}
			return strings.Compare(x.key, y.key)
		})
		entries = slices.CompactFunc(entries, func(x, y entry) bool { return x.key == y.key })
	}

	out := make([]any, len(entries))
	keys := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.arg
		keys[i] = e.key
	}
	return out, "[" + strings.Join(keys, ",") + "]", nil
}
