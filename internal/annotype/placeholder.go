package annotype

// placeholderKind names a container kind that is not implemented. Applying
// arguments to it fails with UnsupportedOperation; queries fall back to the
// nominal rules.
type placeholderKind struct {
	name string
}

func (k placeholderKind) Name() string                          { return k.name }
func (placeholderKind) Collection() Collection                  { return CollectionSequence }
func (placeholderKind) Policy() ArgumentPolicy                  { return ArgumentPolicy{} }
func (placeholderKind) Instance(*Descriptor, any) (bool, error) { return false, ErrNotImplemented }
func (placeholderKind) Subtype(*Descriptor, any) (bool, error)  { return false, ErrNotImplemented }

// Unimplemented container bares.
var (
	List      = MustBare("List", placeholderKind{name: "list"})
	Mapping   = MustBare("Mapping", placeholderKind{name: "mapping"})
	Iterable  = MustBare("Iterable", placeholderKind{name: "iterable"})
	Iterator  = MustBare("Iterator", placeholderKind{name: "iterator"})
	Generator = MustBare("Generator", placeholderKind{name: "generator"})
)

// Instantiate builds a runtime value described by d, for kinds that support
// it. A Union descriptor cannot be instantiated.
func Instantiate(d *Descriptor, values ...any) (any, error) {
	if d == nil {
		return nil, &Error{Code: CodeInvalidArgument, Message: "nil descriptor", Index: -1}
	}
	inst, ok := d.kind.(Instantiator)
	if !ok {
		return nil, newUnsupported(d, d.name+" cannot be instantiated")
	}
	return inst.Instantiate(d, values...)
}
