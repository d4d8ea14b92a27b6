package schema

import (
	"reflect"
	"slices"

	"github.com/roach88/annotype/internal/annotype"
)

// hostTypes maps the type names a document may use to the values they
// resolve to: reflect types, or the two sentinels.
var hostTypes = map[string]any{
	"int":            reflect.TypeFor[int](),
	"int8":           reflect.TypeFor[int8](),
	"int16":          reflect.TypeFor[int16](),
	"int32":          reflect.TypeFor[int32](),
	"int64":          reflect.TypeFor[int64](),
	"uint":           reflect.TypeFor[uint](),
	"uint8":          reflect.TypeFor[uint8](),
	"uint16":         reflect.TypeFor[uint16](),
	"uint32":         reflect.TypeFor[uint32](),
	"uint64":         reflect.TypeFor[uint64](),
	"float32":        reflect.TypeFor[float32](),
	"float64":        reflect.TypeFor[float64](),
	"string":         reflect.TypeFor[string](),
	"bool":           reflect.TypeFor[bool](),
	"byte":           reflect.TypeFor[byte](),
	"rune":           reflect.TypeFor[rune](),
	"any":            reflect.TypeFor[any](),
	"error":          reflect.TypeFor[error](),
	"None":           annotype.None,
	"NotImplemented": annotype.NotImplemented,
}

// HostType returns the value a host type name resolves to.
func HostType(name string) (any, bool) {
	t, ok := hostTypes[name]
	return t, ok
}

// HostTypeNames returns every host type name, sorted.
func HostTypeNames() []string {
	names := make([]string, 0, len(hostTypes))
	for name := range hostTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// kindKeywords maps the lowercase keys of an application expression to
// their bares. Any other key is looked up as a bare name.
var kindKeywords = map[string]*annotype.Descriptor{
	"union":     annotype.Union,
	"tuple":     annotype.Tuple,
	"list":      annotype.List,
	"mapping":   annotype.Mapping,
	"iterable":  annotype.Iterable,
	"iterator":  annotype.Iterator,
	"generator": annotype.Generator,
}
