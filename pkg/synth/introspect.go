package synth

import (
	"reflect"
	"sort"
	"strings"

	"github.com/toyz/synth/internal/utils"
	"github.com/toyz/synth/pkg/descriptor"
)

// TagName is the struct tag consulted for member exclusion: `synth:"-"`
const TagName = "synth"

// Field is a struct field the generator may populate
type Field struct {
	Name     string
	Index    []int
	Type     descriptor.Type
	Exported bool
	Embedded bool // anonymous struct field, filled in place once non-zero
}

// Setter is a SetX method on the pointer receiver that takes one argument
type Setter struct {
	Method string
	Field  string // member name derived from the method, matched case-insensitively to a field
	Param  descriptor.Type
}

// Constructor is a registered factory function for a struct type
type Constructor struct {
	Fn     reflect.Value
	Params []descriptor.Type
	Order  int // registration order
}

// Introspector reports how values of a struct type can be built and filled.
// Implementations must be safe for concurrent use.
type Introspector interface {
	// Constructors returns the candidates for t, fewest parameters first
	Constructors(t descriptor.Type) []Constructor
	// Fields returns the populatable fields of t in declaration order
	Fields(t descriptor.Type) []Field
	// Setters returns the setter methods of *t in method order
	Setters(t descriptor.Type) []Setter
}

// reflectIntrospector answers from reflection and caches every answer per type
type reflectIntrospector struct {
	constructors map[reflect.Type][]Constructor
	fields       *utils.Cache[reflect.Type, []Field]
	setters      *utils.Cache[reflect.Type, []Setter]
}

func newReflectIntrospector(constructors map[reflect.Type][]Constructor) *reflectIntrospector {
	sorted := make(map[reflect.Type][]Constructor, len(constructors))
	for rt, ctors := range constructors {
		cp := append([]Constructor(nil), ctors...)
		sort.SliceStable(cp, func(i, j int) bool {
			if len(cp[i].Params) != len(cp[j].Params) {
				return len(cp[i].Params) < len(cp[j].Params)
			}
			return cp[i].Order < cp[j].Order
		})
		sorted[rt] = cp
	}
	return &reflectIntrospector{
		constructors: sorted,
		fields:       utils.NewCache[reflect.Type, []Field](),
		setters:      utils.NewCache[reflect.Type, []Setter](),
	}
}

func (r *reflectIntrospector) Constructors(t descriptor.Type) []Constructor {
	return r.constructors[t.Reflect()]
}

func (r *reflectIntrospector) Fields(t descriptor.Type) []Field {
	if !t.IsStruct() {
		return nil
	}
	return r.fields.GetOrCompute(t.Reflect(), func(rt reflect.Type) []Field {
		setters := r.Setters(t)
		var fields []Field
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.Name == "_" || excluded(sf) {
				continue
			}
			embedded := sf.Anonymous && sf.Type.Kind() == reflect.Struct
			// unexported fields are reachable only through a setter, or
			// through their promoted members when embedded
			if !sf.IsExported() && !embedded && !hasSetter(setters, sf.Name) {
				continue
			}
			fields = append(fields, Field{
				Name:     sf.Name,
				Index:    sf.Index,
				Type:     descriptor.Of(sf.Type),
				Exported: sf.IsExported(),
				Embedded: embedded,
			})
		}
		return fields
	})
}

func (r *reflectIntrospector) Setters(t descriptor.Type) []Setter {
	if !t.IsStruct() {
		return nil
	}
	return r.setters.GetOrCompute(t.Reflect(), func(rt reflect.Type) []Setter {
		pt := reflect.PointerTo(rt)
		var setters []Setter
		for i := 0; i < pt.NumMethod(); i++ {
			m := pt.Method(i)
			if !isSetter(m) {
				continue
			}
			name := strings.TrimPrefix(m.Name, "Set")
			if sf, ok := fieldFold(rt, name); ok {
				if excluded(sf) {
					continue
				}
				name = sf.Name
			}
			setters = append(setters, Setter{
				Method: m.Name,
				Field:  name,
				Param:  descriptor.Of(m.Type.In(1)),
			})
		}
		return setters
	})
}

// isSetter matches func (*T) SetX(v) and func (*T) SetX(v) error
func isSetter(m reflect.Method) bool {
	if len(m.Name) <= len("Set") || !strings.HasPrefix(m.Name, "Set") {
		return false
	}
	mt := m.Type // includes the receiver
	if mt.NumIn() != 2 || mt.IsVariadic() {
		return false
	}
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	}
	return false
}

func excluded(sf reflect.StructField) bool {
	return sf.Tag.Get(TagName) == "-"
}

func hasSetter(setters []Setter, field string) bool {
	for _, s := range setters {
		if s.Field == field {
			return true
		}
	}
	return false
}

func fieldFold(rt reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < rt.NumField(); i++ {
		if sf := rt.Field(i); strings.EqualFold(sf.Name, name) {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}
